package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// session serialises every interaction with its controller.
type session struct {
	id       string
	identity provider.Identity

	mu   sync.Mutex
	ctrl *wizard.Controller
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (st *sessionStore) create(identity provider.Identity, ctrl *wizard.Controller) *session {
	sess := &session{id: uuid.NewString(), identity: identity, ctrl: ctrl}
	st.mu.Lock()
	st.sessions[sess.id] = sess
	st.mu.Unlock()
	return sess
}

func (st *sessionStore) get(id string) (*session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

func (st *sessionStore) remove(id string) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	delete(st.sessions, id)
	return sess, ok
}

func (st *sessionStore) drain() []*session {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]*session, 0, len(st.sessions))
	for id, sess := range st.sessions {
		out = append(out, sess)
		delete(st.sessions, id)
	}
	return out
}

func (st *sessionStore) len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// lookup resolves the request's session cookie.
func (s *Server) lookup(r *http.Request) (*session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return nil, false
	}
	return s.sessions.get(cookie.Value)
}

func sessionCookie(r *http.Request, id string) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if id == "" {
		c.MaxAge = -1
	}
	return c
}
