package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const (
	// MissingIdentityMessage is shown when the login form is incomplete.
	MissingIdentityMessage = "Please enter your roll number and name."
	// LoginFailedMessage is shown when the API rejects the login.
	LoginFailedMessage = "Login failed. Please try again."

	sectionField = "section"
	actionField  = "action"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.lookup(r); ok {
		http.Redirect(w, r, s.path(formPath), http.StatusSeeOther)
		return
	}
	s.renderLogin(w, r, http.StatusOK, vanilla.LoginView{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.handleError(w, r, goerr.Wrap(ErrBadForm, err.Error()))
		return
	}
	identity := provider.Identity{
		RollNumber: strings.TrimSpace(r.PostForm.Get("rollNumber")),
		Name:       strings.TrimSpace(r.PostForm.Get("name")),
	}
	view := vanilla.LoginView{RollNumber: identity.RollNumber, Name: identity.Name}

	if err := identity.Validate(); err != nil {
		view.Error = MissingIdentityMessage
		s.renderLogin(w, r, http.StatusUnprocessableEntity, view)
		return
	}
	if s.auth != nil {
		if err := s.auth.Login(r.Context(), identity); err != nil {
			s.logger.Warn("login rejected", zap.String("rollNumber", identity.RollNumber), zap.Error(err))
			view.Error = LoginFailedMessage
			s.renderLogin(w, r, http.StatusBadGateway, view)
			return
		}
	}

	if old, ok := s.lookup(r); ok {
		s.endSession(old)
	}
	ctrl := s.newController(identity)
	sess := s.sessions.create(identity, ctrl)
	s.load(r, sess)
	s.logger.Info("session started", zap.String("session", sess.id), zap.String("rollNumber", identity.RollNumber))

	http.SetCookie(w, sessionCookie(r, sess.id))
	http.Redirect(w, r, s.path(formPath), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.lookup(r); ok {
		s.endSession(sess)
	}
	http.SetCookie(w, sessionCookie(r, ""))
	http.Redirect(w, r, s.path("/"), http.StatusSeeOther)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(r)
	if !ok {
		http.Redirect(w, r, s.path("/"), http.StatusSeeOther)
		return
	}
	renderer, err := s.negotiate(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	sess.mu.Lock()
	view := sess.ctrl.View()
	out, err := renderer.Render(r.Context(), view, render.RenderOptions{
		ActionURL: s.path(formPath),
		Hidden:    render.MergeHiddenFields(nil, render.Hidden(sectionField, view.Index)),
		Theme:     s.theme,
	})
	if err == nil {
		sess.ctrl.TakeNotice()
	}
	sess.mu.Unlock()

	if err != nil {
		s.handleError(w, r, goerr.Wrap(err, "failed to render form", goerr.V("renderer", renderer.Name())))
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(out)
}

// handleFormAction applies the posted edits, runs the requested action and
// redirects back to the form.
func (s *Server) handleFormAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(r)
	if !ok {
		http.Redirect(w, r, s.path("/"), http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.handleError(w, r, goerr.Wrap(ErrBadForm, err.Error()))
		return
	}

	sess.mu.Lock()
	err := s.act(r, sess, r.PostForm.Get(actionField))
	sess.mu.Unlock()

	if err != nil {
		s.handleError(w, r, err)
		return
	}
	target := s.path(formPath)
	if q := r.URL.RawQuery; q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// act runs one posted action. Callers hold sess.mu.
func (s *Server) act(r *http.Request, sess *session, action string) error {
	ctx := r.Context()
	ctrl := sess.ctrl

	act := render.Action(action)
	switch act {
	case render.ActionPrevious, render.ActionNext, render.ActionSubmit:
		if !s.current(r, ctrl) {
			s.logger.Debug("stale section post ignored", zap.String("session", sess.id))
			return nil
		}
		if err := s.applyChanges(r, ctrl); err != nil {
			return err
		}
	}

	switch act {
	case render.ActionPrevious:
		ctrl.Previous()
	case render.ActionNext:
		ctrl.Next()
	case render.ActionSubmit:
		if _, err := ctrl.Submit(ctx); err != nil {
			if !errors.Is(err, wizard.ErrSubmit) {
				return err
			}
			// the controller keeps the values and shows the failure notice
			s.logger.Warn("submission failed", zap.String("session", sess.id), zap.Error(err))
		}
	case render.ActionRetry:
		ticket, err := ctrl.Retry()
		if err != nil {
			return err
		}
		if err := ctrl.Apply(wizard.Fetch(ctx, s.provider, sess.identity, ticket)); err != nil && !errors.Is(err, wizard.ErrSchemaFetch) {
			return err
		}
	case render.ActionRestart:
		ctrl.Close()
		sess.ctrl = s.newController(sess.identity)
		s.load(r, sess)
	default:
		return goerr.Wrap(ErrUnknownAction, "cannot handle post", goerr.V("action", action))
	}
	return nil
}

// current reports whether the post was made from the section on screen.
// Posts from an older tab carry another index and are dropped.
func (s *Server) current(r *http.Request, ctrl *wizard.Controller) bool {
	if ctrl.State() != wizard.StateReady {
		return true
	}
	posted, err := strconv.Atoi(r.PostForm.Get(sectionField))
	if err != nil {
		return false
	}
	return posted == ctrl.Index()
}

func (s *Server) applyChanges(r *http.Request, ctrl *wizard.Controller) error {
	section, ok := ctrl.CurrentSection()
	if !ok {
		return nil
	}
	for _, change := range vanilla.DecodeChanges(section, ctrl.Values(), r.PostForm) {
		if err := ctrl.SetField(change.FieldID, change.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) newController(identity provider.Identity) *wizard.Controller {
	return wizard.New(
		wizard.WithLogger(s.logger),
		wizard.WithSink(s.sink),
		wizard.WithIdentity(identity),
	)
}

// load fetches the schema for sess within the request. A failed fetch
// leaves the controller in LoadFailed, which the page offers to retry.
func (s *Server) load(r *http.Request, sess *session) {
	err := sess.ctrl.Load(r.Context(), s.provider, sess.identity)
	if err != nil && !errors.Is(err, wizard.ErrSchemaFetch) {
		s.logger.Error("schema load aborted", zap.String("session", sess.id), zap.Error(err))
	}
}

func (s *Server) endSession(sess *session) {
	if _, ok := s.sessions.remove(sess.id); !ok {
		return
	}
	sess.mu.Lock()
	sess.ctrl.Close()
	sess.mu.Unlock()
	s.logger.Debug("session ended", zap.String("session", sess.id))
}

// negotiate picks the renderer from ?format= or the Accept header.
func (s *Server) negotiate(r *http.Request) (render.Renderer, error) {
	name := s.html.Name()
	switch format := r.URL.Query().Get("format"); {
	case format == "text":
		name = "text"
	case format != "" && format != "html":
		return nil, goerr.Wrap(ErrBadForm, "unsupported format", goerr.V("format", format))
	case format == "" && prefersText(r.Header.Get("Accept")):
		name = "text"
	}
	return s.renderers.Get(name)
}

func prefersText(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		media := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch media {
		case "text/html", "application/xhtml+xml", "*/*":
			return false
		case "text/plain":
			return true
		}
	}
	return false
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, view vanilla.LoginView) {
	view.Title = s.title
	view.ActionURL = s.path(loginPath)
	out, err := s.html.RenderLogin(r.Context(), view, s.theme)
	if err != nil {
		s.handleError(w, r, goerr.Wrap(err, "failed to render login"))
		return
	}
	w.Header().Set("Content-Type", s.html.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}
