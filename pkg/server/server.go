// Package server hosts wizard sessions over HTTP. Each browser gets a cookie
// bound session owning one wizard.Controller; pages are rendered on the
// server and every button posts the current section back.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"
	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/submit"
)

const (
	// SessionCookie names the cookie carrying the session id.
	SessionCookie = "formwizard_session"

	formPath   = "/form"
	loginPath  = "/login"
	logoutPath = "/logout"
)

// Authenticator registers an identity before its form is fetched.
// *provider.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, identity provider.Identity) error
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for access lines and session events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuthenticator makes the login form call auth before a session starts.
func WithAuthenticator(auth Authenticator) Option {
	return func(s *Server) {
		s.auth = auth
	}
}

// WithSink sets where submitted values go.
func WithSink(sink submit.Sink) Option {
	return func(s *Server) {
		s.sink = sink
	}
}

// WithTheme applies resolved theme tokens to every page.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithHTMLRenderer replaces the default vanilla renderer.
func WithHTMLRenderer(r *vanilla.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.html = r
		}
	}
}

// WithBasePath sets the prefix the handler is mounted under, so links and
// redirects survive http.StripPrefix.
func WithBasePath(prefix string) Option {
	return func(s *Server) {
		s.base = strings.TrimRight(prefix, "/")
	}
}

// WithTitle sets the heading of the login page.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// Server is an http.Handler serving the login page, the wizard and its
// static assets.
type Server struct {
	router    *chi.Mux
	provider  provider.Provider
	auth      Authenticator
	sink      submit.Sink
	theme     *theme.RendererConfig
	title     string
	base      string
	html      *vanilla.Renderer
	renderers *render.Registry
	sessions  *sessionStore
	logger    *zap.Logger
}

// New builds the handler. p supplies the schema for every new session.
func New(p provider.Provider, opts ...Option) (*Server, error) {
	if p == nil {
		return nil, goerr.New("schema provider is required")
	}

	s := &Server{
		router:   chi.NewRouter(),
		provider: p,
		sessions: newSessionStore(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.html == nil {
		html, err := vanilla.New()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to build html renderer")
		}
		s.html = html
	}

	s.renderers = render.NewRegistry()
	if err := s.renderers.Register(s.html); err != nil {
		return nil, goerr.Wrap(err, "failed to register html renderer")
	}
	if err := s.renderers.Register(tui.NewTextRenderer(0)); err != nil {
		return nil, goerr.Wrap(err, "failed to register text renderer")
	}

	r := s.router
	r.Use(middleware.RequestID)
	r.Use(s.accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleLoginPage)
	r.Post(loginPath, s.handleLogin)
	r.Post(logoutPath, s.handleLogout)
	r.Get(formPath, s.handleForm)
	r.Post(formPath, s.handleFormAction)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))

	return s, nil
}

// path prefixes an absolute route with the base path.
func (s *Server) path(route string) string {
	return s.base + route
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close ends every live session. Pending loads are discarded.
func (s *Server) Close() {
	for _, sess := range s.sessions.drain() {
		sess.mu.Lock()
		sess.ctrl.Close()
		sess.mu.Unlock()
	}
}

// accessLogger writes one line per request.
func (s *Server) accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("access",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
