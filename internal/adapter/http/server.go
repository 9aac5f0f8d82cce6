package adapthttp

import (
	"log/slog"
	"net/http"

	"claimportal/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Options configures optional behaviour of the Server.
type Options struct {
	// RequireClaimAuth puts the claim routes behind bearer token auth.
	RequireClaimAuth bool
	AllowedOrigins   []string
	// OIDC enables the SSO routes when non-nil.
	OIDC   *OIDCConfig
	Logger *slog.Logger
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth             *app.AuthService
	claims           *app.ClaimsService
	requireClaimAuth bool
	allowedOrigins   []string
	oidcConfig       *OIDCConfig
	log              *slog.Logger
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, claims *app.ClaimsService, opts Options) *Server {
	s := &Server{
		auth:             auth,
		claims:           claims,
		requireClaimAuth: opts.RequireClaimAuth,
		allowedOrigins:   opts.AllowedOrigins,
		oidcConfig:       opts.OIDC,
		log:              opts.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if len(s.allowedOrigins) == 0 {
		s.allowedOrigins = []string{"*"}
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Get("/sso/login", s.handleSSOLogin)
	r.Get("/sso/callback", s.handleSSOCallback)

	r.Group(func(r chi.Router) {
		if s.requireClaimAuth {
			r.Use(s.authMiddleware)
		}
		r.Post("/claim", s.handleSubmitClaim)
		r.Get("/claims/{userId}", s.handleListClaims)
	})

	return r
}
