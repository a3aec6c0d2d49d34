package handler

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/Stewz00/go-auth-gateway/internal/logging"
	"github.com/Stewz00/go-auth-gateway/internal/middleware"
	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/Stewz00/go-auth-gateway/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Auth               *service.AuthService
	Posts              *service.PostService
	Logger             logging.Logger
	RateLimitPerMinute int
	TrustedProxies     []netip.Prefix
	SecureCookie       bool
	AccessLog          bool
}

// NewRouter creates the chi router with middleware and all routes mounted.
func NewRouter(cfg RouterConfig) *chi.Mux {
	authHandler := NewAuthHandler(cfg.Auth, cfg.SecureCookie)
	profileHandler := NewProfileHandler(cfg.Auth)
	postHandler := NewPostHandler(cfg.Posts)

	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	r := chi.NewRouter()

	// Global middleware
	if cfg.AccessLog {
		r.Use(chimiddleware.Logger)
	}
	r.Use(chimiddleware.RequestID)
	r.Use(recoverer(log))
	r.Use(middleware.TrustedRealIP(cfg.TrustedProxies))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		sendJSONError(w, msgNotFound, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		sendJSONError(w, msgMethodNotAllowed, http.StatusMethodNotAllowed)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from my secure server!"))
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Public posts
	r.Group(func(r chi.Router) {
		r.Use(middleware.CacheControl(5 * time.Minute))
		r.Get("/posts", postHandler.List)
		r.Get("/posts/{id}", postHandler.Get)
	})

	// Auth routes with strict rate limiting
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.With(middleware.StrictRateLimiter()).Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Update)

		r.With(authHandler.RequireRole(model.RoleAdmin)).Get("/admin/dashboard", authHandler.Dashboard)
		r.With(authHandler.RequireRole(model.RoleStudent)).Get("/student/dashboard", authHandler.Dashboard)
		r.With(authHandler.RequireRole(model.RoleAdmin)).Post("/posts", postHandler.Create)
	})

	return r
}
