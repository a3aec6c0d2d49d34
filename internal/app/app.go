// Package app wires repositories, services and the HTTP router together.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Stewz00/go-auth-gateway/internal/config"
	"github.com/Stewz00/go-auth-gateway/internal/handler"
	"github.com/Stewz00/go-auth-gateway/internal/interfaces"
	"github.com/Stewz00/go-auth-gateway/internal/logging"
	"github.com/Stewz00/go-auth-gateway/internal/service"
	"github.com/go-chi/chi/v5"
)

type App struct {
	Router   *chi.Mux
	Auth     *service.AuthService
	Creds    *service.CredentialStore
	Posts    *service.PostService
	Throttle *service.LoginThrottle

	log logging.Logger
}

// Options carries the collaborators that differ between production and tests.
type Options struct {
	Users     interfaces.UserRepository
	PostRepo  interfaces.PostRepository
	Logger    logging.Logger
	Now       func() time.Time
	AccessLog bool
}

func New(cfg *config.Config, opts Options) (*App, error) {
	if opts.Users == nil || opts.PostRepo == nil {
		return nil, errors.New("app: repositories are required")
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	hasher, err := service.NewHasher(cfg.BcryptCost, cfg.HashWorkers)
	if err != nil {
		return nil, err
	}
	cipher, err := service.NewProfileCipher(cfg.ProfileKey)
	if err != nil {
		return nil, err
	}
	tokens, err := service.NewTokenService(cfg.JwtSecret, cfg.TokenTTL, opts.Now)
	if err != nil {
		return nil, err
	}

	creds := service.NewCredentialStore(opts.Users, hasher, cipher)
	throttle := service.NewLoginThrottle(cfg.LoginMaxAttempts, cfg.LoginWindow, opts.Now)
	guard := service.NewAccessGuard(tokens, log)
	auth := service.NewAuthService(throttle, creds, tokens, guard, log)
	posts := service.NewPostService(opts.PostRepo)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:               auth,
		Posts:              posts,
		Logger:             log,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		SecureCookie:       cfg.TLSEnabled(),
		AccessLog:          opts.AccessLog,
	})

	return &App{
		Router:   router,
		Auth:     auth,
		Creds:    creds,
		Posts:    posts,
		Throttle: throttle,
		log:      log,
	}, nil
}

// SeedUsers registers the configured accounts, skipping ones that already exist.
func (a *App) SeedUsers(ctx context.Context, seeds []config.SeedUser) error {
	for _, s := range seeds {
		_, err := a.Creds.Register(ctx, service.RegisterInput{
			Username: s.Username,
			Password: s.Password,
			Role:     s.Role,
		})
		if errors.Is(err, service.ErrDuplicateUsername) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seeding user %q: %w", s.Username, err)
		}
		a.log.Info(ctx, "seeded user", "username", s.Username, "role", s.Role)
	}
	return nil
}
