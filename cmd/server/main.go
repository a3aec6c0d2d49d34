package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Stewz00/go-auth-gateway/internal/app"
	"github.com/Stewz00/go-auth-gateway/internal/config"
	"github.com/Stewz00/go-auth-gateway/internal/database"
	"github.com/Stewz00/go-auth-gateway/internal/interfaces"
	"github.com/Stewz00/go-auth-gateway/internal/logging"
	"github.com/Stewz00/go-auth-gateway/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "json", os.Stderr).Error(context.Background(), "failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize storage: Postgres when configured, memory otherwise
	var (
		users interfaces.UserRepository
		posts interfaces.PostRepository
	)
	if cfg.DbURL != "" {
		db, err := database.New(ctx, cfg.DbURL)
		if err != nil {
			return err
		}
		defer db.Close()
		users = repository.NewUserRepository(db)
		posts = repository.NewPostRepository(db)
		log.Info(ctx, "using postgres storage")
	} else {
		store := repository.NewMemoryStore()
		users, posts = store, store
		log.Warn(ctx, "DATABASE_URL not set, using in-memory storage")
	}

	// Initialize services and handlers
	a, err := app.New(cfg, app.Options{
		Users:     users,
		PostRepo:  posts,
		Logger:    log,
		AccessLog: true,
	})
	if err != nil {
		return err
	}

	if err := seed(ctx, cfg, a, users, posts, log); err != nil {
		return err
	}

	go a.Throttle.Run(ctx, time.Minute)

	// Create server with timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", "port", cfg.Port, "tls", cfg.TLSEnabled())
		var err error
		if cfg.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info(context.Background(), "server exited properly")
	return nil
}

func seed(ctx context.Context, cfg *config.Config, a *app.App, users interfaces.UserRepository, posts interfaces.PostRepository, log logging.Logger) error {
	existing, err := posts.ListPosts(ctx)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		if err := repository.SeedPosts(ctx, posts, repository.DefaultPosts); err != nil {
			return err
		}
	}

	if err := a.SeedUsers(ctx, cfg.SeedUsers); err != nil {
		return err
	}

	n, err := users.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		log.Warn(ctx, "no user accounts exist; set SEED_USERS to create some")
	}
	return nil
}
