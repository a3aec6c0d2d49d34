package service

import (
	"context"
	"testing"

	"github.com/Stewz00/go-auth-gateway/internal/logging"
	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/Stewz00/go-auth-gateway/internal/repository"
	"github.com/Stewz00/go-auth-gateway/internal/test"
	"github.com/stretchr/testify/require"
)

// fixture bundles a fully wired gateway over an in-memory store.
type fixture struct {
	clock    *test.Clock
	store    *repository.MemoryStore
	cipher   *ProfileCipher
	creds    *CredentialStore
	tokens   *TokenService
	throttle *LoginThrottle
	guard    *AccessGuard
	auth     *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := test.NewConfig()
	clock := test.NewClock(test.Epoch)
	log := logging.Discard()

	hasher, err := NewHasher(cfg.BcryptCost, cfg.HashWorkers)
	require.NoError(t, err)
	cipher, err := NewProfileCipher(cfg.ProfileKey)
	require.NoError(t, err)
	tokens, err := NewTokenService(cfg.JwtSecret, cfg.TokenTTL, clock.Now)
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	creds := NewCredentialStore(store, hasher, cipher)
	throttle := NewLoginThrottle(cfg.LoginMaxAttempts, cfg.LoginWindow, clock.Now)
	guard := NewAccessGuard(tokens, log)

	return &fixture{
		clock:    clock,
		store:    store,
		cipher:   cipher,
		creds:    creds,
		tokens:   tokens,
		throttle: throttle,
		guard:    guard,
		auth:     NewAuthService(throttle, creds, tokens, guard, log),
	}
}

func (f *fixture) register(t *testing.T, username, password string, role model.Role, email string) *model.User {
	t.Helper()
	user, err := f.creds.Register(context.Background(), RegisterInput{
		Username: username,
		Password: password,
		Role:     string(role),
		Name:     "Test User",
		Email:    email,
	})
	require.NoError(t, err)
	return user
}
