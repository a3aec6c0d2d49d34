package service

import (
	"context"
	"errors"
	"time"

	"github.com/Stewz00/go-auth-gateway/internal/logging"
	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/Stewz00/go-auth-gateway/internal/repository"
)

// LoginInput is what a client submits to log in. ClientID identifies the
// caller for throttling, usually the remote IP.
type LoginInput struct {
	Username string
	Password string
	ClientID string
}

type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      model.PublicUser `json:"user"`
}

// AuthService sequences the throttle, credential store, token service,
// access guard and cipher for every exposed capability. It is the only
// layer that decides which outcome a caller sees; anything outside the
// known taxonomy is logged and replaced by ErrUnexpected.
type AuthService struct {
	throttle *LoginThrottle
	creds    *CredentialStore
	tokens   *TokenService
	guard    *AccessGuard
	log      logging.Logger
}

// NewAuthService creates the gateway from its collaborators
func NewAuthService(throttle *LoginThrottle, creds *CredentialStore, tokens *TokenService, guard *AccessGuard, log logging.Logger) *AuthService {
	return &AuthService{
		throttle: throttle,
		creds:    creds,
		tokens:   tokens,
		guard:    guard,
		log:      log.With("component", "auth"),
	}
}

// LoginUser admits the attempt, verifies credentials and issues a token
func (s *AuthService) LoginUser(ctx context.Context, in LoginInput) (*LoginResult, error) {
	// Throttled attempts are rejected before any password work.
	decision := s.throttle.Admit(in.ClientID)
	if !decision.Allowed {
		s.log.Warn(ctx, "login throttled", "client", in.ClientID, "retry_after", decision.RetryAfter.String())
		return nil, &ThrottledError{RetryAfter: decision.RetryAfter}
	}

	// Checked after Admit so incomplete submissions still use up the budget.
	if in.Username == "" {
		return nil, &ValidationError{Field: "username", Message: "username and password are required"}
	}
	if in.Password == "" {
		return nil, &ValidationError{Field: "password", Message: "username and password are required"}
	}

	user, err := s.creds.Verify(ctx, in.Username, in.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.log.Info(ctx, "login failed", "client", in.ClientID, "remaining", decision.Remaining)
			return nil, ErrInvalidCredentials
		}
		return nil, s.unexpected(ctx, "verify credentials", err)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, s.unexpected(ctx, "issue token", err)
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID, "role", string(user.Role))

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user.Public()}, nil
}

// ReadProfile returns the caller's own profile with the email decrypted
func (s *AuthService) ReadProfile(ctx context.Context, token string) (*model.Profile, error) {
	claims, err := s.guard.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	return s.profileOf(ctx, user)
}

// UpdateProfile validates and stores new profile fields for the caller
func (s *AuthService) UpdateProfile(ctx context.Context, token string, in model.ProfileUpdate) (*model.Profile, error) {
	claims, err := s.guard.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.creds.UpdateProfile(ctx, claims.UserID, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			return nil, err
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUnauthenticated
		}
		return nil, s.unexpected(ctx, "update profile", err)
	}

	s.log.Info(ctx, "profile updated", "user_id", user.ID)

	return s.profileOf(ctx, user)
}

// RequireRole authenticates token and checks that it carries role
func (s *AuthService) RequireRole(ctx context.Context, token string, role model.Role) (*model.Claims, error) {
	claims, err := s.guard.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Authorize(claims, role); err != nil {
		s.log.Info(ctx, "role check failed", "user_id", claims.UserID, "have", string(claims.Role), "want", string(role))
		return nil, err
	}
	return claims, nil
}

// LogoutUser acknowledges a logout. Tokens are not tracked server-side, so
// this only records who left; it never fails.
func (s *AuthService) LogoutUser(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if claims, err := s.tokens.Verify(token); err == nil {
		s.log.Info(ctx, "user logged out", "user_id", claims.UserID)
	}
}

func (s *AuthService) loadUser(ctx context.Context, claims *model.Claims) (*model.User, error) {
	user, err := s.creds.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		// token outlived its account
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, s.unexpected(ctx, "load user", err)
	}
	return user, nil
}

func (s *AuthService) profileOf(ctx context.Context, user *model.User) (*model.Profile, error) {
	email, err := s.creds.DecryptEmail(user)
	if err != nil {
		s.log.Error(ctx, "stored email could not be decrypted", "user_id", user.ID, "error", err)
		return nil, ErrProfileUnavailable
	}

	return &model.Profile{
		Username: user.Username,
		Role:     user.Role,
		Name:     user.Name,
		Bio:      user.Bio,
		Email:    email,
	}, nil
}

func (s *AuthService) unexpected(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, "unexpected failure", "op", op, "error", err)
	return ErrUnexpected
}
