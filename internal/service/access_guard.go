package service

import (
	"context"

	"github.com/Stewz00/go-auth-gateway/internal/logging"
	"github.com/Stewz00/go-auth-gateway/internal/model"
)

// AccessGuard turns a raw token into verified claims and checks roles.
type AccessGuard struct {
	tokens *TokenService
	log    logging.Logger
}

func NewAccessGuard(tokens *TokenService, log logging.Logger) *AccessGuard {
	return &AccessGuard{tokens: tokens, log: log}
}

// Authenticate verifies token. A missing token yields ErrNoToken; every
// verification failure yields ErrUnauthenticated, with the reason only logged.
func (g *AccessGuard) Authenticate(ctx context.Context, token string) (*model.Claims, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		g.log.Debug(ctx, "token rejected", "reason", err.Error())
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// Authorize allows the request only when the claims carry exactly role.
func (g *AccessGuard) Authorize(claims *model.Claims, role model.Role) error {
	if claims == nil || claims.Role != role {
		return ErrForbidden
	}
	return nil
}
