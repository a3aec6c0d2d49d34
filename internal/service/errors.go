package service

import (
	"errors"
	"fmt"
	"time"
)

// Outcomes surfaced by the gateway. Handlers map these to responses and
// never expose anything beyond the matching fixed message.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrThrottled          = errors.New("too many login attempts")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrDecryption         = errors.New("decryption failed")
	ErrProfileUnavailable = errors.New("profile unavailable")
	ErrPostNotFound       = errors.New("post not found")
	ErrUnexpected         = errors.New("unexpected error")
)

// Token verification failures. These stay internal; AccessGuard folds them
// into ErrUnauthenticated.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenSignature = errors.New("token signature invalid")
)

// ErrNoToken is returned when a request carries no token at all.
var ErrNoToken = fmt.Errorf("%w: no token provided", ErrUnauthenticated)

// ErrDuplicateUsername is returned by CredentialStore.Register.
var ErrDuplicateUsername = errors.New("username already exists")

// ValidationError reports the first invalid field of an input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ThrottledError carries how long the client should wait before retrying.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrThrottled, e.RetryAfter.Round(time.Second))
}

func (e *ThrottledError) Is(target error) bool {
	return target == ErrThrottled
}
