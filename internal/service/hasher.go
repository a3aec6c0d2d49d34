package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher hashes and compares passwords with bcrypt. At most `workers`
// operations run at once; callers beyond that wait for a slot or for their
// context to end.
type Hasher struct {
	cost      int
	slots     *semaphore.Weighted
	dummyHash []byte
}

// NewHasher creates a Hasher with the given bcrypt cost and concurrency bound.
func NewHasher(cost, workers int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if workers < 1 {
		return nil, fmt.Errorf("hash workers must be at least 1, got %d", workers)
	}

	// Compared against when the username is unknown, so both paths pay for one bcrypt run.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("generating dummy hash: %w", err)
	}

	return &Hasher{
		cost:      cost,
		slots:     semaphore.NewWeighted(int64(workers)),
		dummyHash: dummy,
	}, nil
}

// Hash returns the salted bcrypt hash of password.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.slots.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// Compare reports whether password matches hash. A mismatch is (false, nil);
// an error means the comparison could not be made.
func (h *Hasher) Compare(ctx context.Context, hash, password string) (bool, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.slots.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("comparing password: %w", err)
	}
}

// CompareDummy burns one comparison against a fixed hash and always reports false.
func (h *Hasher) CompareDummy(ctx context.Context, password string) error {
	_, err := h.Compare(ctx, string(h.dummyHash), password)
	return err
}
