package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Stewz00/go-auth-gateway/internal/interfaces"
	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/Stewz00/go-auth-gateway/internal/repository"
)

// RegisterInput describes a new account. Registration is used for seeding
// and is not exposed over HTTP.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=5,max=72"`
	Role     string `json:"role" validate:"required,oneof=student admin"`
	Name     string `json:"name" validate:"omitempty,max=50,personname"`
	Bio      string `json:"bio" validate:"max=500"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
}

// CredentialStore owns user records: it verifies passwords and applies
// profile changes, encrypting the email before anything is persisted.
type CredentialStore struct {
	users  interfaces.UserRepository
	hasher *Hasher
	cipher *ProfileCipher
}

func NewCredentialStore(users interfaces.UserRepository, hasher *Hasher, cipher *ProfileCipher) *CredentialStore {
	return &CredentialStore{users: users, hasher: hasher, cipher: cipher}
}

// Register creates a user account with a hashed password and encrypted email.
func (s *CredentialStore) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Bio = sanitizeText(in.Bio)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	// Check before the expensive hash; the repository still enforces uniqueness.
	if _, err := s.users.GetUserByUsername(ctx, in.Username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	encEmail, err := s.cipher.Encrypt(strings.TrimSpace(in.Email))
	if err != nil {
		return nil, fmt.Errorf("encrypting email: %w", err)
	}

	user, err := s.users.CreateUser(ctx, &model.User{
		Username:       in.Username,
		PasswordHash:   hash,
		Role:           model.Role(in.Role),
		Name:           strings.TrimSpace(in.Name),
		Bio:            in.Bio,
		EncryptedEmail: encEmail,
	})
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Verify checks a username/password pair. Unknown usernames and wrong
// passwords produce the same ErrInvalidCredentials.
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		if err := s.hasher.CompareDummy(ctx, password); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := s.hasher.Compare(ctx, user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindByID returns the stored user with the given id.
func (s *CredentialStore) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading user %d: %w", id, err)
	}
	return user, nil
}

// UpdateProfile validates and persists new profile fields for user id.
func (s *CredentialStore) UpdateProfile(ctx context.Context, id int64, in model.ProfileUpdate) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Bio = sanitizeText(in.Bio)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	encEmail, err := s.cipher.Encrypt(in.Email)
	if err != nil {
		return nil, fmt.Errorf("encrypting email: %w", err)
	}

	user, err := s.users.UpdateProfile(ctx, id, in.Name, in.Bio, encEmail)
	if err != nil {
		return nil, fmt.Errorf("updating profile of user %d: %w", id, err)
	}
	return user, nil
}

// DecryptEmail returns the plaintext email of user.
func (s *CredentialStore) DecryptEmail(user *model.User) (string, error) {
	return s.cipher.Decrypt(user.EncryptedEmail)
}
