package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Stewz00/go-auth-gateway/internal/database"
	"github.com/Stewz00/go-auth-gateway/internal/interfaces"
	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const uniqueViolation = "23505"

// UserRepositoryImpl implements the UserRepository interface on Postgres
type UserRepositoryImpl struct {
	db *database.DB
}

// Verify that UserRepositoryImpl implements UserRepository interface
var _ interfaces.UserRepository = (*UserRepositoryImpl)(nil)

// NewUserRepository creates a new Postgres-backed UserRepository
func NewUserRepository(db *database.DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

const userColumns = `id, username, password_hash, role, name, bio, email_encrypted, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var role string
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &role,
		&user.Name, &user.Bio, &user.EncryptedEmail, &user.Created)
	if err != nil {
		return nil, err
	}
	user.Role = model.Role(role)
	return &user, nil
}

// CreateUser inserts a new user; the username must be unique
func (r *UserRepositoryImpl) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	user, err := scanUser(r.db.Pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, role, name, bio, email_encrypted)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		u.Username, u.PasswordHash, string(u.Role), u.Name, u.Bio, u.EncryptedEmail))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by exact, case-sensitive username
func (r *UserRepositoryImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by id
func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := scanUser(r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting user: %w", err)
	}
	return user, nil
}

// UpdateProfile replaces the profile fields in a single statement
func (r *UserRepositoryImpl) UpdateProfile(ctx context.Context, id int64, name, bio, encryptedEmail string) (*model.User, error) {
	user, err := scanUser(r.db.Pool.QueryRow(ctx,
		`UPDATE users
		 SET name = $2, bio = $3, email_encrypted = $4
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, name, bio, encryptedEmail))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

// CountUsers returns the number of stored accounts
func (r *UserRepositoryImpl) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}
