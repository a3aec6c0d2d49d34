package repository

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/Stewz00/go-auth-gateway/internal/database"
	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	if err := godotenv.Load("../../.env.test"); err != nil {
		fmt.Printf("Warning: .env.test file not found: %v\n", err)
	}
}

// setupTestDB connects to DATABASE_URL and empties the tables. Tests are
// skipped when no database is configured.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres repository tests")
	}

	db, err := database.New(context.Background(), dbURL)
	require.NoError(t, err, "connecting to test database")

	_, err = db.Pool.Exec(context.Background(), "TRUNCATE users, posts RESTART IDENTITY CASCADE")
	require.NoError(t, err, "cleaning test database")

	t.Cleanup(db.Close)
	return db
}

func TestUserRepository_CreateUser(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{name: "valid user creation", username: "alice"},
		{name: "duplicate username", username: "alice", wantErr: ErrDuplicateUsername},
		{name: "usernames are case-sensitive", username: "Alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := repo.CreateUser(context.Background(), &model.User{
				Username:       tt.username,
				PasswordHash:   "hashedpassword",
				Role:           model.RoleStudent,
				EncryptedEmail: "ciphertext",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.username, user.Username)
			assert.NotZero(t, user.ID)
			assert.Equal(t, model.RoleStudent, user.Role)
		})
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, &model.User{Username: "bob", PasswordHash: "h", Role: model.RoleAdmin})
	require.NoError(t, err)

	byName, err := repo.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byID, err := repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.Username)

	_, err = repo.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetUserByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrUserNotFound)

	n, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, &model.User{Username: "carol", PasswordHash: "h", Role: model.RoleStudent})
	require.NoError(t, err)

	updated, err := repo.UpdateProfile(ctx, created.ID, "Carol", "hello", "enc")
	require.NoError(t, err)
	assert.Equal(t, "Carol", updated.Name)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, "enc", updated.EncryptedEmail)

	_, err = repo.UpdateProfile(ctx, created.ID+100, "x", "", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPostRepository(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, SeedPosts(ctx, repo, DefaultPosts))

	posts, err := repo.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "My first post", posts[0].Title)

	p, err := repo.GetPost(ctx, posts[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "HTTPS is cool", p.Title)

	_, err = repo.GetPost(ctx, 999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
