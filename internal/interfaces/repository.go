package interfaces

import (
	"context"

	"github.com/Stewz00/go-auth-gateway/internal/model"
)

// UserRepository defines the interface for user-related storage operations.
// Every mutating call is committed before it returns.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, name, bio, encryptedEmail string) (*model.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// PostRepository defines the interface for post storage.
type PostRepository interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPost(ctx context.Context, id int64) (*model.Post, error)
	CreatePost(ctx context.Context, title, content string) (*model.Post, error)
}
