package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Stewz00/go-auth-gateway/internal/interfaces"
	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/Stewz00/go-auth-gateway/internal/repository"
)

// PostService serves the public post listing and admin post creation.
type PostService struct {
	posts interfaces.PostRepository
}

func NewPostService(posts interfaces.PostRepository) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.posts.GetPost(ctx, id)
	if errors.Is(err, repository.ErrPostNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading post %d: %w", id, err)
	}
	return post, nil
}

// Create stores a new post after stripping markup from its fields.
func (s *PostService) Create(ctx context.Context, in model.NewPost) (*model.Post, error) {
	in.Title = sanitizeText(in.Title)
	in.Content = sanitizeText(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	post, err := s.posts.CreatePost(ctx, in.Title, in.Content)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return post, nil
}
