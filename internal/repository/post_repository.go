package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Stewz00/go-auth-gateway/internal/database"
	"github.com/Stewz00/go-auth-gateway/internal/interfaces"
	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/jackc/pgx/v4"
)

// PostRepositoryImpl implements the PostRepository interface on Postgres
type PostRepositoryImpl struct {
	db *database.DB
}

var _ interfaces.PostRepository = (*PostRepositoryImpl)(nil)

func NewPostRepository(db *database.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

func (r *PostRepositoryImpl) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, title, content FROM posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepositoryImpl) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, title, content FROM posts WHERE id = $1`, id).Scan(&p.ID, &p.Title, &p.Content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting post: %w", err)
	}
	return &p, nil
}

func (r *PostRepositoryImpl) CreatePost(ctx context.Context, title, content string) (*model.Post, error) {
	p := model.Post{Title: title, Content: content}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO posts (title, content) VALUES ($1, $2) RETURNING id`,
		title, content).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting post: %w", err)
	}
	return &p, nil
}
