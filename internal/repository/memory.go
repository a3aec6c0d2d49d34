package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Stewz00/go-auth-gateway/internal/interfaces"
	"github.com/Stewz00/go-auth-gateway/internal/model"
)

// MemoryStore is an in-process user and post store. It is constructed once
// at startup and handed to every component that needs it.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int64]*model.User
	byUsername map[string]int64
	posts      map[int64]*model.Post
	nextUserID int64
	nextPostID int64
	now        func() time.Time
}

var (
	_ interfaces.UserRepository = (*MemoryStore)(nil)
	_ interfaces.PostRepository = (*MemoryStore)(nil)
)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]*model.User),
		byUsername: make(map[string]int64),
		posts:      make(map[int64]*model.Post),
		now:        time.Now,
	}
}

// DefaultPosts are the public posts every fresh deployment starts with.
var DefaultPosts = []model.NewPost{
	{Title: "My first post", Content: "Learning about security"},
	{Title: "HTTPS is cool", Content: "Setting up certificates"},
}

// SeedPosts inserts posts in order.
func SeedPosts(ctx context.Context, repo interfaces.PostRepository, posts []model.NewPost) error {
	for _, p := range posts {
		if _, err := repo.CreatePost(ctx, p.Title, p.Content); err != nil {
			return err
		}
	}
	return nil
}

// Users and posts are copied on the way in and out so callers never share
// mutable state with the store.

func (s *MemoryStore) CreateUser(_ context.Context, u *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[u.Username]; exists {
		return nil, ErrDuplicateUsername
	}

	s.nextUserID++
	user := *u
	user.ID = s.nextUserID
	user.Created = s.now()

	s.users[user.ID] = &user
	s.byUsername[user.Username] = user.ID

	out := user
	return &out, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byUsername[username]
	if !exists {
		return nil, ErrUserNotFound
	}
	user := *s.users[id]
	return &user, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	user := *u
	return &user, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, id int64, name, bio, encryptedEmail string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	u.Name = name
	u.Bio = bio
	u.EncryptedEmail = encryptedEmail

	user := *u
	return &user, nil
}

func (s *MemoryStore) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *MemoryStore) ListPosts(_ context.Context) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (s *MemoryStore) GetPost(_ context.Context, id int64) (*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, ErrPostNotFound
	}
	post := *p
	return &post, nil
}

func (s *MemoryStore) CreatePost(_ context.Context, title, content string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPostID++
	p := &model.Post{ID: s.nextPostID, Title: title, Content: content}
	s.posts[p.ID] = p

	post := *p
	return &post, nil
}
