package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Stewz00/go-auth-gateway/internal/app"
	"github.com/Stewz00/go-auth-gateway/internal/config"
	"github.com/Stewz00/go-auth-gateway/internal/database"
	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/Stewz00/go-auth-gateway/internal/repository"
	"github.com/Stewz00/go-auth-gateway/internal/service"
	"github.com/Stewz00/go-auth-gateway/internal/test"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

func TestMain(m *testing.M) {
	// Set up test environment
	if err := godotenv.Load("../../../.env.test"); err != nil {
		fmt.Printf("Warning: .env.test file not found: %v\n", err)
	}

	// Postgres is optional; without DATABASE_URL the in-memory store is used
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := database.New(context.Background(), dbURL)
		if err != nil {
			fmt.Printf("Failed to connect to test database: %v\n", err)
			os.Exit(1)
		}
		testDB = db
	}

	// Run tests
	code := m.Run()

	// Clean up
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

type stack struct {
	app   *app.App
	clock *test.Clock
}

func newStack(t *testing.T, seeds ...config.SeedUser) *stack {
	t.Helper()
	ctx := context.Background()
	cfg := test.NewConfig()
	clock := test.NewClock(test.Epoch)

	opts := app.Options{Now: clock.Now}
	if testDB != nil {
		cleanup(t)
		opts.Users = repository.NewUserRepository(testDB)
		opts.PostRepo = repository.NewPostRepository(testDB)
	} else {
		store := repository.NewMemoryStore()
		opts.Users, opts.PostRepo = store, store
	}
	require.NoError(t, repository.SeedPosts(ctx, opts.PostRepo, repository.DefaultPosts))

	a, err := app.New(cfg, opts)
	require.NoError(t, err)
	require.NoError(t, a.SeedUsers(ctx, seeds))

	return &stack{app: a, clock: clock}
}

func (s *stack) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)
	return w
}

func (s *stack) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	return s.request(t, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
}

func tokenFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var response struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.NotEmpty(t, response.Token)
	return response.Token
}

// Login, read and update the profile, then log out.
func TestLoginProfileLogoutFlow(t *testing.T) {
	s := newStack(t)
	_, err := s.app.Creds.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: "pw123",
		Role:     "student",
		Name:     "Alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	var token string

	t.Run("login", func(t *testing.T) {
		token = tokenFrom(t, s.login(t, "alice", "pw123"))
	})

	t.Run("read profile", func(t *testing.T) {
		w := s.request(t, http.MethodGet, "/profile", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var profile model.Profile
		require.NoError(t, json.NewDecoder(w.Body).Decode(&profile))
		assert.Equal(t, "alice@example.com", profile.Email)
	})

	t.Run("update profile", func(t *testing.T) {
		w := s.request(t, http.MethodPut, "/profile", model.ProfileUpdate{
			Name:  "Alice Doe",
			Email: "doe@example.com",
			Bio:   "Studying <script>alert(1)</script>security",
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = s.request(t, http.MethodGet, "/profile", nil, token)
		var profile model.Profile
		require.NoError(t, json.NewDecoder(w.Body).Decode(&profile))
		assert.Equal(t, "doe@example.com", profile.Email)
		assert.Equal(t, "Studying security", profile.Bio)
	})

	t.Run("logout", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/auth/logout", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)

		w = s.request(t, http.MethodPost, "/auth/logout", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// Six rapid attempts from one client: the sixth is throttled even with the right password.
func TestFailedLoginAttemptsThrottle(t *testing.T) {
	s := newStack(t, config.SeedUser{Username: "alice", Password: "pw123", Role: "student"})

	attempts := []struct {
		password string
		want     int
	}{
		{"wrong", http.StatusUnauthorized},
		{"pw123", http.StatusOK},
		{"wrong", http.StatusUnauthorized},
		{"wrong", http.StatusUnauthorized},
		{"wrong", http.StatusUnauthorized},
		{"pw123", http.StatusTooManyRequests},
	}

	for i, a := range attempts {
		w := s.login(t, "alice", a.password)
		require.Equal(t, a.want, w.Code, "attempt %d", i+1)
	}

	w := s.login(t, "alice", "pw123")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var response struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Too many login attempts, please try again later", response.Error)

	// Once the window has passed the client is admitted again.
	s.clock.Advance(15 * time.Minute)
	tokenFrom(t, s.login(t, "alice", "pw123"))
}

// Role checks: wrong role is forbidden, missing and expired tokens are unauthenticated.
func TestRoleRestrictedAccess(t *testing.T) {
	s := newStack(t,
		config.SeedUser{Username: "alice", Password: "pw123", Role: "student"},
		config.SeedUser{Username: "root", Password: "toor1", Role: "admin"},
	)

	student := tokenFrom(t, s.login(t, "alice", "pw123"))
	admin := tokenFrom(t, s.login(t, "root", "toor1"))

	assert.Equal(t, http.StatusOK, s.request(t, http.MethodGet, "/admin/dashboard", nil, admin).Code)
	assert.Equal(t, http.StatusForbidden, s.request(t, http.MethodGet, "/admin/dashboard", nil, student).Code)
	assert.Equal(t, http.StatusUnauthorized, s.request(t, http.MethodGet, "/admin/dashboard", nil, "").Code)

	s.clock.Advance(time.Hour + time.Second)
	assert.Equal(t, http.StatusUnauthorized, s.request(t, http.MethodGet, "/admin/dashboard", nil, admin).Code)
}

func TestSessionCookieCarriesToken(t *testing.T) {
	s := newStack(t, config.SeedUser{Username: "alice", Password: "pw123", Role: "student"})

	w := s.login(t, "alice", "pw123")
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/student/dashboard", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	s.app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Helper function to clean up test data
func cleanup(t *testing.T) {
	ctx := context.Background()
	_, err := testDB.Pool.Exec(ctx, "TRUNCATE users, posts RESTART IDENTITY CASCADE")
	if err != nil {
		t.Errorf("failed to clean up test data: %v", err)
	}
}
