package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostHandler_List(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/posts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))

	var posts []model.Post
	require.NoError(t, json.NewDecoder(w.Body).Decode(&posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "My first post", posts[0].Title)
	assert.Equal(t, "HTTPS is cool", posts[1].Title)
}

func TestPostHandler_Get(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path           string
		wantStatusCode int
	}{
		{path: "/posts/1", wantStatusCode: http.StatusOK},
		{path: "/posts/2", wantStatusCode: http.StatusOK},
		{path: "/posts/3", wantStatusCode: http.StatusNotFound},
		{path: "/posts/0", wantStatusCode: http.StatusNotFound},
		{path: "/posts/abc", wantStatusCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, nil, "")
			assert.Equal(t, tt.wantStatusCode, w.Code)
		})
	}
}

func TestPostHandler_Create(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "root", "toor1")
	student := s.login(t, "alice", "pw123")

	w := s.do(t, http.MethodPost, "/posts", model.NewPost{Title: "Hello", Content: "World"}, student)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/posts", model.NewPost{Title: "", Content: "World"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/posts", model.NewPost{Title: "Hello", Content: "World"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	var post model.Post
	require.NoError(t, json.NewDecoder(w.Body).Decode(&post))
	assert.Equal(t, int64(3), post.ID)

	w = s.do(t, http.MethodGet, "/posts/3", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
