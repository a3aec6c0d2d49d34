package handler

import (
	"net/http"
	"strconv"

	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/Stewz00/go-auth-gateway/internal/service"
	"github.com/go-chi/chi/v5"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.List(r.Context())
	if err != nil {
		sendServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		sendJSONError(w, msgPostNotFound, http.StatusNotFound)
		return
	}

	post, err := h.postService.Get(r.Context(), id)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create stores a new post; mount it behind RequireRole(admin).
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.NewPost
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.postService.Create(r.Context(), req)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}
