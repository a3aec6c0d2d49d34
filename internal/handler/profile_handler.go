package handler

import (
	"net/http"

	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/Stewz00/go-auth-gateway/internal/service"
)

type ProfileHandler struct {
	authService *service.AuthService
}

func NewProfileHandler(authService *service.AuthService) *ProfileHandler {
	return &ProfileHandler{authService: authService}
}

// Get returns the caller's own profile with the email decrypted
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.authService.ReadProfile(r.Context(), extractToken(r))
	if err != nil {
		sendServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Update replaces the caller's name, email and bio
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	if token == "" {
		sendServiceError(w, service.ErrNoToken)
		return
	}

	var req model.ProfileUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.authService.UpdateProfile(r.Context(), token, req)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
