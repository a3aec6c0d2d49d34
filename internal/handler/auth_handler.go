package handler

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Stewz00/go-auth-gateway/internal/model"
	"github.com/Stewz00/go-auth-gateway/internal/service"
)

// SessionCookie is the cookie carrying the token for browser clients.
const SessionCookie = "session_token"

type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
}

func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles user authentication and returns a JWT token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.authService.LoginUser(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
		ClientID: clientIdentity(r),
	})
	if err != nil {
		sendServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, res)
}

// Logout clears the session cookie. It succeeds even without a valid token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.LogoutUser(r.Context(), extractToken(r))

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

type claimsKey struct{}

// RequireRole rejects requests whose token does not carry role and stores
// the verified claims in the request context otherwise.
func (h *AuthHandler) RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := h.authService.RequireRole(r.Context(), extractToken(r), role)
			if err != nil {
				sendServiceError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by RequireRole.
func ClaimsFromContext(ctx context.Context) (*model.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*model.Claims)
	return claims, ok
}

type DashboardResponse struct {
	Message  string     `json:"message"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// Dashboard greets the caller; mount it behind RequireRole.
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		sendServiceError(w, service.ErrUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, DashboardResponse{
		Message:  fmt.Sprintf("Welcome to the %s dashboard, %s!", claims.Role, claims.Username),
		Username: claims.Username,
		Role:     claims.Role,
	})
}

// Helper function to extract the JWT token from the Authorization header,
// falling back to the session cookie
func extractToken(r *http.Request) string {
	if bearer := r.Header.Get("Authorization"); bearer != "" {
		scheme, token, ok := strings.Cut(bearer, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// clientIdentity is the TCP peer IP, or the forwarded client IP when the
// peer is a trusted proxy (see middleware.TrustedRealIP).
func clientIdentity(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
