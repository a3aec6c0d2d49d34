package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/Stewz00/go-auth-gateway/internal/logging"
	"github.com/Stewz00/go-auth-gateway/internal/service"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Fixed client-facing messages. Internal error text never reaches a response.
const (
	msgInvalidBody        = "Invalid request body"
	msgInvalidCredentials = "Invalid username or password"
	msgThrottled          = "Too many login attempts, please try again later"
	msgUnauthenticated    = "Authentication required"
	msgForbidden          = "You do not have permission to access this resource"
	msgProfileUnavailable = "Profile is temporarily unavailable"
	msgPostNotFound       = "Post not found"
	msgNotFound           = "Oops! That page doesn't exist."
	msgMethodNotAllowed   = "Method not allowed"
	msgInternal           = "Something broke!"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// Helper function to send JSON error responses
func sendJSONError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, ErrorResponse{Error: message})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		sendJSONError(w, msgInvalidBody, http.StatusBadRequest)
		return false
	}
	return true
}

// recoverer turns a panic into a logged JSON 500.
func recoverer(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error(r.Context(), "panic recovered",
					"panic", fmt.Sprint(rec),
					"request_id", chimiddleware.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				)
				sendJSONError(w, msgInternal, http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// sendServiceError maps a gateway outcome to its status and fixed message.
func sendServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	var terr *service.ThrottledError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.As(err, &terr):
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(terr.RetryAfter.Seconds()))))
		sendJSONError(w, msgThrottled, http.StatusTooManyRequests)
	case errors.Is(err, service.ErrThrottled):
		sendJSONError(w, msgThrottled, http.StatusTooManyRequests)
	case errors.Is(err, service.ErrInvalidCredentials):
		sendJSONError(w, msgInvalidCredentials, http.StatusUnauthorized)
	case errors.Is(err, service.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		sendJSONError(w, msgUnauthenticated, http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		sendJSONError(w, msgForbidden, http.StatusForbidden)
	case errors.Is(err, service.ErrProfileUnavailable):
		sendJSONError(w, msgProfileUnavailable, http.StatusServiceUnavailable)
	case errors.Is(err, service.ErrPostNotFound):
		sendJSONError(w, msgPostNotFound, http.StatusNotFound)
	default:
		sendJSONError(w, msgInternal, http.StatusInternalServerError)
	}
}
