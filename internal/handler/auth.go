package handler

import (
	"errors"
	"net/http"

	"github.com/contech-dc/contrack/internal/request"
)

// AuthHandler handles login.
type AuthHandler struct {
	svc *request.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *request.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks credentials and returns the user without the password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, request.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeServiceError(w, err, "user not found", "login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}
