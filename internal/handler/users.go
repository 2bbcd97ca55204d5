package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contech-dc/contrack/internal/request"
)

// UserHandler handles user management.
type UserHandler struct {
	svc *request.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *request.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// List returns every user, passwords stripped.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err, "users not found", "failed to load users")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// UpsertUserRequest is the request body for creating or updating a user.
type UpsertUserRequest struct {
	Username   string `json:"username"`
	Fullname   string `json:"fullname"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Password   string `json:"password"`
}

// Upsert creates or updates a user.
func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, created, err := h.svc.UpsertUser(r.Context(), request.UpsertUserInput{
		Username:   req.Username,
		Fullname:   req.Fullname,
		Department: req.Department,
		Role:       req.Role,
		Password:   req.Password,
	})
	if err != nil {
		writeServiceError(w, err, "user not found", "user operation failed")
		return
	}

	message := "User updated successfully"
	if created {
		message = "User created successfully"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"user":    user,
	})
}

// Delete removes a user.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := h.svc.DeleteUser(r.Context(), username); err != nil {
		writeServiceError(w, err,
			fmt.Sprintf("User %s not found", username),
			"failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("User %s deleted successfully", username),
	})
}
