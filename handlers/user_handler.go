package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gitforge/backend/app"
	"github.com/gitforge/backend/middleware"
	"github.com/gitforge/backend/services"
	"github.com/gitforge/backend/utils"
)

// CreateUserRequest is the JSON payload for user registration
type CreateUserRequest struct {
	Login           string `json:"login" validate:"required,max=20"`
	Password        string `json:"password" validate:"required,min=8,max=20"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// UserResponse is the public view of a user record
type UserResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// CreateUserHandler handles POST /users
func CreateUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = utils.WriteBadRequest(w, services.CodeUnknownError, "invalid JSON payload")
			return
		}

		if err := utils.ValidateStruct(req); err != nil {
			_ = utils.WriteBadRequest(w, services.CodeUnknownError, err.Error())
			return
		}

		id, err := deps.UserService.Create(r.Context(), req.Login, req.Password, req.ConfirmPassword)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, id)
	}
}

// GetCurrentUserHandler handles GET /users/me
func GetCurrentUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			_ = utils.WriteUnauthorized(w, services.CodeAuthorizationRequired, "authorization required")
			return
		}

		_ = utils.WriteOK(w, UserResponse{ID: user.ID, Login: user.Login})
	}
}

// ListUsersHandler handles GET /users
func ListUsersHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.UserService.List(r.Context())
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		out := make([]UserResponse, 0, len(users))
		for _, u := range users {
			out = append(out, UserResponse{ID: u.ID, Login: u.Login})
		}

		_ = utils.WriteOK(w, out)
	}
}

// DeleteUserHandler handles DELETE /users/{id}
func DeleteUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := middleware.UserFromContext(r.Context())
		if current == nil {
			_ = utils.WriteUnauthorized(w, services.CodeAuthorizationRequired, "authorization required")
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id < 1 {
			_ = utils.WriteBadRequest(w, services.CodeUnknownError, "invalid user id")
			return
		}

		if err := deps.UserService.Delete(r.Context(), current.ID, id); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, utils.StatusResponse{Status: "success"})
	}
}
