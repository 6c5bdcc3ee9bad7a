package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/service"
)

// UserHandler exposes the profile update endpoint.
type UserHandler struct {
	users    *service.UserService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewUserHandler(users *service.UserService, validate *validator.Validate, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		validate: validate,
		logger:   logger,
	}
}

type updateProfileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// HandleUpdateProfile overwrites the caller's own name and/or avatar.
//
// HTTP: PUT /api/users/{id} (bearer, self only)
// A caller whose session identity differs from {id} gets 403.
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req updateProfileRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, r.PathValue("id"), service.UpdateProfileInput{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
