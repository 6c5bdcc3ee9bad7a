package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/service"
)

// AuthHandler exposes registration, login, and the current-user lookup.
type AuthHandler struct {
	auth     *service.AuthService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, validate *validator.Validate, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		validate: validate,
		logger:   logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
// Responds 201 with {token, user} — the user is the public projection, the
// token is the seven-day session credential the client stores locally.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleLogin verifies credentials and issues a session token.
//
// HTTP: POST /api/auth/login
// A wrong email and a wrong password both answer 401 "invalid credentials".
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleMe returns the authenticated user's public profile.
//
// HTTP: GET /api/me (bearer)
// The client calls this to refresh its cached user object; a 401 here tells
// it the stored token has expired.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// RequireAuth guarantees an identity; reaching here means the
		// route is wired without the middleware.
		h.logger.Error("HandleMe reached without authenticated context")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
