package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sakif/blog-platform/internal/service"
)

// CategoryHandler exposes category listing, creation, and the per-category
// post feed.
type CategoryHandler struct {
	categories *service.CategoryService
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewCategoryHandler(categories *service.CategoryService, validate *validator.Validate, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		validate:   validate,
		logger:     logger,
	}
}

type createCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// HandleList returns all categories, newest first. An empty store is seeded
// with the default set before responding, so the list is never empty.
//
// HTTP: GET /api/categories
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// HandleCreate creates a category.
//
// HTTP: POST /api/categories
// Responds 409 when the name (or its derived slug) already exists.
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, err)
		return
	}

	category, err := h.categories.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// HandlePosts returns the posts in one category, newest first.
//
// HTTP: GET /api/categories/{id}/posts
func (h *CategoryHandler) HandlePosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.categories.PostsByCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}
