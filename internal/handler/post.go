package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/repository"
	"github.com/sakif/blog-platform/internal/service"
)

// PostHandler exposes the post listing, detail, and authoring endpoints.
type PostHandler struct {
	posts    *service.PostService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewPostHandler(posts *service.PostService, validate *validator.Validate, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:    posts,
		validate: validate,
		logger:   logger,
	}
}

type createPostRequest struct {
	Title    string   `json:"title"    validate:"required,max=100"`
	Content  string   `json:"content"  validate:"required"`
	Category string   `json:"category" validate:"required"`
	Tags     []string `json:"tags"`
	Excerpt  string   `json:"excerpt"`
}

type updatePostRequest struct {
	Title       *string   `json:"title"       validate:"omitempty,max=100"`
	Content     *string   `json:"content"`
	Excerpt     *string   `json:"excerpt"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
	IsPublished *bool     `json:"isPublished"`
}

// HandleList returns posts newest first, optionally filtered.
//
// HTTP: GET /api/posts?search=&category=&tags=go,web
// search matches title/content/excerpt case-insensitively; category is an
// exact id; tags is comma-separated and matches any intersection. Filters
// combine with AND.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.PostFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("category"),
	}
	if tags := q.Get("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	posts, err := h.posts.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleGetByID returns a single post with its author and category
// embedded.
//
// HTTP: GET /api/posts/{id}
func (h *PostHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleCreate saves a new post authored by the authenticated user.
//
// HTTP: POST /api/posts (bearer)
// The author is always the session identity — an authorId in the body would
// be ignored because the request struct has no such field.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req createPostRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), userID, service.CreatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.Category,
		Tags:       req.Tags,
		Excerpt:    req.Excerpt,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleUpdate applies a partial update to the caller's own post.
//
// HTTP: PUT /api/posts/{id} (bearer, author only)
// Absent fields are left untouched; a non-author gets 403.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req updatePostRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Update(r.Context(), userID, r.PathValue("id"), service.UpdatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		CategoryID:  req.Category,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes the caller's own post.
//
// HTTP: DELETE /api/posts/{id} (bearer, author only)
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	if err := h.posts.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
