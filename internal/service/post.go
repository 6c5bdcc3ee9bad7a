package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/rs/xid"
	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// MaxTitleLength caps post titles.
const MaxTitleLength = 100

// PostService handles business logic for posts: input rules, slug and
// excerpt derivation, category existence, and author-only mutation.
type PostService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewPostService(
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		categories: categories,
		logger:     logger,
	}
}

// CreatePostInput is what an authenticated author submits. The author
// themselves is never part of it — identity comes from the session.
type CreatePostInput struct {
	Title      string
	Content    string
	CategoryID string
	Tags       []string
	Excerpt    string // optional; derived from content when empty
}

// UpdatePostInput is a partial update: nil means "leave this field alone".
type UpdatePostInput struct {
	Title       *string
	Content     *string
	Excerpt     *string
	CategoryID  *string
	Tags        *[]string
	IsPublished *bool
}

// Create validates and saves a new post for the given author.
//
// The slug is the slugified title plus a fresh xid, so repeated creations
// with an identical title always get distinct slugs without any uniqueness
// pre-check. The excerpt defaults to the leading slice of the content.
func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (*model.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	// Counted in runes, like the handler validator — a multibyte title must
	// not hit a stricter byte-based cap here.
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title cannot exceed %d characters", MaxTitleLength))
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperror.ValidationFailed("content", "content is required")
	}

	categoryID := strings.TrimSpace(in.CategoryID)
	if categoryID == "" {
		return nil, apperror.ValidationFailed("category", "valid category ID required")
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("category", "invalid category")
		}
		return nil, fmt.Errorf("service/post: checking category %s: %w", categoryID, err)
	}

	excerpt := in.Excerpt
	if excerpt == "" {
		excerpt = deriveExcerpt(in.Content)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	post := &model.Post{
		Title:       title,
		Content:     in.Content,
		Excerpt:     excerpt,
		Slug:        slugify(title) + "-" + xid.New().String(),
		AuthorID:    authorID,
		CategoryID:  categoryID,
		Tags:        tags,
		IsPublished: true,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("authorID", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("slug", post.Slug),
		slog.String("authorID", authorID),
	)

	return post, nil
}

// GetByID retrieves a post enriched with its author and category.
// Returns apperror.ErrNotFound if the id does not resolve.
func (s *PostService) GetByID(ctx context.Context, id string) (*model.PostDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}
	return s.posts.GetByID(ctx, id)
}

// List returns posts matching the filter, newest first.
func (s *PostService) List(ctx context.Context, filter repository.PostFilter) ([]model.PostSummary, error) {
	summaries, err := s.posts.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return summaries, nil
}

// Update applies a partial update to a post. Only the author may update
// their post — anyone else gets a forbidden error, whatever fields they
// sent.
func (s *PostService) Update(ctx context.Context, callerID, id string, in UpdatePostInput) (*model.PostDetail, error) {
	detail, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail.AuthorID != callerID {
		return nil, apperror.Forbidden("you are not the author of this post")
	}

	post := detail.Post

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "title is required")
		}
		if utf8.RuneCountInString(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("title cannot exceed %d characters", MaxTitleLength))
		}
		post.Title = title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, apperror.ValidationFailed("content", "content is required")
		}
		post.Content = *in.Content
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.CategoryID != nil {
		categoryID := strings.TrimSpace(*in.CategoryID)
		if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, apperror.ValidationFailed("category", "invalid category")
			}
			return nil, fmt.Errorf("service/post: checking category %s: %w", categoryID, err)
		}
		post.CategoryID = categoryID
	}
	if in.Tags != nil {
		post.Tags = *in.Tags
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}

	if err := s.posts.Update(ctx, &post); err != nil {
		s.logger.Error("failed to update post",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post updated", slog.String("id", id))

	// Re-read so the response carries the fresh denormalized author and
	// category, including a changed category.
	return s.posts.GetByID(ctx, id)
}

// Delete removes a post. Author-only, same as Update.
func (s *PostService) Delete(ctx context.Context, callerID, id string) error {
	detail, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if detail.AuthorID != callerID {
		return apperror.Forbidden("you are not the author of this post")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("post deleted", slog.String("id", id))
	return nil
}
