package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// defaultCategories is the fixed set seeded into an empty store, so a
// client never sees an empty category list.
var defaultCategories = []model.Category{
	{Name: "Technology", Description: "Posts about software, hardware, and tech trends"},
	{Name: "Lifestyle", Description: "Posts about daily life, habits, and personal experiences"},
	{Name: "Tutorial", Description: "Step-by-step guides and how-to articles"},
	{Name: "News", Description: "Current events and updates"},
}

// CategoryService handles category listing, creation, and the per-category
// post feed.
type CategoryService struct {
	categories repository.CategoryRepository
	posts      repository.PostRepository
	logger     *slog.Logger
}

func NewCategoryService(
	categories repository.CategoryRepository,
	posts repository.PostRepository,
	logger *slog.Logger,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		posts:      posts,
		logger:     logger,
	}
}

// List returns all categories, newest first, lazily seeding the defaults
// when the store is empty.
//
// The repository's Seed re-checks emptiness inside a transaction, so two
// first-ever reads racing each other still produce exactly one set of
// defaults; both callers then list the same four rows.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	if len(categories) > 0 {
		return categories, nil
	}

	seed := make([]model.Category, len(defaultCategories))
	copy(seed, defaultCategories)
	for i := range seed {
		seed[i].Slug = slugify(seed[i].Name)
	}

	if err := s.categories.Seed(ctx, seed); err != nil {
		return nil, fmt.Errorf("seeding default categories: %w", err)
	}
	s.logger.Info("seeded default categories", slog.Int("count", len(seed)))

	categories, err = s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories after seed: %w", err)
	}
	return categories, nil
}

// Create derives a slug from the name and stores the category. A category
// whose name slugifies to an existing slug is a conflict, enforced by the
// storage constraint rather than a racy existence pre-check.
func (s *CategoryService) Create(ctx context.Context, name, description string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "category name is required")
	}

	category := &model.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
		Slug:        slugify(name),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("category already exists")
		}
		return nil, fmt.Errorf("creating category: %w", err)
	}

	s.logger.Info("category created",
		slog.String("id", category.ID),
		slog.String("slug", category.Slug),
	)

	return category, nil
}

// PostsByCategory returns the category's posts, newest first, with author
// data denormalized. Unknown category IDs are a not-found, not an empty
// list — the caller asked about a category that does not exist.
func (s *CategoryService) PostsByCategory(ctx context.Context, categoryID string) ([]model.PostSummary, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	return s.posts.List(ctx, repository.PostFilter{CategoryID: categoryID})
}
