// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage is the concrete implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/blog-platform/internal/model"
)

// PostFilter narrows a post listing. Zero values mean "no filter"; populated
// fields combine with logical AND.
type PostFilter struct {
	// Search matches case-insensitively against title, content, or excerpt
	// (logical OR across the three fields).
	Search string
	// CategoryID is an exact category reference match.
	CategoryID string
	// Tags matches posts whose tag list intersects this set.
	Tags []string
}

type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrConflict if the email
	// is already registered (enforced by a storage-level constraint, not a
	// pre-check, so concurrent registrations cannot both succeed).
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Update overwrites the user's mutable profile fields (name, avatar).
	Update(ctx context.Context, user *model.User) error
}

type CategoryRepository interface {
	// Create inserts a new category. Returns apperror.ErrConflict if a
	// category with the same name or derived slug already exists.
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	// List returns all categories, newest first.
	List(ctx context.Context) ([]model.Category, error)
	// Seed inserts the given categories only if the store is still empty.
	// The emptiness re-check and the inserts happen in one transaction, so
	// two concurrent seed attempts cannot both insert.
	Seed(ctx context.Context, categories []model.Category) error
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// GetByID returns the post enriched with the full author projection and
	// category object.
	GetByID(ctx context.Context, id string) (*model.PostDetail, error)
	// List returns matching posts newest first, with author name/avatar and
	// category name denormalized in.
	List(ctx context.Context, filter PostFilter) ([]model.PostSummary, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
}
