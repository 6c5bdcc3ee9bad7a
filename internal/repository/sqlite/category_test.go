package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/model"
)

func createTestCategory(t *testing.T, db *DB, name, slug string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Slug: slug, Description: "about " + name}
	if err := db.Categories().Create(context.Background(), category); err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCategoryCreate(t *testing.T) {
	db := newTestDB(t)

	category := createTestCategory(t, db, "Tech", "tech")

	if category.ID == "" {
		t.Error("Create() did not set category.ID")
	}
	if category.CreatedAt.IsZero() {
		t.Error("Create() did not set category.CreatedAt")
	}
}

func TestCategoryCreate_DuplicateSlugConflicts(t *testing.T) {
	db := newTestDB(t)
	createTestCategory(t, db, "Tech", "tech")

	dup := &model.Category{Name: "TECH!", Slug: "tech"}
	err := db.Categories().Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestCategoryCreate_DuplicateNameConflicts(t *testing.T) {
	db := newTestDB(t)
	createTestCategory(t, db, "Tech", "tech")

	dup := &model.Category{Name: "Tech", Slug: "tech-2"}
	err := db.Categories().Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// GET / LIST TESTS
// =========================================================================

func TestCategoryGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Categories().GetByID(context.Background(), "does-not-exist")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestCategoryList_Empty(t *testing.T) {
	db := newTestDB(t)

	categories, err := db.Categories().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("List() on empty store returned %d categories", len(categories))
	}
}

func TestCategoryList_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	createTestCategory(t, db, "First", "first")
	createTestCategory(t, db, "Second", "second")

	categories, err := db.Categories().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("List() returned %d categories, want 2", len(categories))
	}
	if categories[0].Name != "Second" {
		t.Errorf("List()[0] = %q, want the newest category first", categories[0].Name)
	}
}

// =========================================================================
// SEED TESTS
// =========================================================================

func TestCategorySeed_EmptyStore(t *testing.T) {
	db := newTestDB(t)

	seed := []model.Category{
		{Name: "Technology", Slug: "technology"},
		{Name: "News", Slug: "news"},
	}
	if err := db.Categories().Seed(context.Background(), seed); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	categories, err := db.Categories().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("List() returned %d categories after seed, want 2", len(categories))
	}
}

func TestCategorySeed_NonEmptyStoreIsNoop(t *testing.T) {
	db := newTestDB(t)
	createTestCategory(t, db, "Existing", "existing")

	seed := []model.Category{{Name: "Technology", Slug: "technology"}}
	if err := db.Categories().Seed(context.Background(), seed); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	categories, err := db.Categories().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != 1 {
		t.Errorf("Seed() inserted into a non-empty store; have %d categories, want 1", len(categories))
	}
}

func TestCategorySeed_SecondSeedIsNoop(t *testing.T) {
	db := newTestDB(t)

	seed := []model.Category{{Name: "Technology", Slug: "technology"}}
	if err := db.Categories().Seed(context.Background(), seed); err != nil {
		t.Fatalf("first Seed() error = %v", err)
	}
	if err := db.Categories().Seed(context.Background(), seed); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}

	categories, _ := db.Categories().List(context.Background())
	if len(categories) != 1 {
		t.Errorf("double seeding produced %d categories, want 1", len(categories))
	}
}
