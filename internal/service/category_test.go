package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/model"
)

func newTestCategoryService(categories *fakeCategoryRepo, posts *fakePostRepo) *CategoryService {
	return NewCategoryService(categories, posts, testLogger())
}

// =========================================================================
// List / SEEDING TESTS
// =========================================================================

func TestCategoryList_SeedsDefaultsWhenEmpty(t *testing.T) {
	categories := newFakeCategoryRepo()
	svc := newTestCategoryService(categories, newFakePostRepo())

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("List() on empty store returned %d categories, want the 4 defaults", len(got))
	}

	bySlug := make(map[string]model.Category, len(got))
	for _, c := range got {
		bySlug[c.Slug] = c
	}
	for _, slug := range []string{"technology", "lifestyle", "tutorial", "news"} {
		c, ok := bySlug[slug]
		if !ok {
			t.Errorf("default category %q missing after seed", slug)
			continue
		}
		if c.ID == "" {
			t.Errorf("seeded category %q has no ID", slug)
		}
		if c.Description == "" {
			t.Errorf("seeded category %q has no description", slug)
		}
	}
}

func TestCategoryList_DoesNotReseed(t *testing.T) {
	categories := newFakeCategoryRepo()
	svc := newTestCategoryService(categories, newFakePostRepo())

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("first List() error = %v", err)
	}
	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("second List() error = %v", err)
	}

	if len(got) != 4 {
		t.Errorf("second List() returned %d categories, want 4", len(got))
	}
	if categories.seedCalls != 1 {
		t.Errorf("Seed called %d times, want exactly once", categories.seedCalls)
	}
}

func TestCategoryList_NonEmptyStoreSkipsSeeding(t *testing.T) {
	categories := newFakeCategoryRepo()
	existing := &model.Category{Name: "Existing", Slug: "existing"}
	if err := categories.Create(context.Background(), existing); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	svc := newTestCategoryService(categories, newFakePostRepo())

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("List() returned %d categories, want only the existing one", len(got))
	}
	if categories.seedCalls != 0 {
		t.Errorf("Seed called %d times on a non-empty store, want 0", categories.seedCalls)
	}
}

// =========================================================================
// Create TESTS
// =========================================================================

func TestCategoryCreate_DerivesSlug(t *testing.T) {
	svc := newTestCategoryService(newFakeCategoryRepo(), newFakePostRepo())

	category, err := svc.Create(context.Background(), "Machine Learning!", "all things ML")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if category.Slug != "machine-learning" {
		t.Errorf("Slug = %q, want %q", category.Slug, "machine-learning")
	}
}

func TestCategoryCreate_EmptyNameRejected(t *testing.T) {
	svc := newTestCategoryService(newFakeCategoryRepo(), newFakePostRepo())

	_, err := svc.Create(context.Background(), "   ", "description")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() error = %v, want ErrValidation", err)
	}
}

func TestCategoryCreate_DuplicateConflicts(t *testing.T) {
	svc := newTestCategoryService(newFakeCategoryRepo(), newFakePostRepo())

	if _, err := svc.Create(context.Background(), "Tech", ""); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	_, err := svc.Create(context.Background(), "Tech", "again")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// PostsByCategory TESTS
// =========================================================================

func TestPostsByCategory_UnknownCategoryIsNotFound(t *testing.T) {
	svc := newTestCategoryService(newFakeCategoryRepo(), newFakePostRepo())

	_, err := svc.PostsByCategory(context.Background(), "does-not-exist")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("PostsByCategory() error = %v, want ErrNotFound", err)
	}
}

func TestPostsByCategory_FiltersByCategory(t *testing.T) {
	categories, posts := newFakeCategoryRepo(), newFakePostRepo()
	svc := newTestCategoryService(categories, posts)

	tech := &model.Category{Name: "Tech", Slug: "tech"}
	if err := categories.Create(context.Background(), tech); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	inTech := &model.Post{Title: "In Tech", CategoryID: tech.ID}
	elsewhere := &model.Post{Title: "Elsewhere", CategoryID: "other"}
	for _, p := range []*model.Post{inTech, elsewhere} {
		if err := posts.Create(context.Background(), p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := svc.PostsByCategory(context.Background(), tech.ID)
	if err != nil {
		t.Fatalf("PostsByCategory() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "In Tech" {
		t.Errorf("PostsByCategory() = %d posts, want only the one in the category", len(got))
	}
	if posts.lastFilter.CategoryID != tech.ID {
		t.Errorf("repository filter CategoryID = %q, want %q", posts.lastFilter.CategoryID, tech.ID)
	}
}
