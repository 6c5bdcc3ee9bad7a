package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// In-memory fakes for the repository interfaces. Fakes (not a mock
// framework) keep these tests dependency-free and easy to read — what a
// fake does is right here on the page.

// testLogger discards everything below error level so test output stays
// readable.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// =========================================================================
// fakeUserRepo
// =========================================================================

type fakeUserRepo struct {
	users  map[string]*model.User // keyed by ID
	nextID int
	// set to a non-nil error to simulate a database failure
	createErr error
	updateErr error
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return apperror.Conflict("email already in use")
		}
	}
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.users[user.ID]
	if !ok {
		return apperror.NotFound("user", user.ID)
	}
	stored.Name = user.Name
	stored.AvatarURL = user.AvatarURL
	stored.UpdatedAt = time.Now()
	return nil
}

// =========================================================================
// fakeCategoryRepo
// =========================================================================

type fakeCategoryRepo struct {
	categories []model.Category
	nextID     int
	seedCalls  int
	createErr  error
	listErr    error
}

var _ repository.CategoryRepository = (*fakeCategoryRepo)(nil)

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{nextID: 1}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.categories {
		if existing.Name == category.Name || existing.Slug == category.Slug {
			return apperror.Conflict("category already exists")
		}
	}
	category.ID = fmt.Sprintf("cat-%d", f.nextID)
	f.nextID++
	category.CreatedAt = time.Now()
	f.categories = append(f.categories, *category)
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			copied := f.categories[i]
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("category", id)
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Category, len(f.categories))
	copy(out, f.categories)
	return out, nil
}

// Seed mirrors the real store's only-if-empty contract.
func (f *fakeCategoryRepo) Seed(ctx context.Context, categories []model.Category) error {
	f.seedCalls++
	if len(f.categories) > 0 {
		return nil
	}
	for i := range categories {
		categories[i].ID = fmt.Sprintf("cat-%d", f.nextID)
		f.nextID++
		categories[i].CreatedAt = time.Now()
		f.categories = append(f.categories, categories[i])
	}
	return nil
}

// =========================================================================
// fakePostRepo
// =========================================================================

type fakePostRepo struct {
	posts      map[string]*model.Post
	nextID     int
	lastFilter repository.PostFilter
	createErr  error
}

var _ repository.PostRepository = (*fakePostRepo)(nil)

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*model.Post), nextID: 1}
}

func (f *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	if f.createErr != nil {
		return f.createErr
	}
	post.ID = fmt.Sprintf("post-%d", f.nextID)
	f.nextID++
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id string) (*model.PostDetail, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	return &model.PostDetail{Post: *p}, nil
}

func (f *fakePostRepo) List(ctx context.Context, filter repository.PostFilter) ([]model.PostSummary, error) {
	f.lastFilter = filter
	var out []model.PostSummary
	for _, p := range f.posts {
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		out = append(out, model.PostSummary{Post: *p})
	}
	return out, nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *model.Post) error {
	stored, ok := f.posts[post.ID]
	if !ok {
		return apperror.NotFound("post", post.ID)
	}
	post.UpdatedAt = time.Now()
	*stored = *post
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(f.posts, id)
	return nil
}
