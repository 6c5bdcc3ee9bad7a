package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// CategoryStore implements repository.CategoryRepository on the
// categories table.
type CategoryStore struct {
	conn *sql.DB
}

var _ repository.CategoryRepository = (*CategoryStore)(nil)

// Create inserts a new category. Name and slug are both UNIQUE; a duplicate
// of either surfaces as a conflict error.
func (s *CategoryStore) Create(ctx context.Context, category *model.Category) error {
	category.ID = xid.New().String()
	category.CreatedAt = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, slug, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		category.ID,
		category.Name,
		category.Description,
		category.Slug,
		category.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("category already exists")
		}
		return fmt.Errorf("sqlite: inserting category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID.
// Returns apperror.ErrNotFound if the id does not resolve.
func (s *CategoryStore) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, name, description, slug, created_at FROM categories WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("category", id)
		}
		return nil, fmt.Errorf("sqlite: getting category %s: %w", id, err)
	}

	return &c, nil
}

// List returns all categories, newest first.
func (s *CategoryStore) List(ctx context.Context) ([]model.Category, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, description, slug, created_at
		 FROM categories
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0, 8)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, nil
}

// Seed inserts the given categories only if the table is still empty.
//
// The count re-check and the inserts share one transaction, so two requests
// racing over an empty store cannot both seed — the second transaction sees
// the first one's rows and inserts nothing.
func (s *CategoryStore) Seed(ctx context.Context, categories []model.Category) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("sqlite: counting categories: %w", err)
	}
	if count > 0 {
		return nil // someone else seeded first; nothing to do
	}

	for i := range categories {
		c := &categories[i]
		c.ID = xid.New().String()
		c.CreatedAt = time.Now()

		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, description, slug, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Description, c.Slug, c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: seeding category %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing seed: %w", err)
	}
	return nil
}
