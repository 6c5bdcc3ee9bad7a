package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// PostStore implements repository.PostRepository on the posts and
// post_tags tables.
type PostStore struct {
	conn *sql.DB
}

var _ repository.PostRepository = (*PostStore)(nil)

// Create inserts a post and its tag list in one transaction.
// The caller (service layer) has already derived slug and excerpt and
// verified the category exists.
func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	now := time.Now()
	post.ID = xid.New().String()
	post.CreatedAt = now
	post.UpdatedAt = now

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning post insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, excerpt, slug, author_id, category_id, is_published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Content,
		post.Excerpt,
		post.Slug,
		post.AuthorID,
		post.CategoryID,
		post.IsPublished,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// The slug carries a per-call uniqueness suffix, so this only
			// fires if that generation scheme is broken. Treat as conflict
			// rather than masking it.
			return apperror.Conflict("post slug already exists")
		}
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}

	if err := insertTags(ctx, tx, post.ID, post.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing post insert: %w", err)
	}
	return nil
}

func insertTags(ctx context.Context, tx *sql.Tx, postID string, tags []string) error {
	for i, tag := range tags {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, position, tag) VALUES (?, ?, ?)`,
			postID, i, tag,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting tag %q for post %s: %w", tag, postID, err)
		}
	}
	return nil
}

// GetByID returns the post enriched with the full author projection and
// category object — the read-time join lives here, not in the handlers.
func (s *PostStore) GetByID(ctx context.Context, id string) (*model.PostDetail, error) {
	var d model.PostDetail

	err := s.conn.QueryRowContext(ctx,
		`SELECT p.id, p.title, p.content, p.excerpt, p.slug, p.author_id, p.category_id,
		        p.is_published, p.created_at, p.updated_at,
		        u.id, u.name, u.email, u.avatar_url, u.role,
		        c.id, c.name, c.description, c.slug, c.created_at
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 JOIN categories c ON c.id = p.category_id
		 WHERE p.id = ?`,
		id,
	).Scan(
		&d.ID, &d.Title, &d.Content, &d.Excerpt, &d.Slug, &d.AuthorID, &d.CategoryID,
		&d.IsPublished, &d.CreatedAt, &d.UpdatedAt,
		&d.Author.ID, &d.Author.Name, &d.Author.Email, &d.Author.AvatarURL, &d.Author.Role,
		&d.Category.ID, &d.Category.Name, &d.Category.Description, &d.Category.Slug, &d.Category.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	tags, err := s.tagsForPosts(ctx, []string{d.ID})
	if err != nil {
		return nil, err
	}
	d.Tags = tags[d.ID]
	if d.Tags == nil {
		d.Tags = []string{}
	}

	return &d, nil
}

// List returns matching posts newest first, with the author's name/avatar
// and the category name denormalized in.
//
// Filter construction mirrors the API contract: search is a
// case-insensitive substring match ORed across title, content, and excerpt;
// category is an exact reference; tags match when the post's tag list
// intersects the given set. Populated filters AND together.
//
// instr() is used instead of LIKE so that % and _ in a search term match
// literally rather than acting as wildcards. SQLite's lower() folds ASCII
// only, so case-insensitivity does not extend to non-ASCII letters
// ("café" will not match "CAFÉ").
func (s *PostStore) List(ctx context.Context, filter repository.PostFilter) ([]model.PostSummary, error) {
	query := `SELECT p.id, p.title, p.content, p.excerpt, p.slug, p.author_id, p.category_id,
	                 p.is_published, p.created_at, p.updated_at,
	                 u.name, u.avatar_url, c.name
	          FROM posts p
	          JOIN users u ON u.id = p.author_id
	          JOIN categories c ON c.id = p.category_id`

	var where []string
	var args []any

	if filter.Search != "" {
		term := strings.ToLower(filter.Search)
		where = append(where,
			`(instr(lower(p.title), ?) > 0 OR instr(lower(p.content), ?) > 0 OR instr(lower(p.excerpt), ?) > 0)`)
		args = append(args, term, term, term)
	}

	if filter.CategoryID != "" {
		where = append(where, `p.category_id = ?`)
		args = append(args, filter.CategoryID)
	}

	if len(filter.Tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.Tags)), ",")
		where = append(where,
			`EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag IN (`+placeholders+`))`)
		for _, tag := range filter.Tags {
			args = append(args, tag)
		}
	}

	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC`

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.PostSummary, 0, 20)
	var ids []string
	for rows.Next() {
		var s model.PostSummary
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Content, &s.Excerpt, &s.Slug, &s.AuthorID, &s.CategoryID,
			&s.IsPublished, &s.CreatedAt, &s.UpdatedAt,
			&s.AuthorName, &s.AuthorAvatar, &s.CategoryName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	tags, err := s.tagsForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Tags = tags[posts[i].ID]
		if posts[i].Tags == nil {
			posts[i].Tags = []string{}
		}
	}

	return posts, nil
}

// tagsForPosts loads the ordered tag lists for the given post IDs in a
// single query, keyed by post ID.
func (s *PostStore) tagsForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	tags := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return tags, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(postIDs)), ",")
	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		args[i] = id
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT post_id, tag FROM post_tags
		 WHERE post_id IN (`+placeholders+`)
		 ORDER BY post_id, position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading post tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, tag string
		if err := rows.Scan(&postID, &tag); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		tags[postID] = append(tags[postID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tags: %w", err)
	}

	return tags, nil
}

// Update replaces the post row and rewrites its tag list in one
// transaction. Slug, author, and created_at are immutable.
func (s *PostStore) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning post update: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE posts
		 SET title = ?, content = ?, excerpt = ?, category_id = ?, is_published = ?, updated_at = ?
		 WHERE id = ?`,
		post.Title,
		post.Content,
		post.Excerpt,
		post.CategoryID,
		post.IsPublished,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, post.ID); err != nil {
		return fmt.Errorf("sqlite: clearing tags for post %s: %w", post.ID, err)
	}
	if err := insertTags(ctx, tx, post.ID, post.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing post update: %w", err)
	}
	return nil
}

// Delete removes a post; its tags cascade.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}
