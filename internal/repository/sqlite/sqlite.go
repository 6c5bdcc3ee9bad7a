// Package sqlite implements the repository interfaces on SQLite.
//
// SQLite is embedded — the whole store is one file (or ":memory:" in
// tests), which fits an application this size: one process, no separate
// database server to run. modernc.org/sqlite is a pure-Go build of SQLite,
// so the binary cross-compiles without a C toolchain.
//
// The schema carries the uniqueness rules the API depends on: users.email,
// categories.name, categories.slug, and posts.slug are all UNIQUE at the
// storage level. Handlers surface violations as conflict errors instead of
// racing a check-then-act pre-query.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out the per-entity stores
// that implement the repository interfaces. The server owns the lifecycle:
// New opens it, Close releases the file lock on shutdown.
type DB struct {
	conn       *sql.DB
	users      *UserStore
	categories *CategoryStore
	posts      *PostStore
}

// New opens the SQLite database at dbPath and runs migrations.
// Use ":memory:" for a throwaway database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// One connection for the whole pool. SQLite allows one writer at a
	// time anyway, and the PRAGMAs below are per-connection — a second
	// pooled connection would silently run without them. It also keeps
	// ":memory:" databases alive: each new connection to ":memory:" would
	// otherwise get its own empty database.
	conn.SetMaxOpenConns(1)

	// WAL lets concurrent reads proceed while a write is in flight —
	// without it SQLite locks the whole file per write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite. Posts reference users and
	// categories, and post_tags cascade on post deletion, so they must be on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	db.users = &UserStore{conn: conn}
	db.categories = &CategoryStore{conn: conn}
	db.posts = &PostStore{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Users returns the user store backed by this database.
func (db *DB) Users() *UserStore { return db.users }

// Categories returns the category store backed by this database.
func (db *DB) Categories() *CategoryStore { return db.categories }

// Posts returns the post store backed by this database.
func (db *DB) Posts() *PostStore { return db.posts }

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database is reachable. Used by /health.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			avatar_url    TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			slug        TEXT NOT NULL UNIQUE,
			created_at  DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating categories table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			content      TEXT NOT NULL,
			excerpt      TEXT NOT NULL DEFAULT '',
			slug         TEXT NOT NULL UNIQUE,
			author_id    TEXT NOT NULL REFERENCES users(id),
			category_id  TEXT NOT NULL REFERENCES categories(id),
			is_published INTEGER NOT NULL DEFAULT 1,
			created_at   DATETIME NOT NULL,
			updated_at   DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
		CREATE INDEX IF NOT EXISTS idx_posts_category_id ON posts(category_id);
		CREATE INDEX IF NOT EXISTS idx_posts_author_id ON posts(author_id);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	// Tags live in their own table keyed by (post_id, position): the list is
	// ordered and may repeat, so the tag itself cannot be part of the key.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS post_tags (
			post_id  TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			tag      TEXT NOT NULL,
			PRIMARY KEY (post_id, position)
		);
		CREATE INDEX IF NOT EXISTS idx_post_tags_tag ON post_tags(tag);
	`)
	if err != nil {
		return fmt.Errorf("creating post_tags table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The driver exposes constraint errors through the message text,
// which always contains this marker.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
