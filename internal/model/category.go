package model

import "time"

// Category groups posts under a named topic.
//
// Name and Slug are both unique. The slug is derived from the name at
// creation time and never changes afterwards — categories are append-only
// (no update or delete operation exists).
type Category struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	Slug        string    `json:"slug"        db:"slug"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}
