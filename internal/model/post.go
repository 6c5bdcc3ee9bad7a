package model

import "time"

// Post is a blog entry written by a user in a category.
//
// Excerpt and Slug are derived at creation time by the service layer:
// the excerpt is a short preview of the content (unless the author supplies
// one), and the slug is a URL-safe form of the title plus a per-call
// uniqueness suffix, so two posts with the same title never collide.
//
// Tags is an ordered list and may contain repeats — it round-trips exactly
// as the author submitted it.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Excerpt     string    `json:"excerpt"`
	Slug        string    `json:"slug"`
	AuthorID    string    `json:"authorId"`
	CategoryID  string    `json:"categoryId"`
	Tags        []string  `json:"tags"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PostSummary is the list read model: a post with the author's display
// fields and the category name denormalized in, so list endpoints can render
// cards without extra lookups.
type PostSummary struct {
	Post
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
	CategoryName string `json:"categoryName"`
}

// PostDetail is the single-post read model: the post enriched with the full
// author projection and category object.
type PostDetail struct {
	Post
	Author   PublicUser `json:"author"`
	Category Category   `json:"category"`
}
