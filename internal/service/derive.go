// Package service contains the business logic layer: validation, derivation
// of slugs/excerpts/avatars, ownership rules, and category seeding. Handlers
// parse HTTP and delegate here; repositories persist whatever this layer
// hands them.
package service

import (
	"fmt"
	"net/url"
	"strings"
)

// ExcerptLength is how much of the content becomes the auto-derived preview.
const ExcerptLength = 150

// slugify lowercases s, collapses every run of non-alphanumeric characters
// into a single hyphen, and trims hyphens from both ends.
//
//	"Hello, World!" → "hello-world"
func slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingHyphen = false
		} else {
			pendingHyphen = true
		}
	}

	return b.String()
}

// deriveExcerpt returns the first ExcerptLength characters of content plus
// an ellipsis. Counted in runes so multi-byte content is never cut inside a
// character.
func deriveExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return string(runes) + "..."
}

// avatarURL derives a deterministic avatar for a display name. Same
// generator and style the frontend has always shown; re-registering the
// same name yields the same picture.
func avatarURL(name string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/bottts/svg?seed=%s", url.QueryEscape(name))
}
