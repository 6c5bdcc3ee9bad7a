package service

import (
	"strings"
	"testing"
)

// =========================================================================
// slugify TESTS
// =========================================================================

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"already-a-slug", "already-a-slug"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"Trailing punctuation...", "trailing-punctuation"},
		{"--leading and trailing--", "leading-and-trailing"},
		{"MiXeD CaSe 123", "mixed-case-123"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// =========================================================================
// deriveExcerpt TESTS
// =========================================================================

func TestDeriveExcerpt_ShortContent(t *testing.T) {
	got := deriveExcerpt("short")
	if got != "short..." {
		t.Errorf("deriveExcerpt() = %q, want %q", got, "short...")
	}
}

func TestDeriveExcerpt_TruncatesLongContent(t *testing.T) {
	content := strings.Repeat("a", ExcerptLength+50)
	got := deriveExcerpt(content)

	want := strings.Repeat("a", ExcerptLength) + "..."
	if got != want {
		t.Errorf("deriveExcerpt() kept %d characters, want %d", len(got)-3, ExcerptLength)
	}
}

func TestDeriveExcerpt_CountsRunesNotBytes(t *testing.T) {
	// Multi-byte characters must never be split mid-rune.
	content := strings.Repeat("é", ExcerptLength+10)
	got := deriveExcerpt(content)

	trimmed := strings.TrimSuffix(got, "...")
	if len([]rune(trimmed)) != ExcerptLength {
		t.Errorf("excerpt kept %d runes, want %d", len([]rune(trimmed)), ExcerptLength)
	}
	if !strings.HasPrefix(content, trimmed) {
		t.Error("excerpt is not a prefix of the content; a rune was split")
	}
}

// =========================================================================
// avatarURL TESTS
// =========================================================================

func TestAvatarURL(t *testing.T) {
	got := avatarURL("alice smith")
	want := "https://api.dicebear.com/7.x/bottts/svg?seed=alice+smith"
	if got != want {
		t.Errorf("avatarURL() = %q, want %q", got, want)
	}
}

func TestAvatarURL_Deterministic(t *testing.T) {
	if avatarURL("alice") != avatarURL("alice") {
		t.Error("avatarURL() must be deterministic for the same name")
	}
}
