package models

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Post represents one blog entry read from the source directory.
type Post struct {
	Filename    string    `json:"filename"`
	Path        string    `json:"path"`
	ModTime     time.Time `json:"mod_time"`
	Title       string    `json:"title"`                 // Filename stem
	Slug        string    `json:"slug"`                  // URL-safe form of the stem
	Description string    `json:"description,omitempty"` // HTML fragment, links already rewritten
}

// ThumbnailRecord is a cached prompt/image pair for one post.
type ThumbnailRecord struct {
	Key    string
	Prompt string
	Image  []byte
}

// Stem returns the filename without its extension.
func Stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// URLSlug returns the public slug for a post file: the stem with spaces
// replaced by hyphens, percent-encoded for use in a URL path.
// Only A-Z a-z 0-9 and "-_.~" are left as is.
func URLSlug(filename string) string {
	return escapeSlug(Stem(filename))
}

// CacheKey returns the thumbnail cache key for a post file.
// Same as URLSlug, but '!', '?' and '%' are dropped first.
func CacheKey(filename string) string {
	name := Stem(filename)
	name = strings.NewReplacer("!", "", "?", "", "%", "").Replace(name)
	return escapeSlug(name)
}

// escapeSlug hyphenates spaces, then escapes the rest. With no spaces left,
// QueryEscape never emits '+', so the result is also a valid path segment.
func escapeSlug(name string) string {
	return url.QueryEscape(strings.ReplaceAll(name, " ", "-"))
}
