package index

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/otiai10/copy"

	"github.com/mfenderov/thoughts/internal/posts"
	"github.com/mfenderov/thoughts/pkg/models"
)

// ThumbnailFunc returns the image source used for a post block.
type ThumbnailFunc func(p models.Post) string

// SharedThumbnail uses the same image for every post.
func SharedThumbnail(path string) ThumbnailFunc {
	return func(models.Post) string { return path }
}

// PerPostThumbnail points each post at its generated thumbnail,
// laid out as the thumbnail cache stores it: {prefix}{key}.jpg.
func PerPostThumbnail(prefix string) ThumbnailFunc {
	return func(p models.Post) string {
		return prefix + models.CacheKey(p.Filename) + ".jpg"
	}
}

// Options configures a single index build.
type Options struct {
	SourceDir        string
	OutputPath       string
	BaseURL          string
	Thumbnail        ThumbnailFunc // nil means SharedThumbnail("img.jpg")
	DescriptionLines int           // 0 means posts.DefaultDescriptionLines
	Header           Header

	FeedPath   string // optional Atom feed output
	FeedAuthor string
	StaticDir  string // optional directory copied next to OutputPath
}

// Result holds index build results.
type Result struct {
	Posts      int
	OutputPath string
	FeedPath   string
	Duration   time.Duration
}

// Builder renders the post index.
type Builder struct {
	opts Options
}

// New creates a Builder, filling in defaults for unset options.
func New(opts Options) (*Builder, error) {
	if opts.SourceDir == "" {
		return nil, fmt.Errorf("source directory is required")
	}
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if opts.Thumbnail == nil {
		opts.Thumbnail = SharedThumbnail("img.jpg")
	}
	if opts.DescriptionLines == 0 {
		opts.DescriptionLines = posts.DefaultDescriptionLines
	}
	return &Builder{opts: opts}, nil
}

// Build reads every post, renders the index and overwrites the output file.
// The document is fully rendered before anything is written.
func (b *Builder) Build() (*Result, error) {
	start := time.Now()

	found, err := posts.Load(b.opts.SourceDir, b.opts.DescriptionLines)
	if err != nil {
		return nil, err
	}
	posts.SortNewestFirst(found)

	for slug, files := range posts.DuplicateSlugs(found) {
		slog.Warn("posts share a slug, links are ambiguous", "slug", slug, "files", files)
	}

	page, err := Render(b.opts.Header, b.opts.BaseURL, b.opts.Thumbnail, found)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(b.opts.OutputPath, page, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write index: %w", err)
	}
	slog.Debug("index written", "path", b.opts.OutputPath, "posts", len(found), "bytes", len(page))

	result := &Result{
		Posts:      len(found),
		OutputPath: b.opts.OutputPath,
	}

	if b.opts.FeedPath != "" {
		feed, err := RenderFeed(FeedInfo{
			Title:   b.opts.Header.Title,
			Link:    b.opts.BaseURL,
			Author:  b.opts.FeedAuthor,
			SiteURL: b.opts.Header.HomeURL,
		}, b.opts.BaseURL, found)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(b.opts.FeedPath, feed, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write feed: %w", err)
		}
		result.FeedPath = b.opts.FeedPath
	}

	if b.opts.StaticDir != "" {
		dest := filepath.Dir(b.opts.OutputPath)
		slog.Debug("copying static files", "from", b.opts.StaticDir, "to", dest)
		if err := copy.Copy(b.opts.StaticDir, dest); err != nil {
			return nil, fmt.Errorf("failed to copy static files: %w", err)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
