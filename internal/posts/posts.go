package posts

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mfenderov/thoughts/internal/markdown"
	"github.com/mfenderov/thoughts/pkg/models"
)

// DefaultDescriptionLines is how many non-empty lines make up a description.
const DefaultDescriptionLines = 1

// Scan lists the post files directly inside dir in directory order.
// Descriptions are not read; use Load for that.
func Scan(dir string) ([]models.Post, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read post directory: %w", err)
	}

	var found []models.Post
	for _, entry := range entries {
		name := entry.Name()
		if !markdown.IsPostFile(name) {
			continue
		}

		path := filepath.Join(dir, name)
		// Stat follows symlinks, so linked posts report the target's mtime.
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		if info.IsDir() {
			slog.Debug("skipping directory with post extension", "path", path)
			continue
		}

		found = append(found, models.Post{
			Filename: name,
			Path:     path,
			ModTime:  info.ModTime(),
			Title:    models.Stem(name),
			Slug:     models.URLSlug(name),
		})
	}

	return found, nil
}

// Load scans dir and fills in each post's description.
func Load(dir string, descriptionLines int) ([]models.Post, error) {
	found, err := Scan(dir)
	if err != nil {
		return nil, err
	}

	for i := range found {
		desc, err := ExtractDescription(found[i].Path, descriptionLines)
		if err != nil {
			return nil, err
		}
		found[i].Description = desc
	}

	return found, nil
}

// SortNewestFirst orders posts by modification time, most recent first.
// Posts with equal times keep their relative order.
func SortNewestFirst(ps []models.Post) {
	slices.SortStableFunc(ps, func(a, b models.Post) int {
		return b.ModTime.Compare(a.ModTime)
	})
}

// ExtractDescription returns the first maxLines non-empty lines of a post,
// joined with a space, with inline markdown links rewritten to anchors.
func ExtractDescription(path string, maxLines int) (string, error) {
	if maxLines <= 0 {
		return "", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open post: %w", err)
	}
	defer f.Close()

	// No line length limit: minified HTML posts are a single line.
	r := bufio.NewReader(f)

	var lines []string
	for len(lines) < maxLines {
		raw, err := r.ReadString('\n')
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read post %s: %w", filepath.Base(path), err)
		}
	}

	return markdown.ConvertLinks(strings.Join(lines, " ")), nil
}

// ReadBody returns the full post text with surrounding whitespace trimmed.
func ReadBody(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read post: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// DuplicateSlugs returns slugs shared by more than one post, mapped to the
// filenames that produce them.
func DuplicateSlugs(ps []models.Post) map[string][]string {
	bySlug := make(map[string][]string, len(ps))
	for _, p := range ps {
		bySlug[p.Slug] = append(bySlug[p.Slug], p.Filename)
	}
	for slug, files := range bySlug {
		if len(files) < 2 {
			delete(bySlug, slug)
		}
	}
	return bySlug
}
