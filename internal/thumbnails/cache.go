package thumbnails

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mfenderov/thoughts/pkg/models"
)

// Cache is a flat directory of {key}.jpg and {key}_prompt.txt pairs.
type Cache struct {
	dir string
}

// NewCache opens the cache directory, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// ImagePath returns where the image for key is stored.
func (c *Cache) ImagePath(key string) string {
	return filepath.Join(c.dir, key+".jpg")
}

// PromptPath returns where the prompt for key is stored.
func (c *Cache) PromptPath(key string) string {
	return filepath.Join(c.dir, key+"_prompt.txt")
}

// Complete reports whether both the prompt and the image exist for key.
func (c *Cache) Complete(key string) bool {
	return exists(c.ImagePath(key)) && exists(c.PromptPath(key))
}

// SavePrompt writes the prompt text for key.
func (c *Cache) SavePrompt(key, prompt string) error {
	if err := os.WriteFile(c.PromptPath(key), []byte(prompt), 0o644); err != nil {
		return fmt.Errorf("failed to save prompt: %w", err)
	}
	return nil
}

// SaveImage writes the image bytes for key.
func (c *Cache) SaveImage(key string, data []byte) error {
	if err := os.WriteFile(c.ImagePath(key), data, 0o644); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Load reads a complete record from the cache.
func (c *Cache) Load(key string) (*models.ThumbnailRecord, error) {
	prompt, err := os.ReadFile(c.PromptPath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt: %w", err)
	}
	image, err := os.ReadFile(c.ImagePath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &models.ThumbnailRecord{Key: key, Prompt: string(prompt), Image: image}, nil
}

// Files lists the regular files in the cache directory.
func (c *Cache) Files() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(c.dir, e.Name()))
		}
	}
	return files, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
