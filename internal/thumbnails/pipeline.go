package thumbnails

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfenderov/thoughts/internal/images"
	"github.com/mfenderov/thoughts/internal/posts"
	"github.com/mfenderov/thoughts/internal/processor"
	"github.com/mfenderov/thoughts/pkg/models"
)

// PromptGenerator writes an image prompt for a post.
type PromptGenerator interface {
	GenerateImagePrompt(ctx context.Context, post string) (string, error)
}

// ImageGenerator produces image bytes for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Config holds pipeline configuration.
type Config struct {
	MaxWidth int  // Downscale generated images wider than this; 0 keeps them as downloaded
	DryRun   bool // Report missing thumbnails without calling any API
}

// Result holds pipeline execution results.
type Result struct {
	Posts     int
	Generated int
	Skipped   int
	Pending   []string // Cache keys that would be generated in a dry run
	Duration  time.Duration
}

// Pipeline generates a thumbnail for every post missing one.
type Pipeline struct {
	config    Config
	cache     *Cache
	prompts   PromptGenerator
	images    ImageGenerator
	processor *processor.Processor
}

// New creates a new Pipeline.
func New(config Config, cache *Cache, prompts PromptGenerator, imgs ImageGenerator) *Pipeline {
	return &Pipeline{
		config:    config,
		cache:     cache,
		prompts:   prompts,
		images:    imgs,
		processor: processor.New(),
	}
}

// Run processes every post in sourceDir, one at a time. The first error
// aborts the run; posts already written stay in the cache.
func (p *Pipeline) Run(ctx context.Context, sourceDir string) (*Result, error) {
	start := time.Now()
	result := &Result{}

	found, err := posts.Scan(sourceDir)
	if err != nil {
		return nil, err
	}
	result.Posts = len(found)

	for _, post := range found {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		key := models.CacheKey(post.Filename)
		if p.cache.Complete(key) {
			slog.Debug("thumbnail cached, skipping", "post", post.Filename, "key", key)
			result.Skipped++
			continue
		}

		if p.config.DryRun {
			result.Pending = append(result.Pending, key)
			continue
		}

		if err := p.generate(ctx, post, key); err != nil {
			return result, fmt.Errorf("post %s: %w", post.Filename, err)
		}
		result.Generated++
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (p *Pipeline) generate(ctx context.Context, post models.Post, key string) error {
	slog.Info("generating thumbnail", "post", post.Filename, "key", key)

	body, err := posts.ReadBody(post.Path)
	if err != nil {
		return err
	}
	text, err := p.processor.PostText(post.Filename, body)
	if err != nil {
		return fmt.Errorf("failed to convert post: %w", err)
	}

	prompt, err := p.prompts.GenerateImagePrompt(ctx, text)
	if err != nil {
		return err
	}
	slog.Debug("prompt generated", "key", key, "prompt", prompt)

	if err := p.cache.SavePrompt(key, prompt); err != nil {
		return err
	}

	data, err := p.images.GenerateImage(ctx, prompt)
	if err != nil {
		return err
	}

	data, err = images.Resize(data, p.config.MaxWidth)
	if err != nil {
		return err
	}

	if err := p.cache.SaveImage(key, data); err != nil {
		return err
	}
	slog.Info("thumbnail saved", "path", p.cache.ImagePath(key), "bytes", len(data))
	return nil
}
