package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/mfenderov/thoughts/internal/images"
	"github.com/mfenderov/thoughts/internal/llm"
	"github.com/mfenderov/thoughts/internal/thumbnails"
	"github.com/spf13/cobra"
)

var thumbnailsDryRun bool

var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Generate missing post thumbnails",
	Long: `Generate an illustration for every post that has no cached thumbnail.

For each post, a chat model writes an image prompt from the post text and an
image model draws it. Both the prompt ({key}_prompt.txt) and the image
({key}.jpg) are stored in the cache directory; posts with both files are
skipped. The first API error stops the run.

Examples:
  # Generate with the configured paths
  thoughts thumbnails

  # See which posts still need a thumbnail
  thoughts thumbnails --dry-run`,
	RunE: runThumbnails,
}

func init() {
	rootCmd.AddCommand(thumbnailsCmd)

	thumbnailsCmd.Flags().String("source", "", "directory of posts (overrides thumbnails.source_dir)")
	thumbnailsCmd.Flags().String("cache-dir", "", "thumbnail cache directory (overrides thumbnails.cache_dir)")
	thumbnailsCmd.Flags().BoolVar(&thumbnailsDryRun, "dry-run", false, "list missing thumbnails without calling any API")
}

func runThumbnails(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	cfg.Thumbnails.SourceDir = cfg.ThumbnailSourceDir()
	stringFlag(cmd, "source", &cfg.Thumbnails.SourceDir)
	stringFlag(cmd, "cache-dir", &cfg.Thumbnails.CacheDir)

	slog.Debug("thumbnails command starting", "source", cfg.Thumbnails.SourceDir, "cache", cfg.Thumbnails.CacheDir)

	cache, err := thumbnails.NewCache(cfg.Thumbnails.CacheDir)
	if err != nil {
		return err
	}

	llmClient, err := llm.New(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	imageClient, err := images.New(images.Config{
		Provider:      cfg.Images.Provider,
		BaseURL:       cfg.Images.BaseURL,
		APIKey:        cfg.Images.APIKey,
		Model:         cfg.Images.Model,
		Size:          cfg.Images.Size,
		Quality:       cfg.Images.Quality,
		Timeout:       cfg.Images.Timeout,
		Steps:         cfg.Images.Steps,
		Width:         cfg.Images.Width,
		Height:        cfg.Images.Height,
		GuidanceScale: cfg.Images.GuidanceScale,
		OutputFormat:  cfg.Images.OutputFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to create image client: %w", err)
	}

	pipeline := thumbnails.New(thumbnails.Config{
		MaxWidth: cfg.Thumbnails.MaxWidth,
		DryRun:   thumbnailsDryRun,
	}, cache, llmClient, imageClient)

	fmt.Printf("Generating thumbnails: %s -> %s\n", cfg.Thumbnails.SourceDir, cache.Dir())

	result, err := pipeline.Run(ctx, cfg.Thumbnails.SourceDir)
	if err != nil {
		return fmt.Errorf("thumbnail generation failed: %w", err)
	}

	if thumbnailsDryRun {
		fmt.Printf("\n%d of %d posts need a thumbnail:\n", len(result.Pending), result.Posts)
		for _, key := range result.Pending {
			fmt.Printf("  - %s\n", key)
		}
		return nil
	}

	fmt.Printf("\nProcessing complete:\n")
	fmt.Printf("  Posts: %d\n", result.Posts)
	fmt.Printf("  Generated: %d\n", result.Generated)
	fmt.Printf("  Skipped: %d\n", result.Skipped)
	fmt.Printf("  Duration: %v\n", result.Duration)

	return nil
}
