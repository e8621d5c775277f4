package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/mfenderov/thoughts/internal/config"
	"github.com/mfenderov/thoughts/internal/index"
	"github.com/spf13/cobra"
)

var indexWatch bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Render the post index page",
	Long: `Render one HTML page listing every .md and .html post in the source
directory, most recently modified first.

Examples:
  # Build with the configured paths
  thoughts index

  # Build from a specific directory
  thoughts index --source ~/blog/posts --output site/index.html

  # Link each post to its generated thumbnail
  thoughts index --thumbnail-mode per-post

  # Rebuild whenever a post changes
  thoughts index --watch`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().String("source", "", "directory of posts (overrides index.source_dir)")
	indexCmd.Flags().String("output", "", "index file to write (overrides index.output_path)")
	indexCmd.Flags().String("base-url", "", "URL prefix of post links (overrides index.base_url)")
	indexCmd.Flags().String("thumbnail", "", "shared thumbnail path (overrides index.thumbnail_path)")
	indexCmd.Flags().String("thumbnail-mode", "", "shared or per-post (overrides index.thumbnail_mode)")
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "keep running and rebuild on changes")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	stringFlag(cmd, "source", &cfg.Index.SourceDir)
	stringFlag(cmd, "output", &cfg.Index.OutputPath)
	stringFlag(cmd, "base-url", &cfg.Index.BaseURL)
	stringFlag(cmd, "thumbnail", &cfg.Index.ThumbnailPath)
	stringFlag(cmd, "thumbnail-mode", &cfg.Index.ThumbnailMode)

	slog.Debug("index command starting", "source", cfg.Index.SourceDir, "output", cfg.Index.OutputPath)

	builder, err := newIndexBuilder(cfg)
	if err != nil {
		return err
	}

	if !indexWatch {
		if _, err := builder.Build(); err != nil {
			return fmt.Errorf("index build failed: %w", err)
		}
		fmt.Printf("Wrote index to %s\n", cfg.Index.OutputPath)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s for changes...\n", cfg.Index.SourceDir)
	return builder.Watch(ctx, cfg.Index.WatchInterval, func(result *index.Result, err error) {
		if err != nil {
			slog.Error("index build failed", "error", err)
			return
		}
		fmt.Printf("Wrote index to %s (%d posts)\n", result.OutputPath, result.Posts)
	})
}

func newIndexBuilder(cfg config.Config) (*index.Builder, error) {
	var thumbnail index.ThumbnailFunc
	switch cfg.Index.ThumbnailMode {
	case "", config.ThumbnailShared:
		thumbnail = index.SharedThumbnail(cfg.Index.ThumbnailPath)
	case config.ThumbnailPerPost:
		thumbnail = index.PerPostThumbnail(cfg.Index.ThumbnailURLPrefix)
	default:
		return nil, fmt.Errorf("unknown thumbnail mode %q (want %q or %q)",
			cfg.Index.ThumbnailMode, config.ThumbnailShared, config.ThumbnailPerPost)
	}

	return index.New(index.Options{
		SourceDir:        cfg.Index.SourceDir,
		OutputPath:       cfg.Index.OutputPath,
		BaseURL:          cfg.Index.BaseURL,
		Thumbnail:        thumbnail,
		DescriptionLines: cfg.Index.DescriptionLines,
		Header: index.Header{
			Title:       cfg.Site.Title,
			Author:      cfg.Site.Author,
			HomeURL:     cfg.Site.HomeURL,
			ThoughtsURL: cfg.Site.ThoughtsURL,
			Stylesheet:  cfg.Site.Stylesheet,
		},
		FeedPath:   cfg.Index.FeedPath,
		FeedAuthor: cfg.Site.Author,
		StaticDir:  cfg.Index.StaticDir,
	})
}
