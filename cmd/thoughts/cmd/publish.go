package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/mfenderov/thoughts/internal/storage"
	"github.com/mfenderov/thoughts/internal/thumbnails"
	"github.com/spf13/cobra"
)

var publishSkipThumbnails bool

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the index and thumbnails to object storage",
	Long: `Upload the generated index page, the feed (if configured) and the
thumbnail cache to an S3-compatible bucket.

Run "thoughts index" first; publish uploads whatever is on disk.

Examples:
  # Publish everything
  thoughts publish

  # Publish only the index page
  thoughts publish --skip-thumbnails`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().BoolVar(&publishSkipThumbnails, "skip-thumbnails", false, "upload only the index and feed")
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	slog.Debug("publish command starting", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)

	if cfg.Storage.Endpoint == "" {
		return fmt.Errorf("storage not configured - check config file")
	}

	client, err := storage.New(storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Bucket:          cfg.Storage.Bucket,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		UseSSL:          cfg.Storage.UseSSL,
		Prefix:          cfg.Storage.Prefix,
	})
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	if err := client.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("failed to ensure bucket: %w", err)
	}

	pages := []string{cfg.Index.OutputPath}
	if cfg.Index.FeedPath != "" {
		pages = append(pages, cfg.Index.FeedPath)
	}
	uploaded, err := client.UploadFiles(ctx, pages, "")
	if err != nil {
		return err
	}

	if !publishSkipThumbnails {
		cache, err := thumbnails.NewCache(cfg.Thumbnails.CacheDir)
		if err != nil {
			return err
		}
		files, err := cache.Files()
		if err != nil {
			return err
		}
		thumbs, err := client.UploadFiles(ctx, files, "thumbnails")
		if err != nil {
			return err
		}
		uploaded = append(uploaded, thumbs...)
	}

	fmt.Printf("Published %d objects to bucket %s\n", len(uploaded), client.Bucket())
	return nil
}
