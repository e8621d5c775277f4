package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds S3/MinIO client configuration.
type Config struct {
	Endpoint        string // "localhost:9000" for MinIO
	Bucket          string // "thoughts"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Prefix          string // Prepended to every object key
}

// Client wraps the MinIO/S3 client for publishing the site.
type Client struct {
	minioClient *minio.Client
	bucket      string
	prefix      string
}

// New creates a new S3/MinIO client.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	minioClient, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{
		minioClient: minioClient,
		bucket:      config.Bucket,
		prefix:      config.Prefix,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	err = c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// ObjectKey returns the object name used for a file uploaded under dir.
func (c *Client) ObjectKey(dir, filename string) string {
	return path.Join(c.prefix, dir, filepath.Base(filename))
}

// UploadFile uploads a local file as dir/<basename>.
func (c *Client) UploadFile(ctx context.Context, localPath, dir string) (string, error) {
	objectName := c.ObjectKey(dir, localPath)

	_, err := c.minioClient.FPutObject(ctx, c.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: ContentType(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", localPath, err)
	}
	slog.Debug("uploaded", "file", localPath, "object", objectName)
	return objectName, nil
}

// UploadFiles uploads files into dir and returns the object names.
// It stops at the first failure.
func (c *Client) UploadFiles(ctx context.Context, files []string, dir string) ([]string, error) {
	objects := make([]string, 0, len(files))
	for _, f := range files {
		name, err := c.UploadFile(ctx, f, dir)
		if err != nil {
			return objects, err
		}
		objects = append(objects, name)
	}
	return objects, nil
}

// ContentType guesses the MIME type of a site file from its extension.
func ContentType(filename string) string {
	switch filepath.Ext(filename) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".xml":
		return "application/atom+xml"
	case ".txt":
		return "text/plain; charset=utf-8"
	}
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}
