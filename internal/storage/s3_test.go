package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty endpoint",
			config:  Config{Endpoint: "", Bucket: "test"},
			wantErr: true,
		},
		{
			name:    "empty bucket",
			config:  Config{Endpoint: "localhost:9000", Bucket: ""},
			wantErr: true,
		},
		{
			name: "valid config",
			config: Config{
				Endpoint:        "localhost:9000",
				Bucket:          "test",
				AccessKeyID:     "minioadmin",
				SecretAccessKey: "minioadmin",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	client, err := New(Config{Endpoint: "localhost:9000", Bucket: "test", Prefix: "site"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		dir, file, want string
	}{
		{"", "/out/index.html", "site/index.html"},
		{"thumbnails", "/cache/Hello-World.jpg", "site/thumbnails/Hello-World.jpg"},
	}
	for _, tt := range tests {
		if got := client.ObjectKey(tt.dir, tt.file); got != tt.want {
			t.Errorf("ObjectKey(%q, %q) = %q, want %q", tt.dir, tt.file, got, tt.want)
		}
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"index.html", "text/html; charset=utf-8"},
		{"index.xml", "application/atom+xml"},
		{"post_prompt.txt", "text/plain; charset=utf-8"},
		{"post.jpg", "image/jpeg"},
		{"blob", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			if got := ContentType(tt.file); got != tt.want {
				t.Errorf("ContentType(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

// TestIntegration_Upload tests actual uploads against MinIO.
// Skip if MinIO is not running.
func TestIntegration_Upload(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}

	client, err := New(Config{
		Endpoint:        endpoint,
		Bucket:          "thoughts-test",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		UseSSL:          false,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.EnsureBucket(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "index.html")
	if err := os.WriteFile(file, []byte("<!DOCTYPE html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	objects, err := client.UploadFiles(ctx, []string{file}, "")
	if err != nil {
		t.Fatalf("UploadFiles() error = %v", err)
	}
	if len(objects) != 1 || objects[0] != "index.html" {
		t.Errorf("UploadFiles() = %v, want [index.html]", objects)
	}
}
