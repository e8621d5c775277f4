package config

import "time"

// Config holds all application configuration.
type Config struct {
	Site       Site       `mapstructure:"site"`
	Index      Index      `mapstructure:"index"`
	Thumbnails Thumbnails `mapstructure:"thumbnails"`
	LLM        LLM        `mapstructure:"llm"`
	Images     Images     `mapstructure:"images"`
	Storage    Storage    `mapstructure:"storage"`
}

// Site holds the strings used in the index page header and the feed.
type Site struct {
	Title       string `mapstructure:"title"`
	Author      string `mapstructure:"author"`
	HomeURL     string `mapstructure:"home_url"`
	ThoughtsURL string `mapstructure:"thoughts_url"`
	Stylesheet  string `mapstructure:"stylesheet"`
}

// Thumbnail modes for the index page.
const (
	ThumbnailShared  = "shared"   // one image for every post
	ThumbnailPerPost = "per-post" // generated image per post, from the cache layout
)

// Index holds index builder configuration.
type Index struct {
	SourceDir          string        `mapstructure:"source_dir"`
	OutputPath         string        `mapstructure:"output_path"`
	BaseURL            string        `mapstructure:"base_url"`
	ThumbnailMode      string        `mapstructure:"thumbnail_mode"`
	ThumbnailPath      string        `mapstructure:"thumbnail_path"`
	ThumbnailURLPrefix string        `mapstructure:"thumbnail_url_prefix"`
	DescriptionLines   int           `mapstructure:"description_lines"`
	FeedPath           string        `mapstructure:"feed_path"`
	StaticDir          string        `mapstructure:"static_dir"`
	WatchInterval      time.Duration `mapstructure:"watch_interval"`
}

// Thumbnails holds thumbnail generator configuration.
type Thumbnails struct {
	SourceDir string `mapstructure:"source_dir"` // defaults to index.source_dir when empty
	CacheDir  string `mapstructure:"cache_dir"`
	MaxWidth  int    `mapstructure:"max_width"` // 0 keeps the downloaded bytes untouched
}

// LLM holds chat completion configuration used to write image prompts.
type LLM struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Images holds image generation configuration.
type Images struct {
	Provider string        `mapstructure:"provider"` // openai | together
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Size     string        `mapstructure:"size"`
	Quality  string        `mapstructure:"quality"`
	Timeout  time.Duration `mapstructure:"timeout"`

	Steps         int     `mapstructure:"steps"`
	Width         int     `mapstructure:"width"`
	Height        int     `mapstructure:"height"`
	GuidanceScale float64 `mapstructure:"guidance_scale"`
	OutputFormat  string  `mapstructure:"output_format"`
}

// Storage holds S3/MinIO configuration for publishing the site.
type Storage struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Prefix          string `mapstructure:"prefix"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Site: Site{
			Title:       "Alek Thoughts",
			Author:      "Alek",
			HomeURL:     "https://awestover.github.io",
			ThoughtsURL: "https://awestover.github.io/thoughts",
			Stylesheet:  "style.css",
		},
		Index: Index{
			SourceDir:          "../2blog/content/0stack",
			OutputPath:         "index.html",
			BaseURL:            "https://awestover.github.io/thoughts/0stack/",
			ThumbnailMode:      ThumbnailShared,
			ThumbnailPath:      "img.jpg",
			ThumbnailURLPrefix: "thumbnails/",
			DescriptionLines:   1,
			WatchInterval:      200 * time.Millisecond,
		},
		Thumbnails: Thumbnails{
			CacheDir: "thumbnails",
		},
		LLM: LLM{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4.1-mini",
			MaxTokens:   200,
			Temperature: 0.7,
			Timeout:     0, // no timeout, like the original scripts
		},
		Images: Images{
			Provider: "openai",
			BaseURL:  "https://api.openai.com/v1",
			Model:    "dall-e-3",
			Size:     "1024x1024",
			Quality:  "standard",
			Timeout:  0,
		},
		Storage: Storage{
			Endpoint: "", // publishing is disabled until an endpoint is set
			Bucket:   "thoughts",
			UseSSL:   true,
		},
	}
}

// ThumbnailSourceDir returns the directory the thumbnail generator reads.
func (c Config) ThumbnailSourceDir() string {
	if c.Thumbnails.SourceDir != "" {
		return c.Thumbnails.SourceDir
	}
	return c.Index.SourceDir
}
