package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Request payload flavours understood by Generate.
const (
	ProviderOpenAI   = "openai"   // size/quality, e.g. dall-e-3
	ProviderTogether = "together" // steps/width/height, e.g. FLUX.1-schnell
)

// Config holds image generation client configuration.
type Config struct {
	Provider string // ProviderOpenAI when empty
	BaseURL  string // e.g. "https://api.openai.com/v1"
	APIKey   string
	Model    string // e.g. "dall-e-3"
	Size     string // e.g. "1024x1024"
	Quality  string // e.g. "standard"
	Timeout  time.Duration

	// Together only.
	Steps         int     // default 4
	Width         int     // default 512
	Height        int     // default 512
	GuidanceScale float64 // omitted when 0
	OutputFormat  string  // default "jpeg"
}

// Client wraps an OpenAI-compatible image generations API.
type Client struct {
	httpClient *http.Client
	provider   string
	baseURL    string
	apiKey     string
	model      string
	size       string
	quality    string

	steps         int
	width         int
	height        int
	guidanceScale float64
	outputFormat  string
}

// New creates a new image generation client.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	switch config.Provider {
	case "":
		config.Provider = ProviderOpenAI
	case ProviderOpenAI, ProviderTogether:
	default:
		return nil, fmt.Errorf("unknown image provider %q", config.Provider)
	}
	if config.Size == "" {
		config.Size = "1024x1024"
	}
	if config.Steps == 0 {
		config.Steps = 4
	}
	if config.Width == 0 {
		config.Width = 512
	}
	if config.Height == 0 {
		config.Height = 512
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "jpeg"
	}

	return &Client{
		httpClient:    &http.Client{Timeout: config.Timeout},
		provider:      config.Provider,
		baseURL:       strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:        config.APIKey,
		model:         config.Model,
		size:          config.Size,
		quality:       config.Quality,
		steps:         config.Steps,
		width:         config.Width,
		height:        config.Height,
		guidanceScale: config.GuidanceScale,
		outputFormat:  config.OutputFormat,
	}, nil
}

// generationRequest is the request payload for the image generations API.
type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format"`
}

// togetherRequest is the request payload for Together's image generations API.
type togetherRequest struct {
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt"`
	N              int     `json:"n"`
	Steps          int     `json:"steps"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	GuidanceScale  float64 `json:"guidance_scale,omitempty"`
	OutputFormat   string  `json:"output_format"`
	ResponseFormat string  `json:"response_format"`
}

// generationResponse is the response from the image generations API.
type generationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) payload(prompt string) any {
	if c.provider == ProviderTogether {
		return togetherRequest{
			Model:          c.model,
			Prompt:         prompt,
			N:              1,
			Steps:          c.steps,
			Width:          c.width,
			Height:         c.height,
			GuidanceScale:  c.guidanceScale,
			OutputFormat:   c.outputFormat,
			ResponseFormat: "url",
		}
	}
	return generationRequest{
		Model:          c.model,
		Prompt:         prompt,
		N:              1,
		Size:           c.size,
		Quality:        c.quality,
		ResponseFormat: "url",
	}
}

// Generate requests a single square image for prompt and returns its URL.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(c.payload(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	respBody, err := c.do(httpReq)
	if err != nil {
		return "", err
	}

	var genResp generationResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if genResp.Error != nil {
		return "", fmt.Errorf("API error: %s", genResp.Error.Message)
	}

	if len(genResp.Data) == 0 || genResp.Data[0].URL == "" {
		return "", fmt.Errorf("no image returned")
	}

	return genResp.Data[0].URL, nil
}

// Download fetches the image at url and returns its raw bytes.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	data, err := c.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	slog.Debug("image downloaded", "bytes", len(data))
	return data, nil
}

// GenerateImage generates an image for prompt and downloads it.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	url, err := c.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}
	return c.Download(ctx, url)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
