package llm

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

// Config holds LLM client configuration.
type Config struct {
	BaseURL     string  // e.g. "https://api.openai.com/v1"
	APIKey      string  // Sent as a bearer token; not validated up front
	Model       string  // e.g. "gpt-4.1-mini"
	MaxTokens   int     // 0 means no limit
	Temperature float64
	Timeout     time.Duration // 0 means no timeout
}

// Client wraps an OpenAI-compatible chat completions API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// New creates a new LLM client.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &Client{
		httpClient:  &http.Client{Timeout: config.Timeout},
		baseURL:     strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:      config.APIKey,
		model:       config.Model,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
	}, nil
}

// chatRequest is the request payload for the chat completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"` // Limit response length
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response from the chat completions API.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a prompt to the LLM and returns the response.
// A zero MaxTokens in the config applies no limit.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response returned")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// NoTextSuffix is appended to every generated prompt.
const NoTextSuffix = " No text or letters in the image."

const imagePromptTemplate = `You are an expert in crafting effective image generation prompts.
Your task is to read the blog post below and write a concise, vivid prompt suitable for an image generation model.

Requirements:

Focus on the main themes, visuals, or metaphors from the blog post

Use clear, concrete language (e.g., "a winding mountain path at dawn" or "a stylized figure reaching toward stars")

Include relevant objects, scenes, or abstract representations

If humans are included, describe them as stylized, cartoon-like, or abstract, not realistic

Limit the prompt to under 150 words

DO NOT instruct the model to generate ANY text in the image.
No words, no letters, nothing of the sort!

Output only the image generation prompt, no extra text or explanation

Blog post:
%s
`

// GenerateImagePrompt asks the LLM to turn a blog post into an
// illustration prompt.
func (c *Client) GenerateImagePrompt(ctx context.Context, post string) (string, error) {
	slog.Debug("generating image prompt", "post_len", len(post))

	prompt, err := c.Complete(ctx, fmt.Sprintf(imagePromptTemplate, post))
	if err != nil {
		return "", fmt.Errorf("failed to generate image prompt: %w", err)
	}

	return prompt + NoTextSuffix, nil
}
