// Package openai implements the reasoning and image backends against any
// OpenAI-compatible HTTP API.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/example/muse/internal/ports/secondary"
)

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultTextModel  = "gpt-4o"
	DefaultImageModel = "dall-e-3"
)

// Config holds the settings for an OpenAI-compatible client.
type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	HTTPClient *http.Client
}

// Client talks to an OpenAI-compatible API.
type Client struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	http       *http.Client
}

// New creates a client. It does not contact the API.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		http:       cfg.HTTPClient,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends a single user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var resp chatResponse
	err := c.post(ctx, "/chat/completions", chatRequest{
		Model:    c.textModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", secondary.ErrBackendUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage renders one image and returns its decoded bytes.
func (c *Client) GenerateImage(ctx context.Context, description string) ([]byte, error) {
	var resp imageResponse
	err := c.post(ctx, "/images/generations", imageRequest{
		Model:          c.imageModel,
		Prompt:         description,
		N:              1,
		ResponseFormat: "b64_json",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("%w: openai returned no image", secondary.ErrBackendUnavailable)
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid image encoding: %w", secondary.ErrBackendUnavailable, err)
	}
	return data, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", secondary.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", secondary.ErrBackendUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: %s: status %d: %s", secondary.ErrBackendUnavailable, path, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: %s: status %d: %s", secondary.ErrBackendUnavailable, path, resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", secondary.ErrBackendUnavailable, err)
	}
	return nil
}

var (
	_ secondary.ReasoningBackend = (*Client)(nil)
	_ secondary.ImageBackend     = (*Client)(nil)
)
