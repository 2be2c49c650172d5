// Package gemini implements the reasoning and image backends on the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/example/muse/internal/ports/secondary"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"
)

// Config holds the settings for a Gemini client.
type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
	BaseURL    string       // optional, for tests and gateways
	HTTPClient *http.Client // optional, carries proxy settings
}

// Client talks to the Gemini API.
type Client struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

// New creates a Gemini client. It does not contact the API.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{
		client:     client,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
	}, nil
}

// Complete sends a single-turn prompt and returns the response text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate content: %w", secondary.ErrBackendUnavailable, err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", secondary.ErrBackendUnavailable)
	}
	return resp.Text(), nil
}

// GenerateImage renders one image for the description.
func (c *Client) GenerateImage(ctx context.Context, description string) ([]byte, error) {
	resp, err := c.client.Models.GenerateImages(ctx, c.imageModel, description, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: gemini generate images: %w", secondary.ErrBackendUnavailable, err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("%w: gemini returned no image", secondary.ErrBackendUnavailable)
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

var (
	_ secondary.ReasoningBackend = (*Client)(nil)
	_ secondary.ImageBackend     = (*Client)(nil)
)
