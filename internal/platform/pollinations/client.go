// Package pollinations implements generation.ImageGenerator against the
// Pollinations text-to-image HTTP endpoint.
//
// The visual prompt is wrapped in a configurable style prompt, path-escaped
// onto the base URL, and the response body is written to the requested path.
// In lenient mode any failure is logged and reported as "no image"; in strict
// mode it is returned wrapped in generation.ErrImageFailed.
package pollinations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phrazzld/antiflow-api/internal/config"
	"github.com/phrazzld/antiflow-api/internal/generation"
	"github.com/spf13/afero"
	"resty.dev/v3"
)

// PromptPlaceholder marks where the scene's visual prompt goes in the style prompt.
const PromptPlaceholder = "{prompt}"

// Client renders scene images through Pollinations.
type Client struct {
	http        *resty.Client
	baseURL     string
	stylePrompt string
	strict      bool
	fs          afero.Fs
	logger      *slog.Logger
}

var _ generation.ImageGenerator = (*Client)(nil)

// NewClient creates a Client writing images through fs.
func NewClient(logger *slog.Logger, cfg config.ImageConfig, fs afero.Fs) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if fs == nil {
		return nil, errors.New("filesystem cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: image base URL cannot be empty", generation.ErrInvalidConfig)
	}

	httpClient := resty.New()
	if cfg.TimeoutSeconds > 0 {
		httpClient.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}

	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Client{
		http:        httpClient,
		baseURL:     baseURL,
		stylePrompt: cfg.StylePrompt,
		strict:      cfg.Strict,
		fs:          fs,
		logger:      logger.With("component", "pollinations"),
	}, nil
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

// StyledPrompt applies the style prompt to a visual prompt. A style prompt
// without the placeholder is appended after the visual prompt.
func (c *Client) StyledPrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	switch {
	case c.stylePrompt == "":
		return prompt
	case strings.Contains(c.stylePrompt, PromptPlaceholder):
		return strings.ReplaceAll(c.stylePrompt, PromptPlaceholder, prompt)
	default:
		return prompt + ", " + c.stylePrompt
	}
}

// RequestURL returns the endpoint URL for a visual prompt.
func (c *Client) RequestURL(prompt string) string {
	return c.baseURL + url.PathEscape(c.StyledPrompt(prompt))
}

// GenerateImage downloads an image for prompt into outputPath.
func (c *Client) GenerateImage(ctx context.Context, prompt, outputPath string) (string, error) {
	path, err := c.fetch(ctx, prompt, outputPath)
	if err == nil {
		return path, nil
	}

	if c.strict {
		return "", err
	}
	c.logger.WarnContext(ctx, "image generation failed, continuing without image",
		"output_path", outputPath,
		"error", err)
	return "", nil
}

func (c *Client) fetch(ctx context.Context, prompt, outputPath string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: visual prompt is empty", generation.ErrImageFailed)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.RequestURL(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", generation.ErrImageFailed, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", generation.ErrImageFailed, resp.StatusCode())
	}

	body := resp.Bytes()
	if len(body) == 0 {
		return "", fmt.Errorf("%w: empty response body", generation.ErrImageFailed)
	}
	if err := afero.WriteFile(c.fs, outputPath, body, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", generation.ErrImageFailed, outputPath, err)
	}

	c.logger.DebugContext(ctx, "image generated",
		"output_path", outputPath,
		"bytes", len(body))
	return outputPath, nil
}
