// Package imagegen calls the external text-to-image generation API.
package imagegen

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chatter/config"
	"chatter/internal/domain/service"

	"github.com/pkg/errors"
)

const defaultTimeout = 60 * time.Second

// generateResponse is the wire shape of a successful generation call.
type generateResponse struct {
	ID        string `json:"id"`
	OutputURL string `json:"output_url"`
}

// client implements service.ImageGenerator against a DeepAI-style HTTP API:
// a form-encoded POST carrying the prompt, answered with a JSON body that
// holds the hosted image URL.
type client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient is the constructor for the image-generation client. The HTTP
// client carries an explicit timeout; the transport default is not trusted
// for a call that can take tens of seconds.
func NewClient(cfg *config.Config, logger *slog.Logger) (service.ImageGenerator, error) {
	if cfg.ImageGen == nil || cfg.ImageGen.Endpoint == "" {
		return nil, errors.New("image generation endpoint must be configured")
	}

	timeout := cfg.ImageGen.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		endpoint: cfg.ImageGen.Endpoint,
		apiKey:   cfg.ImageGen.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// Generate submits the prompt and returns the URL of the generated image.
func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	form := url.Values{}
	form.Set("text", prompt)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to build image generation request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	c.logger.Debug("Calling image generation API", slog.String("endpoint", c.endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "image generation request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return "", errors.Errorf("image generation returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "failed to decode image generation response")
	}

	if payload.OutputURL == "" {
		return "", errors.New("image generation response missing output url")
	}

	return payload.OutputURL, nil
}
