// Package shorten wraps the TinyURL link-shortening API.
package shorten

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/royriv3r/fxtwitch/internal/domain"
)

// DefaultAPIURL is the TinyURL creation endpoint.
const DefaultAPIURL = "https://tinyurl.com/api-create.php"

// Client shortens URLs via TinyURL. It is independent of clip resolution
// and is not invoked by the HTTP handlers.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// Config configures a shortener Client.
type Config struct {
	// APIURL overrides the endpoint, mainly for tests. Defaults to
	// DefaultAPIURL.
	APIURL  string
	Timeout time.Duration
}

// NewClient creates a TinyURL client.
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiURL: cfg.APIURL,
	}
}

// Shorten returns a shortened form of the given URL.
func (c *Client) Shorten(ctx context.Context, longURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		c.apiURL+"?url="+url.QueryEscape(longURL), nil)
	if err != nil {
		return "", fmt.Errorf("create shorten request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("shorten request failed: %v: %w", err, domain.ErrUpstreamShorten)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("shortener returned %s: %w", resp.Status, domain.ErrUpstreamShorten)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read shortener response: %v: %w", err, domain.ErrUpstreamShorten)
	}

	return strings.TrimSpace(string(body)), nil
}
