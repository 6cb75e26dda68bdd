package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// VariantSpec describes one rendition of a source image.
type VariantSpec struct {
	Name    string `json:"-"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Fit     string `json:"fit"` // "fill" crops to the exact box
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

// Key identifies the spec inside cache keys.
func (s VariantSpec) Key() string {
	return fmt.Sprintf("%s:%dx%d:%s:q%d", s.Name, s.Width, s.Height, s.Format, s.Quality)
}

type renderRequest struct {
	Source string `json:"source"`
	VariantSpec
}

type renderResponse struct {
	URL string `json:"url"`
}

// ImageResizer talks to the external resizing sidecar: it sends a source
// path and a spec and gets back the URL of the pre-rendered variant.
type ImageResizer struct {
	baseURL    string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

func NewImageResizer(baseURL string, breaker *CircuitBreaker) *ImageResizer {
	if breaker == nil {
		breaker = NewCircuitBreaker(DefaultBreakerConfig())
	}
	return &ImageResizer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
		breaker:    breaker,
	}
}

// Breaker exposes the breaker state for the health endpoint.
func (c *ImageResizer) Breaker() *CircuitBreaker { return c.breaker }

// Render asks the sidecar for the variant URL of source.
func (c *ImageResizer) Render(ctx context.Context, source string, spec VariantSpec) (string, error) {
	var url string
	err := c.breaker.Execute(func() error {
		var err error
		url, err = c.render(ctx, source, spec)
		return err
	})
	return url, err
}

func (c *ImageResizer) render(ctx context.Context, source string, spec VariantSpec) (string, error) {
	body, err := json.Marshal(renderRequest{Source: source, VariantSpec: spec})
	if err != nil {
		return "", fmt.Errorf("resizer: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("resizer: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("resizer: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resizer: returned %d", resp.StatusCode)
	}

	var out renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("resizer: decode response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("resizer: empty url for %s", source)
	}
	return out.URL, nil
}
