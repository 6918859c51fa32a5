// Package fetch is the HTTP/JSON transport to the cooking-session server.
// It is the only package in the client that performs I/O.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/ottoguide/internal/domain"
	"github.com/hammamikhairi/ottoguide/internal/logger"
)

// Compile-time interface check.
var _ domain.CookingAPI = (*Client)(nil)

// Endpoint paths served by the cooking-session server.
const (
	PathTimer     = "/timer"
	PathStatus    = "/current_status"
	PathNutrition = "/nutrition"
	PathRecipe    = "/recipe"
	PathProgress  = "/progress"
)

// HeaderRequestID carries a per-request UUID so client and server logs can be
// correlated.
const HeaderRequestID = "X-Request-ID"

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPTimeout sets the HTTP client timeout. Zero (the default) leaves the
// transport default in place.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// shaped is implemented by payloads that name the keys a response must
// carry. Every domain payload implements it.
type shaped interface {
	RequiredFields() []string
}

// Client issues unauthenticated GET requests against a single base URL.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a client for the server at baseURL
// (e.g. "http://localhost:5000"). A trailing slash is ignored.
func NewClient(baseURL string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string { return c.baseURL }

// GetJSON fetches path with the given query and decodes the body into out.
// Query values are percent-encoded here, before the request is issued.
// The body must be a JSON object; when out names its required fields, each
// must be present and non-null. Transport errors, non-200 responses, and
// bodies of the wrong shape all come back wrapped in domain.ErrFetchFailed.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: create request %s: %v", domain.ErrFetchFailed, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, reqID)

	c.log.Debug("GET %s (id=%s)", target, reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", domain.ErrFetchFailed, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", domain.ErrFetchFailed, path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %w: GET %s: %s %s",
			domain.ErrFetchFailed, domain.ErrBadStatus, path, resp.Status, truncate(string(body), 120))
	}

	if err := decodeObject(body, out); err != nil {
		return fmt.Errorf("%w: %w: GET %s: %v", domain.ErrFetchFailed, domain.ErrDecode, path, err)
	}

	c.log.Debug("GET %s -> %d bytes (id=%s)", path, len(body), reqID)
	return nil
}

// Timer fetches the countdown timer.
func (c *Client) Timer(ctx context.Context) (*domain.TimerStatus, error) {
	var ts domain.TimerStatus
	if err := c.GetJSON(ctx, PathTimer, nil, &ts); err != nil {
		return nil, err
	}
	return &ts, nil
}

// Status fetches the current step, its remaining time, and active ingredient.
func (c *Client) Status(ctx context.Context) (*domain.RecipeStatus, error) {
	var rs domain.RecipeStatus
	if err := c.GetJSON(ctx, PathStatus, nil, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Nutrition fetches nutrition text for a single ingredient.
func (c *Client) Nutrition(ctx context.Context, ingredient string) (*domain.NutritionInfo, error) {
	if strings.TrimSpace(ingredient) == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, domain.ErrEmptyIngredient)
	}
	var ni domain.NutritionInfo
	q := url.Values{"ingredient": {ingredient}}
	if err := c.GetJSON(ctx, PathNutrition, q, &ni); err != nil {
		return nil, err
	}
	return &ni, nil
}

// Recipe fetches the full ingredient roster.
func (c *Client) Recipe(ctx context.Context) (*domain.IngredientRoster, error) {
	var r domain.IngredientRoster
	if err := c.GetJSON(ctx, PathRecipe, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Progress fetches the coarse cooking progress.
func (c *Client) Progress(ctx context.Context) (*domain.ProgressStatus, error) {
	var p domain.ProgressStatus
	if err := c.GetJSON(ctx, PathProgress, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// decodeObject unmarshals body into out after checking it is an object that
// carries out's required fields.
func decodeObject(body []byte, out any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("null body")
	}
	if s, ok := out.(shaped); ok {
		for _, key := range s.RequiredFields() {
			v, ok := fields[key]
			if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
				return fmt.Errorf("missing field %q", key)
			}
		}
	}
	return json.Unmarshal(body, out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
