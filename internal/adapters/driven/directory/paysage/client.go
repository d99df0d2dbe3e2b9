package paysage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
	"github.com/custodia-labs/fresq/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.InstitutionDirectory = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 4
	DefaultRetryDelay = 4 * time.Second

	// searchLimit is the autocomplete page size.
	searchLimit = 50

	headerAPIKey     = "x-api-key"
	headerRetryAfter = "Retry-After"
)

// Errors returned by the client.
var (
	// ErrUnauthorized indicates a missing or rejected API key.
	ErrUnauthorized = errors.New("paysage: unauthorised (invalid api key)")

	// ErrUnexpectedStatus indicates a non-retryable HTTP status.
	ErrUnexpectedStatus = errors.New("paysage: unexpected status")
)

// Config holds configuration for the Paysage client.
type Config struct {
	// BaseURL is the API root, without trailing slash.
	BaseURL string

	// APIKey is sent as x-api-key on every request.
	APIKey string

	// RequestsPerSecond and Burst configure the rate limiter.
	RequestsPerSecond float64
	Burst             int

	// Timeout bounds a single request (default: 30s).
	Timeout time.Duration

	// MaxRetries is the number of retries of a transient failure (default: 4).
	MaxRetries int

	// RetryDelay is the initial delay between retries, doubled each
	// attempt (default: 4s).
	RetryDelay time.Duration
}

// ConfigFromSettings builds a client configuration from directory settings.
func ConfigFromSettings(s domain.DirectorySettings) Config {
	return Config{
		BaseURL:           s.BaseURL,
		APIKey:            s.APIKey,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
		Timeout:           s.Timeout,
	}
}

// Client queries the Paysage API.
type Client struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	limiter    *RateLimiter
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a Paysage client.
// Returns domain.ErrInvalidInput if the base URL is empty.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: paysage base url is required", domain.ErrInvalidInput)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	return &Client{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// structureResponse is the wire form of an autocomplete entry.
type structureResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Identifiers     []string        `json:"identifiers"`
	IsDeleted       bool            `json:"isDeleted"`
	StructureStatus string          `json:"structureStatus"`
	Coordinates     json.RawMessage `json:"coordinates"`
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

// Search returns the autocomplete results for code.
func (c *Client) Search(ctx context.Context, code string) ([]domain.Structure, error) {
	q := url.Values{}
	q.Set("query", code)
	q.Set("limit", strconv.Itoa(searchLimit))
	q.Set("types", "structures")

	var resp listResponse[structureResponse]
	if err := c.get(ctx, "/autocomplete", q, &resp); err != nil {
		return nil, fmt.Errorf("search %s: %w", code, err)
	}

	out := make([]domain.Structure, 0, len(resp.Data))
	for _, s := range resp.Data {
		out = append(out, s.toDomain())
	}
	return out, nil
}

// Relations returns the tagged relations pointing at structureID, most
// recent first.
func (c *Client) Relations(ctx context.Context, structureID string, tag domain.RelationTag) ([]domain.Relation, error) {
	q := url.Values{}
	q.Set("filters[relationTag]", string(tag))
	q.Set("filters[relatedObjectId]", structureID)
	q.Set("sort", "-startDate")

	var resp listResponse[domain.Relation]
	if err := c.get(ctx, "/relations", q, &resp); err != nil {
		return nil, fmt.Errorf("relations %s of %s: %w", tag, structureID, err)
	}

	// The API sorts already; keep the contract when it does not.
	sort.SliceStable(resp.Data, func(i, j int) bool {
		return resp.Data[i].StartDate > resp.Data[j].StartDate
	})
	return resp.Data, nil
}

// Get returns the structure with the given id.
// The API has no lookup by id; the autocomplete result with the exact id wins.
func (c *Client) Get(ctx context.Context, id string) (*domain.Structure, error) {
	results, err := c.Search(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, s := range results {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, fmt.Errorf("structure %s: %w", id, domain.ErrNotFound)
}

// get performs a GET with rate limiting and retries, decoding the body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + query.Encode()
	delay := c.retryDelay

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("Retrying %s (attempt %d): %v", path, attempt, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		body, retryable, err := c.do(ctx, endpoint)
		if err == nil {
			if err := json.NewDecoder(bytes.NewReader(body)).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}
		if !retryable || ctx.Err() != nil {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("giving up after %d retries: %w", c.maxRetries, lastErr)
}

// do sends one request. It reports whether a failure is worth retrying.
func (c *Client) do(ctx context.Context, endpoint string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		if d := retryAfter(resp.Header.Get(headerRetryAfter)); d > 0 {
			c.limiter.Backoff(d)
		}
		return nil, true, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, true, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, truncate(body))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, false, ErrUnauthorized
	default:
		return nil, false, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, truncate(body))
	}
}

func (s structureResponse) toDomain() domain.Structure {
	return domain.Structure{
		ID:          s.ID,
		Name:        s.Name,
		Identifiers: s.Identifiers,
		IsDeleted:   s.IsDeleted,
		Status:      s.StructureStatus,
		Coordinates: parseCoordinates(s.Coordinates),
	}
}

// parseCoordinates accepts [lon, lat] or {"lat": .., "lng": ..}.
// Anything else yields no coordinates.
func parseCoordinates(raw json.RawMessage) []float64 {
	if len(raw) == 0 {
		return nil
	}

	var pair []float64
	if err := json.Unmarshal(raw, &pair); err == nil {
		if len(pair) == 2 {
			return pair
		}
		return nil
	}

	var obj struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Lat != nil && obj.Lng != nil {
		return []float64{*obj.Lng, *obj.Lat}
	}
	return nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(body []byte) string {
	const maxLen = 200
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}
