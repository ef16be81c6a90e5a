package datagov

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/models"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the data.gov.in resource API.
	DefaultBaseURL = "https://api.data.gov.in/resource"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5
)

// Client is a data.gov.in resource API client.
type Client struct {
	baseURL    string
	resourceID string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new data.gov.in API client for one dataset resource.
func NewClient(apiKey, resourceID string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		resourceID: resourceID,
		apiKey:     apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchRecords retrieves one page of MSME registration records with
// exact-match filters on state and district. The Activities field is an
// unstructured text blob upstream, so no server-side activity filter is
// ever sent; callers filter locally.
func (c *Client) FetchRecords(ctx context.Context, state, district string, limit, offset int) ([]models.DatasetRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("offset", fmt.Sprintf("%d", offset))
	params.Set("filters[State]", state)
	params.Set("filters[District]", district)

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, c.resourceID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Redact API key in logs
	if c.logger != nil {
		c.logger.Debug().
			Str("resource", c.resourceID).
			Str("state", state).
			Str("district", district).
			Int("limit", limit).
			Int("offset", offset).
			Msg("data.gov.in resource request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Resource:   c.resourceID,
		}
	}

	var result resourceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("resource", c.resourceID).
			Int("records", len(result.Records)).
			Msg("data.gov.in resource response")
	}

	return result.Records, nil
}
