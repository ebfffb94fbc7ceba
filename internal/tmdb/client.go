package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/moviestream-ai/moviestream/internal/metrics"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "en-US"
)

// ErrUnknownEndpoint is returned before any request is made when a list
// endpoint or trending parameter is not one the catalog serves.
var ErrUnknownEndpoint = errors.New("unknown catalog endpoint")

// StatusError reports a non-200 response from the catalog API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog API returned status %d: %s", e.StatusCode, e.Body)
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL  string
	APIKey   string
	Language string
	Timeout  time.Duration

	// RequestsPerSecond limits outgoing requests; zero disables limiting.
	RequestsPerSecond float64
	Burst             int

	// FailureThreshold is the number of consecutive failures that opens the
	// circuit breaker. BreakerTimeout is how long it stays open.
	FailureThreshold uint32
	BreakerTimeout   time.Duration

	HTTPClient *http.Client
}

// Client is a read-only client for the TMDB v3 API.
type Client struct {
	BaseURL  string
	APIKey   string
	Language string

	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a new catalog client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	threshold := opts.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Catalog circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.CatalogBreakerState.Set(float64(to))
		},
	})

	return &Client{
		BaseURL:    opts.BaseURL,
		APIKey:     opts.APIKey,
		Language:   opts.Language,
		httpClient: httpClient,
		limiter:    limiter,
		breaker:    breaker,
	}
}

// Client errors and cancellations say nothing about upstream health.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < http.StatusInternalServerError
	}
	return false
}

// get issues one GET against path and decodes the JSON body into out.
// label names the endpoint family for metrics.
func (c *Client) get(ctx context.Context, label, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.APIKey)
	params.Set("language", c.Language)
	reqURL := c.BaseURL + path + "?" + params.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, label, reqURL)
	})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, label, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordCatalogRequest(label, 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	metrics.RecordCatalogRequest(label, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
