// Package client provides the authenticated PagerDuty REST v2 HTTP client.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for PagerDuty API operations.
var (
	pdRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdreport_requests_total",
		Help: "Total PagerDuty requests by endpoint and status",
	}, []string{"endpoint", "status"})

	pdRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pdreport_request_duration_seconds",
		Help:    "PagerDuty request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	pdErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdreport_errors_total",
		Help: "Total PagerDuty request errors by class",
	}, []string{"class"})
)

const (
	// DefaultBaseURL is the fixed PagerDuty REST API host.
	DefaultBaseURL = "https://api.pagerduty.com"

	// acceptHeader pins the versioned media type required on every request.
	acceptHeader = "application/vnd.pagerduty+json;version=2"
)

// Client issues authenticated GET requests against the PagerDuty REST API.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Token is the static PagerDuty API credential (REQUIRED).
	Token string

	// BaseURL overrides the API host, used by tests against a mock server.
	BaseURL string

	// UserAgent identifies this tool to the API.
	UserAgent string

	// Timeout bounds a single request.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration for the given token.
func DefaultConfig(token string) Config {
	return Config{
		Token:     token,
		BaseURL:   DefaultBaseURL,
		UserAgent: "pdreport/0.1.0",
		Timeout:   30 * time.Second,
	}
}

// New creates a new PagerDuty client.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("api token is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "pd-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// Get performs a GET request against an API endpoint and returns the
// response body. Any non-2xx status returns an *APIError carrying the
// status code and body; no retry is attempted.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		pdRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token token="+c.config.Token)
	req.Header.Set("User-Agent", c.config.UserAgent)

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", req.URL.RawQuery).
		Msg("Executing PagerDuty request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		pdErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		pdRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		pdErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, fmt.Errorf("read response %s: %w", endpoint, err)
	}

	pdRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		class := classifyStatus(resp.StatusCode)
		pdErrorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("PagerDuty request error")

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return body, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
