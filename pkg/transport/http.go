package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for transport operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediawiki_requests_total",
		Help: "Total API requests by action and status",
	}, []string{"action", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mediawiki_request_duration_seconds",
		Help:    "API request duration in seconds by action",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"action"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediawiki_transport_errors_total",
		Help: "Total transport errors by class",
	}, []string{"class"})
)

// Config holds the default backend configuration.
type Config struct {
	// UserAgent is sent on every request. The Wikimedia API etiquette asks
	// clients to identify themselves.
	UserAgent string

	// Timeout bounds one request round-trip. It is also the only
	// cancellation primitive the pagination engine needs.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
	}
}

// Client is the default Transport backed by net/http.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger
}

// NewClient creates the default HTTP backend.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: cfg.UserAgent,
		logger:    log.With().Str("component", "transport").Logger(),
	}
}

// SetHTTPClient sets a custom *http.Client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Do executes the request and returns the response body as text.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	action := req.Param("action")

	fullURL := req.URL
	if qs := req.QueryString(); qs != "" {
		sep := "?"
		if strings.Contains(fullURL, "?") {
			sep = "&"
		}
		fullURL = fullURL + sep + qs
	}

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, &Error{
			Class:   ErrorClassNetwork,
			Message: "create request",
			Err:     err,
		}
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("method", method).
		Str("action", action).
		Str("url", req.URL).
		Msg("Executing API request")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	requestDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())

	if err != nil {
		class := classify(0, err)
		errorsTotal.WithLabelValues(string(class)).Inc()
		requestsTotal.WithLabelValues(action, "network_error").Inc()
		c.logger.Error().Err(err).Str("action", action).Msg("HTTP request failed")
		return nil, &Error{
			Class:   class,
			Message: "http request",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(action, "read_error").Inc()
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		}
	}

	requestsTotal.WithLabelValues(action, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		class := classify(resp.StatusCode, nil)
		errorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("action", action).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("API request error")
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Class:      class,
			Message:    resp.Status,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       string(raw),
	}, nil
}
