// Package wiki is a client library for the MediaWiki Action API. It exposes
// site-wide queries on the Client and lazily fetched, memoized views of
// single entities through the Page, Category and File types.
package wiki

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wikigopher/mediawiki/pkg/query"
	"github.com/wikigopher/mediawiki/pkg/transport"
)

// DefaultUserAgent identifies this library when the host application does
// not set its own agent string.
const DefaultUserAgent = "mediawiki-go (https://github.com/wikigopher/mediawiki)"

// Config holds client configuration.
type Config struct {
	// BaseURL is the api.php endpoint. A "{language}" marker, when present,
	// is substituted with Language.
	BaseURL string

	// Language selects the wiki of a multi-language farm.
	Language string

	// UserAgent is sent on every request.
	UserAgent string

	// Timeout bounds one request round-trip.
	Timeout time.Duration

	// SearchResults is the page size of full-text search queries.
	SearchResults int

	// PageSize bounds one page of the other paginated queries. Zero requests
	// the server maximum.
	PageSize int

	// Transport overrides the HTTP backend. Nil selects the default net/http
	// backend; wrap it with transport.NewRetrying or transport.NewThrottled
	// for retry or rate-limit behavior.
	Transport transport.Transport
}

// DefaultConfig returns the configuration for the English Wikipedia.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "https://{language}.wikipedia.org/w/api.php",
		Language:      "en",
		UserAgent:     DefaultUserAgent,
		Timeout:       30 * time.Second,
		SearchResults: 10,
	}
}

// Client talks to one wiki endpoint. It is safe for concurrent use; the
// façade objects it hands out are not.
type Client struct {
	cfg       Config
	transport transport.Transport
	builder   *query.Builder
	logger    zerolog.Logger
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	endpoint := cfg.BaseURL
	if strings.Contains(endpoint, "{language}") {
		if cfg.Language == "" {
			return nil, errors.New("language is required by the base URL")
		}
		endpoint = strings.ReplaceAll(endpoint, "{language}", cfg.Language)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.SearchResults < 1 {
		cfg.SearchResults = 10
	}

	t := cfg.Transport
	if t == nil {
		httpCfg := transport.DefaultConfig(cfg.UserAgent)
		if cfg.Timeout > 0 {
			httpCfg.Timeout = cfg.Timeout
		}
		t = transport.NewClient(httpCfg)
	}

	return &Client{
		cfg:       cfg,
		transport: t,
		builder:   query.NewBuilder(endpoint),
		logger: log.With().
			Str("component", "wiki").
			Str("language", cfg.Language).
			Logger(),
	}, nil
}

// Language returns the configured language code.
func (c *Client) Language() string {
	return c.cfg.Language
}

// do builds the request for an intent, executes it and decodes the envelope.
func (c *Client) do(ctx context.Context, intent query.Intent, cont query.Continuation, pageSize int) (*envelope, error) {
	req, err := c.builder.Build(intent, cont, pageSize)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	env, err := decodeEnvelope(resp.Body)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("kind", intent.Kind.String()).
			Msg("Decoding API response failed")
		return nil, err
	}
	return env, nil
}

// Page returns a view of the page with the given title. No request is made
// until a property of the view is read.
func (c *Client) Page(title string) *Page {
	return newPage(c, query.ByTitle(title))
}

// PageByID returns a view of the page with the given numeric id.
func (c *Client) PageByID(pageID string) *Page {
	return newPage(c, query.ByID(pageID))
}

// Category returns a view of the category with the given name. The
// "Category:" namespace prefix is added when absent.
func (c *Client) Category(name string) *Category {
	return newCategory(c, name)
}

// File returns a view of the file with the given name. The "File:"
// namespace prefix is added when absent.
func (c *Client) File(name string) *File {
	return newFile(c, name)
}
