// Package transport defines the HTTP seam between the MediaWiki API logic
// and any concrete HTTP backend, and provides the default net/http backend
// plus opt-in retry and throttle decorators.
package transport

import (
	"context"
	"net/url"
	"strings"
)

// Param is a single query parameter. Parameters travel as an ordered slice
// rather than a map so that identical requests serialize identically.
type Param struct {
	Key   string
	Value string
}

// Request describes one HTTP call against an API endpoint.
type Request struct {
	// Method is the HTTP method. Empty means GET.
	Method string

	// URL is the endpoint without query string (e.g. the api.php URL).
	URL string

	// Params are the ordered query parameters.
	Params []Param

	// Headers are additional request headers.
	Headers map[string]string

	// Body is the request body for POST requests.
	Body string
}

// QueryString encodes the ordered parameters.
func (r *Request) QueryString() string {
	var b strings.Builder
	for i, p := range r.Params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Param returns the value of the first parameter with the given key.
func (r *Request) Param(key string) string {
	for _, p := range r.Params {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Response is the raw outcome of a transport call.
type Response struct {
	StatusCode int
	Body       string
}

// Transport executes an HTTP request and returns the response body as text.
// Implementations report network failures, timeouts and non-2xx statuses as
// a *Error. The rest of the library depends only on this interface, so any
// conforming backend (blocking, non-blocking, or mocked) can be substituted
// at construction time.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}
