// Package testutil provides testing doubles for the MediaWiki client: an
// HTTP-level mock API server and a scripted in-process Transport.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// MockWikiResponse defines one canned response of the mock API server.
type MockWikiResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockWiki is a mock Action API server. Responses are served from a FIFO
// queue regardless of the request parameters, and every request's query
// parameters are recorded for assertions.
type MockWiki struct {
	server *httptest.Server

	mu       sync.Mutex
	queue    []MockWikiResponse
	requests []url.Values
}

// NewMockWiki creates a mock server. Callers must Close it.
func NewMockWiki() *MockWiki {
	mock := &MockWiki{}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests = append(mock.requests, r.URL.Query())
		var resp MockWikiResponse
		if len(mock.queue) > 0 {
			resp = mock.queue[0]
			mock.queue = mock.queue[1:]
		} else {
			resp = MockWikiResponse{StatusCode: http.StatusOK, Body: `{"batchcomplete":""}`}
		}
		mock.mu.Unlock()

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return mock
}

// URL returns the mock server URL, usable as a client base URL.
func (m *MockWiki) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockWiki) Close() {
	m.server.Close()
}

// Enqueue appends one canned response to the queue.
func (m *MockWiki) Enqueue(resp MockWikiResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

// EnqueueBody appends a 200 OK response with the given JSON body.
func (m *MockWiki) EnqueueBody(body string) {
	m.Enqueue(MockWikiResponse{StatusCode: http.StatusOK, Body: body})
}

// RequestCount returns the number of requests received so far.
func (m *MockWiki) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Request returns the query parameters of the i-th request, or nil when no
// such request was made.
func (m *MockWiki) Request(i int) url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.requests) {
		return nil
	}
	return m.requests[i]
}

// LastRequest returns the query parameters of the most recent request.
func (m *MockWiki) LastRequest() url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}
