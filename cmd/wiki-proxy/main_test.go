package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wikigopher/mediawiki/internal/testutil"
	"github.com/wikigopher/mediawiki/pkg/wiki"
)

func newTestClient(t *testing.T) (*wiki.Client, *testutil.MockWiki) {
	t.Helper()
	mock := testutil.NewMockWiki()
	t.Cleanup(mock.Close)

	client, err := wiki.New(wiki.Config{
		BaseURL:       mock.URL(),
		UserAgent:     "wiki-proxy-test/1.0",
		SearchResults: 10,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client, mock
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	promhttp.Handler().ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	bodyStr := string(body)
	if !strings.Contains(bodyStr, "# HELP") || !strings.Contains(bodyStr, "# TYPE") {
		t.Error("Expected Prometheus format metrics output")
	}
}

func TestSearchHandler(t *testing.T) {
	client, mock := newTestClient(t)
	mock.EnqueueBody(`{
		"continue": {"sroffset": 2, "continue": "-||"},
		"query": {"search": [
			{"title": "Go (programming language)", "pageid": 1, "snippet": "a language", "size": 100, "wordcount": 20},
			{"title": "Go (game)", "pageid": 2, "snippet": "a game", "size": 50, "wordcount": 10}
		]}
	}`)

	req := httptest.NewRequest("GET", "/search?q=go&limit=2", nil)
	w := httptest.NewRecorder()

	searchHandler(client)(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var results []wiki.SearchResult
	if err := json.Unmarshal(body, &results); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Title != "Go (programming language)" {
		t.Errorf("Unexpected first result: %+v", results[0])
	}

	// The limit was reached on the first page, so no follow-up request
	// should have been made.
	if mock.RequestCount() != 1 {
		t.Errorf("Expected 1 upstream request, got %d", mock.RequestCount())
	}
}

func TestSearchHandler_EmptyTerm(t *testing.T) {
	client, _ := newTestClient(t)

	req := httptest.NewRequest("GET", "/search?q=", nil)
	w := httptest.NewRecorder()

	searchHandler(client)(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Result().StatusCode)
	}
}

func TestSummaryHandler(t *testing.T) {
	client, mock := newTestClient(t)
	mock.EnqueueBody(`{
		"query": {"pages": {"1": {"pageid": 1, "ns": 0, "title": "Go", "extract": "Go is a language."}}}
	}`)

	req := httptest.NewRequest("GET", "/summary?title=Go", nil)
	w := httptest.NewRecorder()

	summaryHandler(client)(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if payload["summary"] != "Go is a language." {
		t.Errorf("Unexpected summary: %q", payload["summary"])
	}
}

func TestSummaryHandler_MissingTitle(t *testing.T) {
	client, _ := newTestClient(t)

	req := httptest.NewRequest("GET", "/summary", nil)
	w := httptest.NewRecorder()

	summaryHandler(client)(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Result().StatusCode)
	}
}

func TestPageHandler_NotFound(t *testing.T) {
	client, mock := newTestClient(t)
	mock.EnqueueBody(`{
		"query": {"pages": {"-1": {"ns": 0, "title": "Nope", "missing": ""}}}
	}`)

	req := httptest.NewRequest("GET", "/page?title=Nope", nil)
	w := httptest.NewRecorder()

	pageHandler(client)(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Result().StatusCode)
	}
}
