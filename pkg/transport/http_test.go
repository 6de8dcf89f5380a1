package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDo_Success(t *testing.T) {
	var gotURL string
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"batchcomplete":""}`))
	}))
	defer server.Close()

	client := NewClient(DefaultConfig("test-agent/1.0"))
	resp, err := client.Do(context.Background(), &Request{
		URL: server.URL,
		Params: []Param{
			{Key: "action", Value: "query"},
			{Key: "format", Value: "json"},
		},
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if resp.Body != `{"batchcomplete":""}` {
		t.Errorf("Unexpected body: %q", resp.Body)
	}
	if gotURL != "/?action=query&format=json" {
		t.Errorf("Unexpected request URL: %q", gotURL)
	}
	if gotAgent != "test-agent/1.0" {
		t.Errorf("Expected User-Agent test-agent/1.0, got %q", gotAgent)
	}
}

func TestDo_StatusErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantClass  ErrorClass
	}{
		{"client_error", http.StatusNotFound, ErrorClassClient},
		{"server_error", http.StatusInternalServerError, ErrorClassServer},
		{"bad_gateway", http.StatusBadGateway, ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := NewClient(DefaultConfig("test-agent/1.0"))
			_, err := client.Do(context.Background(), &Request{URL: server.URL})

			var terr *Error
			if !errors.As(err, &terr) {
				t.Fatalf("Expected *Error, got %v", err)
			}
			if terr.StatusCode != tt.statusCode {
				t.Errorf("Expected status %d, got %d", tt.statusCode, terr.StatusCode)
			}
			if terr.Class != tt.wantClass {
				t.Errorf("Expected class %q, got %q", tt.wantClass, terr.Class)
			}
		})
	}
}

func TestDo_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(DefaultConfig("test-agent/1.0"))
	_, err := client.Do(context.Background(), &Request{URL: server.URL})

	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if terr.Class != ErrorClassNetwork {
		t.Errorf("Expected network class, got %q", terr.Class)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig("test-agent/1.0"))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Do(ctx, &Request{URL: server.URL})
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if terr.Class != ErrorClassNetwork {
		t.Errorf("Expected network class for cancellation, got %q", terr.Class)
	}
}

func TestDo_URLWithExistingQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewClient(DefaultConfig("test-agent/1.0"))
	_, err := client.Do(context.Background(), &Request{
		URL:    server.URL + "/w/api.php?maxlag=5",
		Params: []Param{{Key: "format", Value: "json"}},
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotQuery != "maxlag=5&format=json" {
		t.Errorf("Unexpected query: %q", gotQuery)
	}
}
