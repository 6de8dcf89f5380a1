package wiki

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wikigopher/mediawiki/pkg/pagination"
	"github.com/wikigopher/mediawiki/pkg/query"
)

func TestSearch_ChainsPages(t *testing.T) {
	client, scripted := newScriptedClient(t, Config{SearchResults: 2})
	scripted.EnqueueBody(`{
		"continue": {"sroffset": 2, "continue": "-||"},
		"query": {"search": [
			{"title": "Go (programming language)", "pageid": 1, "snippet": "lang", "size": 100, "wordcount": 20},
			{"title": "Go (game)", "pageid": 2, "snippet": "game", "size": 50, "wordcount": 10}
		]}
	}`)
	scripted.EnqueueBody(`{
		"query": {"search": [
			{"title": "Gopher", "pageid": 3, "snippet": "rodent", "size": 30, "wordcount": 5}
		]}
	}`)

	results, err := client.Search("go").Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	var titles []string
	for _, result := range results {
		titles = append(titles, result.Title)
	}
	want := []string{"Go (programming language)", "Go (game)", "Gopher"}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Errorf("Title mismatch (-want +got):\n%s", diff)
	}

	if scripted.RequestCount() != 2 {
		t.Fatalf("Expected 2 requests, got %d", scripted.RequestCount())
	}

	// First request opts in to continuation, second echoes the token.
	first := scripted.Request(0)
	if first.Param("continue") != "" || first.Param("srsearch") != "go" {
		t.Errorf("Unexpected first request: %s", first.QueryString())
	}
	second := scripted.Request(1)
	if second.Param("sroffset") != "2" {
		t.Errorf("Expected sroffset=2 echoed back, got %s", second.QueryString())
	}
	if second.Param("continue") != "-||" {
		t.Errorf("Expected continue=-|| echoed back, got %s", second.QueryString())
	}
}

func TestSearch_InvalidTermSurfacesOnFirstNext(t *testing.T) {
	client, scripted := newScriptedClient(t, Config{})

	seq := client.Search("")
	_, err := seq.Next(context.Background())
	var invalid *query.InvalidIntentError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidIntentError, got %v", err)
	}
	if scripted.RequestCount() != 0 {
		t.Errorf("Invalid intent must not reach the transport, got %d requests", scripted.RequestCount())
	}
}

func TestSearch_LazyConsumption(t *testing.T) {
	client, scripted := newScriptedClient(t, Config{})
	scripted.EnqueueBody(`{
		"continue": {"sroffset": 1, "continue": "-||"},
		"query": {"search": [{"title": "Go", "pageid": 1}]}
	}`)

	seq := client.Search("go")
	if scripted.RequestCount() != 0 {
		t.Fatal("Constructing a sequence must not perform I/O")
	}
	if _, err := seq.Next(context.Background()); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if scripted.RequestCount() != 1 {
		t.Errorf("Expected 1 request after first Next, got %d", scripted.RequestCount())
	}
}

func TestGeosearch(t *testing.T) {
	client, scripted := newScriptedClient(t, Config{})
	scripted.EnqueueBody(`{
		"query": {"geosearch": [
			{"pageid": 10, "title": "Brandenburg Gate", "lat": 52.516, "lon": 13.377, "dist": 120.5}
		]}
	}`)

	results, err := client.Geosearch(context.Background(), 52.52, 13.405, 1000)
	if err != nil {
		t.Fatalf("Geosearch failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Title != "Brandenburg Gate" || results[0].Distance != 120.5 {
		t.Errorf("Unexpected result: %+v", results[0])
	}

	req := scripted.Request(0)
	if req.Param("gscoord") != "52.52|13.405" {
		t.Errorf("Unexpected gscoord: %q", req.Param("gscoord"))
	}
	if req.Param("gsradius") != "1000" {
		t.Errorf("Unexpected gsradius: %q", req.Param("gsradius"))
	}
}

func TestGeosearch_InvalidRadius(t *testing.T) {
	client, scripted := newScriptedClient(t, Config{})

	_, err := client.Geosearch(context.Background(), 52.52, 13.405, 5)
	var invalid *query.InvalidIntentError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidIntentError, got %v", err)
	}
	if scripted.RequestCount() != 0 {
		t.Errorf("Invalid intent must not reach the transport, got %d requests", scripted.RequestCount())
	}
}

func TestRandomCount(t *testing.T) {
	client, scripted := newScriptedClient(t, Config{})
	scripted.EnqueueBody(`{
		"query": {"random": [
			{"id": 1, "ns": 0, "title": "Alpha"},
			{"id": 2, "ns": 0, "title": "Beta"}
		]}
	}`)

	titles, err := client.RandomCount(context.Background(), 2)
	if err != nil {
		t.Fatalf("RandomCount failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Alpha", "Beta"}, titles); diff != "" {
		t.Errorf("Title mismatch (-want +got):\n%s", diff)
	}

	req := scripted.Request(0)
	if req.Param("rnnamespace") != "0" || req.Param("rnlimit") != "2" {
		t.Errorf("Unexpected request: %s", req.QueryString())
	}
}

func TestRandom(t *testing.T) {
	client, scripted := newScriptedClient(t, Config{})
	scripted.EnqueueBody(`{"query": {"random": [{"id": 1, "ns": 0, "title": "Alpha"}]}}`)

	title, err := client.Random(context.Background())
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	if title != "Alpha" {
		t.Errorf("Expected Alpha, got %q", title)
	}
}

func TestLanguages(t *testing.T) {
	client, scripted := newScriptedClient(t, Config{})
	scripted.EnqueueBody(`{"query": {"languages": [{"code": "en", "*": "English"}]}}`)

	langs, err := client.Languages(context.Background())
	if err != nil {
		t.Fatalf("Languages failed: %v", err)
	}
	if len(langs) != 1 || langs[0].Code != "en" {
		t.Errorf("Unexpected languages: %+v", langs)
	}

	req := scripted.Request(0)
	if req.Param("meta") != "siteinfo" || req.Param("siprop") != "languages" {
		t.Errorf("Unexpected request: %s", req.QueryString())
	}
}

func TestBacklinks(t *testing.T) {
	client, scripted := newScriptedClient(t, Config{})
	scripted.EnqueueBody(`{
		"continue": {"blcontinue": "0|123", "continue": "-||"},
		"query": {"backlinks": [{"pageid": 5, "ns": 0, "title": "Rob Pike"}]}
	}`)
	scripted.EnqueueBody(`{
		"query": {"backlinks": [{"pageid": 6, "ns": 0, "title": "Ken Thompson"}]}
	}`)

	links, err := client.Backlinks("Go (programming language)").Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("Expected 2 backlinks, got %d", len(links))
	}
	if links[1].Title != "Ken Thompson" {
		t.Errorf("Unexpected backlink: %+v", links[1])
	}

	second := scripted.Request(1)
	if second.Param("blcontinue") != "0|123" {
		t.Errorf("Expected blcontinue echoed back, got %s", second.QueryString())
	}
}

func TestSearch_TransportFailureIsRetryable(t *testing.T) {
	client, scripted := newScriptedClient(t, Config{})
	boom := errors.New("connection reset")
	scripted.EnqueueBody(`{
		"continue": {"sroffset": 1, "continue": "-||"},
		"query": {"search": [{"title": "Go", "pageid": 1}]}
	}`)
	scripted.EnqueueError(boom)
	scripted.EnqueueBody(`{"query": {"search": [{"title": "Gopher", "pageid": 2}]}}`)

	seq := client.Search("go")
	ctx := context.Background()

	if _, err := seq.Next(ctx); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if _, err := seq.Next(ctx); !errors.Is(err, boom) {
		t.Fatalf("Expected transport error, got %v", err)
	}

	result, err := seq.Next(ctx)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if result.Title != "Gopher" {
		t.Errorf("Expected Gopher after retry, got %q", result.Title)
	}

	// The retried request carries the same continuation as the failed one.
	failed := scripted.Request(1)
	retried := scripted.Request(2)
	if failed.QueryString() != retried.QueryString() {
		t.Errorf("Retried request differs:\n%s\n%s", failed.QueryString(), retried.QueryString())
	}

	if _, err := seq.Next(ctx); !errors.Is(err, pagination.Done) {
		t.Errorf("Expected Done, got %v", err)
	}
}
