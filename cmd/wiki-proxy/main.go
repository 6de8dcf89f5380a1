// Command wiki-proxy exposes a small HTTP facade over a MediaWiki site:
// full-text search, page summaries and page metadata, plus Prometheus
// metrics for the upstream traffic it generates.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wikigopher/mediawiki/pkg/logging"
	"github.com/wikigopher/mediawiki/pkg/pagination"
	"github.com/wikigopher/mediawiki/pkg/query"
	"github.com/wikigopher/mediawiki/pkg/transport"
	"github.com/wikigopher/mediawiki/pkg/wiki"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wiki-proxy",
		Short: "HTTP facade over a MediaWiki site",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	flags := cmd.Flags()
	flags.String("port", "8080", "listen port")
	flags.String("language", "en", "wiki language code")
	flags.String("base-url", "https://{language}.wikipedia.org/w/api.php", "api.php endpoint, {language} is substituted")
	flags.String("user-agent", wiki.DefaultUserAgent, "User-Agent sent upstream")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Duration("throttle", 0, "minimum interval between upstream requests, 0 disables")

	// Every flag is also settable via WIKI_* environment variables, e.g.
	// WIKI_BASE_URL.
	viper.SetEnvPrefix("WIKI")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(flags)

	return cmd
}

func run() error {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(viper.GetString("log-level")),
		Output: os.Stderr,
	})

	cfg := wiki.DefaultConfig()
	cfg.BaseURL = viper.GetString("base-url")
	cfg.Language = viper.GetString("language")
	cfg.UserAgent = viper.GetString("user-agent")
	if interval := viper.GetDuration("throttle"); interval > 0 {
		base := transport.NewClient(transport.DefaultConfig(cfg.UserAgent))
		cfg.Transport = transport.NewThrottled(base, interval)
	}

	client, err := wiki.New(cfg)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/search", searchHandler(client))
	mux.HandleFunc("/summary", summaryHandler(client))
	mux.HandleFunc("/page", pageHandler(client))

	addr := ":" + viper.GetString("port")
	logger.Info().
		Str("addr", addr).
		Str("language", cfg.Language).
		Msg("Starting wiki proxy")

	return http.ListenAndServe(addr, mux)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func searchHandler(client *wiki.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("q")
		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		seq := client.Search(term)
		results := make([]wiki.SearchResult, 0, limit)
		for len(results) < limit {
			result, err := seq.Next(r.Context())
			if errors.Is(err, pagination.Done) {
				break
			}
			if err != nil {
				writeError(w, err)
				return
			}
			results = append(results, result)
		}
		writeJSON(w, results)
	}
}

func summaryHandler(client *wiki.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("title")
		if title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}

		summary, err := client.Page(title).Summary(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{
			"title":   title,
			"summary": summary,
		})
	}
}

func pageHandler(client *wiki.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("title")
		if title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}

		page := client.Page(title)
		id, err := page.ID(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		canonical, err := page.Title(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		url, err := page.URL(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{
			"pageid": id,
			"title":  canonical,
			"url":    url,
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeError maps library errors to HTTP statuses: caller mistakes become
// 400, a missing page 404, anything upstream 502.
func writeError(w http.ResponseWriter, err error) {
	var invalid *query.InvalidIntentError
	switch {
	case errors.As(err, &invalid):
		http.Error(w, invalid.Error(), http.StatusBadRequest)
	case errors.Is(err, wiki.ErrPageMissing):
		http.Error(w, "page not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}
