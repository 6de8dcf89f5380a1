// Package metrics provides the centralized Prometheus metrics reference for
// the MediaWiki client. All metrics are defined in the packages that emit
// them (transport, pagination, memo) to maintain modularity and avoid
// circular dependencies.
//
// This package documents the metric surface and names the registry they
// land in.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the client. All
// metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Transport Metrics (pkg/transport):
//   - mediawiki_requests_total{action, status} (Counter): API requests by action and HTTP status
//   - mediawiki_request_duration_seconds{action} (Histogram): Request duration by action
//   - mediawiki_transport_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Retry Metrics (pkg/transport, retrying decorator):
//   - mediawiki_retries_total{error_class} (Counter): Retry attempts by error class
//   - mediawiki_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - mediawiki_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Throttle Metrics (pkg/transport, throttling decorator):
//   - mediawiki_throttle_wait_seconds (Histogram): Time spent waiting for a request slot
//
// Pagination Metrics (pkg/pagination):
//   - mediawiki_sequence_pages_total{sequence} (Counter): Result pages fetched by sequence name
//   - mediawiki_sequence_items_total{sequence} (Counter): Items yielded by sequence name
//
// Memoization Metrics (pkg/memo):
//   - mediawiki_memo_hits_total{field} (Counter): Accessor calls served from a populated cell
//   - mediawiki_memo_fills_total{field} (Counter): Cells populated by a successful fetch
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(mediawiki_transport_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(mediawiki_request_duration_seconds_bucket[5m]))
//
//   # Memoization Hit Rate
//   sum(rate(mediawiki_memo_hits_total[5m])) /
//   (sum(rate(mediawiki_memo_hits_total[5m])) + sum(rate(mediawiki_memo_fills_total[5m])))
//
//   # Average Items per Fetched Page
//   rate(mediawiki_sequence_items_total[5m]) / rate(mediawiki_sequence_pages_total[5m])
