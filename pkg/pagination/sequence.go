package pagination

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wikigopher/mediawiki/pkg/query"
)

// Prometheus metrics for sequence consumption.
var (
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediawiki_sequence_pages_total",
		Help: "Result pages fetched by sequence name",
	}, []string{"sequence"})

	itemsYieldedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediawiki_sequence_items_total",
		Help: "Items yielded to consumers by sequence name",
	}, []string{"sequence"})
)

// Done is returned by Next once the sequence is exhausted. Exhaustion is
// absorbing: every later call keeps returning Done, never an error.
var Done = errors.New("pagination: no more items")

// FetchFunc retrieves one page of results. A nil continuation requests the
// first page; a nil returned continuation marks the final page. The engine
// calls it with at most one page in flight and never prefetches.
type FetchFunc[T any] func(ctx context.Context, cont query.Continuation) ([]T, query.Continuation, error)

// Seq is a lazy, finite, forward-only sequence of result items backed by
// token-chained API pages. The zero value is not usable; construct with New.
type Seq[T any] struct {
	name  string
	fetch FetchFunc[T]

	buf     []T
	cur     int
	cont    query.Continuation
	started bool
	done    bool
}

// New creates a sequence. The name labels metrics and has no protocol
// meaning.
func New[T any](name string, fetch FetchFunc[T]) *Seq[T] {
	return &Seq[T]{name: name, fetch: fetch}
}

// Next returns the next item, or Done when the sequence is exhausted.
//
// Items buffered from the current page are returned without I/O. When the
// buffer is drained and a continuation token is held, Next fetches the
// following page first; a page that is empty but still carries a token does
// not end the sequence. A fetch failure is returned as-is and leaves the
// sequence exactly where it was, so calling Next again re-issues the same
// logical request.
func (s *Seq[T]) Next(ctx context.Context) (T, error) {
	var zero T
	for {
		if s.done {
			return zero, Done
		}
		if s.cur < len(s.buf) {
			item := s.buf[s.cur]
			s.cur++
			itemsYieldedTotal.WithLabelValues(s.name).Inc()
			return item, nil
		}
		if s.started && s.cont == nil {
			s.buf = nil
			s.done = true
			return zero, Done
		}

		items, next, err := s.fetch(ctx, s.cont)
		if err != nil {
			return zero, err
		}
		pagesFetchedTotal.WithLabelValues(s.name).Inc()
		s.started = true
		s.buf = items
		s.cur = 0
		s.cont = next
	}
}

// Collect drains the remainder of the sequence into a slice.
func (s *Seq[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T
	for {
		item, err := s.Next(ctx)
		if errors.Is(err, Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
}
