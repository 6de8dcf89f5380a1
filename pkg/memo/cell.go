// Package memo provides the single-value memoization cells backing the
// lazily fetched fields of façade objects.
//
// A Cell holds the first successful result of a fetch for the lifetime of
// its owner. A failed fetch leaves the cell empty, so the owner may retry on
// the next access; a populated cell is never invalidated. Cells are owned by
// a single goroutine at a time, matching the façade objects that embed them,
// and therefore take no locks.
package memo

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for memoized accessors.
var (
	memoHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediawiki_memo_hits_total",
			Help: "Accessor calls served from a populated memo cell, by field",
		},
		[]string{"field"},
	)

	memoFills = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediawiki_memo_fills_total",
			Help: "Memo cells populated by a successful fetch, by field",
		},
		[]string{"field"},
	)
)

// Cell caches one lazily fetched value. The zero value is empty and ready
// for use.
type Cell[T any] struct {
	value T
	set   bool
}

// Get returns the cached value, fetching and caching it on first access.
// The field name labels metrics only. When fetch fails, the cell stays
// empty and the error is returned; a later Get runs fetch again.
func (c *Cell[T]) Get(ctx context.Context, field string, fetch func(context.Context) (T, error)) (T, error) {
	if c.set {
		memoHits.WithLabelValues(field).Inc()
		return c.value, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.value = value
	c.set = true
	memoFills.WithLabelValues(field).Inc()
	return value, nil
}

// Populated reports whether the cell holds a value.
func (c *Cell[T]) Populated() bool {
	return c.set
}
