package transport

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var throttleWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "mediawiki_throttle_wait_seconds",
	Help:    "Time spent waiting for the request throttle",
	Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
})

// throttled spaces consecutive requests at least a minimum interval apart.
// Wikis without a maxlag budget appreciate clients that pace themselves;
// like the retry decorator, this is opt-in and never applied by the core.
type throttled struct {
	base        Transport
	minInterval time.Duration

	mu   sync.Mutex
	next time.Time
}

// NewThrottled decorates base so that consecutive requests are spaced at
// least minInterval apart. Callers blocked on the throttle respect context
// cancellation.
func NewThrottled(base Transport, minInterval time.Duration) Transport {
	return &throttled{
		base:        base,
		minInterval: minInterval,
	}
}

// Do waits for the throttle slot, then delegates to the base transport.
func (t *throttled) Do(ctx context.Context, req *Request) (*Response, error) {
	t.mu.Lock()
	now := time.Now()
	wait := t.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	t.next = now.Add(wait + t.minInterval)
	t.mu.Unlock()

	if wait > 0 {
		throttleWaitSeconds.Observe(wait.Seconds())
		select {
		case <-ctx.Done():
			return nil, &Error{
				Class:   ErrorClassNetwork,
				Message: "throttle wait",
				Err:     ctx.Err(),
			}
		case <-time.After(wait):
		}
	}

	return t.base.Do(ctx, req)
}
