package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/wikigopher/mediawiki/pkg/transport"
)

// ErrScriptExhausted is returned by ScriptedTransport when Do is called more
// often than steps were enqueued.
var ErrScriptExhausted = errors.New("testutil: scripted transport exhausted")

// ScriptedStep is one scripted outcome: either a response or an error.
type ScriptedStep struct {
	Response *transport.Response
	Err      error
}

// ScriptedTransport is an in-process Transport serving enqueued outcomes in
// order and recording every request it sees. It avoids real HTTP entirely,
// which keeps protocol-level tests fast and deterministic.
type ScriptedTransport struct {
	mu       sync.Mutex
	steps    []ScriptedStep
	requests []*transport.Request
}

// NewScriptedTransport creates an empty scripted transport.
func NewScriptedTransport() *ScriptedTransport {
	return &ScriptedTransport{}
}

// Enqueue appends one scripted step.
func (t *ScriptedTransport) Enqueue(step ScriptedStep) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, step)
}

// EnqueueBody appends a 200 OK step with the given JSON body.
func (t *ScriptedTransport) EnqueueBody(body string) {
	t.Enqueue(ScriptedStep{Response: &transport.Response{StatusCode: http.StatusOK, Body: body}})
}

// EnqueueError appends a failing step.
func (t *ScriptedTransport) EnqueueError(err error) {
	t.Enqueue(ScriptedStep{Err: err})
}

// Do records the request and returns the next scripted outcome.
func (t *ScriptedTransport) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = append(t.requests, req)
	if len(t.steps) == 0 {
		return nil, ErrScriptExhausted
	}
	step := t.steps[0]
	t.steps = t.steps[1:]
	if step.Err != nil {
		return nil, step.Err
	}
	return step.Response, nil
}

// RequestCount returns the number of Do calls so far.
func (t *ScriptedTransport) RequestCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}

// Request returns the i-th recorded request, or nil when no such call was
// made.
func (t *ScriptedTransport) Request(i int) *transport.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.requests) {
		return nil
	}
	return t.requests[i]
}
