package query

import (
	"sort"

	"github.com/wikigopher/mediawiki/pkg/transport"
)

// Continuation is the opaque key-value mapping the API returns when more
// results exist. Different query types use differently named keys, so the
// builder merges the pairs verbatim into the next request and never
// interprets them. A nil Continuation means the sequence is exhausted.
type Continuation map[string]string

// params renders the continuation pairs sorted by key, so that building the
// same request twice produces identical output.
func (c Continuation) params() []transport.Param {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]transport.Param, 0, len(keys))
	for _, k := range keys {
		out = append(out, transport.Param{Key: k, Value: c[k]})
	}
	return out
}
