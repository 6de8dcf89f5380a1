// Package pagination converts MediaWiki's continue-token protocol into one
// logical forward-only item stream.
//
// The Action API returns partial result sets together with an opaque
// "continue" object naming the parameters of the follow-up request. Seq
// hides that protocol behind a pull-based contract: Next returns the next
// item, fetching the following page only when the current buffer is drained,
// and reports exhaustion with the Done sentinel.
//
// Example usage:
//
//	seq := pagination.New("links", fetch)
//	for {
//		link, err := seq.Next(ctx)
//		if errors.Is(err, pagination.Done) {
//			break
//		}
//		if err != nil {
//			return err // retryable: the sequence keeps its position
//		}
//		use(link)
//	}
//
// Sequences are finite, lazy, and not restartable: the continuation protocol
// is stateful and forward-only, so iterating again requires a new Seq. A
// sequence is meant for a single goroutine; callers needing shared access
// must serialize it themselves.
package pagination
