package query

import "fmt"

// InvalidIntentError reports an intent whose required parameters are missing
// or out of range. This is a programmer error: it is surfaced immediately
// and retrying the same intent fails identically.
type InvalidIntentError struct {
	Kind   Kind
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidIntentError) Error() string {
	return fmt.Sprintf("invalid %s intent: %s: %s", e.Kind, e.Field, e.Reason)
}
