package wiki

import (
	"errors"
	"fmt"
)

// Errors returned while decoding API responses.
var (
	// ErrMalformedResponse indicates the response body was not valid JSON.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnexpectedShape indicates valid JSON that is missing an expected
	// key. The parser never silently maps a missing result container to an
	// empty page.
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrPageMissing indicates the queried page does not exist.
	ErrPageMissing = errors.New("page missing")
)

// APIError is a semantic error reported by the remote service inside the
// JSON envelope, e.g. an unknown page or a rejected parameter. The remote
// code is preserved so hosts can tell "not found" apart from other
// failures.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error [%s]: %s", e.Code, e.Info)
}
