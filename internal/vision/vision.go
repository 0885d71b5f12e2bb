// Package vision calls an external vision-language model to describe a
// receipt image. The returned text is opaque at this layer; all parsing
// happens downstream in extract.
package vision

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when no credential is configured for the
// external model. It is fatal: no extraction is attempted without one.
var ErrMissingAPIKey = errors.New("vision: api key is required")

// ServiceError reports a non-success response or transport failure from the
// external model endpoint. The client does not retry; retry policy belongs to
// the caller.
type ServiceError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("vision: %s returned status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("vision: %s: %s", e.Provider, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Extractor issues one synchronous call to a vision model and returns its raw
// text response verbatim.
type Extractor interface {
	// ExtractText sends the image and the extraction prompt to the model
	// and returns whatever text it produced.
	ExtractText(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close releases any client resources.
	Close() error
}
