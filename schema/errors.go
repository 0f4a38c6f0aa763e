package schema

import (
	"errors"
	"fmt"
)

// ErrNoResults signals an empty retrieval. Callers answer with an empty
// context instead of calling the generative model.
var ErrNoResults = errors.New("no relevant passages found")

// CitationRestoreError reports a placeholder/mapping mismatch during
// citation restoration. It is an integrity violation: compression of the
// affected text must abort rather than return corrupted output.
type CitationRestoreError struct {
	Placeholder string
	Reason      string
}

func (e *CitationRestoreError) Error() string {
	return fmt.Sprintf("citation restore failed for %s: %s", e.Placeholder, e.Reason)
}

// CompressionUnavailableError reports that the delegated compression model
// could not be reached or loaded. Recoverable: callers fall back to the
// extractive compressor.
type CompressionUnavailableError struct {
	Cause error
}

func (e *CompressionUnavailableError) Error() string {
	return fmt.Sprintf("compression model unavailable: %v", e.Cause)
}

func (e *CompressionUnavailableError) Unwrap() error { return e.Cause }

// MalformedDocumentError reports section/offset invariant violations.
// The document is rejected from chunking rather than producing
// inconsistent chunks.
type MalformedDocumentError struct {
	DocumentID string
	Reason     string
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document %s: %s", e.DocumentID, e.Reason)
}
