package extract

import (
	"errors"
	"fmt"
)

// Batch composition failures, wrapped in *IngestionError.
var (
	ErrEmptyBatch        = errors.New("no files uploaded")
	ErrUnsupportedType   = errors.New("unsupported file type")
	ErrMixedBatch        = errors.New("images and documents cannot be uploaded together")
	ErrTooManyImages     = errors.New("too many images")
	ErrMultipleDocuments = errors.New("only one PDF or Word document can be uploaded at a time")
	ErrPDFNotAlone       = errors.New("a PDF must be uploaded on its own")
)

// ErrPageLimit reports a PDF with more pages than allowed. It is wrapped
// in *ExtractionError.
var ErrPageLimit = errors.New("PDF page limit exceeded")

// IngestionError rejects a batch before any extraction starts.
type IngestionError struct {
	File string // offending file, empty for batch-wide rules
	Err  error
}

func (e *IngestionError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return e.Err.Error()
}

func (e *IngestionError) Unwrap() error { return e.Err }

// ExtractionError reports an engine failure on one file. It aborts the
// whole batch.
type ExtractionError struct {
	File string
	Kind Kind
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract text from %s %q: %v", e.Kind, e.File, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
