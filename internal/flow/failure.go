package flow

import (
	"errors"

	"github.com/abhisek/quizdoc/internal/extract"
	"github.com/abhisek/quizdoc/internal/quiz"
	"github.com/abhisek/quizdoc/internal/remote"
)

// FailureKind classifies errors shown to the user.
type FailureKind string

const (
	FailureIngestion  FailureKind = "ingestion"
	FailureExtraction FailureKind = "extraction"
	FailureTransport  FailureKind = "transport"
	FailureParse      FailureKind = "parse"
)

// Failure is the payload of the error state.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error

	// Return is the state DismissError goes back to.
	Return State
}

// Classify maps an error to a user-facing failure. Errors it does not
// recognize get the fallback kind and their own message.
func Classify(err error, fallback FailureKind) (FailureKind, string) {
	var (
		ingest *extract.IngestionError
		api    *remote.APIError
	)
	switch {
	case errors.As(err, &ingest):
		return FailureIngestion, ingest.Error()
	case errors.Is(err, quiz.ErrUnparseable):
		return FailureParse, quiz.ErrUnparseable.Error()
	case errors.As(err, &api):
		return FailureTransport, api.Message
	}

	var ext *extract.ExtractionError
	if errors.As(err, &ext) {
		return FailureExtraction, ext.Error()
	}
	return fallback, err.Error()
}
