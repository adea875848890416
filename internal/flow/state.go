// Package flow is the upload → extract → options → generate → quiz →
// results state machine behind the interactive front ends. It performs no
// I/O: callers run extraction and generation and report completions back
// with the ticket they were issued.
package flow

import (
	"errors"
	"fmt"
)

// State is a step of the quiz flow.
type State int

const (
	StateUpload State = iota
	StateExtracting
	StateOptions
	StateGenerating
	StateQuiz
	StateScoring
	StateResults
	StateError
)

var stateNames = [...]string{
	StateUpload:     "upload",
	StateExtracting: "extracting",
	StateOptions:    "options",
	StateGenerating: "generating",
	StateQuiz:       "quiz",
	StateScoring:    "scoring",
	StateResults:    "results",
	StateError:      "error",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Busy reports whether an asynchronous operation is in flight.
func (s State) Busy() bool {
	return s == StateExtracting || s == StateGenerating
}

// Ticket identifies one asynchronous operation. Completions carrying any
// ticket other than the latest issued one are dropped.
type Ticket uint64

// ErrInvalidTransition is wrapped by *TransitionError.
var ErrInvalidTransition = errors.New("invalid transition")

// TransitionError reports an operation attempted in the wrong state.
type TransitionError struct {
	Op    string
	State State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %v from %s", e.Op, ErrInvalidTransition, e.State)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
