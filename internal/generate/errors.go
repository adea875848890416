package generate

import "fmt"

// ParseError reports a completion from which no quiz could be recovered.
// It unwraps to quiz.ErrUnparseable.
type ParseError struct {
	Completion string
	Err        error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Snippet returns the start of the completion for logs.
func (e *ParseError) Snippet(n int) string {
	r := []rune(e.Completion)
	if len(r) <= n {
		return e.Completion
	}
	return fmt.Sprintf("%s...", string(r[:n]))
}
