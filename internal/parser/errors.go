package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyDocument     = errors.New("empty document")
	ErrUnknownLanguage   = errors.New("unknown language")
	ErrMissingFeature    = errors.New("missing Feature")
	ErrUnexpectedLine    = errors.New("unexpected line")
	ErrEmptyTitle        = errors.New("empty title")
	ErrMalformedTable    = errors.New("malformed table row")
	ErrUnclosedDocString = errors.New("unclosed doc string")
)

// ParseError locates a syntax problem. Line is 1-based; Text is the raw
// source line. Err is one of the sentinel errors above.
type ParseError struct {
	Line    int
	Text    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	text := strings.TrimSpace(e.Text)
	if text == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Message, text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newError(line int, raw string, err error, format string, args ...any) *ParseError {
	return &ParseError{
		Line:    line,
		Text:    raw,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
