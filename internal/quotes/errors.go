package quotes

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyQuery    = errors.New("empty query")
	ErrNoMatch       = errors.New("no matching quotes")
	ErrInvalidRecord = errors.New("invalid quote record")
)

// NoMatchError is returned by Selector.Select when no stored topic contains
// the query. Query holds the query as typed, before trimming.
type NoMatchError struct {
	Query string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no quotes found for %q", e.Query)
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}
