package season

import (
	"errors"
	"fmt"
)

// ErrParseSeason is the sentinel kind for malformed season labels.
var ErrParseSeason = errors.New("parse season")

// ParseError describes a season label that could not be parsed.
type ParseError struct {
	Label  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse season %q: %s", e.Label, e.Reason)
}

// Unwrap lets callers match ParseError with errors.Is(err, ErrParseSeason).
func (e *ParseError) Unwrap() error { return ErrParseSeason }
