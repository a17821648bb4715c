package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInvalidDiscipline = errors.New("invalid discipline")
	ErrMixedDiscipline   = errors.New("score discipline does not match gymnast")
)
