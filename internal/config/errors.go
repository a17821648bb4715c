package config

import "errors"

// Errors returned by Load and Validate.
var (
	ErrInvalidConfig = errors.New("gymscore: invalid configuration")
	ErrLoadConfig    = errors.New("gymscore: cannot load configuration")
)
