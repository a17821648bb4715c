package types

import "errors"

// ErrInvalidRequest marks caller input that cannot be served.
var ErrInvalidRequest = errors.New("invalid request")
