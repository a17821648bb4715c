package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrMeetNotFound    = errors.New("meet not found")
	ErrGymnastNotFound = errors.New("gymnast not found")
	ErrInvalidScore    = errors.New("invalid score")
	ErrInvalidGymnast  = errors.New("invalid gymnast")
	ErrLoadRoster      = errors.New("load roster failed")
)
