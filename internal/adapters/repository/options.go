package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithSeasonFunc fills in a meet's season from its date when the season is
// left empty on PutMeet.
func WithSeasonFunc(fn func(time.Time) string) Option {
	return func(s *MemoryStore) {
		if fn != nil {
			s.seasonOf = fn
		}
	}
}
