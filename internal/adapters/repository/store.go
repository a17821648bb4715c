// Package repository holds the roster records the scoring engine reads:
// meets, gymnasts and their scores.
package repository

import (
	"context"

	"github.com/okian/gymscore/internal/domain/model"
)

// Store provides read/write access to roster records.
type Store interface {
	// PutMeet inserts or replaces a meet. A missing ID is generated.
	PutMeet(ctx context.Context, m model.Meet) (model.Meet, error)
	// PutGymnast inserts or replaces a gymnast. A missing ID is generated.
	PutGymnast(ctx context.Context, g model.Gymnast) (model.Gymnast, error)
	// PutScore inserts or replaces a score. The meet and gymnast must exist
	// and the marks must match the gymnast's discipline.
	PutScore(ctx context.Context, s model.Score) (model.Score, error)

	// Meet returns a meet by id, or ErrMeetNotFound.
	Meet(ctx context.Context, id string) (model.Meet, error)
	// Meets lists meets in insertion order, optionally filtered by season.
	Meets(ctx context.Context, season string) ([]model.Meet, error)
	// Gymnast returns a gymnast by id, or ErrGymnastNotFound.
	Gymnast(ctx context.Context, id string) (model.Gymnast, error)

	// Gymnasts returns the gymnasts with a score at the meet for the given
	// level and discipline, in score insertion order.
	Gymnasts(ctx context.Context, meetID, level string, d model.Discipline) ([]model.Gymnast, error)
	// Scores returns the scores at the meet for the given level and
	// discipline, in insertion order.
	Scores(ctx context.Context, meetID, level string, d model.Discipline) ([]model.Score, error)
	// Combos returns the distinct level/discipline groups scored at the meet,
	// in first-seen order.
	Combos(ctx context.Context, meetID string) ([]model.LevelDisciplineCombo, error)

	// Count returns the number of gymnasts and scores held.
	Count(ctx context.Context) (gymnasts, scores int)
}
