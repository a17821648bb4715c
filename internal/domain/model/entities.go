package model

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh random identifier for gymnasts, meets and scores.
func NewID() string {
	return uuid.NewString()
}

// Gymnast is a roster member. The core never mutates gymnasts.
type Gymnast struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Level      string     `json:"level" yaml:"level"`
	Discipline Discipline `json:"discipline" yaml:"discipline"`
}

// Meet is a single competition date.
type Meet struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Location string    `json:"location,omitempty" yaml:"location,omitempty"`
	Date     time.Time `json:"date" yaml:"date"`
	Season   string    `json:"season" yaml:"season"`
}

// Score is one gymnast's marks at one meet. Exactly one of Womens or Mens is
// expected to be set.
type Score struct {
	ID         string             `json:"id" yaml:"id"`
	GymnastID  string             `json:"gymnast_id" yaml:"gymnast_id"`
	MeetID     string             `json:"meet_id" yaml:"meet_id"`
	Womens     *WomensEventScores `json:"womens,omitempty" yaml:"womens,omitempty"`
	Mens       *MensEventScores   `json:"mens,omitempty" yaml:"mens,omitempty"`
	Placements map[Event]int      `json:"placements,omitempty" yaml:"placements,omitempty"`
}

// EventScores returns the discipline-specific marks, or nil when none were recorded.
func (s Score) EventScores() EventScores {
	switch {
	case s.Womens != nil && s.Mens == nil:
		return *s.Womens
	case s.Mens != nil && s.Womens == nil:
		return *s.Mens
	default:
		return nil
	}
}

// Discipline returns the discipline of the recorded marks, or "" if unknown.
func (s Score) Discipline() Discipline {
	if es := s.EventScores(); es != nil {
		return es.Discipline()
	}
	return ""
}

// Value returns the mark for e, or 0 when e does not apply or was not recorded.
func (s Score) Value(e Event) float64 {
	es := s.EventScores()
	if es == nil {
		return 0
	}
	v, _ := es.Value(e)
	return v
}

// CountingScore identifies one mark that contributed to a team total.
type CountingScore struct {
	GymnastID string  `json:"gymnast_id"`
	Event     Event   `json:"event"`
	Score     float64 `json:"score"`
}

// TeamScoreResult is the aggregate for one discipline at one meet.
type TeamScoreResult struct {
	Discipline     Discipline        `json:"discipline"`
	TeamScores     map[Event]float64 `json:"team_scores"`
	CountingScores []CountingScore   `json:"counting_scores"`
	TotalScore     float64           `json:"total_score"`
}

// LevelDisciplineCombo is one scoring group within a meet.
type LevelDisciplineCombo struct {
	Level      string     `json:"level"`
	Discipline Discipline `json:"discipline"`
}
