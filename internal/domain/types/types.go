// Package types contains common types used across the application
package types

import "github.com/okian/gymscore/internal/domain/model"

// ComboResult is the team result for one level/discipline group at a meet.
type ComboResult struct {
	MeetID        string                `json:"meet_id,omitempty"`
	Level         string                `json:"level"`
	Discipline    model.Discipline      `json:"discipline"`
	CountingCount int                   `json:"counting_count"`
	Result        model.TeamScoreResult `json:"result"`
	Display       Display               `json:"display"`
}

// Display carries the rendered strings for a team result.
type Display struct {
	TotalScore string       `json:"total_score"`
	Events     []EventTotal `json:"events"`
}

// EventTotal is one rendered event column.
type EventTotal struct {
	Event     model.Event `json:"event"`
	Name      string      `json:"name"`
	ShortName string      `json:"short_name"`
	Total     string      `json:"total"`
}

// SeasonInfo is the season view returned to clients.
type SeasonInfo struct {
	Season    string `json:"season"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	Previous  string `json:"previous"`
	Next      string `json:"next"`
	Date      string `json:"date,omitempty"`
}

// TeamScoreRequest is an ad-hoc aggregation over caller-supplied records.
type TeamScoreRequest struct {
	Discipline model.Discipline `json:"discipline"`
	Level      string           `json:"level,omitempty"`
	// CountingCount overrides the configured count when set.
	CountingCount *int            `json:"counting_count,omitempty"`
	Gymnasts      []model.Gymnast `json:"gymnasts"`
	Scores        []model.Score   `json:"scores"`
}
