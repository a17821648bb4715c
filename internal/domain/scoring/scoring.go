// Package scoring selects the counting marks per event and sums them into
// team totals.
package scoring

import (
	"math"
	"sort"

	"github.com/okian/gymscore/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithRequireKnownGymnast drops scores whose gymnast is not in the roster
// passed to CalculateTeamScore. By default such scores still count as long
// as their marks belong to the requested discipline.
func WithRequireKnownGymnast() Option {
	return func(a *Aggregator) {
		a.requireKnown = true
	}
}

// Calculator computes team aggregates.
type Calculator interface {
	// CalculateTeamScore returns the team result for one discipline, counting
	// at most countingCount marks per event.
	CalculateTeamScore(scores []model.Score, discipline model.Discipline, gymnasts []model.Gymnast, countingCount int) model.TeamScoreResult
}

// Aggregator implements Calculator. It holds no mutable state.
type Aggregator struct {
	requireKnown bool
}

// NewAggregator creates an Aggregator with the given options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CalculateTeamScore implements Calculator.
//
// For every event of the discipline, marks greater than zero are ordered
// highest first (ties keep input order) and the first countingCount are
// summed exactly. TotalScore adds the stored event totals in canonical event
// order, so it equals their float sum bit for bit. Events nobody scored on
// total 0. A non-positive countingCount counts nothing.
func (a *Aggregator) CalculateTeamScore(scores []model.Score, discipline model.Discipline, gymnasts []model.Gymnast, countingCount int) model.TeamScoreResult {
	events := discipline.Events()
	res := model.TeamScoreResult{
		Discipline:     discipline,
		TeamScores:     make(map[model.Event]float64, len(events)),
		CountingScores: []model.CountingScore{},
	}

	eligible := a.eligible(scores, discipline, gymnasts)
	for _, ev := range events {
		top := topN(eligible, ev, countingCount)
		sum := decimal.Zero
		for _, c := range top {
			sum = sum.Add(decimal.NewFromFloat(c.Score))
		}
		res.TeamScores[ev] = sum.InexactFloat64()
		res.CountingScores = append(res.CountingScores, top...)
		res.TotalScore += res.TeamScores[ev]
	}
	return res
}

// eligible keeps scores recorded for discipline whose gymnast, when known,
// competes in the same discipline.
func (a *Aggregator) eligible(scores []model.Score, discipline model.Discipline, gymnasts []model.Gymnast) []model.Score {
	roster := make(map[string]model.Discipline, len(gymnasts))
	for _, g := range gymnasts {
		roster[g.ID] = g.Discipline
	}

	out := make([]model.Score, 0, len(scores))
	for _, s := range scores {
		if s.Discipline() != discipline {
			continue
		}
		d, known := roster[s.GymnastID]
		if known && d != discipline {
			continue
		}
		if !known && a.requireKnown {
			continue
		}
		out = append(out, s)
	}
	return out
}

// qualifying returns every mark for ev that can count, highest first with
// ties in input order.
func qualifying(scores []model.Score, ev model.Event) []model.CountingScore {
	var out []model.CountingScore
	for _, s := range scores {
		v := s.Value(ev)
		if !(v > 0) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, model.CountingScore{GymnastID: s.GymnastID, Event: ev, Score: v})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func topN(scores []model.Score, ev model.Event, n int) []model.CountingScore {
	if n <= 0 {
		return nil
	}
	q := qualifying(scores, ev)
	if len(q) > n {
		q = q[:n]
	}
	return q
}

// IsCountingScore reports whether the gymnast's mark on event is among
// countingScores. Only the (gymnast, event) pair is compared.
func IsCountingScore(gymnastID string, event model.Event, countingScores []model.CountingScore) bool {
	for _, c := range countingScores {
		if c.GymnastID == gymnastID && c.Event == event {
			return true
		}
	}
	return false
}
