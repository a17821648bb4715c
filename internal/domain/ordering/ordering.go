// Package ordering owns the lookup tables used to order levels and
// disciplines and to render events and scores for display.
package ordering

import (
	"sort"
	"strconv"
	"strings"

	"github.com/okian/gymscore/internal/domain/model"
)

// Sentinel order values.
const (
	EliteOrder   = 100
	UnknownOrder = 999
)

const numberedLevelPrefix = "Level "

// defaultXcelLadder is the fixed Xcel tier sequence; tiers order 11 upwards.
var defaultXcelLadder = []string{"Bronze", "Silver", "Gold", "Platinum", "Diamond", "Sapphire"}

const xcelFirstOrder = 11

type eventName struct {
	short string
	full  string
}

var defaultEventNames = map[model.Event]eventName{
	model.Vault:        {"V", "Vault"},
	model.Bars:         {"UB", "Uneven Bars"},
	model.Beam:         {"BB", "Balance Beam"},
	model.Floor:        {"FX", "Floor Exercise"},
	model.PommelHorse:  {"PH", "Pommel Horse"},
	model.Rings:        {"R", "Still Rings"},
	model.ParallelBars: {"PB", "Parallel Bars"},
	model.HighBar:      {"HB", "High Bar"},
	model.AllAround:    {"AA", "All-Around"},
}

// Ladder holds the level-order and event-name tables. A Ladder is immutable
// after construction and safe for concurrent use.
type Ladder struct {
	levels map[string]int
	events map[model.Event]eventName
}

// NewLadder builds a Ladder with the USA Gymnastics level ladder.
func NewLadder() *Ladder {
	levels := make(map[string]int, len(defaultXcelLadder)+1)
	for i, tier := range defaultXcelLadder {
		levels["Xcel "+tier] = xcelFirstOrder + i
	}
	levels["Elite"] = EliteOrder

	events := make(map[model.Event]eventName, len(defaultEventNames))
	for k, v := range defaultEventNames {
		events[k] = v
	}
	return &Ladder{levels: levels, events: events}
}

// LevelOrder returns the sort position of a level label. Numbered levels
// order by their number, Xcel tiers follow, then Elite; anything else is last.
func (l *Ladder) LevelOrder(level string) int {
	if rest, ok := strings.CutPrefix(level, numberedLevelPrefix); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			return n
		}
	}
	if o, ok := l.levels[level]; ok {
		return o
	}
	return UnknownOrder
}

// SortLevelDisciplineCombos returns combos ordered by level then discipline.
// Identical pairs keep their input order. The input slice is not modified.
func (l *Ladder) SortLevelDisciplineCombos(combos []model.LevelDisciplineCombo) []model.LevelDisciplineCombo {
	out := make([]model.LevelDisciplineCombo, len(combos))
	copy(out, combos)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := l.LevelOrder(out[i].Level), l.LevelOrder(out[j].Level)
		if oi != oj {
			return oi < oj
		}
		return out[i].Discipline.Order() < out[j].Discipline.Order()
	})
	return out
}

// EventDisplayName returns the short code (abbreviated) or full name of an
// event. Unknown keys are returned unchanged.
func (l *Ladder) EventDisplayName(e model.Event, abbreviated bool) string {
	n, ok := l.events[e]
	if !ok {
		return string(e)
	}
	if abbreviated {
		return n.short
	}
	return n.full
}
