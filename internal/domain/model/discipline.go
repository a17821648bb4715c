// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Discipline selects the apparatus set a gymnast competes on.
type Discipline string

// Known disciplines. Order matters: Womens sorts before Mens.
const (
	Womens Discipline = "Womens"
	Mens   Discipline = "Mens"
)

// Disciplines lists every discipline in display order.
func Disciplines() []Discipline {
	return []Discipline{Womens, Mens}
}

// Valid reports whether d is a known discipline.
func (d Discipline) Valid() bool {
	return d == Womens || d == Mens
}

// Order returns the fixed position of d in the discipline enumeration.
// Unknown disciplines sort after all known ones.
func (d Discipline) Order() int {
	switch d {
	case Womens:
		return 0
	case Mens:
		return 1
	default:
		return 2
	}
}

// Events returns the canonical event order for d. Unknown disciplines have no events.
func (d Discipline) Events() []Event {
	switch d {
	case Womens:
		return []Event{Vault, Bars, Beam, Floor}
	case Mens:
		return []Event{Floor, PommelHorse, Rings, Vault, ParallelBars, HighBar}
	default:
		return nil
	}
}

// Has reports whether e is contested in discipline d.
func (d Discipline) Has(e Event) bool {
	for _, ev := range d.Events() {
		if ev == e {
			return true
		}
	}
	return false
}

// ParseDiscipline accepts the canonical names case-insensitively, plus the
// common "women"/"men" spellings.
func ParseDiscipline(s string) (Discipline, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "womens", "women", "w", "wag":
		return Womens, nil
	case "mens", "men", "m", "mag":
		return Mens, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDiscipline, s)
}

// Event is an apparatus key as stored on a score.
type Event string

// Event keys. Vault and Floor are shared by both disciplines.
const (
	Vault        Event = "vault"
	Bars         Event = "bars"
	Beam         Event = "beam"
	Floor        Event = "floor"
	PommelHorse  Event = "pommelHorse"
	Rings        Event = "rings"
	ParallelBars Event = "parallelBars"
	HighBar      Event = "highBar"
	AllAround    Event = "allAround"
)
