package model

// EventScores is the per-apparatus mark set of one gymnast at one meet.
// Implementations are discipline specific, so a womens score can never carry
// a pommel horse value and vice versa.
type EventScores interface {
	// Discipline returns the discipline whose events these scores cover.
	Discipline() Discipline
	// Value returns the mark for e and whether e applies to this discipline.
	// Absent marks are reported as 0.
	Value(e Event) (float64, bool)
	// AllAround sums every applicable event.
	AllAround() float64
}

// WomensEventScores holds the four womens apparatus marks.
type WomensEventScores struct {
	Vault float64 `json:"vault,omitempty" yaml:"vault,omitempty"`
	Bars  float64 `json:"bars,omitempty" yaml:"bars,omitempty"`
	Beam  float64 `json:"beam,omitempty" yaml:"beam,omitempty"`
	Floor float64 `json:"floor,omitempty" yaml:"floor,omitempty"`
}

// Discipline implements EventScores.
func (WomensEventScores) Discipline() Discipline { return Womens }

// Value implements EventScores.
func (s WomensEventScores) Value(e Event) (float64, bool) {
	switch e {
	case Vault:
		return s.Vault, true
	case Bars:
		return s.Bars, true
	case Beam:
		return s.Beam, true
	case Floor:
		return s.Floor, true
	case AllAround:
		return s.AllAround(), true
	}
	return 0, false
}

// AllAround implements EventScores.
func (s WomensEventScores) AllAround() float64 {
	return s.Vault + s.Bars + s.Beam + s.Floor
}

// MensEventScores holds the six mens apparatus marks.
type MensEventScores struct {
	Floor        float64 `json:"floor,omitempty" yaml:"floor,omitempty"`
	PommelHorse  float64 `json:"pommelHorse,omitempty" yaml:"pommelHorse,omitempty"`
	Rings        float64 `json:"rings,omitempty" yaml:"rings,omitempty"`
	Vault        float64 `json:"vault,omitempty" yaml:"vault,omitempty"`
	ParallelBars float64 `json:"parallelBars,omitempty" yaml:"parallelBars,omitempty"`
	HighBar      float64 `json:"highBar,omitempty" yaml:"highBar,omitempty"`
}

// Discipline implements EventScores.
func (MensEventScores) Discipline() Discipline { return Mens }

// Value implements EventScores.
func (s MensEventScores) Value(e Event) (float64, bool) {
	switch e {
	case Floor:
		return s.Floor, true
	case PommelHorse:
		return s.PommelHorse, true
	case Rings:
		return s.Rings, true
	case Vault:
		return s.Vault, true
	case ParallelBars:
		return s.ParallelBars, true
	case HighBar:
		return s.HighBar, true
	case AllAround:
		return s.AllAround(), true
	}
	return 0, false
}

// AllAround implements EventScores.
func (s MensEventScores) AllAround() float64 {
	return s.Floor + s.PommelHorse + s.Rings + s.Vault + s.ParallelBars + s.HighBar
}
