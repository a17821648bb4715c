package ordering

import (
	"math"

	"github.com/shopspring/decimal"
)

const scorePlaces = 3

// FormatScore renders an individual mark with exactly three decimals,
// rounding half away from zero at the fourth digit. Rounding works on the
// shortest decimal form of v, so 1.0005 renders "1.001".
func FormatScore(v float64) string {
	return fixed(v)
}

// FormatTeamScore renders a team total the same way as FormatScore.
func FormatTeamScore(v float64) string {
	return fixed(v)
}

func fixed(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return decimal.NewFromFloat(v).StringFixed(scorePlaces)
}
