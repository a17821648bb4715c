// Package season maps calendar dates to gymnastics season labels and does
// season arithmetic. A season runs August through the following July and is
// labelled "YYYY-YYYY".
package season

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// seasonStartMonth is the first month of a new season.
const seasonStartMonth = time.August

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Span is a parsed season label.
type Span struct {
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
}

// String renders the span as a season label.
func (s Span) String() string {
	return label(s.StartYear, s.EndYear)
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithClock replaces the wall clock used by Current.
func WithClock(c Clock) Option {
	return func(calc *Calculator) {
		if c != nil {
			calc.clock = c
		}
	}
}

// WithLocale sets the locale used by FormatDate. Unsupported locales fall
// back to the closest supported one.
func WithLocale(tag language.Tag) Option {
	return func(calc *Calculator) {
		calc.locale = tag
	}
}

// WithStrictParse makes Parse reject labels whose years are not consecutive.
func WithStrictParse() Option {
	return func(calc *Calculator) {
		calc.strict = true
	}
}

// Calculator converts between dates and season labels. It holds no mutable
// state and is safe for concurrent use.
type Calculator struct {
	clock  Clock
	locale language.Tag
	strict bool
}

// New creates a Calculator using the wall clock and en-US dates.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		clock:  systemClock{},
		locale: language.AmericanEnglish,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CalculateSeason returns the season containing t. August through December
// open a season; January through July close the one that started the year before.
func (c *Calculator) CalculateSeason(t time.Time) string {
	y := t.Year()
	if t.Month() >= seasonStartMonth {
		return label(y, y+1)
	}
	return label(y-1, y)
}

// Current returns the season containing the clock's current time.
func (c *Calculator) Current() string {
	return c.CalculateSeason(c.clock.Now())
}

// Parse splits a label into its two years. Only structure is validated
// unless the calculator was built WithStrictParse.
func (c *Calculator) Parse(s string) (Span, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Span{}, &ParseError{Label: s, Reason: "expected two years separated by one hyphen"}
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return Span{}, &ParseError{Label: s, Reason: "start year is not an integer"}
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return Span{}, &ParseError{Label: s, Reason: "end year is not an integer"}
	}
	if c.strict && end != start+1 {
		return Span{}, &ParseError{Label: s, Reason: "end year must follow start year"}
	}
	return Span{StartYear: start, EndYear: end}, nil
}

// Previous returns the season before s.
func (c *Calculator) Previous(s string) (string, error) {
	span, err := c.Parse(s)
	if err != nil {
		return "", err
	}
	return label(span.StartYear-1, span.StartYear), nil
}

// Next returns the season after s.
func (c *Calculator) Next(s string) (string, error) {
	span, err := c.Parse(s)
	if err != nil {
		return "", err
	}
	return label(span.EndYear, span.EndYear+1), nil
}

func label(start, end int) string {
	return fmt.Sprintf("%d-%d", start, end)
}
