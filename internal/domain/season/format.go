package season

import (
	"time"

	"golang.org/x/text/language"
)

// dateLayouts are short "month-abbrev day, year" layouts per supported locale.
// The first entry is the fallback for unmatched locales.
var dateLayouts = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "Jan 2, 2006"},
	{language.BritishEnglish, "2 Jan 2006"},
	{language.MustParse("en-AU"), "2 Jan 2006"},
	{language.MustParse("en-CA"), "Jan 2, 2006"},
	{language.MustParse("en-NZ"), "2 Jan 2006"},
}

var dateMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(dateLayouts))
	for i, l := range dateLayouts {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// FormatDate renders t as a short locale date, e.g. "Aug 1, 2024" for en-US.
func (c *Calculator) FormatDate(t time.Time) string {
	_, idx, _ := dateMatcher.Match(c.locale)
	return t.Format(dateLayouts[idx].layout)
}
