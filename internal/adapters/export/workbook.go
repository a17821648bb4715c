// Package export renders meet team results as an xlsx workbook.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/gymscore/internal/domain/model"
	"github.com/okian/gymscore/internal/domain/ordering"
	"github.com/okian/gymscore/internal/domain/scoring"
	"github.com/okian/gymscore/internal/domain/types"
	"github.com/xuri/excelize/v2"
)

const (
	maxSheetName   = 31
	countingSuffix = "*"
	teamRowLabel   = "Team"
	nameColWidth   = 28
	markColWidth   = 10
)

// Sheet is one level/discipline group with the records behind its result.
type Sheet struct {
	Combo    types.ComboResult
	Gymnasts []model.Gymnast
	Scores   []model.Score
}

// Option applies a configuration option to the Exporter.
type Option func(*Exporter)

// WithLadder sets the ladder used for event column names.
func WithLadder(l *ordering.Ladder) Option {
	return func(e *Exporter) {
		if l != nil {
			e.ladder = l
		}
	}
}

// WithDateFormat sets how the meet date is rendered in each sheet header.
func WithDateFormat(fn func(time.Time) string) Option {
	return func(e *Exporter) {
		if fn != nil {
			e.formatDate = fn
		}
	}
}

// Exporter writes workbooks. It is safe for concurrent use.
type Exporter struct {
	ladder     *ordering.Ladder
	formatDate func(time.Time) string
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		ladder:     ordering.NewLadder(),
		formatDate: func(t time.Time) string { return t.Format("2006-01-02") },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Write renders one sheet per group, in the order given, and streams the
// workbook to w. Counting marks carry a trailing "*".
func (e *Exporter) Write(w io.Writer, meet model.Meet, sheets []Sheet) error {
	if len(sheets) == 0 {
		return ErrNoSheets
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteWorkbook, err)
	}

	used := make(map[string]bool, len(sheets))
	for i, sh := range sheets {
		name := uniqueName(sheetName(sh.Combo), used)
		if i == 0 {
			// The new file starts with one blank sheet; reuse it.
			err = f.SetSheetName(f.GetSheetName(0), name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			return fmt.Errorf("%w: sheet %q: %w", ErrWriteWorkbook, name, err)
		}
		if err := e.fill(f, name, bold, meet, sh); err != nil {
			return fmt.Errorf("%w: sheet %q: %w", ErrWriteWorkbook, name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteWorkbook, err)
	}
	return nil
}

// fill lays out one sheet:
//
//	row 1: meet name, date, season, counting count
//	row 2: header
//	rows 3..n: one gymnast per score
//	last row: team totals
func (e *Exporter) fill(f *excelize.File, name string, bold int, meet model.Meet, sh Sheet) error {
	events := sh.Combo.Discipline.Events()
	res := sh.Combo.Result

	meta := []any{
		meet.Name,
		e.formatDate(meet.Date),
		meet.Season,
		fmt.Sprintf("%s %s", sh.Combo.Level, sh.Combo.Discipline),
		fmt.Sprintf("top %d count", sh.Combo.CountingCount),
	}
	if err := f.SetSheetRow(name, "A1", &meta); err != nil {
		return err
	}

	header := make([]any, 0, len(events)+2)
	header = append(header, "Gymnast")
	for _, ev := range events {
		header = append(header, e.ladder.EventDisplayName(ev, true))
	}
	header = append(header, e.ladder.EventDisplayName(model.AllAround, true))
	if err := f.SetSheetRow(name, "A2", &header); err != nil {
		return err
	}

	names := make(map[string]string, len(sh.Gymnasts))
	for _, g := range sh.Gymnasts {
		names[g.ID] = g.Name
	}

	row := 3
	for _, sc := range sh.Scores {
		es := sc.EventScores()
		if es == nil || es.Discipline() != sh.Combo.Discipline {
			continue
		}
		label := names[sc.GymnastID]
		if label == "" {
			label = sc.GymnastID
		}
		cells := make([]any, 0, len(events)+2)
		cells = append(cells, label)
		for _, ev := range events {
			v, _ := es.Value(ev)
			cells = append(cells, markCell(v, scoring.IsCountingScore(sc.GymnastID, ev, res.CountingScores)))
		}
		cells = append(cells, markCell(es.AllAround(), false))
		if err := setRow(f, name, row, cells); err != nil {
			return err
		}
		row++
	}

	totals := make([]any, 0, len(events)+2)
	totals = append(totals, teamRowLabel)
	for _, ev := range events {
		totals = append(totals, ordering.FormatTeamScore(res.TeamScores[ev]))
	}
	totals = append(totals, ordering.FormatTeamScore(res.TotalScore))
	if err := setRow(f, name, row, totals); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(events) + 2)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A2", lastCol+"2", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(name, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), bold); err != nil {
		return err
	}
	if err := f.SetColWidth(name, "A", "A", nameColWidth); err != nil {
		return err
	}
	return f.SetColWidth(name, "B", lastCol, markColWidth)
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func markCell(v float64, counting bool) string {
	if !(v > 0) {
		return ""
	}
	s := ordering.FormatScore(v)
	if counting {
		s += countingSuffix
	}
	return s
}

var sheetNameReplacer = strings.NewReplacer(
	":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")",
)

// sheetName derives a valid worksheet name from a combo.
func sheetName(c types.ComboResult) string {
	n := strings.TrimSpace(sheetNameReplacer.Replace(fmt.Sprintf("%s %s", c.Level, c.Discipline)))
	n = strings.Trim(n, "'")
	if n == "" {
		n = "Results"
	}
	return truncate(n, maxSheetName)
}

func uniqueName(base string, used map[string]bool) string {
	name := base
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[name] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
