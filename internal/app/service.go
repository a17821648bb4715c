// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/okian/gymscore/internal/adapters/export"
	"github.com/okian/gymscore/internal/adapters/repository"
	"github.com/okian/gymscore/internal/domain/model"
	"github.com/okian/gymscore/internal/domain/ordering"
	"github.com/okian/gymscore/internal/domain/scoring"
	"github.com/okian/gymscore/internal/domain/season"
	"github.com/okian/gymscore/internal/domain/types"
	"github.com/okian/gymscore/pkg/logger"
	"github.com/okian/gymscore/pkg/metrics"
)

const defaultCountingCount = 3

// Service wires the store, the aggregator and the season calculator.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	calculator scoring.Calculator
	ladder     *ordering.Ladder
	seasons    *season.Calculator
	exporter   *export.Exporter

	// Configuration
	countingCount int
	overrides     map[string]int
	rosterFile    string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the roster store. Defaults to an in-memory store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithCalculator replaces the team score calculator.
func WithCalculator(c scoring.Calculator) Option {
	return func(s *Service) {
		if c != nil {
			s.calculator = c
		}
	}
}

// WithLadder sets the level ladder used for ordering and event names.
func WithLadder(l *ordering.Ladder) Option {
	return func(s *Service) {
		if l != nil {
			s.ladder = l
		}
	}
}

// WithSeasonCalculator sets the season calculator.
func WithSeasonCalculator(c *season.Calculator) Option {
	return func(s *Service) {
		if c != nil {
			s.seasons = c
		}
	}
}

// WithCountingCount sets how many marks per event count by default.
func WithCountingCount(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.countingCount = n
		}
	}
}

// WithCountingOverrides sets per-level counting counts.
func WithCountingOverrides(overrides map[string]int) Option {
	return func(s *Service) {
		s.overrides = make(map[string]int, len(overrides))
		for level, n := range overrides {
			s.overrides[level] = n
		}
	}
}

// WithRosterFile seeds the store from a YAML roster on Start.
func WithRosterFile(path string) Option {
	return func(s *Service) {
		s.rosterFile = path
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		calculator:    scoring.NewAggregator(),
		ladder:        ordering.NewLadder(),
		seasons:       season.New(),
		countingCount: defaultCountingCount,
		overrides:     map[string]int{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithSeasonFunc(s.seasons.CalculateSeason))
	}
	s.exporter = export.New(export.WithLadder(s.ladder), export.WithDateFormat(s.seasons.FormatDate))

	return s
}

// Start loads the roster file, if any. It is safe to call more than once.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	if s.rosterFile != "" {
		stats, err := repository.LoadFile(ctx, s.store, s.rosterFile)
		if err != nil {
			return fmt.Errorf("seed roster: %w", err)
		}
		s.logger.Info(ctx, "roster loaded",
			logger.String("file", s.rosterFile),
			logger.Int("meets", stats.Meets),
			logger.Int("gymnasts", stats.Gymnasts),
			logger.Int("scores", stats.Scores),
		)
	}

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("countingCount", s.countingCount),
		logger.Int("countingOverrides", len(s.overrides)),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "scoring service stopped")
}

// Store returns the roster store.
func (s *Service) Store() repository.Store { return s.store }

// CountingFor returns the counting count configured for level.
func (s *Service) CountingFor(level string) int {
	if n, ok := s.overrides[level]; ok {
		return n
	}
	return s.countingCount
}

// TeamScore aggregates one level/discipline group at a stored meet.
func (s *Service) TeamScore(ctx context.Context, meetID, level string, d model.Discipline) (types.ComboResult, error) {
	if !d.Valid() {
		return types.ComboResult{}, fmt.Errorf("%w: %w: %q", types.ErrInvalidRequest, model.ErrInvalidDiscipline, d)
	}
	if _, err := s.store.Meet(ctx, meetID); err != nil {
		return types.ComboResult{}, err
	}
	gymnasts, err := s.store.Gymnasts(ctx, meetID, level, d)
	if err != nil {
		return types.ComboResult{}, err
	}
	scores, err := s.store.Scores(ctx, meetID, level, d)
	if err != nil {
		return types.ComboResult{}, err
	}

	res := s.aggregate(ctx, level, d, gymnasts, scores, s.CountingFor(level))
	res.MeetID = meetID
	return res, nil
}

// MeetTeamScores aggregates every level/discipline group at a meet, ordered
// by level then discipline.
func (s *Service) MeetTeamScores(ctx context.Context, meetID string) ([]types.ComboResult, error) {
	if _, err := s.store.Meet(ctx, meetID); err != nil {
		return nil, err
	}
	combos, err := s.store.Combos(ctx, meetID)
	if err != nil {
		return nil, err
	}

	out := make([]types.ComboResult, 0, len(combos))
	for _, c := range s.ladder.SortLevelDisciplineCombos(combos) {
		res, err := s.TeamScore(ctx, meetID, c.Level, c.Discipline)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// CalculateTeamScore aggregates records supplied by the caller.
func (s *Service) CalculateTeamScore(ctx context.Context, req types.TeamScoreRequest) (types.ComboResult, error) {
	d, err := model.ParseDiscipline(string(req.Discipline))
	if err != nil {
		return types.ComboResult{}, fmt.Errorf("%w: %w", types.ErrInvalidRequest, err)
	}
	n := s.CountingFor(req.Level)
	if req.CountingCount != nil {
		if *req.CountingCount < 0 {
			return types.ComboResult{}, fmt.Errorf("%w: counting_count must not be negative", types.ErrInvalidRequest)
		}
		n = *req.CountingCount
	}
	return s.aggregate(ctx, req.Level, d, req.Gymnasts, req.Scores, n), nil
}

// Placements returns the group's scores with per-event placements filled in
// where none were recorded.
func (s *Service) Placements(ctx context.Context, meetID, level string, d model.Discipline) ([]model.Score, error) {
	if _, err := s.store.Meet(ctx, meetID); err != nil {
		return nil, err
	}
	scores, err := s.store.Scores(ctx, meetID, level, d)
	if err != nil {
		return nil, err
	}
	placed := scoring.DerivePlacements(scores, d)
	metrics.RecordPlacementsDerived(len(placed))
	return placed, nil
}

// ExportMeet writes every group of the meet to w as an xlsx workbook.
func (s *Service) ExportMeet(ctx context.Context, meetID string, w io.Writer) (err error) {
	defer func() { metrics.RecordExport(err) }()

	meet, err := s.store.Meet(ctx, meetID)
	if err != nil {
		return err
	}
	results, err := s.MeetTeamScores(ctx, meetID)
	if err != nil {
		return err
	}

	sheets := make([]export.Sheet, 0, len(results))
	for _, r := range results {
		gymnasts, err := s.store.Gymnasts(ctx, meetID, r.Level, r.Discipline)
		if err != nil {
			return err
		}
		scores, err := s.Placements(ctx, meetID, r.Level, r.Discipline)
		if err != nil {
			return err
		}
		sheets = append(sheets, export.Sheet{Combo: r, Gymnasts: gymnasts, Scores: scores})
	}

	if err := s.exporter.Write(w, meet, sheets); err != nil {
		s.log().Error(ctx, "meet export failed", logger.String("meetID", meetID), logger.Error(err))
		return err
	}
	s.log().Info(ctx, "meet exported", logger.String("meetID", meetID), logger.Int("sheets", len(sheets)))
	return nil
}

// CurrentSeason describes the season containing the clock's current time.
func (s *Service) CurrentSeason(ctx context.Context) types.SeasonInfo {
	metrics.RecordSeasonLookup("current")
	info, _ := s.seasonInfo(ctx, s.seasons.Current())
	return info
}

// SeasonAt describes the season containing t.
func (s *Service) SeasonAt(ctx context.Context, t time.Time) types.SeasonInfo {
	metrics.RecordSeasonLookup("at")
	info, _ := s.seasonInfo(ctx, s.seasons.CalculateSeason(t))
	info.Date = s.seasons.FormatDate(t)
	return info
}

// NextSeason describes the season after label.
func (s *Service) NextSeason(ctx context.Context, label string) (types.SeasonInfo, error) {
	metrics.RecordSeasonLookup("next")
	next, err := s.seasons.Next(label)
	if err != nil {
		return types.SeasonInfo{}, s.parseFailed(ctx, label, err)
	}
	return s.seasonInfo(ctx, next)
}

// PreviousSeason describes the season before label.
func (s *Service) PreviousSeason(ctx context.Context, label string) (types.SeasonInfo, error) {
	metrics.RecordSeasonLookup("previous")
	prev, err := s.seasons.Previous(label)
	if err != nil {
		return types.SeasonInfo{}, s.parseFailed(ctx, label, err)
	}
	return s.seasonInfo(ctx, prev)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gymnasts, scores := s.store.Count(context.Background())
	metrics.UpdateRosterSize(gymnasts, scores)
	return map[string]any{
		"started":       s.started,
		"countingCount": s.countingCount,
		"gymnasts":      gymnasts,
		"scores":        scores,
		"season":        s.seasons.Current(),
	}
}

func (s *Service) aggregate(ctx context.Context, level string, d model.Discipline, gymnasts []model.Gymnast, scores []model.Score, n int) types.ComboResult {
	start := time.Now()
	res := s.calculator.CalculateTeamScore(scores, d, gymnasts, n)
	metrics.RecordAggregationLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordTeamScoreCalculated(string(d))
	metrics.RecordCountingScores(len(res.CountingScores))

	s.log().Debug(ctx, "team score calculated",
		logger.String("level", level),
		logger.String("discipline", string(d)),
		logger.Int("scores", len(scores)),
		logger.Int("counting", len(res.CountingScores)),
		logger.Float64("total", res.TotalScore),
	)

	return types.ComboResult{
		Level:         level,
		Discipline:    d,
		CountingCount: n,
		Result:        res,
		Display:       s.display(res),
	}
}

func (s *Service) display(res model.TeamScoreResult) types.Display {
	events := res.Discipline.Events()
	out := types.Display{
		TotalScore: ordering.FormatTeamScore(res.TotalScore),
		Events:     make([]types.EventTotal, 0, len(events)),
	}
	for _, ev := range events {
		out.Events = append(out.Events, types.EventTotal{
			Event:     ev,
			Name:      s.ladder.EventDisplayName(ev, false),
			ShortName: s.ladder.EventDisplayName(ev, true),
			Total:     ordering.FormatTeamScore(res.TeamScores[ev]),
		})
	}
	return out
}

func (s *Service) seasonInfo(ctx context.Context, label string) (types.SeasonInfo, error) {
	span, err := s.seasons.Parse(label)
	if err != nil {
		return types.SeasonInfo{}, s.parseFailed(ctx, label, err)
	}
	prev, _ := s.seasons.Previous(label)
	next, _ := s.seasons.Next(label)
	return types.SeasonInfo{
		Season:    label,
		StartYear: span.StartYear,
		EndYear:   span.EndYear,
		Previous:  prev,
		Next:      next,
	}, nil
}

func (s *Service) parseFailed(ctx context.Context, label string, err error) error {
	metrics.RecordSeasonParseError()
	var pe *season.ParseError
	if errors.As(err, &pe) {
		s.log().Debug(ctx, "season label rejected", logger.String("label", label), logger.String("reason", pe.Reason))
	}
	return err
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Named("service")
	}
	return l
}
