package service

import (
	"github.com/okian/gymscore/internal/config"
	"github.com/okian/gymscore/internal/domain/season"
	"github.com/okian/gymscore/pkg/logger"
	"golang.org/x/text/language"
)

// SeasonOptions returns the season calculator options implied by cfg.
func SeasonOptions(cfg *config.Config) []season.Option {
	opts := []season.Option{season.WithLocale(language.Make(cfg.Locale))}
	if cfg.StrictSeasonParse {
		opts = append(opts, season.WithStrictParse())
	}
	return opts
}

// FromConfig builds a Service from loaded configuration. Extra options are
// applied last.
func FromConfig(cfg *config.Config, l logger.Logger, opts ...Option) *Service {
	base := []Option{
		WithLogger(l),
		WithSeasonCalculator(season.New(SeasonOptions(cfg)...)),
		WithCountingCount(cfg.CountingCount),
		WithCountingOverrides(cfg.CountingOverrides),
		WithRosterFile(cfg.RosterFile),
	}
	return New(append(base, opts...)...)
}
