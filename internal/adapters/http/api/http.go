// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/gymscore/internal/adapters/repository"
	"github.com/okian/gymscore/internal/domain/model"
	"github.com/okian/gymscore/internal/domain/season"
	"github.com/okian/gymscore/internal/domain/types"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	TeamScoreDependencies
	SeasonDependencies
	StatsProvider
}

// TeamScoreDependencies covers team aggregation and export.
type TeamScoreDependencies interface {
	TeamScore(ctx context.Context, meetID, level string, d model.Discipline) (types.ComboResult, error)
	MeetTeamScores(ctx context.Context, meetID string) ([]types.ComboResult, error)
	CalculateTeamScore(ctx context.Context, req types.TeamScoreRequest) (types.ComboResult, error)
	Placements(ctx context.Context, meetID, level string, d model.Discipline) ([]model.Score, error)
	ExportMeet(ctx context.Context, meetID string, w io.Writer) error
}

// SeasonDependencies covers season lookups.
type SeasonDependencies interface {
	CurrentSeason(ctx context.Context) types.SeasonInfo
	SeasonAt(ctx context.Context, t time.Time) types.SeasonInfo
	NextSeason(ctx context.Context, label string) (types.SeasonInfo, error)
	PreviousSeason(ctx context.Context, label string) (types.SeasonInfo, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	teamScoreHandler *TeamScoreHandler
	seasonHandler    *SeasonHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		teamScoreHandler: NewTeamScoreHandler(deps),
		seasonHandler:    NewSeasonHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /team-score", MetricsMiddleware(s.teamScoreHandler.HandlePostTeamScore, "team_score"))
	mux.HandleFunc("GET /meets/{id}/team-scores", MetricsMiddleware(s.teamScoreHandler.HandleGetMeetTeamScores, "meet_team_scores"))
	mux.HandleFunc("GET /meets/{id}/placements", MetricsMiddleware(s.teamScoreHandler.HandleGetPlacements, "meet_placements"))
	mux.HandleFunc("GET /meets/{id}/export.xlsx", MetricsMiddleware(s.teamScoreHandler.HandleExportMeet, "meet_export"))

	mux.HandleFunc("GET /seasons", MetricsMiddleware(s.seasonHandler.HandleGetSeasonAt, "seasons"))
	mux.HandleFunc("GET /seasons/current", MetricsMiddleware(s.seasonHandler.HandleGetCurrent, "seasons_current"))
	mux.HandleFunc("GET /seasons/{label}/next", MetricsMiddleware(s.seasonHandler.HandleGetNext, "seasons_next"))
	mux.HandleFunc("GET /seasons/{label}/previous", MetricsMiddleware(s.seasonHandler.HandleGetPrevious, "seasons_previous"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps upstream sentinel errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrMeetNotFound), errors.Is(err, repository.ErrGymnastNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, season.ErrParseSeason):
		writeError(w, http.StatusBadRequest, "invalid_season", err)
	case errors.Is(err, types.ErrInvalidRequest),
		errors.Is(err, model.ErrInvalidDiscipline),
		errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}
