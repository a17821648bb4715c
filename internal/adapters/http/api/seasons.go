package api

import (
	"net/http"
	"time"
)

const dateParamLayout = "2006-01-02"

// SeasonHandler handles season lookups.
type SeasonHandler struct {
	deps SeasonDependencies
}

// NewSeasonHandler creates a new season handler.
func NewSeasonHandler(deps SeasonDependencies) *SeasonHandler {
	return &SeasonHandler{deps: deps}
}

// HandleGetCurrent handles GET /seasons/current requests.
func (h *SeasonHandler) HandleGetCurrent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.CurrentSeason(r.Context()))
}

// HandleGetSeasonAt handles GET /seasons?date=YYYY-MM-DD requests.
func (h *SeasonHandler) HandleGetSeasonAt(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeDomainError(w, badRequest("missing date"))
		return
	}
	t, err := time.Parse(dateParamLayout, raw)
	if err != nil {
		writeDomainError(w, badRequest("invalid date %q; must be YYYY-MM-DD", raw))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.SeasonAt(r.Context(), t))
}

// HandleGetNext handles GET /seasons/{label}/next requests.
func (h *SeasonHandler) HandleGetNext(w http.ResponseWriter, r *http.Request) {
	info, err := h.deps.NextSeason(r.Context(), r.PathValue("label"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleGetPrevious handles GET /seasons/{label}/previous requests.
func (h *SeasonHandler) HandleGetPrevious(w http.ResponseWriter, r *http.Request) {
	info, err := h.deps.PreviousSeason(r.Context(), r.PathValue("label"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
