package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/gymscore/internal/domain/model"
	"github.com/okian/gymscore/internal/domain/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TeamScoreHandler handles team aggregation requests.
type TeamScoreHandler struct {
	deps TeamScoreDependencies
}

// NewTeamScoreHandler creates a new team score handler.
func NewTeamScoreHandler(deps TeamScoreDependencies) *TeamScoreHandler {
	return &TeamScoreHandler{deps: deps}
}

// HandlePostTeamScore handles POST /team-score requests.
func (h *TeamScoreHandler) HandlePostTeamScore(w http.ResponseWriter, r *http.Request) {
	var req types.TeamScoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", badRequest("decode body: %v", err))
		return
	}
	res, err := h.deps.CalculateTeamScore(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleGetMeetTeamScores handles GET /meets/{id}/team-scores. With both
// level and discipline query parameters only that group is returned.
func (h *TeamScoreHandler) HandleGetMeetTeamScores(w http.ResponseWriter, r *http.Request) {
	meetID := r.PathValue("id")
	level, d, single, err := comboQuery(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if single {
		res, err := h.deps.TeamScore(r.Context(), meetID, level, d)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, []types.ComboResult{res})
		return
	}
	results, err := h.deps.MeetTeamScores(r.Context(), meetID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// HandleGetPlacements handles GET /meets/{id}/placements?level=&discipline=.
func (h *TeamScoreHandler) HandleGetPlacements(w http.ResponseWriter, r *http.Request) {
	level, d, single, err := comboQuery(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !single {
		writeDomainError(w, badRequest("level and discipline are required"))
		return
	}
	scores, err := h.deps.Placements(r.Context(), r.PathValue("id"), level, d)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

// HandleExportMeet handles GET /meets/{id}/export.xlsx requests.
func (h *TeamScoreHandler) HandleExportMeet(w http.ResponseWriter, r *http.Request) {
	meetID := r.PathValue("id")
	var buf bytes.Buffer
	if err := h.deps.ExportMeet(r.Context(), meetID, &buf); err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "meet-"+meetID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// comboQuery reads the optional level/discipline pair. Giving only one of
// them is an error.
func comboQuery(r *http.Request) (level string, d model.Discipline, ok bool, err error) {
	level = strings.TrimSpace(r.URL.Query().Get("level"))
	raw := strings.TrimSpace(r.URL.Query().Get("discipline"))
	switch {
	case level == "" && raw == "":
		return "", "", false, nil
	case level == "" || raw == "":
		return "", "", false, badRequest("level and discipline must be given together")
	}
	d, err = model.ParseDiscipline(raw)
	if err != nil {
		return "", "", false, err
	}
	return level, d, true, nil
}
