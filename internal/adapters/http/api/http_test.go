package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/gymscore/internal/adapters/http/api"
	service "github.com/okian/gymscore/internal/app"
	"github.com/okian/gymscore/internal/domain/model"
	"github.com/okian/gymscore/internal/domain/season"
	"github.com/okian/gymscore/internal/domain/types"
	"github.com/okian/gymscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func newTestService() *service.Service {
	clock := season.ClockFunc(func() time.Time { return time.Date(2024, time.September, 14, 0, 0, 0, 0, time.UTC) })
	svc := service.New(service.WithSeasonCalculator(season.New(season.WithClock(clock))))

	ctx := context.Background()
	st := svc.Store()
	_, _ = st.PutMeet(ctx, model.Meet{ID: "m1", Name: "Fall Classic", Date: time.Date(2024, time.November, 2, 0, 0, 0, 0, time.UTC)})
	_, _ = st.PutGymnast(ctx, model.Gymnast{ID: "g1", Name: "Avery", Level: "Level 6", Discipline: model.Womens})
	_, _ = st.PutGymnast(ctx, model.Gymnast{ID: "g2", Name: "Blake", Level: "Level 6", Discipline: model.Womens})
	_, _ = st.PutScore(ctx, model.Score{ID: "s1", GymnastID: "g1", MeetID: "m1", Womens: &model.WomensEventScores{Vault: 9.2, Bars: 9.0, Beam: 8.8, Floor: 9.1}})
	_, _ = st.PutScore(ctx, model.Score{ID: "s2", GymnastID: "g2", MeetID: "m1", Womens: &model.WomensEventScores{Vault: 9.0, Bars: 9.0, Beam: 9.3}})
	return svc
}

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newTestService())

		Convey("Then health returns ok", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then metrics are exposed from the custom registry", func() {
			_ = do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "gymscore_engine_http_requests_total")
		})

		Convey("Then stats reports the roster size", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["scores"], ShouldEqual, 2.0)
		})

		Convey("Then unknown paths are 404", func() {
			So(do(mux, http.MethodGet, "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then wrong methods are rejected", func() {
			So(do(mux, http.MethodPost, "/healthz", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestTeamScoreHandler(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newTestService())

		Convey("When posting an ad-hoc team score", func() {
			body := `{
				"discipline": "womens",
				"counting_count": 2,
				"gymnasts": [{"id": "a", "discipline": "Womens"}, {"id": "b", "discipline": "Womens"}, {"id": "c", "discipline": "Womens"}],
				"scores": [
					{"gymnast_id": "a", "womens": {"vault": 9.5}},
					{"gymnast_id": "b", "womens": {"vault": 9.4}},
					{"gymnast_id": "c", "womens": {"vault": 9.3}}
				]
			}`
			w := do(mux, http.MethodPost, "/team-score", body)

			Convey("Then the top marks are summed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res types.ComboResult
				So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
				So(res.Result.TeamScores[model.Vault], ShouldAlmostEqual, 18.9, 1e-9)
				So(res.Result.CountingScores, ShouldHaveLength, 2)
				So(res.Display.TotalScore, ShouldEqual, "18.900")
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/team-score", "{")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "bad_request")
		})

		Convey("When the body has unknown fields", func() {
			w := do(mux, http.MethodPost, "/team-score", `{"discipline":"womens","teams":[]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the discipline is unknown", func() {
			w := do(mux, http.MethodPost, "/team-score", `{"discipline":"rhythmic"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["message"], ShouldContainSubstring, "rhythmic")
		})

		Convey("When listing a meet's team scores", func() {
			w := do(mux, http.MethodGet, "/meets/m1/team-scores", "")

			Convey("Then every group is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res []types.ComboResult
				So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
				So(res, ShouldHaveLength, 1)
				So(res[0].Level, ShouldEqual, "Level 6")
				So(res[0].MeetID, ShouldEqual, "m1")
				So(res[0].Result.TeamScores[model.Bars], ShouldAlmostEqual, 18.0, 1e-9)
			})
		})

		Convey("When asking for one group", func() {
			w := do(mux, http.MethodGet, "/meets/m1/team-scores?level=Level+6&discipline=w", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var res []types.ComboResult
			So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
			So(res, ShouldHaveLength, 1)
			So(res[0].Discipline, ShouldEqual, model.Womens)
		})

		Convey("When only the level is given", func() {
			w := do(mux, http.MethodGet, "/meets/m1/team-scores?level=Level+6", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the meet is unknown", func() {
			w := do(mux, http.MethodGet, "/meets/nope/team-scores", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w)["code"], ShouldEqual, "not_found")
		})

		Convey("When asking for placements", func() {
			w := do(mux, http.MethodGet, "/meets/m1/placements?level=Level+6&discipline=womens", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var scores []model.Score
			So(json.Unmarshal(w.Body.Bytes(), &scores), ShouldBeNil)
			So(scores, ShouldHaveLength, 2)
			So(scores[0].Placements[model.Vault], ShouldEqual, 1)
			So(scores[0].Placements[model.Bars], ShouldEqual, 1)
			So(scores[1].Placements[model.Bars], ShouldEqual, 1)
			So(scores[1].Placements[model.Beam], ShouldEqual, 1)
		})

		Convey("When asking for placements without a group", func() {
			w := do(mux, http.MethodGet, "/meets/m1/placements", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When exporting the meet", func() {
			w := do(mux, http.MethodGet, "/meets/m1/export.xlsx", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/vnd.openxmlformats")
			So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "meet-m1.xlsx")
			So(bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), ShouldBeTrue)
		})

		Convey("When exporting an unknown meet", func() {
			w := do(mux, http.MethodGet, "/meets/nope/export.xlsx", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
		})
	})
}

type failingExport struct {
	*service.Service
}

func (failingExport) ExportMeet(context.Context, string, io.Writer) error {
	return errors.New("disk full")
}

func TestExportFailure(t *testing.T) {
	Convey("Given an export that fails", t, func() {
		mux := newMux(failingExport{newTestService()})

		Convey("Then the error is a 500 JSON envelope", func() {
			w := do(mux, http.MethodGet, "/meets/m1/export.xlsx", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w), ShouldResemble, map[string]string{"code": "internal_error", "message": "disk full"})
		})
	})
}

func TestSeasonHandler(t *testing.T) {
	Convey("Given a registered API server with a fixed clock", t, func() {
		mux := newMux(newTestService())

		Convey("Then the current season follows the clock", func() {
			w := do(mux, http.MethodGet, "/seasons/current", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var info types.SeasonInfo
			So(json.Unmarshal(w.Body.Bytes(), &info), ShouldBeNil)
			So(info, ShouldResemble, types.SeasonInfo{Season: "2024-2025", StartYear: 2024, EndYear: 2025, Previous: "2023-2024", Next: "2025-2026"})
		})

		Convey("Then a date resolves to its season", func() {
			w := do(mux, http.MethodGet, "/seasons?date=2025-07-31", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var info types.SeasonInfo
			So(json.Unmarshal(w.Body.Bytes(), &info), ShouldBeNil)
			So(info.Season, ShouldEqual, "2024-2025")
			So(info.Date, ShouldEqual, "Jul 31, 2025")
		})

		Convey("Then a missing or malformed date is rejected", func() {
			So(do(mux, http.MethodGet, "/seasons", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/seasons?date=31/07/2025", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then next and previous walk labels", func() {
			w := do(mux, http.MethodGet, "/seasons/2024-2025/next", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"season":"2025-2026"`)

			w = do(mux, http.MethodGet, "/seasons/2024-2025/previous", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"season":"2023-2024"`)
		})

		Convey("Then malformed labels are invalid_season errors", func() {
			w := do(mux, http.MethodGet, "/seasons/2024/next", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "invalid_season")
		})
	})
}
