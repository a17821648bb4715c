package scoring_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/gymscore/internal/domain/model"
	scoring "github.com/okian/gymscore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func womens(id string, ws model.WomensEventScores) model.Score {
	return model.Score{ID: "s-" + id, GymnastID: id, MeetID: "meet-1", Womens: &ws}
}

func mens(id string, ms model.MensEventScores) model.Score {
	return model.Score{ID: "s-" + id, GymnastID: id, MeetID: "meet-1", Mens: &ms}
}

func countFor(cs []model.CountingScore, ev model.Event) int {
	n := 0
	for _, c := range cs {
		if c.Event == ev {
			n++
		}
	}
	return n
}

func TestAggregator_CalculateTeamScore(t *testing.T) {
	Convey("Given a team score aggregator", t, func() {
		agg := scoring.NewAggregator()

		Convey("When six womens gymnasts only have vault marks and three count", func() {
			var scores []model.Score
			var roster []model.Gymnast
			for i, v := range []float64{9.0, 9.1, 9.2, 9.3, 9.4, 9.5} {
				id := fmt.Sprintf("g%d", i+1)
				scores = append(scores, womens(id, model.WomensEventScores{Vault: v}))
				roster = append(roster, model.Gymnast{ID: id, Level: "Level 5", Discipline: model.Womens})
			}

			res := agg.CalculateTeamScore(scores, model.Womens, roster, 3)

			Convey("Then the vault total is the best three marks", func() {
				So(res.TeamScores[model.Vault], ShouldEqual, 28.2)
				So(res.TotalScore, ShouldEqual, 28.2)
			})

			Convey("And exactly three vault marks count, best first", func() {
				want := []model.CountingScore{
					{GymnastID: "g6", Event: model.Vault, Score: 9.5},
					{GymnastID: "g5", Event: model.Vault, Score: 9.4},
					{GymnastID: "g4", Event: model.Vault, Score: 9.3},
				}
				So(cmp.Diff(want, res.CountingScores), ShouldBeEmpty)
			})

			Convey("And the other events total zero", func() {
				So(res.TeamScores, ShouldContainKey, model.Bars)
				So(res.TeamScores[model.Bars], ShouldEqual, 0.0)
				So(res.TeamScores[model.Beam], ShouldEqual, 0.0)
				So(res.TeamScores[model.Floor], ShouldEqual, 0.0)
				So(len(res.TeamScores), ShouldEqual, 4)
			})
		})

		Convey("When a single mens gymnast has all six events", func() {
			ms := model.MensEventScores{Floor: 13.1, PommelHorse: 11.8, Rings: 12.4, Vault: 13.9, ParallelBars: 12.7, HighBar: 12.2}
			res := agg.CalculateTeamScore([]model.Score{mens("m1", ms)}, model.Mens,
				[]model.Gymnast{{ID: "m1", Level: "Level 8", Discipline: model.Mens}}, 3)

			Convey("Then each event total equals that gymnast's mark", func() {
				for _, ev := range model.Mens.Events() {
					v, _ := ms.Value(ev)
					So(res.TeamScores[ev], ShouldEqual, v)
				}
			})

			Convey("And six marks count in canonical event order", func() {
				So(len(res.CountingScores), ShouldEqual, 6)
				for i, ev := range model.Mens.Events() {
					So(res.CountingScores[i].Event, ShouldEqual, ev)
				}
			})

			Convey("And the total is the all-around", func() {
				So(res.TotalScore, ShouldAlmostEqual, ms.AllAround(), 1e-9)
			})
		})

		Convey("When marks tie", func() {
			scores := []model.Score{
				womens("a", model.WomensEventScores{Beam: 9.0}),
				womens("b", model.WomensEventScores{Beam: 9.5}),
				womens("c", model.WomensEventScores{Beam: 9.5}),
				womens("d", model.WomensEventScores{Beam: 9.0}),
			}

			Convey("Then the first-seen mark wins the higher rank", func() {
				res := agg.CalculateTeamScore(scores, model.Womens, nil, 3)
				ids := []string{}
				for _, c := range res.CountingScores {
					ids = append(ids, c.GymnastID)
				}
				So(ids, ShouldResemble, []string{"b", "c", "a"})
				So(res.TeamScores[model.Beam], ShouldEqual, 28.0)
			})
		})

		Convey("When fewer gymnasts scored than count", func() {
			scores := []model.Score{
				womens("a", model.WomensEventScores{Floor: 9.2}),
				womens("b", model.WomensEventScores{Floor: 9.4}),
			}
			res := agg.CalculateTeamScore(scores, model.Womens, nil, 5)

			Convey("Then every qualifying mark counts without padding", func() {
				So(countFor(res.CountingScores, model.Floor), ShouldEqual, 2)
				So(res.TeamScores[model.Floor], ShouldAlmostEqual, 18.6, 1e-9)
			})
		})

		Convey("When the input is empty", func() {
			res := agg.CalculateTeamScore(nil, model.Womens, nil, 3)

			Convey("Then all totals are zero and nothing counts", func() {
				So(res.TotalScore, ShouldEqual, 0.0)
				So(res.CountingScores, ShouldNotBeNil)
				So(res.CountingScores, ShouldBeEmpty)
				for _, ev := range model.Womens.Events() {
					So(res.TeamScores[ev], ShouldEqual, 0.0)
				}
			})
		})

		Convey("When the counting cardinality is not positive", func() {
			scores := []model.Score{womens("a", model.WomensEventScores{Vault: 9.0})}
			res := agg.CalculateTeamScore(scores, model.Womens, nil, 0)

			Convey("Then nothing counts", func() {
				So(res.CountingScores, ShouldBeEmpty)
				So(res.TotalScore, ShouldEqual, 0.0)
			})
		})

		Convey("When marks are zero, negative or not finite", func() {
			scores := []model.Score{
				womens("zero", model.WomensEventScores{Vault: 0}),
				womens("neg", model.WomensEventScores{Vault: -1}),
				womens("nan", model.WomensEventScores{Vault: math.NaN()}),
				womens("inf", model.WomensEventScores{Vault: math.Inf(1)}),
				womens("ok", model.WomensEventScores{Vault: 8.8}),
			}
			res := agg.CalculateTeamScore(scores, model.Womens, nil, 5)

			Convey("Then only the positive finite mark counts", func() {
				So(res.CountingScores, ShouldResemble, []model.CountingScore{{GymnastID: "ok", Event: model.Vault, Score: 8.8}})
			})
		})

		Convey("When scores from another discipline are mixed in", func() {
			scores := []model.Score{
				womens("w1", model.WomensEventScores{Vault: 9.1}),
				mens("m1", model.MensEventScores{Vault: 14.2}),
				womens("m2", model.WomensEventScores{Vault: 9.9}),
			}
			roster := []model.Gymnast{
				{ID: "w1", Discipline: model.Womens},
				{ID: "m1", Discipline: model.Mens},
				{ID: "m2", Discipline: model.Mens},
			}
			res := agg.CalculateTeamScore(scores, model.Womens, roster, 3)

			Convey("Then only womens marks of womens gymnasts count", func() {
				So(res.CountingScores, ShouldResemble, []model.CountingScore{{GymnastID: "w1", Event: model.Vault, Score: 9.1}})
			})
		})

		Convey("When a score's gymnast is missing from the roster", func() {
			scores := []model.Score{womens("ghost", model.WomensEventScores{Vault: 9.1})}

			Convey("Then it counts by default", func() {
				res := agg.CalculateTeamScore(scores, model.Womens, nil, 3)
				So(len(res.CountingScores), ShouldEqual, 1)
			})

			Convey("Then a strict aggregator drops it", func() {
				strict := scoring.NewAggregator(scoring.WithRequireKnownGymnast())
				res := strict.CalculateTeamScore(scores, model.Womens, nil, 3)
				So(res.CountingScores, ShouldBeEmpty)
			})
		})

		Convey("When the discipline is unknown", func() {
			res := agg.CalculateTeamScore([]model.Score{womens("a", model.WomensEventScores{Vault: 9})}, "Coed", nil, 3)

			Convey("Then the result is empty", func() {
				So(res.TeamScores, ShouldBeEmpty)
				So(res.CountingScores, ShouldBeEmpty)
				So(res.TotalScore, ShouldEqual, 0.0)
			})
		})
	})
}

func TestAggregator_Properties(t *testing.T) {
	Convey("Given random rosters", t, func() {
		agg := scoring.NewAggregator()
		rng := rand.New(rand.NewSource(7))

		mark := func() float64 {
			if rng.Intn(4) == 0 {
				return 0
			}
			return float64(rng.Intn(4000)) / 1000.0 * 2.5
		}

		Convey("Then totals reconcile and counts are bounded", func() {
			for round := 0; round < 200; round++ {
				discipline := model.Disciplines()[round%2]
				n := rng.Intn(12)
				count := 1 + rng.Intn(6)
				var scores []model.Score
				for i := 0; i < n; i++ {
					id := fmt.Sprintf("g%d", i)
					if discipline == model.Womens {
						scores = append(scores, womens(id, model.WomensEventScores{Vault: mark(), Bars: mark(), Beam: mark(), Floor: mark()}))
					} else {
						scores = append(scores, mens(id, model.MensEventScores{
							Floor: mark(), PommelHorse: mark(), Rings: mark(), Vault: mark(), ParallelBars: mark(), HighBar: mark(),
						}))
					}
				}

				res := agg.CalculateTeamScore(scores, discipline, nil, count)

				sum := 0.0
				for _, ev := range discipline.Events() {
					sum += res.TeamScores[ev]
				}
				So(res.TotalScore, ShouldEqual, sum)

				for _, ev := range discipline.Events() {
					qualifying := 0
					for _, s := range scores {
						if s.Value(ev) > 0 {
							qualifying++
						}
					}
					want := qualifying
					if count < want {
						want = count
					}
					So(countFor(res.CountingScores, ev), ShouldEqual, want)
				}

				for _, c := range res.CountingScores {
					So(c.Score, ShouldBeGreaterThan, 0)
				}
			}
		})
	})
}

func TestAggregator_TotalMatchesEventSum(t *testing.T) {
	Convey("Given event totals whose float sum is not their decimal sum", t, func() {
		agg := scoring.NewAggregator()

		sumEvents := func(res model.TeamScoreResult) float64 {
			sum := 0.0
			for _, ev := range res.Discipline.Events() {
				sum += res.TeamScores[ev]
			}
			return sum
		}

		Convey("When a womens team has 0.1 on vault and 0.2 on bars", func() {
			res := agg.CalculateTeamScore([]model.Score{
				womens("g1", model.WomensEventScores{Vault: 0.1, Bars: 0.2}),
			}, model.Womens, nil, 3)

			Convey("Then the total is the float sum of the event totals", func() {
				So(res.TeamScores[model.Vault], ShouldEqual, 0.1)
				So(res.TeamScores[model.Bars], ShouldEqual, 0.2)
				So(res.TotalScore, ShouldEqual, sumEvents(res))
			})
		})

		Convey("When a mens team totals 620 across six events", func() {
			res := agg.CalculateTeamScore([]model.Score{
				mens("g1", model.MensEventScores{
					Floor: 120.1, PommelHorse: 109.5, Rings: 110.25, Vault: 87.6, ParallelBars: 105.2, HighBar: 87.35,
				}),
			}, model.Mens, nil, 5)

			Convey("Then the total still equals the event sum exactly", func() {
				So(res.TeamScores[model.HighBar], ShouldEqual, 87.35)
				So(res.TotalScore, ShouldEqual, sumEvents(res))
			})
		})
	})
}

func TestIsCountingScore(t *testing.T) {
	Convey("Given a list of counting marks", t, func() {
		counting := []model.CountingScore{
			{GymnastID: "g1", Event: model.Vault, Score: 9.5},
			{GymnastID: "g2", Event: model.Beam, Score: 9.1},
		}

		Convey("Then matching pairs are reported", func() {
			So(scoring.IsCountingScore("g1", model.Vault, counting), ShouldBeTrue)
			So(scoring.IsCountingScore("g2", model.Beam, counting), ShouldBeTrue)
		})

		Convey("Then a gymnast counting on another event is not reported", func() {
			So(scoring.IsCountingScore("g1", model.Beam, counting), ShouldBeFalse)
			So(scoring.IsCountingScore("g3", model.Vault, counting), ShouldBeFalse)
		})

		Convey("Then an empty list never matches", func() {
			So(scoring.IsCountingScore("g1", model.Vault, nil), ShouldBeFalse)
		})
	})
}

func TestRankEvent(t *testing.T) {
	Convey("Given beam marks with a tie", t, func() {
		scores := []model.Score{
			womens("a", model.WomensEventScores{Beam: 9.5}),
			womens("b", model.WomensEventScores{Beam: 9.0}),
			womens("c", model.WomensEventScores{Beam: 9.5}),
			womens("d", model.WomensEventScores{Beam: 8.0}),
			womens("e", model.WomensEventScores{Vault: 9.0}),
		}

		Convey("When ranking beam", func() {
			places := scoring.RankEvent(scores, model.Beam)

			Convey("Then ties share a place and the next place skips", func() {
				So(places, ShouldResemble, map[string]int{"a": 1, "c": 1, "b": 3, "d": 4})
			})
		})
	})
}

func TestDerivePlacements(t *testing.T) {
	Convey("Given scores with and without recorded placements", t, func() {
		recorded := womens("a", model.WomensEventScores{Vault: 9.0, Bars: 9.0})
		recorded.Placements = map[model.Event]int{model.Vault: 7}
		scores := []model.Score{
			recorded,
			womens("b", model.WomensEventScores{Vault: 9.4, Bars: 8.5}),
			womens("c", model.WomensEventScores{Vault: 9.2}),
		}

		out := scoring.DerivePlacements(scores, model.Womens)

		Convey("Then recorded placements are kept", func() {
			So(out[0].Placements, ShouldResemble, map[model.Event]int{model.Vault: 7})
		})

		Convey("Then missing placements are derived", func() {
			So(out[1].Placements[model.Vault], ShouldEqual, 1)
			So(out[1].Placements[model.Bars], ShouldEqual, 2)
			So(out[1].Placements[model.AllAround], ShouldEqual, 2)
			So(out[2].Placements[model.Vault], ShouldEqual, 2)
			So(out[2].Placements, ShouldNotContainKey, model.Bars)
		})

		Convey("Then the input is not modified", func() {
			So(scores[1].Placements, ShouldBeNil)
		})
	})
}
