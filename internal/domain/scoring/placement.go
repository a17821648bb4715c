package scoring

import "github.com/okian/gymscore/internal/domain/model"

// RankEvent places every gymnast with a qualifying mark on ev using
// competition ranking: equal marks share a place and the next place skips
// (1, 1, 3). Gymnasts without a mark are absent from the result.
func RankEvent(scores []model.Score, ev model.Event) map[string]int {
	q := qualifying(scores, ev)
	places := make(map[string]int, len(q))
	prev := 0
	for i, c := range q {
		place := i + 1
		if i > 0 && c.Score == q[i-1].Score {
			place = prev
		}
		prev = place
		if _, seen := places[c.GymnastID]; !seen {
			places[c.GymnastID] = place
		}
	}
	return places
}

// DerivePlacements fills in per-event placements for scores that carry none.
// Scores with recorded placements are returned unchanged. The input slice is
// not modified.
func DerivePlacements(scores []model.Score, discipline model.Discipline) []model.Score {
	same := make([]model.Score, 0, len(scores))
	for _, s := range scores {
		if s.Discipline() == discipline {
			same = append(same, s)
		}
	}
	byEvent := make(map[model.Event]map[string]int)
	for _, ev := range append(discipline.Events(), model.AllAround) {
		byEvent[ev] = RankEvent(same, ev)
	}

	out := make([]model.Score, len(scores))
	for i, s := range scores {
		out[i] = s
		if len(s.Placements) > 0 || s.Discipline() != discipline {
			continue
		}
		placements := make(map[model.Event]int)
		for ev, places := range byEvent {
			if p, ok := places[s.GymnastID]; ok {
				placements[ev] = p
			}
		}
		if len(placements) > 0 {
			out[i].Placements = placements
		}
	}
	return out
}
