package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/gymscore/internal/domain/model"
	"github.com/okian/gymscore/pkg/metrics"
)

// MemoryStore is an in-memory Store. Scores keep their insertion order per
// meet because tie-breaking in team scoring depends on it.
type MemoryStore struct {
	mu sync.RWMutex

	meets      map[string]model.Meet
	meetOrder  []string
	gymnasts   map[string]model.Gymnast
	scores     map[string][]model.Score // meet id -> scores
	scoreIndex map[string]string        // score id -> meet id

	seasonOf func(time.Time) string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		meets:      make(map[string]model.Meet),
		gymnasts:   make(map[string]model.Gymnast),
		scores:     make(map[string][]model.Score),
		scoreIndex: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutMeet implements Store.
func (s *MemoryStore) PutMeet(_ context.Context, m model.Meet) (model.Meet, error) {
	if strings.TrimSpace(m.ID) == "" {
		m.ID = model.NewID()
	}
	if m.Season == "" && s.seasonOf != nil && !m.Date.IsZero() {
		m.Season = s.seasonOf(m.Date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meets[m.ID]; !ok {
		s.meetOrder = append(s.meetOrder, m.ID)
	}
	s.meets[m.ID] = m
	return m, nil
}

// PutGymnast implements Store.
func (s *MemoryStore) PutGymnast(_ context.Context, g model.Gymnast) (model.Gymnast, error) {
	if !g.Discipline.Valid() {
		return model.Gymnast{}, fmt.Errorf("%w: gymnast %q: %w", ErrInvalidGymnast, g.Name, model.ErrInvalidDiscipline)
	}
	if strings.TrimSpace(g.ID) == "" {
		g.ID = model.NewID()
	}

	s.mu.Lock()
	s.gymnasts[g.ID] = g
	gymnasts, scores := len(s.gymnasts), len(s.scoreIndex)
	s.mu.Unlock()

	metrics.UpdateRosterSize(gymnasts, scores)
	return g, nil
}

// PutScore implements Store.
func (s *MemoryStore) PutScore(_ context.Context, sc model.Score) (model.Score, error) {
	marks := sc.EventScores()
	if marks == nil {
		return model.Score{}, fmt.Errorf("%w: exactly one of womens or mens marks is required", ErrInvalidScore)
	}
	if strings.TrimSpace(sc.ID) == "" {
		sc.ID = model.NewID()
	}

	s.mu.Lock()
	if _, ok := s.meets[sc.MeetID]; !ok {
		s.mu.Unlock()
		return model.Score{}, fmt.Errorf("%w: %s", ErrMeetNotFound, sc.MeetID)
	}
	g, ok := s.gymnasts[sc.GymnastID]
	if !ok {
		s.mu.Unlock()
		return model.Score{}, fmt.Errorf("%w: %s", ErrGymnastNotFound, sc.GymnastID)
	}
	if g.Discipline != marks.Discipline() {
		s.mu.Unlock()
		return model.Score{}, fmt.Errorf("%w: gymnast %s is %s", model.ErrMixedDiscipline, g.ID, g.Discipline)
	}

	if prevMeet, ok := s.scoreIndex[sc.ID]; ok {
		s.removeScoreLocked(prevMeet, sc.ID, sc)
	}
	if _, ok := s.scoreIndex[sc.ID]; !ok {
		s.scores[sc.MeetID] = append(s.scores[sc.MeetID], sc)
		s.scoreIndex[sc.ID] = sc.MeetID
	}
	gymnasts, scores := len(s.gymnasts), len(s.scoreIndex)
	s.mu.Unlock()

	metrics.UpdateRosterSize(gymnasts, scores)
	return sc, nil
}

// removeScoreLocked replaces a score in place when it stays in the same meet
// so its tie-break position is preserved; otherwise it is dropped from the
// old meet and re-appended by the caller.
func (s *MemoryStore) removeScoreLocked(meetID, scoreID string, replacement model.Score) {
	list := s.scores[meetID]
	for i := range list {
		if list[i].ID != scoreID {
			continue
		}
		if meetID == replacement.MeetID {
			list[i] = replacement
			return
		}
		s.scores[meetID] = append(list[:i:i], list[i+1:]...)
		delete(s.scoreIndex, scoreID)
		return
	}
}

// Meet implements Store.
func (s *MemoryStore) Meet(_ context.Context, id string) (model.Meet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meets[id]
	if !ok {
		return model.Meet{}, fmt.Errorf("%w: %s", ErrMeetNotFound, id)
	}
	return m, nil
}

// Meets implements Store.
func (s *MemoryStore) Meets(_ context.Context, season string) ([]model.Meet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Meet, 0, len(s.meetOrder))
	for _, id := range s.meetOrder {
		m := s.meets[id]
		if season != "" && m.Season != season {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Gymnast implements Store.
func (s *MemoryStore) Gymnast(_ context.Context, id string) (model.Gymnast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gymnasts[id]
	if !ok {
		return model.Gymnast{}, fmt.Errorf("%w: %s", ErrGymnastNotFound, id)
	}
	return g, nil
}

// Gymnasts implements Store.
func (s *MemoryStore) Gymnasts(_ context.Context, meetID, level string, d model.Discipline) ([]model.Gymnast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.meets[meetID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMeetNotFound, meetID)
	}
	seen := make(map[string]bool)
	out := []model.Gymnast{}
	for _, sc := range s.scores[meetID] {
		g := s.gymnasts[sc.GymnastID]
		if g.Level != level || g.Discipline != d || seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		out = append(out, g)
	}
	return out, nil
}

// Scores implements Store.
func (s *MemoryStore) Scores(_ context.Context, meetID, level string, d model.Discipline) ([]model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.meets[meetID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMeetNotFound, meetID)
	}
	out := []model.Score{}
	for _, sc := range s.scores[meetID] {
		g := s.gymnasts[sc.GymnastID]
		if g.Level != level || g.Discipline != d {
			continue
		}
		out = append(out, sc)
	}
	return out, nil
}

// Combos implements Store.
func (s *MemoryStore) Combos(_ context.Context, meetID string) ([]model.LevelDisciplineCombo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.meets[meetID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMeetNotFound, meetID)
	}
	seen := make(map[model.LevelDisciplineCombo]bool)
	out := []model.LevelDisciplineCombo{}
	for _, sc := range s.scores[meetID] {
		g := s.gymnasts[sc.GymnastID]
		c := model.LevelDisciplineCombo{Level: g.Level, Discipline: g.Discipline}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (gymnasts, scores int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.gymnasts), len(s.scoreIndex)
}
