package repository

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/gymscore/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// Roster is the on-disk shape of a roster file.
type Roster struct {
	Meets    []model.Meet    `yaml:"meets"`
	Gymnasts []model.Gymnast `yaml:"gymnasts"`
	Scores   []model.Score   `yaml:"scores"`
}

// LoadStats reports how many records a load inserted.
type LoadStats struct {
	Meets    int
	Gymnasts int
	Scores   int
}

// DecodeRoster reads a YAML roster document. Discipline spellings such as
// "women" or "MAG" are normalised.
func DecodeRoster(r io.Reader) (Roster, error) {
	var roster Roster
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&roster); err != nil {
		if err == io.EOF {
			return Roster{}, nil
		}
		return Roster{}, fmt.Errorf("%w: %w", ErrLoadRoster, err)
	}
	for i, g := range roster.Gymnasts {
		d, err := model.ParseDiscipline(string(g.Discipline))
		if err != nil {
			return Roster{}, fmt.Errorf("%w: gymnast %q: %w", ErrLoadRoster, g.Name, err)
		}
		roster.Gymnasts[i].Discipline = d
	}
	return roster, nil
}

// Load inserts a roster into store: meets first, then gymnasts, then scores
// in file order.
func Load(ctx context.Context, store Store, roster Roster) (LoadStats, error) {
	var stats LoadStats
	for _, m := range roster.Meets {
		if _, err := store.PutMeet(ctx, m); err != nil {
			return stats, fmt.Errorf("%w: meet %q: %w", ErrLoadRoster, m.Name, err)
		}
		stats.Meets++
	}
	for _, g := range roster.Gymnasts {
		if _, err := store.PutGymnast(ctx, g); err != nil {
			return stats, fmt.Errorf("%w: %w", ErrLoadRoster, err)
		}
		stats.Gymnasts++
	}
	for _, sc := range roster.Scores {
		if _, err := store.PutScore(ctx, sc); err != nil {
			return stats, fmt.Errorf("%w: score for gymnast %s: %w", ErrLoadRoster, sc.GymnastID, err)
		}
		stats.Scores++
	}
	return stats, nil
}

// LoadFile decodes the roster at path and inserts it into store.
func LoadFile(ctx context.Context, store Store, path string) (LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadStats{}, fmt.Errorf("%w: %w", ErrLoadRoster, err)
	}
	defer func() { _ = f.Close() }()

	roster, err := DecodeRoster(f)
	if err != nil {
		return LoadStats{}, err
	}
	return Load(ctx, store, roster)
}
