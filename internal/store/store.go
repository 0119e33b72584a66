package store

import (
	"sort"

	"LaborPulse/internal/domain/models"
)

// Store is the in-memory observation table for one analysis run. It is
// read-only after Load; all analysis operations consume its per-entity
// ordered series.
type Store struct {
	series map[string][]models.Observation
}

// Load validates records and builds a Store. It fails with a
// *models.ValidationError on any negative count field or duplicate period
// within an entity. Gaps between periods are tolerated.
func Load(records []models.Observation) (*Store, error) {
	s := &Store{series: make(map[string][]models.Observation)}
	for _, r := range records {
		if err := validate(r); err != nil {
			return nil, err
		}
		s.series[r.Entity] = append(s.series[r.Entity], r)
	}
	for entity, obs := range s.series {
		sort.SliceStable(obs, func(i, j int) bool { return obs[i].Period.Before(obs[j].Period) })
		for i := 1; i < len(obs); i++ {
			if obs[i].Period.Equal(obs[i-1].Period) {
				return nil, &models.ValidationError{
					Entity: entity,
					Field:  "period",
					Reason: "duplicates " + obs[i].Period.Format("2006-01"),
				}
			}
		}
		s.series[entity] = obs
	}
	return s, nil
}

// Entities returns all entity labels, sorted for deterministic iteration.
func (s *Store) Entities() []string {
	out := make([]string, 0, len(s.series))
	for e := range s.series {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Series returns the entity's observations sorted by period ascending, or
// nil if the entity is unknown.
func (s *Store) Series(entity string) []models.Observation {
	return s.series[entity]
}

// Len returns the total number of loaded observations.
func (s *Store) Len() int {
	n := 0
	for _, obs := range s.series {
		n += len(obs)
	}
	return n
}

func validate(r models.Observation) error {
	if r.Entity == "" {
		return &models.ValidationError{Field: "entity", Reason: "is empty"}
	}
	if r.Period.IsZero() {
		return &models.ValidationError{Entity: r.Entity, Field: "period", Reason: "is zero"}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"employment_level", r.EmploymentLevel},
		{"job_openings", r.JobOpenings},
		{"hires", r.Hires},
		{"separations", r.Separations},
	} {
		if f.v < 0 {
			return &models.ValidationError{Entity: r.Entity, Field: f.name, Reason: "is negative"}
		}
	}
	return nil
}
