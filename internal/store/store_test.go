package store

import (
	"errors"
	"testing"
	"time"

	"LaborPulse/internal/domain/models"
)

func obs(entity string, year int, month time.Month, level float64) models.Observation {
	return models.Observation{
		Entity:          entity,
		Period:          time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		EmploymentLevel: level,
		Hires:           level / 20,
	}
}

func TestLoadSortsByPeriod(t *testing.T) {
	s, err := Load([]models.Observation{
		obs("Construction", 2024, time.March, 300),
		obs("Construction", 2024, time.January, 100),
		obs("Construction", 2024, time.February, 200),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	series := s.Series("Construction")
	if len(series) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(series))
	}
	for i := 1; i < len(series); i++ {
		if !series[i-1].Period.Before(series[i].Period) {
			t.Fatalf("series not ascending at %d", i)
		}
	}
}

func TestLoadRejectsNegativeCounts(t *testing.T) {
	bad := obs("Healthcare", 2024, time.January, 100)
	bad.Separations = -5
	_, err := Load([]models.Observation{bad})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "separations" {
		t.Fatalf("unexpected field %q", verr.Field)
	}
}

func TestLoadRejectsDuplicatePeriods(t *testing.T) {
	_, err := Load([]models.Observation{
		obs("Retail", 2024, time.January, 100),
		obs("Retail", 2024, time.January, 110),
	})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEntitiesSorted(t *testing.T) {
	s, err := Load([]models.Observation{
		obs("Retail", 2024, time.January, 100),
		obs("Construction", 2024, time.January, 100),
		obs("Healthcare", 2024, time.January, 100),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := s.Entities()
	want := []string{"Construction", "Healthcare", "Retail"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entities[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSeriesUnknownEntity(t *testing.T) {
	s, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Series("Mining") != nil {
		t.Fatalf("expected nil series for unknown entity")
	}
}
