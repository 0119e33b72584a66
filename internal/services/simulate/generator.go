package simulate

import (
	"math"
	"math/rand"
	"time"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
)

// Generate produces a fresh observation set for the given entities. It is a
// pure function of its arguments: the RNG is local to the call and seeded
// explicitly, never process-wide, so the same seed always yields the same
// records.
func Generate(seed int64, entities []string, periods int, freq domrepo.Frequency, start time.Time) []models.Observation {
	rng := rand.New(rand.NewSource(seed))
	out := make([]models.Observation, 0, len(entities)*periods)
	for _, entity := range entities {
		level := 50000 + rng.Float64()*150000
		churn := 0.01 + rng.Float64()*0.04 // monthly churn share of employment
		p := freq.Truncate(start)
		for i := 0; i < periods; i++ {
			// random walk with mild seasonal swing
			drift := rng.NormFloat64() * level * 0.015
			seasonal := 0.0
			if freq == domrepo.FreqMonthly {
				seasonal = level * 0.01 * math.Sin(2*math.Pi*float64(i%12)/12)
			}
			level = math.Max(0, level+drift+seasonal)

			hires := math.Max(0, level*churn*(1+rng.NormFloat64()*0.2))
			seps := math.Max(0, level*churn*(1+rng.NormFloat64()*0.2))
			openings := math.Max(0, hires*(1.2+rng.NormFloat64()*0.1))

			out = append(out, models.Observation{
				Entity:          entity,
				Period:          p,
				EmploymentLevel: math.Round(level),
				JobOpenings:     math.Round(openings),
				Hires:           math.Round(hires),
				Separations:     math.Round(seps),
			})
			p = freq.Next(p)
		}
	}
	return out
}
