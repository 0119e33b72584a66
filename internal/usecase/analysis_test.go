package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
	"LaborPulse/internal/service/cache"
	"LaborPulse/internal/services/analytics"
	applogger "LaborPulse/pkg/logger"
)

type fakeSeriesStore struct {
	series map[string][]models.Observation
	calls  int
}

func (f *fakeSeriesStore) ListEntities(_ context.Context, _ domrepo.Frequency) ([]string, error) {
	out := make([]string, 0, len(f.series))
	for e := range f.series {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeSeriesStore) GetSeries(_ context.Context, entity string, _ domrepo.Frequency, _ int) ([]models.Observation, error) {
	return f.series[entity], nil
}

func (f *fakeSeriesStore) GetAllSeries(_ context.Context, _ domrepo.Frequency, _ int) (map[string][]models.Observation, error) {
	f.calls++
	return f.series, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordObservation(string, string)          {}
func (nopMetrics) RecordError(string)                        {}
func (nopMetrics) RecordEntityMetric(string, string, float64) {}
func (nopMetrics) RecordLatency(string, float64)             {}

type captureAdvisories struct {
	published [][]models.Advisory
}

func (c *captureAdvisories) PublishAdvisories(_ context.Context, a []models.Advisory) error {
	c.published = append(c.published, a)
	return nil
}

func (c *captureAdvisories) Close() error { return nil }

func monthlySeries(entity string, hires ...float64) []models.Observation {
	obs := make([]models.Observation, len(hires))
	period := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, h := range hires {
		obs[i] = models.Observation{
			Entity:          entity,
			Period:          period,
			EmploymentLevel: 100000 + float64(i)*500,
			Hires:           h,
		}
		period = period.AddDate(0, 1, 0)
	}
	return obs
}

func newAnalysisForTest(t *testing.T, store *fakeSeriesStore, rules []analytics.Rule, pub *captureAdvisories) *AnalysisUseCase {
	t.Helper()
	var advPub domrepo.AdvisoryPublisher
	if pub != nil {
		advPub = pub
	}
	return NewAnalysisUseCase(store, analytics.NewEvaluator(rules), advPub, nopMetrics{}, nil, 0, applogger.Nop())
}

func TestComputeMetricsScoresAllEntities(t *testing.T) {
	store := &fakeSeriesStore{series: map[string][]models.Observation{
		"Construction": monthlySeries("Construction", 4000, 6000, 5000),
		"Healthcare":   monthlySeries("Healthcare", 7000, 7000),
	}}
	uc := newAnalysisForTest(t, store, nil, nil)

	results, err := uc.ComputeMetrics(context.Background(), MetricsParams{Freq: domrepo.FreqMonthly})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(results))
	}

	res, ok := results["Construction"]
	if !ok {
		t.Fatalf("missing Construction result")
	}
	if !res.HasResilience() {
		t.Fatalf("expected resilience defined")
	}
	if got := *res.Resilience; got != 5000 {
		t.Fatalf("unexpected resilience %v", got)
	}
	if !res.HasVolatility() {
		t.Fatalf("expected volatility defined for 3 observations")
	}

	// Healthcare has a single employment change so volatility is undefined.
	if results["Healthcare"].HasVolatility() {
		t.Fatalf("expected undefined volatility for 2 observations")
	}
	if !results["Healthcare"].HasResilience() {
		t.Fatalf("expected resilience defined for Healthcare")
	}
}

func TestComputeMetricsUsesCache(t *testing.T) {
	store := &fakeSeriesStore{series: map[string][]models.Observation{
		"Retail": monthlySeries("Retail", 1000, 1200, 900),
	}}
	uc := newAnalysisForTest(t, store, nil, nil)
	uc.cache = cache.NewTTLCache()
	uc.cacheTTL = time.Minute

	p := MetricsParams{Freq: domrepo.FreqMonthly}
	if _, err := uc.ComputeMetrics(context.Background(), p); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := uc.ComputeMetrics(context.Background(), p); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected 1 store load, got %d", store.calls)
	}
}

func TestComputeMetricsRejectsBadRecords(t *testing.T) {
	bad := monthlySeries("Construction", 4000)
	bad[0].Hires = -1
	store := &fakeSeriesStore{series: map[string][]models.Observation{"Construction": bad}}
	uc := newAnalysisForTest(t, store, nil, nil)

	_, err := uc.ComputeMetrics(context.Background(), MetricsParams{Freq: domrepo.FreqMonthly})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAdvisoriesPublishesTriggeredRules(t *testing.T) {
	store := &fakeSeriesStore{series: map[string][]models.Observation{
		"Construction": monthlySeries("Construction", 400, 600, 500),
	}}
	rules, err := analytics.CompileRules([]analytics.ThresholdRule{
		{Name: "weak-hiring", Metric: "resilience", Op: "lt", Threshold: 1000, Quantifier: "all", Advisory: "hiring weak"},
	})
	if err != nil {
		t.Fatalf("compile rules: %v", err)
	}
	pub := &captureAdvisories{}
	uc := newAnalysisForTest(t, store, rules, pub)

	advisories, err := uc.Advisories(context.Background(), MetricsParams{Freq: domrepo.FreqMonthly})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(advisories) != 1 {
		t.Fatalf("expected 1 advisory, got %d", len(advisories))
	}
	if advisories[0].Rule != "weak-hiring" {
		t.Fatalf("unexpected rule %q", advisories[0].Rule)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected advisories published once, got %d", len(pub.published))
	}
}
