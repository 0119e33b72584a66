package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"LaborPulse/internal/domain/models"
)

type countingProc struct {
	calls int
	err   error
}

func (p *countingProc) Process(_ context.Context, _ *models.Observation) error {
	p.calls++
	return p.err
}

type countingMetrics struct {
	errs map[string]int
}

func (m *countingMetrics) RecordObservation(string, string) {}
func (m *countingMetrics) RecordError(kind string) {
	if m.errs == nil {
		m.errs = map[string]int{}
	}
	m.errs[kind]++
}
func (m *countingMetrics) RecordEntityMetric(string, string, float64) {}
func (m *countingMetrics) RecordLatency(string, float64)              {}

func validObservation() *models.Observation {
	return &models.Observation{
		Entity:          "Construction",
		Period:          time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		EmploymentLevel: 120000,
		JobOpenings:     8000,
		Hires:           5000,
		Separations:     4500,
	}
}

func TestPipelineForwardsValidObservation(t *testing.T) {
	proc := &countingProc{}
	pipe := NewIngestPipeline(proc, &countingMetrics{})

	if err := pipe.Process(context.Background(), validObservation()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.calls != 1 {
		t.Fatalf("expected 1 downstream call, got %d", proc.calls)
	}
}

func TestPipelineRejectsMalformedObservations(t *testing.T) {
	proc := &countingProc{}
	pipe := NewIngestPipeline(proc, &countingMetrics{})

	cases := []struct {
		name string
		mut  func(*models.Observation)
	}{
		{"empty entity", func(o *models.Observation) { o.Entity = "" }},
		{"zero period", func(o *models.Observation) { o.Period = time.Time{} }},
		{"negative hires", func(o *models.Observation) { o.Hires = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := validObservation()
			tc.mut(o)
			err := pipe.Process(context.Background(), o)
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
	if proc.calls != 0 {
		t.Fatalf("malformed observations reached downstream: %d calls", proc.calls)
	}
}

func TestPipelineThrottlesBurstsPerEntity(t *testing.T) {
	proc := &countingProc{}
	m := &countingMetrics{}
	pipe := NewIngestPipeline(proc, m, WithMaxRPS(2))

	for i := 0; i < 10; i++ {
		if err := pipe.Process(context.Background(), validObservation()); err != nil {
			t.Fatalf("throttled observations must not error, got %v", err)
		}
	}
	if proc.calls >= 10 {
		t.Fatalf("expected throttling to drop some of the burst, all %d passed", proc.calls)
	}
	if m.errs["pipeline_throttle"] == 0 {
		t.Fatal("expected throttle drops to be recorded")
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &countingProc{err: errors.New("backend down")}
	m := &countingMetrics{}
	pipe := NewIngestPipeline(proc, m, WithBufferSize(4))

	err := pipe.Process(context.Background(), validObservation())
	if err == nil {
		t.Fatal("expected downstream error to surface")
	}
	if len(pipe.bufCh) != 1 {
		t.Fatalf("expected observation buffered for retry, buffer len %d", len(pipe.bufCh))
	}
	if m.errs["pipeline_process"] != 1 {
		t.Fatalf("expected one recorded process error, got %d", m.errs["pipeline_process"])
	}
}
