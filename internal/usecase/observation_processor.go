package usecase

import (
	"context"
	"fmt"
	"time"

	"LaborPulse/internal/domain/models"
	drepo "LaborPulse/internal/domain/repository"
)

// ObservationProcessor routes observation records to the configured backend.
type ObservationProcessor struct {
	pub     drepo.Publisher
	store   drepo.Storage
	metrics drepo.Metrics
	backend string
}

// NewObservationProcessor creates a new ObservationProcessor instance.
func NewObservationProcessor(
	pub drepo.Publisher,
	store drepo.Storage,
	metrics drepo.Metrics,
	backend string,
) *ObservationProcessor {
	return &ObservationProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single observation to the configured backend.
func (p *ObservationProcessor) Process(ctx context.Context, o *models.Observation) error {
	if o == nil {
		return fmt.Errorf("observation is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, o)
	case "clickhouse":
		err = p.store.Store(ctx, o)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process observation: %w", err)
	}

	p.metrics.RecordObservation(p.backend, o.Entity)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple observations in a batch.
func (p *ObservationProcessor) ProcessBatch(ctx context.Context, obs []*models.Observation) error {
	if len(obs) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, obs)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, obs)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, o := range obs {
		p.metrics.RecordObservation(p.backend, o.Entity)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *ObservationProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
