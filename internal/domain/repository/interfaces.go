package repository

import (
	"context"

	"LaborPulse/internal/domain/models"
)

// ObservationFeed streams observation records from an external source
// (statistics feed, simulator).
type ObservationFeed interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Observation, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher hands observations to the message bus.
type Publisher interface {
	Publish(ctx context.Context, o *models.Observation) error
	PublishBatch(ctx context.Context, obs []*models.Observation) error
	Close() error
}

// AdvisoryPublisher emits triggered policy advisories.
type AdvisoryPublisher interface {
	PublishAdvisories(ctx context.Context, advisories []models.Advisory) error
	Close() error
}

// Storage persists raw observations.
type Storage interface {
	Store(ctx context.Context, o *models.Observation) error
	StoreBatch(ctx context.Context, obs []*models.Observation) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational telemetry.
type Metrics interface {
	RecordObservation(backend, entity string)
	RecordError(kind string)
	RecordEntityMetric(entity, metric string, value float64)
	RecordLatency(op string, seconds float64)
}
