package usecase

import (
	"context"
	"encoding/json"
	"time"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
	pkgkafka "LaborPulse/pkg/kafka"
)

// KafkaObservationsHandler consumes observation messages and writes them to
// storage.
type KafkaObservationsHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaObservationsHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaObservationsHandler {
	return &KafkaObservationsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaObservationsHandler) Topic() string { return h.topic }

func (h *KafkaObservationsHandler) Handle(ctx context.Context, b []byte) error {
	var o models.Observation
	if err := json.Unmarshal(b, &o); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	start := time.Now()
	err := h.storage.Store(ctx, &o)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordObservation("clickhouse", o.Entity)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaObservationsHandler)(nil)
