package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"LaborPulse/internal/domain/models"
	"LaborPulse/internal/domain/repository"
	pkgkafka "LaborPulse/pkg/kafka"
)

// ClickHouseStorage implements Storage for ClickHouse.
type ClickHouseStorage struct {
	db    *sql.DB
	table string
	freq  repository.Frequency
}

// NewClickHouseStorage creates ClickHouse storage.
func NewClickHouseStorage(db *sql.DB, table string, freq repository.Frequency) repository.Storage {
	return &ClickHouseStorage{db: db, table: table, freq: freq}
}

func (s *ClickHouseStorage) Store(ctx context.Context, o *models.Observation) error {
	q := fmt.Sprintf("INSERT INTO %s (entity, freq, period, employment_level, job_openings, hires, separations) VALUES (?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		o.Entity,
		string(s.freq),
		o.Period,
		o.EmploymentLevel,
		o.JobOpenings,
		o.Hires,
		o.Separations,
	)
	return err
}

func (s *ClickHouseStorage) StoreBatch(ctx context.Context, obs []*models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	// Multi-row VALUES insert to reduce round-trips.
	const chunkSize = 2000
	for start := 0; start < len(obs); start += chunkSize {
		end := start + chunkSize
		if end > len(obs) {
			end = len(obs)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, o := range obs[start:end] {
			if o == nil || o.Entity == "" || o.Period.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				o.Entity,
				string(s.freq),
				o.Period,
				o.EmploymentLevel,
				o.JobOpenings,
				o.Hires,
				o.Separations,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (entity, freq, period, employment_level, job_openings, hires, separations) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStorage) Close() error {
	return nil // Pool is managed by pkg/clickhouse.
}

// SchemaStatements returns the idempotent DDL for the observations table.
func SchemaStatements(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            entity String,
            freq LowCardinality(String),
            period DateTime,
            employment_level Float64,
            job_openings Float64,
            hires Float64,
            separations Float64
        ) ENGINE = ReplacingMergeTree()
        ORDER BY (entity, freq, period)`, table),
	}
}

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, o *models.Observation) error {
	return p.producer.Publish(ctx, p.topic, []byte(o.Entity), o)
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, obs []*models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(obs))
	for i, o := range obs {
		msgs[i] = pkgkafka.Message{Key: []byte(o.Entity), Value: o}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// KafkaAdvisoryPublisher implements AdvisoryPublisher for Kafka.
type KafkaAdvisoryPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAdvisoryPublisher creates an advisory publisher.
func NewKafkaAdvisoryPublisher(producer *pkgkafka.Producer, topic string) repository.AdvisoryPublisher {
	return &KafkaAdvisoryPublisher{producer: producer, topic: topic}
}

func (p *KafkaAdvisoryPublisher) PublishAdvisories(ctx context.Context, advisories []models.Advisory) error {
	if len(advisories) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(advisories))
	for i, a := range advisories {
		msgs[i] = pkgkafka.Message{Key: []byte(a.Rule), Value: a}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAdvisoryPublisher) Close() error {
	// The producer is shared with the observation publisher; owner closes it.
	return nil
}
