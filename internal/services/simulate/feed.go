package simulate

import (
	"context"
	"fmt"
	"time"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
)

// Feed replays a generated observation set as an ObservationFeed, for demo
// runs and integration tests without a live statistics feed.
type Feed struct {
	seed     int64
	entities []string
	periods  int
	freq     domrepo.Frequency
	interval time.Duration

	records   []models.Observation
	connected bool
}

func NewFeed(seed int64, entities []string, periods int, freq domrepo.Frequency, interval time.Duration) *Feed {
	return &Feed{seed: seed, entities: entities, periods: periods, freq: freq, interval: interval}
}

func (f *Feed) Connect(ctx context.Context) error {
	start := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	f.records = Generate(f.seed, f.entities, f.periods, f.freq, start)
	f.connected = true
	return nil
}

func (f *Feed) Subscribe(ctx context.Context) error {
	if !f.connected {
		return fmt.Errorf("simulated feed not connected")
	}
	return nil
}

func (f *Feed) Read(ctx context.Context) (<-chan *models.Observation, <-chan error) {
	obsCh := make(chan *models.Observation, 64)
	errCh := make(chan error, 1)
	go func() {
		defer close(obsCh)
		defer close(errCh)
		for i := range f.records {
			select {
			case <-ctx.Done():
				return
			case obsCh <- &f.records[i]:
			}
			if f.interval > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(f.interval):
				}
			}
		}
	}()
	return obsCh, errCh
}

func (f *Feed) Reconnect(ctx context.Context) error { return f.Connect(ctx) }

func (f *Feed) Close() error {
	f.connected = false
	return nil
}

func (f *Feed) IsConnected() bool { return f.connected }

var _ domrepo.ObservationFeed = (*Feed)(nil)
