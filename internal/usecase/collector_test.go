package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"LaborPulse/internal/domain/models"
	mid "LaborPulse/internal/middleware"
)

// scriptedFeed serves one batch per Read call, optionally raising an error
// before closing the channels, like a dropped stream would.
type scriptedFeed struct {
	mu         sync.Mutex
	batches    [][]models.Observation
	errAfter   []error
	reads      int
	reconnects int
	connected  bool
}

func (f *scriptedFeed) Connect(_ context.Context) error {
	f.mu.Lock()
	f.connected = true
	f.mu.Unlock()
	return nil
}

func (f *scriptedFeed) Subscribe(_ context.Context) error { return nil }

func (f *scriptedFeed) Read(_ context.Context) (<-chan *models.Observation, <-chan error) {
	f.mu.Lock()
	i := f.reads
	f.reads++
	f.mu.Unlock()

	obCh := make(chan *models.Observation, 16)
	errCh := make(chan error, 1)
	go func() {
		defer close(obCh)
		defer close(errCh)
		if i >= len(f.batches) {
			return
		}
		for j := range f.batches[i] {
			obCh <- &f.batches[i][j]
		}
		if err := f.errAfter[i]; err != nil {
			errCh <- err
		}
	}()
	return obCh, errCh
}

func (f *scriptedFeed) Reconnect(_ context.Context) error {
	f.mu.Lock()
	f.reconnects++
	f.mu.Unlock()
	return nil
}

func (f *scriptedFeed) Close() error {
	f.mu.Lock()
	f.connected = false
	f.mu.Unlock()
	return nil
}

func (f *scriptedFeed) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *scriptedFeed) reconnectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reconnects
}

type recordingProc struct {
	mu    sync.Mutex
	count int
}

func (p *recordingProc) Process(_ context.Context, _ *models.Observation) error {
	p.mu.Lock()
	p.count++
	p.mu.Unlock()
	return nil
}

func (p *recordingProc) processed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func obsBatch(entity string, n int) []models.Observation {
	out := make([]models.Observation, n)
	period := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = models.Observation{
			Entity:          entity,
			Period:          period,
			EmploymentLevel: 100000,
			Hires:           5000,
		}
		period = period.AddDate(0, 1, 0)
	}
	return out
}

func startCollector(t *testing.T, feed *scriptedFeed, proc *recordingProc) *ObservationCollector {
	t.Helper()
	pipe := mid.NewIngestPipeline(proc, nopMetrics{}, mid.WithMaxRPS(10000))
	c := NewObservationCollector(feed, nil, nopMetrics{}, pipe)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return c
}

func waitDone(t *testing.T, c *ObservationCollector) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("collector kept running after the feed drained")
	}
}

func TestCollectorStopsWhenReplayCompletes(t *testing.T) {
	feed := &scriptedFeed{
		batches:  [][]models.Observation{obsBatch("Construction", 3)},
		errAfter: []error{nil},
	}
	proc := &recordingProc{}
	c := startCollector(t, feed, proc)

	waitDone(t, c)
	if got := proc.processed(); got != 3 {
		t.Fatalf("expected 3 records processed, got %d", got)
	}
	if n := feed.reconnectCount(); n != 0 {
		t.Fatalf("clean completion must not reconnect, got %d", n)
	}
}

func TestCollectorReconnectsAndResumesAfterFeedError(t *testing.T) {
	feed := &scriptedFeed{
		batches: [][]models.Observation{
			nil,
			obsBatch("Healthcare", 2),
		},
		errAfter: []error{errors.New("stream dropped"), nil},
	}
	proc := &recordingProc{}
	c := startCollector(t, feed, proc)

	waitDone(t, c)
	if got := proc.processed(); got != 2 {
		t.Fatalf("expected the post-reconnect batch to be processed, got %d", got)
	}
	if n := feed.reconnectCount(); n != 1 {
		t.Fatalf("expected exactly one reconnect, got %d", n)
	}
}
