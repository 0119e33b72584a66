package usecase

import (
	"context"
	"time"

	"LaborPulse/internal/domain/models"
	drepo "LaborPulse/internal/domain/repository"
	mid "LaborPulse/internal/middleware"
)

// ObservationCollector consumes the statistics feed and processes records.
type ObservationCollector struct {
	feed    drepo.ObservationFeed
	proc    *ObservationProcessor
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
	done    chan struct{}
}

// NewObservationCollector creates a new ObservationCollector instance.
func NewObservationCollector(feed drepo.ObservationFeed, proc *ObservationProcessor, metrics drepo.Metrics, pipe *mid.IngestPipeline) *ObservationCollector {
	return &ObservationCollector{feed: feed, proc: proc, metrics: metrics, pipe: pipe, done: make(chan struct{})}
}

// Done is closed when the consume loop exits: the replay completed, the
// context ended, or reconnecting became impossible.
func (c *ObservationCollector) Done() <-chan struct{} { return c.done }

// IsConnected returns true if the feed is connected.
func (c *ObservationCollector) IsConnected() bool {
	return c.feed.IsConnected()
}

func (c *ObservationCollector) Start(ctx context.Context) error {
	if err := c.feed.Connect(ctx); err != nil {
		return err
	}
	if err := c.feed.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	obCh, errCh := c.feed.Read(ctx)
	go c.consume(ctx, obCh, errCh)
	return nil
}

func (c *ObservationCollector) consume(ctx context.Context, obCh <-chan *models.Observation, errCh <-chan error) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok {
				errCh = nil // closed; the observation channel decides the exit
				continue
			}
			if err != nil {
				c.metrics.RecordError("feed")
				if obCh, errCh = c.restart(ctx); obCh == nil {
					return
				}
			}
		case o, ok := <-obCh:
			if !ok {
				// The stream ended. If the feed raised an error on the way
				// out, reconnect; otherwise the replay or shutdown is done.
				select {
				case err, eok := <-errCh:
					if eok && err != nil {
						c.metrics.RecordError("feed")
						if obCh, errCh = c.restart(ctx); obCh != nil {
							continue
						}
					}
				default:
				}
				return
			}
			if o == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, o)
			} else {
				_ = c.proc.Process(ctx, o)
			}
			c.metrics.RecordEntityMetric(o.Entity, "employment_level", o.EmploymentLevel)
		}
	}
}

// restart reconnects the feed and returns fresh read channels, retrying
// until the context ends. Returns nil channels when the context is done.
func (c *ObservationCollector) restart(ctx context.Context) (<-chan *models.Observation, <-chan error) {
	for {
		if ctx.Err() != nil {
			return nil, nil
		}
		if err := c.feed.Reconnect(ctx); err != nil {
			c.metrics.RecordError("feed_reconnect")
			select {
			case <-ctx.Done():
				return nil, nil
			case <-time.After(time.Second):
			}
			continue
		}
		obCh, errCh := c.feed.Read(ctx)
		return obCh, errCh
	}
}

// Processor returns the underlying ObservationProcessor for lifecycle management.
func (c *ObservationCollector) Processor() *ObservationProcessor { return c.proc }

// Shutdown stops the pipeline and closes the feed.
func (c *ObservationCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.feed.Close()
}
