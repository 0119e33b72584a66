package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
	"LaborPulse/internal/service/ratelimit"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, o *models.Observation) error
}

// IngestPipeline sits between the feed and the backend. It validates,
// throttles per entity, and buffers when downstream is unavailable.
type IngestPipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	limiter *ratelimit.Limiter
	maxRPS  float64
	bufSize int
	bufCh   chan *models.Observation
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
}

type PipelineOption func(*IngestPipeline)

// WithMaxRPS sets the max observations per second per entity.
func WithMaxRPS(n float64) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		proc:    proc,
		metrics: metrics,
		limiter: ratelimit.New(),
		maxRPS:  20,
		bufSize: 1000,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.Observation, p.bufSize)
	return p
}

// Start launches background flushing of buffered observations.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case o := <-p.bufCh:
				if o == nil {
					continue
				}
				if err := p.proc.Process(ctx, o); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- o:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards an observation downstream,
// buffering on errors.
func (p *IngestPipeline) Process(ctx context.Context, o *models.Observation) error {
	start := time.Now()
	if err := validateObservation(o); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.limiter.Allow(o.Entity, p.maxRPS, p.maxRPS) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.proc.Process(ctx, o); err != nil {
		p.metrics.RecordError("pipeline_process")
		select {
		case p.bufCh <- o:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateObservation(o *models.Observation) error {
	if o == nil {
		return fmt.Errorf("observation nil")
	}
	if o.Entity == "" {
		return &models.ValidationError{Entity: o.Entity, Field: "entity", Reason: "empty"}
	}
	if o.Period.IsZero() {
		return &models.ValidationError{Entity: o.Entity, Field: "period", Reason: "zero"}
	}
	if o.EmploymentLevel < 0 || o.JobOpenings < 0 || o.Hires < 0 || o.Separations < 0 {
		return &models.ValidationError{Entity: o.Entity, Field: "counts", Reason: "negative"}
	}
	return nil
}
