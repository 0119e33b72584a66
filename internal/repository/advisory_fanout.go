package repository

import (
	"context"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
)

// FanoutAdvisoryPublisher delivers advisories to every registered publisher.
// Delivery is best-effort; the first error is returned after all publishers
// have been attempted.
type FanoutAdvisoryPublisher struct {
	pubs []domrepo.AdvisoryPublisher
}

func NewFanoutAdvisoryPublisher(pubs ...domrepo.AdvisoryPublisher) *FanoutAdvisoryPublisher {
	return &FanoutAdvisoryPublisher{pubs: pubs}
}

func (f *FanoutAdvisoryPublisher) PublishAdvisories(ctx context.Context, advisories []models.Advisory) error {
	var first error
	for _, p := range f.pubs {
		if p == nil {
			continue
		}
		if err := p.PublishAdvisories(ctx, advisories); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f *FanoutAdvisoryPublisher) Close() error {
	var first error
	for _, p := range f.pubs {
		if p == nil {
			continue
		}
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var _ domrepo.AdvisoryPublisher = (*FanoutAdvisoryPublisher)(nil)
