package cache

import (
	"fmt"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}

// MetricsKey builds the cache key for an entity's computed metrics.
func MetricsKey(entity string) string {
	return "metrics:" + entity
}

// ForecastKey builds the cache key for a forecast request.
func ForecastKey(entity, measure string, horizon int) string {
	return fmt.Sprintf("forecast:%s:%s:%d", entity, measure, horizon)
}

// AdvisoriesKey is the cache key for the latest advisory evaluation.
const AdvisoriesKey = "advisories:latest"
