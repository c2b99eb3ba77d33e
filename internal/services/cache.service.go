package services

import (
	"sync"
	"time"

	"vehicledash/internal/models"
)

// HostSource produces a fresh host footprint
type HostSource interface {
	Sample() (*models.HostStatus, error)
}

// HostStatsCache holds the last host sample with a TTL
type HostStatsCache struct {
	mu       sync.RWMutex
	sampler  HostSource
	cached   *models.HostStatus
	cachedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewHostStatsCache(sampler HostSource, ttl time.Duration) *HostStatsCache {
	if ttl <= 0 {
		ttl = time.Second
	}
	return &HostStatsCache{sampler: sampler, ttl: ttl, now: time.Now}
}

func (c *HostStatsCache) isValid() bool {
	return c.cached != nil && c.now().Sub(c.cachedAt) < c.ttl
}

// Get returns cached stats if still valid, otherwise samples fresh
func (c *HostStatsCache) Get() (*models.HostStatus, error) {
	c.mu.RLock()
	if c.isValid() {
		defer c.mu.RUnlock()
		return c.cached, nil
	}
	c.mu.RUnlock()

	status, err := c.sampler.Sample()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = status
	c.cachedAt = c.now()
	c.mu.Unlock()

	return status, nil
}

// Clear drops the cached value
func (c *HostStatsCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
}
