package services

import (
	"sync"

	"vehicledash/internal/models"
)

// DefaultHistoryCapacity is the number of past samples kept for trend analysis
const DefaultHistoryCapacity = 20

// HistoryBuffer keeps the most recent samples, newest first
type HistoryBuffer struct {
	mu         sync.RWMutex
	samples    []models.Sample
	maxSamples int
}

// NewHistoryBuffer creates a buffer; a non-positive capacity means the default
func NewHistoryBuffer(capacity int) *HistoryBuffer {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &HistoryBuffer{
		samples:    make([]models.Sample, 0, capacity+1),
		maxSamples: capacity,
	}
}

// Push prepends s and evicts the oldest entry once over capacity
func (h *HistoryBuffer) Push(s models.Sample) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.samples = append(h.samples, models.Sample{})
	copy(h.samples[1:], h.samples)
	h.samples[0] = s
	if len(h.samples) > h.maxSamples {
		h.samples = h.samples[:h.maxSamples]
	}
}

// Latest returns up to n samples, most recent first. The slice is a copy.
func (h *HistoryBuffer) Latest(n int) []models.Sample {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n < 0 || n > len(h.samples) {
		n = len(h.samples)
	}
	out := make([]models.Sample, n)
	copy(out, h.samples[:n])
	return out
}

// All returns a copy of the whole buffer
func (h *HistoryBuffer) All() []models.Sample {
	return h.Latest(-1)
}

// Len returns the number of samples stored
func (h *HistoryBuffer) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.samples)
}

// Capacity returns the eviction threshold
func (h *HistoryBuffer) Capacity() int {
	return h.maxSamples
}
