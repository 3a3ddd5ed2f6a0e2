// Package store holds the in-memory historical dataset and the key-value
// persistence backend for derived exports.
package store

import (
	"sync"

	"github.com/roadwatch/risk-cli/internal/model"
)

// Memory is the ordered in-memory collection of historical records. Each
// successful ingest replaces the full contents; records are never mutated
// in place.
type Memory struct {
	mu      sync.RWMutex
	records []model.HistoricalRecord
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// Replace swaps the store contents for a new dataset.
func (m *Memory) Replace(records []model.HistoricalRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// Records returns a copy of the stored dataset in insertion order.
func (m *Memory) Records() []model.HistoricalRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.HistoricalRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Empty reports whether no dataset has been ingested.
func (m *Memory) Empty() bool {
	return m.Len() == 0
}
