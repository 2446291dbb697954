package store

import (
	"context"
	"sync"

	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
)

// InMemoryConsumptionStore is the fallback when redis is unavailable.
// History is process-local and lost on restart.
type InMemoryConsumptionStore struct {
	lock    *sync.RWMutex
	records []ragModel.ConsumptionRecord
}

func InitConsumptionStore() *InMemoryConsumptionStore {
	return &InMemoryConsumptionStore{
		lock: new(sync.RWMutex),
	}
}

func (s *InMemoryConsumptionStore) Record(ctx context.Context, rec ragModel.ConsumptionRecord) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.records = append(s.records, rec)
	if len(s.records) > recentConsumptionCap {
		s.records = s.records[len(s.records)-recentConsumptionCap:]
	}
	return nil
}

func (s *InMemoryConsumptionStore) Recent(ctx context.Context, n int) ([]ragModel.ConsumptionRecord, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if n > len(s.records) {
		n = len(s.records)
	}
	out := make([]ragModel.ConsumptionRecord, 0, n)
	for i := len(s.records) - 1; i >= len(s.records)-n; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}
