package repository

import (
	"context"
	"sync"
	"time"

	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/pkg/metrics"
)

// In-memory HistoryStore implementation.
//
// Ordering: newest record first. Records are immutable once appended, so
// readers get copies of the slice but share the record values.

// MemoryHistory keeps the full inspection history in a mutex-guarded slice.
type MemoryHistory struct {
	mu   sync.RWMutex
	recs []model.InspectionRecord
	byID map[string]int

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMemoryHistory constructs a history store with configuration options.
func NewMemoryHistory(ctx context.Context, opts ...Option) *MemoryHistory {
	s := &MemoryHistory{
		byID:                  make(map[string]int),
		metricsUpdateInterval: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)

	return s
}

// startMetricsUpdater starts a background goroutine that keeps the record
// count gauge current.
func (s *MemoryHistory) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateRecordCount(s.Count(ctx))
			}
		}
	}()
}

// Close gracefully shuts down the background goroutine.
func (s *MemoryHistory) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Append implements HistoryStore.Append, prepending in O(n). History sizes
// here are small enough that the copy is not worth avoiding.
func (s *MemoryHistory) Append(_ context.Context, rec model.InspectionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs = append([]model.InspectionRecord{rec}, s.recs...)
	for id := range s.byID {
		s.byID[id]++
	}
	s.byID[rec.ID] = 0

	metrics.UpdateRecordCount(len(s.recs))
	return nil
}

// List implements HistoryStore.List. The returned slice is the caller's own.
func (s *MemoryHistory) List(_ context.Context) ([]model.InspectionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.InspectionRecord, len(s.recs))
	copy(out, s.recs)
	return out, nil
}

// Get implements HistoryStore.Get in O(1).
func (s *MemoryHistory) Get(_ context.Context, id string) (model.InspectionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return model.InspectionRecord{}, ErrNotFound
	}
	return s.recs[idx], nil
}

// Count implements HistoryStore.Count.
func (s *MemoryHistory) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}
