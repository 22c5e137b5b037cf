package scanner

import (
	"Supermarket-Vision-Backend/domain"
	"sync"
	"time"
)

// DetectionStore holds the latest applied detection set. The scan loop is
// its only writer; HTTP handlers read it concurrently.
type DetectionStore struct {
	mu          sync.RWMutex
	current     []domain.Detection
	previous    []domain.Detection
	scans       uint64
	lastUpdated time.Time
	now         func() time.Time
}

func NewDetectionStore() *DetectionStore {
	return &DetectionStore{
		current: []domain.Detection{},
		now:     time.Now,
	}
}

// Replace swaps the whole set. There is no merging with earlier results.
func (s *DetectionStore) Replace(items []domain.Detection) {
	next := make([]domain.Detection, len(items))
	copy(next, items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.previous = s.current
	s.current = next
	s.scans++
	s.lastUpdated = s.now()
}

func (s *DetectionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = []domain.Detection{}
	s.previous = nil
	s.scans = 0
	s.lastUpdated = time.Time{}
}

func (s *DetectionStore) Current() []domain.Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDetections(s.current)
}

func (s *DetectionStore) Previous() []domain.Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDetections(s.previous)
}

func (s *DetectionStore) Stats() domain.ScannerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ScannerStats{
		Scans:       s.scans,
		Detected:    len(s.current),
		LastUpdated: s.lastUpdated,
	}
}

func cloneDetections(in []domain.Detection) []domain.Detection {
	if in == nil {
		return nil
	}
	out := make([]domain.Detection, len(in))
	copy(out, in)
	return out
}
