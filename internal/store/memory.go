package store

import (
	"sync"
	"time"

	"github.com/wavewatch/surfcast/internal/surf"
)

type entry struct {
	report  surf.SurfReport
	savedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory report cache keyed on
// (normalized beach name, date). Reports are immutable once assembled, so
// the cache hands back value copies without further locking concerns.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string]entry

	// retention configuration
	maxReports int           // max number of cached reports (0 = unlimited)
	maxAge     time.Duration // max age of a cached report (0 = unlimited)
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxReports is <= 0, it is treated as unlimited.
func NewMemoryStore(maxReports int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]entry),
		maxReports: maxReports,
		maxAge:     maxAge,
	}
}

// Save caches a report under the key and enforces retention.
func (s *MemoryStore) Save(key string, report surf.SurfReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{report: report, savedAt: time.Now()}

	// Enforce retention by count, evicting oldest first.
	if s.maxReports > 0 {
		for len(s.data) > s.maxReports {
			oldestKey := ""
			var oldestAt time.Time
			for k, e := range s.data {
				if oldestKey == "" || e.savedAt.Before(oldestAt) {
					oldestKey, oldestAt = k, e.savedAt
				}
			}
			delete(s.data, oldestKey)
		}
	}
}

// Get returns the cached report for the key, if present and fresh.
func (s *MemoryStore) Get(key string) (surf.SurfReport, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return surf.SurfReport{}, false
	}
	if s.maxAge > 0 && time.Since(e.savedAt) > s.maxAge {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return surf.SurfReport{}, false
	}
	return e.report, true
}

// Len reports how many entries are cached.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
