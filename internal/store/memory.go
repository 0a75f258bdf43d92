package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a concurrency-safe in-memory implementation of AlertStore
// and HistoryStore. It backs tests and single-node deployments that run
// without a database.
type MemoryStore struct {
	mu sync.RWMutex

	alerts []AlertRecord
	// key: city, value: snapshots ordered oldest first
	snapshots map[string][]WeatherRecord

	// retention configuration for snapshots
	maxHistory int           // max number of snapshots per city
	maxAge     time.Duration // optional max age for snapshots
}

// NewMemoryStore creates a new MemoryStore with optional retention limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		snapshots:  make(map[string][]WeatherRecord),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// UpsertAlert merges the record into an active alert with the same city and
// type if one exists, otherwise appends a new record.
func (s *MemoryStore) UpsertAlert(_ context.Context, rec *AlertRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	for i := range s.alerts {
		existing := &s.alerts[i]
		if !existing.IsActive || existing.City != rec.City || existing.Type != rec.Type {
			continue
		}
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		rec.UpdatedAt = now
		rec.IsActive = true
		s.alerts[i] = *rec
		return nil
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.IsActive = true
	s.alerts = append(s.alerts, *rec)
	return nil
}

// ActiveAlerts returns active alerts newest first, optionally filtered by city.
func (s *MemoryStore) ActiveAlerts(_ context.Context, city string) ([]AlertRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []AlertRecord
	for i := len(s.alerts) - 1; i >= 0; i-- {
		a := s.alerts[i]
		if !a.IsActive {
			continue
		}
		if city != "" && a.City != city {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

// SaveSnapshot appends a snapshot for a city and enforces retention.
func (s *MemoryStore) SaveSnapshot(_ context.Context, rec *WeatherRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	history := append(s.snapshots[rec.City], *rec)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history) > s.maxHistory {
		over := len(history) - s.maxHistory
		history = history[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history); i++ {
			if !history[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history) {
			history = history[i:]
		}
	}

	s.snapshots[rec.City] = history
	return nil
}

// History returns snapshots newest first with the total count for pagination.
func (s *MemoryStore) History(_ context.Context, city string, limit, offset int) ([]WeatherRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []WeatherRecord
	if city != "" {
		all = append(all, s.snapshots[city]...)
	} else {
		for _, recs := range s.snapshots {
			all = append(all, recs...)
		}
	}

	// Newest first.
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp.After(all[j].Timestamp) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}
