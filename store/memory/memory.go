// Package memory provides an in-memory MonthStore for testing/dev.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/skywage/roster-engine/roster"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu     sync.RWMutex
	months map[key]roster.MonthRecord
}

type key struct {
	CrewID string
	Month  int
	Year   int
}

func New() *Store {
	return &Store{months: make(map[key]roster.MonthRecord)}
}

func (s *Store) SaveMonth(_ context.Context, rec roster.MonthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.months[key{rec.CrewID, rec.Month, rec.Year}] = rec
	return nil
}

func (s *Store) GetMonth(_ context.Context, crewID string, month, year int) (*roster.MonthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.months[key{crewID, month, year}]
	if !ok {
		return nil, roster.ErrMonthNotFound
	}
	cp := rec
	cp.Duties = append([]roster.Duty(nil), rec.Duties...)
	return &cp, nil
}

func (s *Store) ListMonths(_ context.Context, crewID string) ([]roster.MonthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []roster.MonthRecord
	for k, rec := range s.months {
		if k.CrewID != crewID {
			continue
		}
		cp := rec
		cp.Duties = append([]roster.Duty(nil), rec.Duties...)
		out = append(out, cp)
	}

	// Newest first, matching the sqlite implementation.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (s *Store) DeleteMonth(_ context.Context, crewID string, month, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.months, key{crewID, month, year})
	return nil
}

var _ roster.MonthStore = (*Store)(nil)
