package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStorage keeps records in memory. Intended for tests and local
// development; records are lost on process exit.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []Record
	byID    map[string]int
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{byID: make(map[string]int)}
}

func (s *MemoryStorage) Store(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[record.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRecord, record.ID)
	}

	if record.Metadata != nil {
		meta := make(map[string]any, len(record.Metadata))
		for k, v := range record.Metadata {
			meta[k] = v
		}
		record.Metadata = meta
	}

	s.byID[record.ID] = len(s.records)
	s.records = append(s.records, record)
	return nil
}

func (s *MemoryStorage) Query(ctx context.Context, criteria Criteria) ([]Record, error) {
	s.mu.RLock()
	matched := make([]Record, 0)
	for _, r := range s.records {
		if criteria.Matches(r) {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	// Newest first; insertion order breaks timestamp ties deterministically.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if criteria.Cursor != "" {
		for i, r := range matched {
			if r.ID == criteria.Cursor {
				matched = matched[i+1:]
				break
			}
		}
	} else if criteria.Offset > 0 {
		if criteria.Offset >= len(matched) {
			return []Record{}, nil
		}
		matched = matched[criteria.Offset:]
	}

	if criteria.Limit > 0 && criteria.Limit < len(matched) {
		matched = matched[:criteria.Limit]
	}
	return matched, nil
}

// Count implements StorageCounter
func (s *MemoryStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.records {
		if criteria.Matches(r) {
			n++
		}
	}
	return n, nil
}

// StoreBatch stores events atomically: either all records are appended or
// none are.
func (s *MemoryStorage) StoreBatch(ctx context.Context, records []Record) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if _, exists := s.byID[r.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateRecord, r.ID)
		}
	}
	for _, r := range records {
		s.byID[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}
	return nil
}

// Len returns the number of stored records
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
