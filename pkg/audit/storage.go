package audit

import (
	"context"
	"slices"
	"sync"
)

// Writer accepts one record at a time.
type Writer interface {
	Store(ctx context.Context, r Record) error
}

// Storage persists records in batches and reads them back newest first.
type Storage interface {
	// StoreBatch writes all records or none. Records already stored are
	// skipped.
	StoreBatch(ctx context.Context, records []Record) error
	Query(ctx context.Context, c Criteria) ([]Record, error)
}

// StorageWriter adapts a Storage into a synchronous Writer.
type StorageWriter struct {
	Storage Storage
}

func (w StorageWriter) Store(ctx context.Context, r Record) error {
	return w.Storage.StoreBatch(ctx, []Record{r})
}

// MemoryStorage keeps records in memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []Record
	ids     map[string]struct{}
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{ids: make(map[string]struct{})}
}

func (m *MemoryStorage) StoreBatch(_ context.Context, records []Record) error {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if _, ok := m.ids[r.ID]; ok {
			continue
		}
		m.ids[r.ID] = struct{}{}
		r.Recipients = slices.Clone(r.Recipients)
		m.records = append(m.records, r)
	}
	return nil
}

func (m *MemoryStorage) Query(_ context.Context, c Criteria) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Record{}
	for i := len(m.records) - 1; i >= 0; i-- {
		if c.Match(m.records[i]) {
			out = append(out, m.records[i])
		}
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		return b.OccurredAt.Compare(a.OccurredAt)
	})

	if c.Offset > 0 {
		if c.Offset >= len(out) {
			return []Record{}, nil
		}
		out = out[c.Offset:]
	}
	if c.Limit > 0 && c.Limit < len(out) {
		out = out[:c.Limit]
	}
	return out, nil
}

// Len returns the number of stored records.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
