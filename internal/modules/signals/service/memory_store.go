package service

import (
	"context"
	"sort"
	"sync"

	"forex_bot/internal/models"

	"github.com/google/uuid"
)

// MemoryStore keeps signals in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*memoryRecord
	seq  uint64
}

type memoryRecord struct {
	signal models.Signal
	seq    uint64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]*memoryRecord)}
}

func (m *MemoryStore) Insert(ctx context.Context, s models.Signal) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.ID = uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.data[s.ID] = &memoryRecord{signal: s, seq: m.seq}
	return s.ID, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (models.Signal, error) {
	if err := ctx.Err(); err != nil {
		return models.Signal{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.data[id]
	if !ok {
		return models.Signal{}, ErrNotFound
	}
	return rec.signal, nil
}

func (m *MemoryStore) UpdateStatus(ctx context.Context, id string, r models.Resolution) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.data[id]
	if !ok {
		return false, ErrNotFound
	}
	if rec.signal.Status != models.StatusPending {
		return false, nil
	}
	resolvedAt := r.ResolvedAt.UTC()
	closePrice := r.ClosePrice
	rec.signal.Status = r.Status
	rec.signal.ResolvedAt = &resolvedAt
	rec.signal.ClosePrice = &closePrice
	return true, nil
}

func (m *MemoryStore) QueryPending(ctx context.Context, limit int) ([]models.Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	recs := make([]memoryRecord, 0, len(m.data))
	for _, rec := range m.data {
		if rec.signal.Status == models.StatusPending {
			recs = append(recs, *rec)
		}
	}
	m.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.signal.CreatedAt.Equal(b.signal.CreatedAt) {
			return a.signal.CreatedAt.After(b.signal.CreatedAt)
		}
		return a.seq > b.seq
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	out := make([]models.Signal, len(recs))
	for i, rec := range recs {
		out[i] = rec.signal
	}
	return out, nil
}
