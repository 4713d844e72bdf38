package progress

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu   sync.RWMutex
	rows []Record
}

// NewMemoryRepository returns an in-memory repository intended for local development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Append(_ context.Context, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, entry.ToRecord())
	return nil
}

func (r *memoryRepository) ReadAll(_ context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, len(r.rows))
	for i, row := range r.rows {
		cp := make(Record, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out[i] = cp
	}
	return out, nil
}

func (r *memoryRepository) Close() error {
	return nil
}
