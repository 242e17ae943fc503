package repositories

import (
	"context"
	"sort"
	"sync"

	"todoblog/domain/contracts"
	"todoblog/domain/pages"
)

// MemoryPageRepository keeps pages in process memory.
type MemoryPageRepository struct {
	mu    sync.RWMutex
	pages map[string]pages.PageRecord
}

var _ contracts.PageRepository = (*MemoryPageRepository)(nil)

func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{pages: make(map[string]pages.PageRecord)}
}

func (r *MemoryPageRepository) Get(ctx context.Context, path string) (*pages.PageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.pages[path]
	if !ok {
		return nil, contracts.ErrPageNotFound
	}
	return &record, nil
}

func (r *MemoryPageRepository) Save(ctx context.Context, record *pages.PageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[record.Path] = *record
	return nil
}

func (r *MemoryPageRepository) Delete(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, path)
	return nil
}

func (r *MemoryPageRepository) ListPaths(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.pages))
	for path := range r.pages {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}
