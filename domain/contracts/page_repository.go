package contracts

import (
	"context"

	"todoblog/domain/pages"
	"todoblog/domain/todo"
)

// PageRepository stores rendered detail pages keyed by path.
// Get returns ErrPageNotFound on a miss.
type PageRepository interface {
	Get(ctx context.Context, path string) (*pages.PageRecord, error)
	Save(ctx context.Context, record *pages.PageRecord) error
	Delete(ctx context.Context, path string) error
	ListPaths(ctx context.Context) ([]string, error)
}

// PageRenderer renders the loaded detail page for an item.
type PageRenderer interface {
	RenderDetail(ctx context.Context, item todo.Item) ([]byte, error)
}
