package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todoblog/database"
	"todoblog/domain/contracts"
	"todoblog/domain/pages"
)

// SqlitePageRepository stores rendered pages in the pages table.
type SqlitePageRepository struct {
	db *database.Database
}

var _ contracts.PageRepository = (*SqlitePageRepository)(nil)

// NewSqlitePageRepository creates a page repository over db.
func NewSqlitePageRepository(db *database.Database) *SqlitePageRepository {
	return &SqlitePageRepository{db: db}
}

func (r *SqlitePageRepository) Get(ctx context.Context, path string) (*pages.PageRecord, error) {
	var (
		record      pages.PageRecord
		source      string
		generatedAt time.Time
	)
	err := r.db.ReadDB().QueryRowContext(ctx,
		`SELECT path, item_id, html, props, source, generated_at FROM pages WHERE path = ?`, path,
	).Scan(&record.Path, &record.ItemID, &record.HTML, &record.Props, &source, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get page %s: %w", path, err)
	}

	record.Source = pages.PageSource(source)
	record.GeneratedAt = generatedAt.UTC()
	return &record, nil
}

func (r *SqlitePageRepository) Save(ctx context.Context, record *pages.PageRecord) error {
	_, err := r.db.WriteDB().ExecContext(ctx, `
		INSERT INTO pages (path, item_id, html, props, source, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET
			item_id = excluded.item_id,
			html = excluded.html,
			props = excluded.props,
			source = excluded.source,
			generated_at = excluded.generated_at`,
		record.Path, record.ItemID, record.HTML, record.Props, string(record.Source), record.GeneratedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save page %s: %w", record.Path, err)
	}
	return nil
}

func (r *SqlitePageRepository) Delete(ctx context.Context, path string) error {
	if _, err := r.db.WriteDB().ExecContext(ctx, `DELETE FROM pages WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete page %s: %w", path, err)
	}
	return nil
}

func (r *SqlitePageRepository) ListPaths(ctx context.Context) ([]string, error) {
	rows, err := r.db.ReadDB().QueryContext(ctx, `SELECT path FROM pages ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	paths := make([]string, 0)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan page path: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}
