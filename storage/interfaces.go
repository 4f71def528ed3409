package storage

import (
	"context"

	"github.com/poiesic/booksearch/core"
)

// PageRepository stores the pages and level titles of a pre-built search index.
// Implementations must be thread-safe and support concurrent access.
type PageRepository interface {
	// ReplaceIndex atomically replaces every page and level title.
	// Pages are assigned content-based IDs from their URL when Id is 0.
	ReplaceIndex(ctx context.Context, pages []*core.Page, levels []core.LevelTitle) error

	// AddPages adds or overwrites pages.
	// Returns the pages with IDs populated.
	AddPages(ctx context.Context, pages ...*core.Page) ([]*core.Page, error)

	// GetPage retrieves a single page by ID.
	// Returns ErrNotFound if the page doesn't exist.
	GetPage(ctx context.Context, id core.ID) (*core.Page, error)

	// GetAllPages retrieves every page ordered by Page.Order.
	GetAllPages(ctx context.Context) ([]*core.Page, error)

	// SetLevels adds or overwrites level titles.
	SetLevels(ctx context.Context, levels ...core.LevelTitle) error

	// GetLevels returns all level titles keyed by level path.
	GetLevels(ctx context.Context) (map[string]string, error)

	// Count returns the number of stored pages.
	Count(ctx context.Context) (int, error)

	// Clear removes all pages and level titles.
	Clear(ctx context.Context) error

	// Close releases repository resources. It does not close the backend.
	Close() error
}
