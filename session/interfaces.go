package session

import (
	"context"

	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/rank"
)

// SearchService answers free text queries.
type SearchService interface {
	// Query returns up to limit matches starting at offset.
	Query(ctx context.Context, text string, offset, limit int) (*core.ResultSet, error)

	// IsInitialized reports whether the service can answer queries yet.
	IsInitialized() bool
}

// View receives render instructions for the search panel.
// The controller serializes calls; implementations must not call back into it.
type View interface {
	SetInput(value string)
	SetLoading(loading bool)
	SetOpen(open bool)
	SetNoResults(noResults bool)
	// SetError shows err, or clears a previous error when err is nil.
	SetError(err error)
	ReplaceResults(results *rank.Results)
}

// Page is the page the reader is currently looking at.
type Page interface {
	Location() core.Location
	View() View
}

// Address exposes the current page address.
type Address interface {
	URL() string
}

// History is implemented by addresses that can record a new entry without
// reloading the page.
type History interface {
	Push(url string)
}

// Events lets the controller subscribe to page lifecycle notifications.
type Events interface {
	OnPageChange(handler func(Page))
	OnSearchReady(handler func())
}
