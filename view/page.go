package view

import (
	"sync"

	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/session"
)

// Page is a page with a fixed location and view.
type Page struct {
	location core.Location
	view     session.View
}

var _ session.Page = (*Page)(nil)

// NewPage creates a page at loc rendering into v.
func NewPage(loc core.Location, v session.View) *Page {
	return &Page{location: loc, view: v}
}

func (p *Page) Location() core.Location { return p.location }
func (p *Page) View() session.View      { return p.view }

// Address is an in-memory page address with history.
type Address struct {
	mu      sync.RWMutex
	url     string
	history []string
}

var (
	_ session.Address = (*Address)(nil)
	_ session.History = (*Address)(nil)
)

// NewAddress creates an address pointing at url.
func NewAddress(url string) *Address {
	return &Address{url: url}
}

func (a *Address) URL() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.url
}

// Push records url as the new current address.
func (a *Address) Push(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, a.url)
	a.url = url
}

// Navigate replaces the current address without recording history.
func (a *Address) Navigate(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.url = url
}

// History returns the addresses replaced by Push, oldest first.
func (a *Address) History() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]string(nil), a.history...)
}
