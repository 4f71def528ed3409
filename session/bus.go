package session

import "sync"

// Bus is an in-process Events implementation. Hosts call PageChange and
// SearchReady when the reader navigates or the search index finishes loading.
type Bus struct {
	mu          sync.RWMutex
	pageChange  []func(Page)
	searchReady []func()
}

var _ Events = (*Bus)(nil)

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// OnPageChange registers a page change handler.
func (b *Bus) OnPageChange(handler func(Page)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pageChange = append(b.pageChange, handler)
}

// OnSearchReady registers a search ready handler.
func (b *Bus) OnSearchReady(handler func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searchReady = append(b.searchReady, handler)
}

// PageChange notifies every page change handler, in registration order.
func (b *Bus) PageChange(page Page) {
	b.mu.RLock()
	handlers := append([]func(Page){}, b.pageChange...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(page)
	}
}

// SearchReady notifies every search ready handler, in registration order.
func (b *Bus) SearchReady() {
	b.mu.RLock()
	handlers := append([]func(){}, b.searchReady...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler()
	}
}
