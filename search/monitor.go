package search

import "github.com/poiesic/booksearch/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string, offset, limit int)
	AfterPageScan(scanned int)
	TitleHit(page *core.Page)
	BodyHit(page *core.Page)
	Finish(set *core.ResultSet)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _, _ int) {}
func (n *noopMonitor) AfterPageScan(_ int) {}
func (n *noopMonitor) TitleHit(_ *core.Page) {}
func (n *noopMonitor) BodyHit(_ *core.Page) {}
func (n *noopMonitor) Finish(_ *core.ResultSet) {}
