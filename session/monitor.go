package session

// Monitor provides hooks to observe a session.
type Monitor interface {
	// Issued is called when a query is sent to the search service.
	Issued(query string)
	// Dropped is called when the throttle swallows an input event.
	Dropped(query string)
	// Discarded is called when a response arrives for a superseded query.
	Discarded(query string)
	// Rendered is called when a response is rendered.
	Rendered(query string, state State, count int)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Issued(_ string) {}
func (n *noopMonitor) Dropped(_ string) {}
func (n *noopMonitor) Discarded(_ string) {}
func (n *noopMonitor) Rendered(_ string, _ State, _ int) {}
