package session

// State is the visible state of the search panel.
type State int

const (
	// Closed hides the panel and leaves the input empty.
	Closed State = iota
	// Loading means a query is scheduled or in flight.
	Loading
	// OpenWithResults shows a ranked result list.
	OpenWithResults
	// OpenNoResults shows the panel with the "no results" notice.
	OpenNoResults
	// OpenFailed shows the panel with the query error and no results.
	OpenFailed
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Loading:
		return "loading"
	case OpenWithResults:
		return "open"
	case OpenNoResults:
		return "no-results"
	case OpenFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsOpen reports whether the results panel is shown.
func (s State) IsOpen() bool {
	return s == OpenWithResults || s == OpenNoResults || s == OpenFailed
}
