package rank

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/booksearch/core"
)

// DefaultMaxDescriptionSize is the longest body, in characters, an item shows.
const DefaultMaxDescriptionSize = 500

// EntryKind distinguishes group headers from result items.
type EntryKind int

const (
	// EntryHeader introduces a group of equally weighted results.
	EntryHeader EntryKind = iota + 1
	// EntryItem is a single result.
	EntryItem
)

func (k EntryKind) String() string {
	switch k {
	case EntryHeader:
		return "header"
	case EntryItem:
		return "item"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *EntryKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "header":
		*k = EntryHeader
	case "item":
		*k = EntryItem
	default:
		return fmt.Errorf("unknown entry kind %q", text)
	}
	return nil
}

// Entry is one render instruction in a ranked results list.
type Entry struct {
	Kind   EntryKind `json:"kind"`
	Weight int       `json:"weight"`
	Title  string    `json:"title"`          // Group title for headers, result title for items
	Level  string    `json:"level"`          // Chain entry for headers, result level for items
	Link   string    `json:"link,omitempty"` // Absolute result link; empty for headers
	Body   string    `json:"body,omitempty"` // Truncated result body; empty for headers
}

// Results is the ranked and grouped rendering of a ResultSet.
type Results struct {
	Query   string  `json:"query"`
	Count   int     `json:"count"`
	Entries []Entry `json:"entries"`
}

// Items returns only the result items, in ranked order.
func (r *Results) Items() []Entry {
	items := make([]Entry, 0, len(r.Entries))
	for _, entry := range r.Entries {
		if entry.Kind == EntryItem {
			items = append(items, entry)
		}
	}
	return items
}

// Headers returns only the group headers, in ranked order.
func (r *Results) Headers() []Entry {
	var headers []Entry
	for _, entry := range r.Entries {
		if entry.Kind == EntryHeader {
			headers = append(headers, entry)
		}
	}
	return headers
}

// Ranker turns result sets into grouped render entries.
type Ranker struct {
	maxDescriptionSize int
	logger             *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithMaxDescriptionSize sets the truncation length of result bodies.
// Default is DefaultMaxDescriptionSize.
func WithMaxDescriptionSize(size int) Option {
	return func(r *Ranker) {
		r.maxDescriptionSize = size
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewRanker creates a ranker.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		maxDescriptionSize: DefaultMaxDescriptionSize,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank orders the results of set by proximity to loc and groups them.
// set is not modified.
func (r *Ranker) Rank(set *core.ResultSet, loc core.Location) *Results {
	if set == nil {
		return &Results{}
	}

	chain := Chain(loc.Path)
	weighted := Weigh(set.Results, chain)

	// Weight only; equal weights keep the search service's order
	slices.SortStableFunc(weighted, func(a, b Weighted) int {
		return a.Weight - b.Weight
	})

	entries := make([]Entry, 0, 2*len(weighted))
	for i, w := range weighted {
		if i == 0 || w.Weight != weighted[i-1].Weight {
			level := chainEntry(chain, w.Weight)
			entries = append(entries, Entry{
				Kind:   EntryHeader,
				Weight: w.Weight,
				Title:  set.LevelTitle(level),
				Level:  level,
			})
		}
		entries = append(entries, Entry{
			Kind:   EntryItem,
			Weight: w.Weight,
			Title:  w.Result.Title,
			Level:  w.Result.Level,
			Link:   Link(loc.BasePath, w.Result.URL),
			Body:   Truncate(w.Result.Body, r.maxDescriptionSize),
		})
	}

	r.logger.Debug("ranked results",
		"query", set.Query,
		"location", loc.Path,
		"results", len(weighted),
		"groups", len(entries)-len(weighted))

	return &Results{
		Query:   set.Query,
		Count:   set.Count,
		Entries: entries,
	}
}

// chainEntry returns the chain entry for weight, falling back to the root for
// results that matched nothing.
func chainEntry(chain []string, weight int) string {
	if weight < len(chain) {
		return chain[weight]
	}
	return ""
}

// Link builds the absolute link of a result relative to the book base path.
func Link(basePath, url string) string {
	return basePath + "/" + url
}
