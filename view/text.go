package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/poiesic/booksearch/rank"
	"github.com/poiesic/booksearch/session"
)

// TextView renders the search panel as plain text.
type TextView struct {
	mu      sync.Mutex
	w       io.Writer
	open    bool
	loading bool
}

var _ session.View = (*TextView)(nil)

// NewTextView creates a view writing to w.
func NewTextView(w io.Writer) *TextView {
	return &TextView{w: w}
}

// SetInput is a no-op: the reader typed the input themselves.
func (v *TextView) SetInput(string) {}

func (v *TextView) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if loading && !v.loading {
		fmt.Fprintln(v.w, "searching...")
	}
	v.loading = loading
}

func (v *TextView) SetOpen(open bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.open && !open {
		fmt.Fprintln(v.w, "search closed")
	}
	v.open = open
}

func (v *TextView) SetNoResults(noResults bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if noResults {
		fmt.Fprintln(v.w, "no results")
	}
}

func (v *TextView) SetError(err error) {
	if err == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.w, "search failed: %v\n", err)
}

func (v *TextView) ReplaceResults(results *rank.Results) {
	v.mu.Lock()
	defer v.mu.Unlock()
	WriteResults(v.w, results)
}

// WriteResults writes ranked results as an indented outline.
func WriteResults(w io.Writer, results *rank.Results) {
	if results == nil || len(results.Entries) == 0 {
		return
	}

	fmt.Fprintf(w, "%d results matching %q\n", results.Count, results.Query)
	for _, entry := range results.Entries {
		switch entry.Kind {
		case rank.EntryHeader:
			title := entry.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(w, "\n== %s ==\n", title)
		case rank.EntryItem:
			fmt.Fprintf(w, "  %s <%s>\n", entry.Title, entry.Link)
			if entry.Body != "" {
				fmt.Fprintf(w, "    %s\n", strings.ReplaceAll(entry.Body, "\n", "\n    "))
			}
		}
	}
}
