package view

import (
	"sync"

	"github.com/poiesic/booksearch/rank"
	"github.com/poiesic/booksearch/session"
)

// Snapshot is the visible state of a search panel.
type Snapshot struct {
	Input     string        `json:"input"`
	Loading   bool          `json:"loading"`
	Open      bool          `json:"open"`
	NoResults bool          `json:"noResults"`
	Error     string        `json:"error,omitempty"`
	Results   *rank.Results `json:"results,omitempty"`
}

// Recorder keeps the latest render state.
type Recorder struct {
	mu    sync.RWMutex
	state Snapshot
}

var _ session.View = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetInput(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Input = value
}

func (r *Recorder) SetLoading(loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Loading = loading
}

func (r *Recorder) SetOpen(open bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Open = open
	if !open {
		r.state.Results = nil
	}
}

func (r *Recorder) SetNoResults(noResults bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.NoResults = noResults
}

func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		r.state.Error = ""
		return
	}
	r.state.Error = err.Error()
}

func (r *Recorder) ReplaceResults(results *rank.Results) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Results = results
}

// Snapshot returns the current state.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}
