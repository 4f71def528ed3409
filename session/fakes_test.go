package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/rank"
)

type fakeService struct {
	QueryFunc   func(ctx context.Context, text string, offset, limit int) (*core.ResultSet, error)
	initialized atomic.Bool

	mu      sync.Mutex
	queries []string
}

func (f *fakeService) Query(ctx context.Context, text string, offset, limit int) (*core.ResultSet, error) {
	f.mu.Lock()
	f.queries = append(f.queries, text)
	f.mu.Unlock()
	if f.QueryFunc != nil {
		return f.QueryFunc(ctx, text, offset, limit)
	}
	return &core.ResultSet{Query: text}, nil
}

func (f *fakeService) IsInitialized() bool {
	return f.initialized.Load()
}

func (f *fakeService) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type viewState struct {
	input     string
	loading   bool
	open      bool
	noResults bool
	err       error
	results   *rank.Results
}

type fakeView struct {
	mu    sync.Mutex
	state viewState
}

func (v *fakeView) SetInput(value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.input = value
}

func (v *fakeView) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.loading = loading
}

func (v *fakeView) SetOpen(open bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.open = open
}

func (v *fakeView) SetNoResults(noResults bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.noResults = noResults
}

func (v *fakeView) SetError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.err = err
}

func (v *fakeView) ReplaceResults(results *rank.Results) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.results = results
}

func (v *fakeView) snapshot() viewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

type fakePage struct {
	location core.Location
	view     *fakeView
}

func newFakePage(path string) *fakePage {
	return &fakePage{
		location: core.Location{Path: path, BasePath: "/book"},
		view:     &fakeView{},
	}
}

func (p *fakePage) Location() core.Location { return p.location }
func (p *fakePage) View() View              { return p.view }

// fakeAddress supports history.
type fakeAddress struct {
	mu     sync.Mutex
	url    string
	pushes []string
}

func (a *fakeAddress) URL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.url
}

func (a *fakeAddress) Push(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.url = url
	a.pushes = append(a.pushes, url)
}

func (a *fakeAddress) Pushes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.pushes...)
}

// plainAddress has no history support.
type plainAddress struct {
	url string
}

func (a *plainAddress) URL() string { return a.url }

type recordingMonitor struct {
	issued    atomic.Int32
	dropped   atomic.Int32
	discarded atomic.Int32
	rendered  atomic.Int32
}

func (m *recordingMonitor) Issued(_ string)                   { m.issued.Add(1) }
func (m *recordingMonitor) Dropped(_ string)                  { m.dropped.Add(1) }
func (m *recordingMonitor) Discarded(_ string)                { m.discarded.Add(1) }
func (m *recordingMonitor) Rendered(_ string, _ State, _ int) { m.rendered.Add(1) }
