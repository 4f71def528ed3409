// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/rank"
	"github.com/poiesic/booksearch/throttle"
	"github.com/poiesic/booksearch/urlstate"
)

// Controller runs the search panel of one reader.
// All methods are safe for concurrent use.
type Controller struct {
	service  SearchService
	address  Address
	config   *Config
	codec    urlstate.Codec
	ranker   *rank.Ranker
	monitor  Monitor
	logger   *slog.Logger
	pool     *ants.Pool
	throttle *throttle.Throttle[string]
	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup

	mu         sync.Mutex
	page       Page
	query      string
	state      State
	generation uint64
	released   bool
}

// Option configures a Controller.
type Option func(*Controller) error

// WithConfig sets the session configuration.
// Default is DefaultConfig().
func WithConfig(cfg *Config) Option {
	return func(c *Controller) error {
		if cfg == nil {
			cfg = DefaultConfig()
		}
		c.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithMonitor sets a monitor that observes the session.
func WithMonitor(monitor Monitor) Option {
	return func(c *Controller) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		c.monitor = monitor
		return nil
	}
}

// NewController creates a controller bound to page. The controller starts
// Closed; call SearchReady or Attach it to an Events source to replay the
// query held in the address.
func NewController(service SearchService, address Address, page Page, opts ...Option) (*Controller, error) {
	if service == nil {
		return nil, ErrSearchServiceRequired
	}
	if address == nil {
		return nil, ErrAddressRequired
	}
	if page == nil {
		return nil, ErrPageRequired
	}

	c := &Controller{
		service: service,
		address: address,
		page:    page,
		config:  DefaultConfig(),
		monitor: &noopMonitor{},
		logger:  slog.Default(),
		state:   Closed,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.config.Validate(); err != nil {
		return nil, err
	}

	c.codec = urlstate.NewCodec(c.config.ParamName)
	c.ranker = rank.NewRanker(
		rank.WithMaxDescriptionSize(c.config.MaxDescriptionSize),
		rank.WithLogger(c.logger),
	)

	pool, err := ants.NewPool(c.config.PoolSize)
	if err != nil {
		return nil, err
	}
	c.pool = pool

	t, err := throttle.New(c.issue, c.config.ThrottleWait,
		throttle.WithLogger[string](c.logger),
		throttle.OnDrop(c.monitor.Dropped),
	)
	if err != nil {
		pool.Release()
		return nil, err
	}
	c.throttle = t
	c.ctx, c.cancel = context.WithCancel(context.Background())

	return c, nil
}

// Attach subscribes the controller to page lifecycle events.
func (c *Controller) Attach(events Events) {
	events.OnPageChange(c.PageChanged)
	events.OnSearchReady(c.SearchReady)
}

// State returns the current panel state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Query returns the current Query State.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Input handles a change of the search input. Empty text closes the panel
// and removes the query from the address; anything else starts a search.
func (c *Controller) Input(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}

	if text == "" {
		c.closeLocked(true)
		return
	}
	c.launchLocked(text)
}

// Blur records the current query in the address history, when the address
// supports it. The page is never reloaded.
func (c *Controller) Blur() {
	history, ok := c.address.(History)
	if !ok {
		return
	}

	c.mu.Lock()
	query := c.query
	released := c.released
	c.mu.Unlock()
	if released {
		return
	}

	history.Push(c.codec.Sync(c.address.URL(), query))
}

// Close closes the panel, clears the input and removes the query from the
// address.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.closeLocked(true)
}

// Follow closes the panel because the reader followed a result link. The
// address is left alone since the host is about to navigate to link.
func (c *Controller) Follow(link string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.logger.Debug("result followed", "link", link)
	c.closeLocked(false)
}

// PageChanged rebinds the controller to page, closes the panel and replays
// the address query if the search service is ready.
func (c *Controller) PageChanged(page Page) {
	if page == nil {
		c.logger.Warn("ignoring page change without a page")
		return
	}

	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return
	}
	previous := c.page
	c.page = page
	c.closeLocked(false)
	if previous != page {
		clearView(previous.View())
	}
	c.mu.Unlock()

	if c.service.IsInitialized() {
		c.replay()
	}
}

// SearchReady rebinds the controller to the current page and replays the
// address query. A query that was loading when the index changed is sent
// again when the address holds none.
func (c *Controller) SearchReady() {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return
	}
	c.generation++
	c.mu.Unlock()

	if c.replay() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released || c.state != Loading || c.query == "" {
		return
	}
	c.logger.Debug("reissuing loading query", "query", c.query)
	c.launchLocked(c.query)
}

// Wait blocks until every query already handed to the worker pool has
// finished rendering or been discarded.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Release stops the controller. Pending and in-flight queries are abandoned.
func (c *Controller) Release() {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return
	}
	c.released = true
	c.generation++
	c.throttle.Stop()
	c.cancel()
	c.mu.Unlock()

	c.inflight.Wait()
	c.pool.Release()
}

// replay launches the query stored in the address, if any. It reports
// whether a query was launched.
func (c *Controller) replay() bool {
	query, ok := c.codec.Get(c.address.URL())
	if !ok || query == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return false
	}
	c.logger.Debug("replaying query from address", "query", query)
	c.page.View().SetInput(query)
	c.launchLocked(query)
	return true
}

// launchLocked shows the loading state and schedules a query.
// Must be called with lock held.
func (c *Controller) launchLocked(query string) {
	c.query = query
	c.state = Loading
	c.page.View().SetLoading(true)
	c.throttle.Call(query)
}

// closeLocked hides the panel and invalidates outstanding queries.
// Must be called with lock held.
func (c *Controller) closeLocked(updateAddress bool) {
	c.generation++
	c.throttle.Stop()
	c.query = ""
	c.state = Closed

	clearView(c.page.View())

	if !updateAddress {
		return
	}
	if history, ok := c.address.(History); ok {
		history.Push(c.codec.Remove(c.address.URL()))
	}
}

func clearView(view View) {
	view.SetInput("")
	view.SetLoading(false)
	view.SetNoResults(false)
	view.SetError(nil)
	view.SetOpen(false)
}

// issue is the throttled action. It sends the latest Query State rather than
// the text that armed the throttle, so the last keystroke of a burst is
// never lost.
func (c *Controller) issue(string) {
	c.mu.Lock()
	if c.released || c.query == "" {
		c.mu.Unlock()
		return
	}
	c.generation++
	generation := c.generation
	query := c.query
	page := c.page
	c.inflight.Add(1)
	c.mu.Unlock()

	c.monitor.Issued(query)
	c.logger.Debug("issuing query", "query", query, "generation", generation)

	err := c.pool.Submit(func() {
		defer c.inflight.Done()
		set, err := c.service.Query(c.ctx, query, 0, c.config.MaxResults)
		c.complete(generation, page, query, set, err)
	})
	if err != nil {
		c.inflight.Done()
		c.logger.Error("error submitting query", "query", query, "err", err)
		c.complete(generation, page, query, nil, err)
	}
}

// complete renders a query response unless it has been superseded.
func (c *Controller) complete(generation uint64, page Page, query string, set *core.ResultSet, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released || generation != c.generation {
		c.logger.Debug("discarding stale response", "query", query, "generation", generation)
		c.monitor.Discarded(query)
		return
	}

	view := page.View()
	view.SetLoading(false)
	view.SetError(err)
	if err != nil {
		c.logger.Error("search failed", "query", query, "err", err)
		c.state = OpenFailed
		view.SetNoResults(false)
		view.ReplaceResults(&rank.Results{Query: query})
		view.SetOpen(true)
		c.monitor.Rendered(query, c.state, 0)
		return
	}

	if set == nil {
		set = &core.ResultSet{Query: query}
	}
	results := c.ranker.Rank(set, page.Location())
	view.ReplaceResults(results)
	if set.Count == 0 {
		c.state = OpenNoResults
	} else {
		c.state = OpenWithResults
	}
	view.SetNoResults(c.state == OpenNoResults)
	view.SetOpen(true)
	c.monitor.Rendered(query, c.state, set.Count)
}
