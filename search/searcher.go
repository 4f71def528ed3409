package search

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/storage"
)

// Searcher answers queries from a page repository.
type Searcher struct {
	pageRepository storage.PageRepository
	monitor        SearchMonitor
	logger         *slog.Logger
	initialized    atomic.Bool
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMonitor sets a monitor that observes every query.
func WithMonitor(monitor SearchMonitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// WithInitialized marks the searcher ready from the start, for repositories
// that already hold a loaded index.
func WithInitialized(initialized bool) Option {
	return func(s *Searcher) error {
		s.initialized.Store(initialized)
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(pageRepository storage.PageRepository, opts ...Option) (*Searcher, error) {
	if pageRepository == nil {
		return nil, ErrPageRepositoryRequired
	}

	s := &Searcher{
		pageRepository: pageRepository,
		monitor:        &noopMonitor{},
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// IsInitialized reports whether an index has been loaded.
func (s *Searcher) IsInitialized() bool {
	return s.initialized.Load()
}

// MarkInitialized records that an index has been loaded.
func (s *Searcher) MarkInitialized() {
	if !s.initialized.Swap(true) {
		s.logger.Info("search index ready")
	}
}

// Query returns up to limit matches for text starting at offset.
// Count is the total number of matches. Querying before an index is loaded
// returns an empty result set.
func (s *Searcher) Query(ctx context.Context, text string, offset, limit int) (*core.ResultSet, error) {
	if offset < 0 || limit <= 0 {
		return nil, ErrInvalidRange
	}

	s.monitor.Start(text, offset, limit)

	set := &core.ResultSet{
		Query:   text,
		Results: []core.RawResult{},
		Levels:  map[string]string{},
	}
	if !s.IsInitialized() {
		s.logger.Debug("query before index ready", "query", text)
		s.monitor.Finish(set)
		return set, nil
	}

	pages, err := s.pageRepository.GetAllPages(ctx)
	if err != nil {
		s.logger.Error("error reading pages", "query", text, "err", err)
		return nil, err
	}
	s.monitor.AfterPageScan(len(pages))

	terms := tokenize(text)
	var titleHits, bodyHits []core.RawResult
	for _, page := range pages {
		if newWordSet(page.Title).containsAll(terms) {
			s.monitor.TitleHit(page)
			titleHits = append(titleHits, page.Result())
			continue
		}
		if newWordSet(page.Title + " " + page.Body).containsAll(terms) {
			s.monitor.BodyHit(page)
			bodyHits = append(bodyHits, page.Result())
		}
	}
	matches := append(titleHits, bodyHits...)

	levels, err := s.pageRepository.GetLevels(ctx)
	if err != nil {
		s.logger.Error("error reading level titles", "err", err)
		return nil, err
	}

	set.Count = len(matches)
	set.Levels = levels
	if offset < len(matches) {
		end := min(offset+limit, len(matches))
		set.Results = matches[offset:end]
	}

	s.logger.Debug("query complete", "query", text, "count", set.Count, "returned", len(set.Results))
	s.monitor.Finish(set)

	return set, nil
}
