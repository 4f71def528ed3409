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


package booksearch

import (
	"context"
	"log/slog"

	"github.com/poiesic/booksearch/ingestion"
	"github.com/poiesic/booksearch/search"
	"github.com/poiesic/booksearch/session"
	"github.com/poiesic/booksearch/storage"
	"github.com/poiesic/booksearch/storage/badger"
)

type Database struct {
	backend  *badger.Backend
	pageRepo storage.PageRepository
	searcher *search.Searcher
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	logger        *slog.Logger
	searchMonitor search.SearchMonitor
	inMemory      bool
}

// WithLogger sets the logger shared by the database components.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// WithSearchMonitor sets a monitor observing every query of the searcher.
func WithSearchMonitor(monitor search.SearchMonitor) DatabaseOption {
	return func(o *databaseOptions) {
		o.searchMonitor = monitor
	}
}

// InMemory keeps the database in memory; filePath is ignored.
func InMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the page store at filePath. A store that already holds
// pages is searchable immediately.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	pageRepo, err := badger.NewPageRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	count, err := pageRepo.Count(context.Background())
	if err != nil {
		pageRepo.Close()
		backend.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(pageRepo,
		search.WithLogger(options.logger),
		search.WithMonitor(options.searchMonitor),
		search.WithInitialized(count > 0),
	)
	if err != nil {
		pageRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		pageRepo: pageRepo,
		searcher: searcher,
		logger:   options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.pageRepo.Close(); err != nil {
		db.logger.Error("error closing page repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) PageRepository() storage.PageRepository {
	return db.pageRepo
}

// Searcher returns the search service backed by this database.
func (db *Database) Searcher() *search.Searcher {
	return db.searcher
}

// NewLoader creates an index loader that marks the searcher ready after
// every successful load.
func (db *Database) NewLoader(opts ...ingestion.Option) (*ingestion.Loader, error) {
	defaults := []ingestion.Option{
		ingestion.WithLogger(db.logger),
		ingestion.WithOnLoaded(db.searcher.MarkInitialized),
	}
	return ingestion.NewLoader(db.pageRepo, append(defaults, opts...)...)
}

// NewWatcher creates a watcher that reloads the index file at path.
func (db *Database) NewWatcher(path string, opts ...ingestion.WatchOption) (*ingestion.Watcher, error) {
	loader, err := db.NewLoader()
	if err != nil {
		return nil, err
	}
	defaults := []ingestion.WatchOption{ingestion.WithWatchLogger(db.logger)}
	return ingestion.NewWatcher(loader, path, append(defaults, opts...)...)
}

// NewController creates a search session for page backed by this database.
func (db *Database) NewController(address session.Address, page session.Page, opts ...session.Option) (*session.Controller, error) {
	defaults := []session.Option{session.WithLogger(db.logger)}
	return session.NewController(db.searcher, address, page, append(defaults, opts...)...)
}
