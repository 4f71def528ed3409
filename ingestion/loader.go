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


package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/storage"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 100 * time.Millisecond
	defaultReportEvery = 100
)

// LoadResult summarizes a completed load.
type LoadResult struct {
	Pages   int // Pages stored
	Skipped int // Entries rejected by validation
	Levels  int // Level titles stored
}

// Loader replaces a repository's contents with an index file.
type Loader struct {
	pageRepository storage.PageRepository
	logger         *slog.Logger
	progress       io.Writer
	maxAttempts    int
	retryDelay     time.Duration
	onLoaded       []func()
}

// Option configures a Loader.
type Option func(*Loader) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithProgress writes load progress to w.
func WithProgress(w io.Writer) Option {
	return func(l *Loader) error {
		l.progress = w
		return nil
	}
}

// WithRetry sets how often reading the index file is attempted and the delay
// before the first retry. Files caught mid-write fail to decode and are retried.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(l *Loader) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		l.maxAttempts = maxAttempts
		l.retryDelay = baseDelay
		return nil
	}
}

// WithOnLoaded registers a callback run after every successful load.
// Callbacks run in registration order.
func WithOnLoaded(fn func()) Option {
	return func(l *Loader) error {
		if fn != nil {
			l.onLoaded = append(l.onLoaded, fn)
		}
		return nil
	}
}

// NewLoader creates a loader for the given repository.
func NewLoader(pageRepository storage.PageRepository, opts ...Option) (*Loader, error) {
	if pageRepository == nil {
		return nil, ErrPageRepositoryRequired
	}

	l := &Loader{
		pageRepository: pageRepository,
		logger:         slog.Default(),
		maxAttempts:    defaultMaxAttempts,
		retryDelay:     defaultRetryDelay,
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Load reads the index file at path and replaces the repository contents with it.
func (l *Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	if path == "" {
		return nil, ErrIndexPathRequired
	}

	var file *IndexFile
	err := RetryWithBackoff(ctx, func() error {
		var readErr error
		file, readErr = readIndexFile(path)
		return readErr
	}, l.maxAttempts, l.retryDelay)
	if err != nil {
		l.logger.Error("error reading index file", "path", path, "err", err)
		return nil, err
	}

	return l.Apply(ctx, file)
}

// Apply replaces the repository contents with an already decoded index file.
// Entries that fail validation are skipped with a warning.
func (l *Loader) Apply(ctx context.Context, file *IndexFile) (*LoadResult, error) {
	tracker := NewProgressTracker(l.progress, len(file.Pages), defaultReportEvery)
	tracker.Start()

	result := &LoadResult{}
	pages := make([]*core.Page, 0, len(file.Pages))
	seen := make(map[string]bool, len(file.Pages))
	for i, entry := range file.Pages {
		page := &core.Page{
			Title: entry.Title,
			URL:   entry.URL,
			Body:  entry.Body,
			Level: entry.Level,
			Order: i,
		}
		tracker.Increment(1)
		if err := core.ValidatePage(page); err != nil {
			l.logger.Warn("skipping index entry", "position", i, "url", entry.URL, "err", err)
			result.Skipped++
			continue
		}
		if seen[page.URL] {
			l.logger.Warn("skipping duplicate index entry", "position", i, "url", entry.URL)
			result.Skipped++
			continue
		}
		seen[page.URL] = true
		pages = append(pages, page)
	}

	levels := file.LevelTitles()
	for _, level := range levels {
		if err := core.ValidateLevel(level.Level); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidIndexFile, err)
		}
	}

	if err := l.pageRepository.ReplaceIndex(ctx, pages, levels); err != nil {
		l.logger.Error("error storing index", "err", err)
		return nil, err
	}
	tracker.Finish()

	result.Pages = len(pages)
	result.Levels = len(levels)
	l.logger.Info("index loaded", "pages", result.Pages, "skipped", result.Skipped,
		"levels", result.Levels, "elapsed", tracker.Elapsed())

	for _, fn := range l.onLoaded {
		fn()
	}

	return result, nil
}

func readIndexFile(path string) (*IndexFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeIndexFile(f)
}
