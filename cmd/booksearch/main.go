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


package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/poiesic/booksearch"
	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/ingestion"
	"github.com/poiesic/booksearch/rank"
	"github.com/poiesic/booksearch/server"
	"github.com/poiesic/booksearch/session"
	"github.com/poiesic/booksearch/view"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "booksearch",
		Usage: "Search a book and rank results by where the reader is",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Load a search index file into the database",
				Action: indexCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "index",
						Aliases:  []string{"i"},
						Usage:    "Path to the search index JSON file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts to read the index file",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 100 * time.Millisecond,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run one query and print ranked results",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "level",
						Usage: "Level path of the current page, e.g. 1.2.3",
					},
					&cli.StringFlag{
						Name:  "base",
						Usage: "Base path prefixed to result links",
					},
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Number of results to request",
						Value: session.DefaultConfig().MaxResults,
					},
					&cli.IntFlag{
						Name:  "max-description",
						Usage: "Characters of each result body to show",
						Value: rank.DefaultMaxDescriptionSize,
					},
				},
			},
			{
				Name:   "interactive",
				Usage:  "Drive a search session from standard input",
				Action: interactiveCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "url",
						Usage: "Initial page address; a q parameter is replayed",
						Value: "http://localhost/index.html",
					},
					&cli.StringFlag{
						Name:  "level",
						Usage: "Level path of the initial page",
					},
					&cli.StringFlag{
						Name:  "base",
						Usage: "Base path prefixed to result links",
					},
					&cli.DurationFlag{
						Name:  "throttle",
						Usage: "Delay between the first keystroke of a burst and the query",
						Value: session.DefaultConfig().ThrottleWait,
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve search over HTTP and reload the index when it changes",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env-file",
						Usage: "Dotenv file with PORT, API_PREFIX, BOOK_DB and BOOK_INDEX",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:  "port",
						Usage: "Port to listen on (overrides PORT)",
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "API path prefix (overrides API_PREFIX)",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory (overrides BOOK_DB)",
					},
					&cli.StringFlag{
						Name:    "index",
						Aliases: []string{"i"},
						Usage:   "Path to the search index JSON file (overrides BOOK_INDEX)",
					},
				},
			},
		},
	}
}

func indexCommand(c *cli.Context) error {
	if c.Int("max-retries") <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := booksearch.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	loader, err := db.NewLoader(
		ingestion.WithProgress(c.App.Writer),
		ingestion.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	)
	if err != nil {
		return err
	}

	result, err := loader.Load(c.Context, c.String("index"))
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Indexed %d pages and %d level titles", result.Pages, result.Levels)
	if result.Skipped > 0 {
		fmt.Fprintf(c.App.Writer, " (%d invalid entries skipped)", result.Skipped)
	}
	fmt.Fprintln(c.App.Writer)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required")
	}
	level := c.String("level")
	if err := core.ValidateLevel(level); err != nil {
		return err
	}
	if c.Int("max-results") <= 0 {
		return fmt.Errorf("max-results must be greater than 0")
	}

	db, err := booksearch.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if !db.Searcher().IsInitialized() {
		return fmt.Errorf("no index loaded; run the index command first")
	}

	set, err := db.Searcher().Query(c.Context, query, 0, c.Int("max-results"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	ranker := rank.NewRanker(rank.WithMaxDescriptionSize(c.Int("max-description")))
	results := ranker.Rank(set, core.Location{Path: level, BasePath: c.String("base")})
	if len(results.Entries) == 0 {
		fmt.Fprintf(c.App.Writer, "No results matching %q\n", query)
		return nil
	}
	view.WriteResults(c.App.Writer, results)
	return nil
}

func interactiveCommand(c *cli.Context) error {
	level := c.String("level")
	if err := core.ValidateLevel(level); err != nil {
		return err
	}

	db, err := booksearch.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cfg := session.NewConfig(session.WithThrottleWait(c.Duration("throttle")))
	loc := core.Location{Path: level, BasePath: c.String("base")}
	return runInteractive(db, cfg, c.String("url"), loc, c.App.Reader, c.App.Writer)
}

// syncWriter serializes writes from the input loop and the session workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// runInteractive reads one input event per line:
//
//	<text>             search input changed to text (empty line clears it)
//	:blur              search input lost focus
//	:close             close the panel
//	:go <level> [url]  navigate to another page
//	:url               print the page address
//	:quit              exit
func runInteractive(db *booksearch.Database, cfg *session.Config, url string, loc core.Location, in io.Reader, out io.Writer) error {
	out = &syncWriter{w: out}
	base := loc.BasePath
	address := view.NewAddress(url)
	page := view.NewPage(loc, view.NewTextView(out))

	ctrl, err := db.NewController(address, page, session.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer ctrl.Release()

	bus := session.NewBus()
	ctrl.Attach(bus)
	if db.Searcher().IsInitialized() {
		bus.SearchReady()
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, ":") {
			ctrl.Input(line)
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case ":blur":
			ctrl.Blur()
		case ":close":
			ctrl.Close()
		case ":url":
			fmt.Fprintln(out, address.URL())
		case ":go":
			if len(fields) < 2 {
				fmt.Fprintln(out, "usage: :go <level> [url]")
				continue
			}
			if err := core.ValidateLevel(fields[1]); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if len(fields) > 2 {
				address.Navigate(fields[2])
			}
			bus.PageChange(view.NewPage(core.Location{Path: fields[1], BasePath: base}, view.NewTextView(out)))
		case ":quit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
		}
	}
	return scanner.Err()
}

func serveCommand(c *cli.Context) error {
	cfg := server.LoadConfig(c.String("env-file"))
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}
	if c.IsSet("prefix") {
		cfg.APIPrefix = c.String("prefix")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("index") {
		cfg.IndexPath = c.String("index")
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := server.NewMetrics()
	db, err := booksearch.NewDatabase(cfg.DBPath, booksearch.WithSearchMonitor(metrics))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	srv, err := server.New(cfg, db.Searcher(), server.WithMetrics(metrics))
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.IndexPath); err == nil {
		loader, err := db.NewLoader()
		if err != nil {
			return err
		}
		if _, err := loader.Load(ctx, cfg.IndexPath); err != nil {
			slog.Warn("initial index load failed; waiting for the file to change", "path", cfg.IndexPath, "err", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	watcher, err := db.NewWatcher(cfg.IndexPath, ingestion.WithOnReady(srv.SearchReady))
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch index file: %w", err)
	}
	defer watcher.Close()

	return srv.Start(ctx)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
