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


package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/rank"
	"github.com/poiesic/booksearch/session"
	"github.com/poiesic/booksearch/view"
)

const (
	maxSearchLimit  = 50
	shutdownTimeout = 10 * time.Second
)

// Server serves book search over HTTP.
type Server struct {
	config        *Config
	service       session.SearchService
	sessionConfig *session.Config
	ranker        *rank.Ranker
	metrics       *Metrics
	sessions      *sessionStore
	logger        *slog.Logger
	echo          *echo.Echo
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics the server records to and exposes.
// Default is a fresh NewMetrics().
func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) error {
		if metrics != nil {
			s.metrics = metrics
		}
		return nil
	}
}

// WithSessionConfig sets the configuration of hosted sessions.
// Default is session.DefaultConfig().
func WithSessionConfig(cfg *session.Config) Option {
	return func(s *Server) error {
		if cfg == nil {
			cfg = session.DefaultConfig()
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.sessionConfig = cfg
		return nil
	}
}

// New creates a server answering queries with service.
func New(cfg *Config, service session.SearchService, opts ...Option) (*Server, error) {
	if service == nil {
		return nil, ErrSearchServiceRequired
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		config:        cfg,
		service:       service,
		sessionConfig: session.DefaultConfig(),
		sessions:      newSessionStore(),
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	s.ranker = rank.NewRanker(
		rank.WithMaxDescriptionSize(s.sessionConfig.MaxDescriptionSize),
		rank.WithLogger(s.logger),
	)
	s.echo = s.newEcho()

	return s, nil
}

func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				s.logger.Warn("request failed", append(attrs, "err", v.Error)...)
				return nil
			}
			s.logger.Debug("request", attrs...)
			return nil
		},
	}))

	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	api := e.Group(s.config.APIPrefix)
	api.GET("/health", s.health)
	api.GET("/search", s.search)
	api.POST("/sessions", s.createSession)
	api.GET("/sessions/:id", s.getSession)
	api.POST("/sessions/:id/input", s.input)
	api.POST("/sessions/:id/blur", s.blur)
	api.POST("/sessions/:id/close", s.closeSession)
	api.POST("/sessions/:id/page", s.changePage)
	api.DELETE("/sessions/:id", s.deleteSession)

	return e
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on the configured port until ctx is cancelled, then shuts
// down gracefully and releases every session.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		addr := ":" + s.config.Port
		s.logger.Info("starting search server", "addr", addr, "prefix", s.config.APIPrefix)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down search server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.echo.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// SearchReady tells every session that a new index is in place.
func (s *Server) SearchReady() {
	for _, h := range s.sessions.all() {
		h.controller.SearchReady()
	}
}

// Close releases every session.
func (s *Server) Close() {
	for _, h := range s.sessions.removeAll() {
		h.controller.Release()
		s.metrics.ActiveSessions.Dec()
	}
}

// health handles GET /health
func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:      "healthy",
		Initialized: s.service.IsInitialized(),
	})
}

// search handles GET /search
func (s *Server) search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	level := c.QueryParam("level")
	if err := core.ValidateLevel(level); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	limit := s.sessionConfig.MaxResults
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxSearchLimit {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 50")
		}
		limit = n
	}

	set, err := s.service.Query(c.Request().Context(), query, 0, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed: "+err.Error())
	}

	results := s.ranker.Rank(set, core.Location{Path: level, BasePath: c.QueryParam("base")})
	return c.JSON(http.StatusOK, results)
}

// createSession handles POST /sessions
func (s *Server) createSession(c echo.Context) error {
	var req PageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := core.ValidateLevel(req.Level); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h := &hostedSession{
		id:      s.sessions.nextID(),
		address: view.NewAddress(req.URL),
	}
	page := h.moveTo(req.URL, core.Location{Path: req.Level, BasePath: req.BasePath})

	ctrl, err := session.NewController(s.service, h.address, page,
		session.WithConfig(s.sessionConfig),
		session.WithLogger(s.logger.With("session", h.id)),
		session.WithMonitor(s.metrics),
	)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.controller = ctrl
	s.sessions.add(h)
	s.metrics.ActiveSessions.Inc()

	if s.service.IsInitialized() {
		ctrl.SearchReady()
	}

	return c.JSON(http.StatusCreated, h.snapshot())
}

// getSession handles GET /sessions/:id
func (s *Server) getSession(c echo.Context) error {
	h, err := s.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.snapshot())
}

// input handles POST /sessions/:id/input
func (s *Server) input(c echo.Context) error {
	h, err := s.lookup(c)
	if err != nil {
		return err
	}
	var req InputRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	h.controller.Input(req.Text)
	return c.JSON(http.StatusOK, h.snapshot())
}

// blur handles POST /sessions/:id/blur
func (s *Server) blur(c echo.Context) error {
	h, err := s.lookup(c)
	if err != nil {
		return err
	}
	h.controller.Blur()
	return c.JSON(http.StatusOK, h.snapshot())
}

// close handles POST /sessions/:id/close
func (s *Server) closeSession(c echo.Context) error {
	h, err := s.lookup(c)
	if err != nil {
		return err
	}
	h.controller.Close()
	return c.JSON(http.StatusOK, h.snapshot())
}

// changePage handles POST /sessions/:id/page
func (s *Server) changePage(c echo.Context) error {
	h, err := s.lookup(c)
	if err != nil {
		return err
	}
	var req PageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := core.ValidateLevel(req.Level); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page := h.moveTo(req.URL, core.Location{Path: req.Level, BasePath: req.BasePath})
	h.controller.PageChanged(page)
	return c.JSON(http.StatusOK, h.snapshot())
}

// deleteSession handles DELETE /sessions/:id
func (s *Server) deleteSession(c echo.Context) error {
	h, err := s.sessions.remove(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	h.controller.Release()
	s.metrics.ActiveSessions.Dec()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) lookup(c echo.Context) (*hostedSession, error) {
	h, err := s.sessions.get(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return h, nil
}
