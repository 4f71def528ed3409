package session

import (
	"errors"
	"runtime"
	"time"

	"github.com/poiesic/booksearch/rank"
	"github.com/poiesic/booksearch/urlstate"
)

// Config holds the tunables of a search session.
type Config struct {
	// MaxResults is the number of results requested per query.
	// Default: 15
	MaxResults int

	// MaxDescriptionSize is the number of characters of a result body shown.
	// Default: 500
	MaxDescriptionSize int

	// ThrottleWait is how long the first input of a burst waits before the
	// query is sent. Inputs during the wait are dropped.
	// Default: 1s
	ThrottleWait time.Duration

	// ParamName is the address parameter mirroring the query.
	// Default: "q"
	ParamName string

	// PoolSize is the number of workers running queries.
	// Default: runtime.NumCPU() / 2, with a minimum of 1
	PoolSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithMaxResults sets the number of results requested per query.
func WithMaxResults(n int) ConfigOption {
	return func(c *Config) {
		c.MaxResults = n
	}
}

// WithMaxDescriptionSize sets the result body truncation limit.
func WithMaxDescriptionSize(n int) ConfigOption {
	return func(c *Config) {
		c.MaxDescriptionSize = n
	}
}

// WithThrottleWait sets the throttle window.
func WithThrottleWait(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.ThrottleWait = d
	}
}

// WithParamName sets the address parameter name.
func WithParamName(name string) ConfigOption {
	return func(c *Config) {
		c.ParamName = name
	}
}

// WithPoolSize sets the query worker pool size.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// DefaultConfig returns a Config matching the stock book reader behavior.
func DefaultConfig() *Config {
	return &Config{
		MaxResults:         15,
		MaxDescriptionSize: rank.DefaultMaxDescriptionSize,
		ThrottleWait:       time.Second,
		ParamName:          urlstate.DefaultParam,
		PoolSize:           max(runtime.NumCPU()/2, 1),
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MaxResults < 1 {
		return errors.New("session config: MaxResults must be at least 1")
	}
	if c.MaxDescriptionSize < 0 {
		return errors.New("session config: MaxDescriptionSize must not be negative")
	}
	if c.ThrottleWait < 0 {
		return errors.New("session config: ThrottleWait must not be negative")
	}
	if c.ParamName == "" {
		return errors.New("session config: ParamName is required")
	}
	if c.PoolSize < 1 {
		return errors.New("session config: PoolSize must be at least 1")
	}
	return nil
}
