package server

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port      string // PORT
	APIPrefix string // API_PREFIX
	DBPath    string // BOOK_DB
	IndexPath string // BOOK_INDEX
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Port:      "8080",
		APIPrefix: "/api/v1",
		DBPath:    "booksearch.db",
		IndexPath: "search_index.json",
	}
}

// LoadConfig reads configuration from the environment, falling back to the
// given dotenv files (".env" when none are named) and then to defaults.
// Process environment variables win over dotenv values.
func LoadConfig(files ...string) *Config {
	dotenv, err := godotenv.Read(files...)
	if err != nil {
		dotenv = map[string]string{}
	}

	getEnv := func(key, defaultValue string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		if value := dotenv[key]; value != "" {
			return value
		}
		return defaultValue
	}

	defaults := DefaultConfig()
	return &Config{
		Port:      getEnv("PORT", defaults.Port),
		APIPrefix: normalizePrefix(getEnv("API_PREFIX", defaults.APIPrefix)),
		DBPath:    getEnv("BOOK_DB", defaults.DBPath),
		IndexPath: getEnv("BOOK_INDEX", defaults.IndexPath),
	}
}

// normalizePrefix ensures the prefix starts with "/" and has no trailing "/".
func normalizePrefix(prefix string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}
