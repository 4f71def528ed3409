package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "API_PREFIX", "BOOK_DB", "BOOK_INDEX"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_DotenvAndEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9000\nAPI_PREFIX=search/\nBOOK_DB=/data/book.db\n"), 0o644))
	t.Setenv("BOOK_DB", "/override/book.db")

	cfg := LoadConfig(path)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/search", cfg.APIPrefix)
	assert.Equal(t, "/override/book.db", cfg.DBPath, "environment wins over dotenv")
	assert.Equal(t, "search_index.json", cfg.IndexPath)
}

func TestNormalizePrefix(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"/":        "",
		"api":      "/api",
		"/api/v1/": "/api/v1",
		" /api ":   "/api",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizePrefix(in), "prefix %q", in)
	}
}
