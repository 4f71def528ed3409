package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

type ID uint64

func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// LevelSeparator separates the segments of a level path.
const LevelSeparator = "."

// Location identifies where the reader currently is in the book.
type Location struct {
	Path     string // Dot-delimited level path, e.g. "chapter.section.page"
	BasePath string // Prefix used to build absolute result links
}

// Depth returns the number of segments in the location path.
func (l Location) Depth() int {
	return LevelDepth(l.Path)
}

// LevelDepth returns the number of segments in a level path. The root level "" has depth 0.
func LevelDepth(level string) int {
	if level == "" {
		return 0
	}
	return strings.Count(level, LevelSeparator) + 1
}

// RawResult is a single match returned by the search service.
type RawResult struct {
	Title string
	URL   string
	Body  string
	Level string // Level path of the page or section the match lives in
}

// ResultSet is the full response to a single query.
type ResultSet struct {
	Query   string
	Count   int
	Results []RawResult
	Levels  map[string]string // Display title per level path prefix
}

// LevelTitle returns the display title for a level, or "" if the set has none.
func (rs *ResultSet) LevelTitle(level string) string {
	if rs == nil || rs.Levels == nil {
		return ""
	}
	return rs.Levels[level]
}

// Page is an indexed document as held by the reference search service.
type Page struct {
	Id    ID
	Title string
	URL   string
	Body  string
	Level string
	Order int // Position in the index file, preserved for stable result order
}

// PageID derives the storage ID of a page from its URL.
func PageID(url string) ID {
	return IDFromContent("page:" + url)
}

func (p *Page) Result() RawResult {
	return RawResult{
		Title: p.Title,
		URL:   p.URL,
		Body:  p.Body,
		Level: p.Level,
	}
}

// LevelTitle maps a level path to its human readable title.
type LevelTitle struct {
	Level string
	Title string
}
