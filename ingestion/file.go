package ingestion

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/poiesic/booksearch/core"
)

// IndexFile is the on-disk form of a pre-built search index.
type IndexFile struct {
	Levels map[string]string `json:"levels"`
	Pages  []IndexEntry      `json:"pages"`
}

// IndexEntry is one page of an index file.
type IndexEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Body  string `json:"body"`
	Level string `json:"level"`
}

// DecodeIndexFile reads an index file from r.
func DecodeIndexFile(r io.Reader) (*IndexFile, error) {
	var file IndexFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIndexFile, err)
	}
	return &file, nil
}

// LevelTitles returns the level titles of the file.
func (f *IndexFile) LevelTitles() []core.LevelTitle {
	levels := make([]core.LevelTitle, 0, len(f.Levels))
	for level, title := range f.Levels {
		levels = append(levels, core.LevelTitle{Level: level, Title: title})
	}
	return levels
}
