// Package catalog defines the catalogued Work record and loads the work
// catalog produced by the upstream topic-extraction pipeline.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Work is a catalogued book or audiobook entry to verify against external
// sources. Works are read-only to the verification core; only Title, Author,
// Series, and SeriesPosition participate in matching.
type Work struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	Series         string `json:"series,omitempty"`
	SeriesPosition string `json:"series_position,omitempty"`
	Performer      string `json:"performer,omitempty"`
	Year           string `json:"year,omitempty"`
	Genre          string `json:"genre,omitempty"`
}

// Load reads an ordered JSON array of works from path. Order is preserved;
// it determines batch processing order.
func Load(path string) ([]Work, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON work catalog.
func Parse(data []byte) ([]Work, error) {
	var works []Work
	if err := json.Unmarshal(data, &works); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[int64]struct{}, len(works))
	for i, work := range works {
		if work.ID <= 0 {
			return nil, fmt.Errorf("catalog entry %d: id must be positive, got %d", i, work.ID)
		}
		if _, dup := seen[work.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate work id %d", i, work.ID)
		}
		seen[work.ID] = struct{}{}
		if strings.TrimSpace(work.Title) == "" {
			return nil, fmt.Errorf("catalog entry %d (id %d): title is empty", i, work.ID)
		}
		if strings.TrimSpace(work.Author) == "" {
			return nil, fmt.Errorf("catalog entry %d (id %d): author is empty", i, work.ID)
		}
	}
	return works, nil
}

// ErrEmptyCatalog is returned by LoadNonEmpty for catalogs with no entries.
var ErrEmptyCatalog = errors.New("catalog contains no works")

// LoadNonEmpty loads a catalog and rejects an empty one.
func LoadNonEmpty(path string) ([]Work, error) {
	works, err := Load(path)
	if err != nil {
		return nil, err
	}
	if len(works) == 0 {
		return nil, ErrEmptyCatalog
	}
	return works, nil
}
