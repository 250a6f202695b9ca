// Package sources defines the contract between the search orchestrator and
// the external providers that answer text queries with candidate items.
package sources

import (
	"context"

	"shelfcheck/internal/catalog"
)

// Candidate is one item a source offers in response to a query.
type Candidate struct {
	URL      string `json:"url,omitempty"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Series   string `json:"series,omitempty"`
	Position int    `json:"position,omitempty"`
}

// Result is the query URL plus the ordered candidates one source produced
// for one query. Candidate order is the source's own ranking and must be
// stable; the orchestrator's first-match-wins policy depends on it.
type Result struct {
	QueryURL   string      `json:"query_url"`
	Candidates []Candidate `json:"candidates"`
}

// SearchFunc turns a query string into a Result. The work is passed for
// context (some sources refine requests with series or year) and must not
// be mutated.
type SearchFunc func(ctx context.Context, query string, work catalog.Work) (Result, error)

// Searcher is implemented by concrete source adapters.
type Searcher interface {
	Search(ctx context.Context, query string, work catalog.Work) (Result, error)
}

// Descriptor binds a source identifier to its search implementation. The
// orchestrator iterates a slice of descriptors in priority order and stays
// free of per-source knowledge.
type Descriptor struct {
	ID     string
	Label  string
	Search SearchFunc
}
