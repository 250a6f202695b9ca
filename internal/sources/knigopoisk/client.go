// Package knigopoisk adapts the Knigopoisk catalog search endpoint as a
// verification source.
package knigopoisk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"shelfcheck/internal/catalog"
	"shelfcheck/internal/fetch"
	"shelfcheck/internal/logging"
	"shelfcheck/internal/sources"
)

// ID is the source identifier used in configuration and cache keys.
const ID = "knigopoisk"

// searchResponse models the Knigopoisk JSON search payload.
type searchResponse struct {
	Results []struct {
		URL    string `json:"url"`
		Title  string `json:"title"`
		Author string `json:"author"`
		Series string `json:"series"`
		Number int    `json:"number"`
	} `json:"results"`
}

// Client provides access to the Knigopoisk search endpoint.
type Client struct {
	baseURL string
	fetcher *fetch.Client
	logger  *slog.Logger
}

var _ sources.Searcher = (*Client)(nil)

// New creates a Knigopoisk client.
func New(baseURL string, fetcher *fetch.Client, logger *slog.Logger) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("knigopoisk base url required")
	}
	if fetcher == nil {
		return nil, errors.New("knigopoisk fetcher required")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "knigopoisk"),
	}, nil
}

// Search queries Knigopoisk for the supplied query string.
func (c *Client) Search(ctx context.Context, query string, work catalog.Work) (sources.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return sources.Result{}, errors.New("query must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL + "/api/search")
	if err != nil {
		return sources.Result{}, fmt.Errorf("parse knigopoisk url: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	endpoint.RawQuery = params.Encode()
	queryURL := endpoint.String()

	data, err := c.fetcher.Fetch(ctx, ID+"|"+query, queryURL)
	if err != nil {
		return sources.Result{}, fmt.Errorf("knigopoisk search: %w", err)
	}

	var payload searchResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return sources.Result{}, fmt.Errorf("decode knigopoisk response: %w", err)
	}

	result := sources.Result{QueryURL: queryURL}
	for _, item := range payload.Results {
		if strings.TrimSpace(item.Title) == "" {
			continue
		}
		itemURL := item.URL
		if itemURL != "" && strings.HasPrefix(itemURL, "/") {
			itemURL = c.baseURL + itemURL
		}
		result.Candidates = append(result.Candidates, sources.Candidate{
			URL:      itemURL,
			Title:    item.Title,
			Author:   item.Author,
			Series:   item.Series,
			Position: item.Number,
		})
	}

	c.logger.Debug("search complete",
		logging.String(logging.FieldQuery, query),
		logging.Int64(logging.FieldWorkID, work.ID),
		logging.Int("candidates", len(result.Candidates)))
	return result, nil
}
