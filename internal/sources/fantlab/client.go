// Package fantlab adapts the FantLab works-search API as a verification
// source. Requests go through the caching page fetcher, so each query hits
// the network at most once per cache lifetime.
package fantlab

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
const ID = "fantlab"

// workPayload models one entry of the FantLab works-search response.
type workPayload struct {
	WorkID     int64  `json:"work_id"`
	WorkName   string `json:"work_name"`
	AuthorName string `json:"autor_rusname"`
	SagaName   string `json:"saga_name"`
	SagaNum    int    `json:"saga_num"`
}

// Client provides access to the FantLab search API.
type Client struct {
	baseURL string
	siteURL string
	fetcher *fetch.Client
	logger  *slog.Logger
}

var _ sources.Searcher = (*Client)(nil)

// New creates a FantLab client.
func New(baseURL string, fetcher *fetch.Client, logger *slog.Logger) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("fantlab base url required")
	}
	if fetcher == nil {
		return nil, errors.New("fantlab fetcher required")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		siteURL: "https://fantlab.ru",
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "fantlab"),
	}, nil
}

// Search queries FantLab for the supplied query string.
func (c *Client) Search(ctx context.Context, query string, work catalog.Work) (sources.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return sources.Result{}, errors.New("query must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL + "/search-works")
	if err != nil {
		return sources.Result{}, fmt.Errorf("parse fantlab url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	endpoint.RawQuery = params.Encode()
	queryURL := endpoint.String()

	data, err := c.fetcher.Fetch(ctx, ID+"|"+query, queryURL)
	if err != nil {
		return sources.Result{}, fmt.Errorf("fantlab search: %w", err)
	}

	var payload []workPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return sources.Result{}, fmt.Errorf("decode fantlab response: %w", err)
	}

	result := sources.Result{QueryURL: queryURL}
	for _, item := range payload {
		if strings.TrimSpace(item.WorkName) == "" {
			continue
		}
		candidate := sources.Candidate{
			Title:    item.WorkName,
			Author:   item.AuthorName,
			Series:   item.SagaName,
			Position: item.SagaNum,
		}
		if item.WorkID > 0 {
			candidate.URL = fmt.Sprintf("%s/work%d", c.siteURL, item.WorkID)
		}
		result.Candidates = append(result.Candidates, candidate)
	}

	c.logger.Debug("search complete",
		logging.String(logging.FieldQuery, query),
		logging.Int64(logging.FieldWorkID, work.ID),
		logging.Int("candidates", len(result.Candidates)))
	return result, nil
}
