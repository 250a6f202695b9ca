package search

import (
	"fmt"
	"log/slog"

	"shelfcheck/internal/config"
	"shelfcheck/internal/fetch"
	"shelfcheck/internal/sources"
	"shelfcheck/internal/sources/fantlab"
	"shelfcheck/internal/sources/knigopoisk"
)

// BuildSources constructs descriptors for every enabled source in the
// configured priority order. Disabled sources are skipped silently so a
// single flaky provider can be turned off without reshuffling priorities.
func BuildSources(cfg *config.Config, fetcher *fetch.Client, logger *slog.Logger) ([]sources.Descriptor, error) {
	var descriptors []sources.Descriptor
	for _, id := range cfg.Sources.Priority {
		settings, known := cfg.SourceByID(id)
		if !known {
			return nil, fmt.Errorf("unknown source %q in priority list", id)
		}
		if !settings.Enabled {
			continue
		}

		switch id {
		case fantlab.ID:
			client, err := fantlab.New(settings.BaseURL, fetcher, logger)
			if err != nil {
				return nil, fmt.Errorf("configure fantlab: %w", err)
			}
			descriptors = append(descriptors, sources.Descriptor{
				ID:     fantlab.ID,
				Label:  "FantLab",
				Search: client.Search,
			})
		case knigopoisk.ID:
			client, err := knigopoisk.New(settings.BaseURL, fetcher, logger)
			if err != nil {
				return nil, fmt.Errorf("configure knigopoisk: %w", err)
			}
			descriptors = append(descriptors, sources.Descriptor{
				ID:     knigopoisk.ID,
				Label:  "Knigopoisk",
				Search: client.Search,
			})
		default:
			return nil, fmt.Errorf("source %q has no adapter", id)
		}
	}

	if len(descriptors) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}
	return descriptors, nil
}
