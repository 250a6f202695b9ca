package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"shelfcheck/internal/breaker"
	"shelfcheck/internal/catalog"
	"shelfcheck/internal/config"
	"shelfcheck/internal/fetch"
	"shelfcheck/internal/logging"
	"shelfcheck/internal/outcomes"
	"shelfcheck/internal/resultcache"
	"shelfcheck/internal/search"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var (
		catalogPath string
		policyFlag  string
		forceIDs    []int64
		limit       int
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify catalogued works against the configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				OutputPaths: []string{
					"stdout",
					filepath.Join(cfg.Paths.LogDir, "shelfcheck.log"),
				},
			})
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			lockPath := filepath.Join(cfg.Paths.DataDir, "shelfcheck.lock")
			lock := flock.New(lockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another shelfcheck run holds %s", lockPath)
			}
			defer lock.Unlock()

			source := cfg.Catalog.Path
			if catalogPath != "" {
				source = catalogPath
			}
			works, err := catalog.LoadNonEmpty(source)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			if limit > 0 && limit < len(works) {
				works = works[:limit]
			}

			policyValue := cfg.Verify.Policy
			if policyFlag != "" {
				policyValue = policyFlag
			}
			policy, err := search.ParsePolicy(policyValue)
			if err != nil {
				return err
			}

			store, err := outcomes.Open(filepath.Join(cfg.Paths.DataDir, "outcomes.db"))
			if err != nil {
				return fmt.Errorf("open outcome store: %w", err)
			}
			defer store.Close()

			httpClient := &http.Client{Timeout: sourceTimeout(cfg)}
			fetcher := fetch.New(filepath.Join(cfg.Paths.CacheDir, "pages"), logger, fetch.WithHTTPClient(httpClient))

			cachePath := filepath.Join(cfg.Paths.CacheDir, "results.json")
			if noCache {
				cachePath = ""
			}
			cache := resultcache.New(cachePath, logger)

			descriptors, err := search.BuildSources(cfg, fetcher, logger)
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			orch, err := search.New(search.Options{
				Sources:  descriptors,
				Breaker:  breaker.New(cfg.Breaker.InitialDelayMs, logger),
				Cache:    cache,
				Store:    store,
				Policy:   policy,
				ForceIDs: append(append([]int64{}, cfg.Verify.ForceIDs...), forceIDs...),
				RunID:    runID,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			logger.Info("verification run starting",
				logging.String(logging.FieldRunID, runID),
				logging.Int("works", len(works)),
				logging.String("policy", policy.String()))

			summary, err := orch.Run(runCtx, works)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Processed", "Positive", "Negative", "Skipped", "Failed"},
				[][]string{{
					fmt.Sprintf("%d", summary.Processed),
					fmt.Sprintf("%d", summary.Positive),
					fmt.Sprintf("%d", summary.Negative),
					fmt.Sprintf("%d", summary.Skipped),
					fmt.Sprintf("%d", summary.Failed),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file path (overrides configuration)")
	cmd.Flags().StringVar(&policyFlag, "policy", "", "Re-run policy: always, if-absent, if-negative, if-positive")
	cmd.Flags().Int64SliceVar(&forceIDs, "force", nil, "Work ids to verify regardless of policy")
	cmd.Flags().IntVar(&limit, "limit", 0, "Verify at most this many works (0 = all)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the search result cache for this run")
	return cmd
}

// sourceTimeout picks the largest configured per-source timeout so one shared
// HTTP client can serve every adapter.
func sourceTimeout(cfg *config.Config) time.Duration {
	seconds := 0
	for _, id := range cfg.Sources.Priority {
		if src, ok := cfg.SourceByID(id); ok && src.Enabled && src.TimeoutSeconds > seconds {
			seconds = src.TimeoutSeconds
		}
	}
	if seconds <= 0 {
		seconds = 20
	}
	return time.Duration(seconds) * time.Second
}
