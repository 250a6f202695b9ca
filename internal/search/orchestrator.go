// Package search drives the per-work verification loop: gate, query build,
// source iteration under circuit-breaker control, candidate matching, and
// outcome persistence.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"shelfcheck/internal/breaker"
	"shelfcheck/internal/catalog"
	"shelfcheck/internal/logging"
	"shelfcheck/internal/outcomes"
	"shelfcheck/internal/resultcache"
	"shelfcheck/internal/sources"
	"shelfcheck/internal/textmatch"
)

// Verdict is the result of verifying one work.
type Verdict int

const (
	// VerdictSkipped means the gate declined to re-run the work.
	VerdictSkipped Verdict = iota
	// VerdictPositive means a source candidate matched the work.
	VerdictPositive
	// VerdictNegative means every source was exhausted without a match.
	VerdictNegative
)

func (v Verdict) String() string {
	switch v {
	case VerdictSkipped:
		return "skipped"
	case VerdictPositive:
		return "positive"
	case VerdictNegative:
		return "negative"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Outcome summarizes one work's verification for callers.
type Outcome struct {
	Work    catalog.Work
	Verdict Verdict
	Query   string
	// SourceID and Matched are set for positive verdicts only.
	SourceID string
	Matched  *sources.Candidate
}

// Orchestrator verifies works against the configured sources. The breaker
// registry and result cache are shared across all works in a run; the
// orchestrator itself holds no per-work state and is safe to reuse.
type Orchestrator struct {
	sources []sources.Descriptor
	breaker *breaker.Registry
	cache   *resultcache.Cache
	store   *outcomes.Store
	policy  Policy
	forced  map[int64]struct{}
	runID   string
	logger  *slog.Logger
}

// Options collects the collaborators for an Orchestrator.
type Options struct {
	Sources  []sources.Descriptor
	Breaker  *breaker.Registry
	Cache    *resultcache.Cache
	Store    *outcomes.Store
	Policy   Policy
	ForceIDs []int64
	RunID    string
	Logger   *slog.Logger
}

// New creates an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if len(opts.Sources) == 0 {
		return nil, fmt.Errorf("at least one source required")
	}
	if opts.Breaker == nil {
		return nil, fmt.Errorf("breaker registry required")
	}
	if opts.Cache == nil {
		return nil, fmt.Errorf("result cache required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("outcome store required")
	}

	forced := make(map[int64]struct{}, len(opts.ForceIDs))
	for _, id := range opts.ForceIDs {
		forced[id] = struct{}{}
	}

	return &Orchestrator{
		sources: opts.Sources,
		breaker: opts.Breaker,
		cache:   opts.Cache,
		store:   opts.Store,
		policy:  opts.Policy,
		forced:  forced,
		runID:   opts.RunID,
		logger:  logging.NewComponentLogger(opts.Logger, "search"),
	}, nil
}

// VerifyWork runs the full search loop for one work. Source failures are
// absorbed by the circuit breaker; the returned error is reserved for
// conditions fatal to this work (unclassifiable author shapes, storage
// failures), which callers log and skip without aborting the batch.
func (o *Orchestrator) VerifyWork(ctx context.Context, work catalog.Work) (Outcome, error) {
	existing, err := o.store.Get(ctx, work.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("read stored outcome: %w", err)
	}

	if _, force := o.forced[work.ID]; !force && !o.policy.ShouldRun(existing) {
		o.logger.Debug("gate skipped work",
			logging.Int64(logging.FieldWorkID, work.ID),
			logging.String("policy", o.policy.String()))
		return Outcome{Work: work, Verdict: VerdictSkipped}, nil
	}

	query := textmatch.BuildQuery(work)
	outcome := Outcome{Work: work, Query: query}

	var evidence []sources.Result
	for _, src := range o.sources {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		result, available := o.cache.Lookup(src.ID, query)
		if !available {
			result, available = o.breaker.Do(ctx, src.ID, work, func(ctx context.Context) (sources.Result, error) {
				return src.Search(ctx, query, work)
			})
			if available {
				if err := o.cache.Store(src.ID, query, result); err != nil {
					o.logger.Warn("result cache write failed",
						logging.String(logging.FieldSource, src.ID),
						logging.Error(err))
				}
			}
		}
		if !available {
			// Throttled or failed: this source contributed nothing this
			// attempt. The next source proceeds immediately.
			continue
		}

		matched, err := o.scanCandidates(work, result)
		if err != nil {
			return Outcome{}, err
		}
		if matched != nil {
			outcome.Verdict = VerdictPositive
			outcome.SourceID = src.ID
			outcome.Matched = matched
			if err := o.persistPositive(ctx, outcome); err != nil {
				return Outcome{}, err
			}
			o.logger.Info("work verified",
				logging.Int64(logging.FieldWorkID, work.ID),
				logging.String(logging.FieldSource, src.ID),
				logging.String("title", work.Title))
			return outcome, nil
		}

		evidence = append(evidence, result)
	}

	outcome.Verdict = VerdictNegative
	if err := o.persistNegative(ctx, outcome, evidence); err != nil {
		return Outcome{}, err
	}
	o.logger.Info("work not found in any source",
		logging.Int64(logging.FieldWorkID, work.ID),
		logging.String("title", work.Title),
		logging.Int("sources_checked", len(evidence)))
	return outcome, nil
}

// scanCandidates returns the first candidate matching the work, in source
// order. First match wins; no cross-source scoring.
func (o *Orchestrator) scanCandidates(work catalog.Work, result sources.Result) (*sources.Candidate, error) {
	for i := range result.Candidates {
		candidate := result.Candidates[i]
		ok, err := textmatch.Matches(work, candidate)
		if err != nil {
			return nil, err
		}
		if ok {
			return &candidate, nil
		}
	}
	return nil, nil
}

func (o *Orchestrator) persistPositive(ctx context.Context, outcome Outcome) error {
	record := outcomes.Record{
		WorkID:   outcome.Work.ID,
		Title:    outcome.Work.Title,
		Author:   outcome.Work.Author,
		Query:    outcome.Query,
		SourceID: outcome.SourceID,
		Matched:  outcome.Matched,
		RunID:    o.runID,
	}
	if err := o.store.SavePositive(ctx, record); err != nil {
		return fmt.Errorf("persist positive outcome: %w", err)
	}
	return nil
}

func (o *Orchestrator) persistNegative(ctx context.Context, outcome Outcome, evidence []sources.Result) error {
	record := outcomes.Record{
		WorkID:   outcome.Work.ID,
		Title:    outcome.Work.Title,
		Author:   outcome.Work.Author,
		Query:    outcome.Query,
		Evidence: evidence,
		RunID:    o.runID,
	}
	if err := o.store.SaveNegative(ctx, record); err != nil {
		return fmt.Errorf("persist negative outcome: %w", err)
	}
	return nil
}
