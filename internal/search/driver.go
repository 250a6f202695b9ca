package search

import (
	"context"
	"errors"

	"shelfcheck/internal/catalog"
	"shelfcheck/internal/logging"
)

// Summary aggregates the results of one batch run.
type Summary struct {
	Processed int
	Positive  int
	Negative  int
	Skipped   int
	Failed    int
}

// Run verifies every work in order. Per-work errors are logged and counted
// but never abort the batch; only context cancellation stops the loop early.
func (o *Orchestrator) Run(ctx context.Context, works []catalog.Work) (Summary, error) {
	var summary Summary
	for _, work := range works {
		outcome, err := o.VerifyWork(ctx, work)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return summary, err
			}
			summary.Failed++
			o.logger.Error("work verification failed",
				logging.Int64(logging.FieldWorkID, work.ID),
				logging.String("title", work.Title),
				logging.Error(err))
			continue
		}

		summary.Processed++
		switch outcome.Verdict {
		case VerdictPositive:
			summary.Positive++
		case VerdictNegative:
			summary.Negative++
		case VerdictSkipped:
			summary.Skipped++
		}
	}
	return summary, nil
}
