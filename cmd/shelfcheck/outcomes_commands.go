package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"shelfcheck/internal/outcomes"
)

func newOutcomesCommand(ctx *commandContext) *cobra.Command {
	outcomesCmd := &cobra.Command{
		Use:   "outcomes",
		Short: "Inspect stored verification outcomes",
	}

	outcomesCmd.AddCommand(newOutcomesListCommand(ctx))
	outcomesCmd.AddCommand(newOutcomesShowCommand(ctx))
	outcomesCmd.AddCommand(newOutcomesRemoveCommand(ctx))

	return outcomesCmd
}

func (c *commandContext) withStore(fn func(*outcomes.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := outcomes.Open(filepath.Join(cfg.Paths.DataDir, "outcomes.db"))
	if err != nil {
		return fmt.Errorf("open outcome store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// outcomeView is the JSON shape for scripting consumers.
type outcomeView struct {
	WorkID   int64  `json:"work_id"`
	Verdict  string `json:"verdict"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Query    string `json:"query"`
	SourceID string `json:"source_id,omitempty"`
	URL      string `json:"url,omitempty"`
	RunID    string `json:"run_id"`
	Updated  string `json:"updated_at"`
}

func newOutcomeView(record *outcomes.Record) outcomeView {
	view := outcomeView{
		WorkID:   record.WorkID,
		Verdict:  verdictLabel(record),
		Title:    record.Title,
		Author:   record.Author,
		Query:    record.Query,
		SourceID: record.SourceID,
		RunID:    record.RunID,
		Updated:  record.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if record.Matched != nil {
		view.URL = record.Matched.URL
	}
	return view
}

func newOutcomesListCommand(ctx *commandContext) *cobra.Command {
	var onlyNegative bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *outcomes.Store) error {
				records, err := store.List(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOut {
					views := make([]outcomeView, 0, len(records))
					for _, record := range records {
						if onlyNegative && record.Positive() {
							continue
						}
						views = append(views, newOutcomeView(record))
					}
					return writeJSON(cmd, views)
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					if onlyNegative && record.Positive() {
						continue
					}
					rows = append(rows, []string{
						strconv.FormatInt(record.WorkID, 10),
						verdictLabel(record),
						record.Title,
						record.Author,
						record.SourceID,
						record.UpdatedAt.Format("2006-01-02 15:04"),
					})
				}

				out := cmd.OutOrStdout()
				if len(rows) == 0 {
					fmt.Fprintln(out, "No outcomes stored")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Verdict", "Title", "Author", "Source", "Updated"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&onlyNegative, "negative", false, "Show only negative outcomes")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newOutcomesShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <work-id>",
		Short: "Show one stored outcome in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid work id %q", args[0])
			}

			return ctx.withStore(func(store *outcomes.Store) error {
				record, err := store.Get(cmd.Context(), workID)
				if err != nil {
					return err
				}
				if record == nil {
					return fmt.Errorf("no outcome stored for work id %d", workID)
				}

				if jsonOut {
					return writeJSON(cmd, newOutcomeView(record))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Work:    %d\n", record.WorkID)
				fmt.Fprintf(out, "Verdict: %s\n", verdictLabel(record))
				fmt.Fprintf(out, "Title:   %s\n", record.Title)
				fmt.Fprintf(out, "Author:  %s\n", record.Author)
				fmt.Fprintf(out, "Query:   %s\n", record.Query)
				fmt.Fprintf(out, "Run:     %s\n", record.RunID)
				fmt.Fprintf(out, "Updated: %s\n", record.UpdatedAt.Format("2006-01-02 15:04:05"))
				if record.Matched != nil {
					fmt.Fprintf(out, "Matched: %s / %s (%s)\n", record.Matched.Title, record.Matched.Author, record.Matched.URL)
				}
				for _, result := range record.Evidence {
					fmt.Fprintf(out, "Checked: %s (%d candidates)\n", result.QueryURL, len(result.Candidates))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func newOutcomesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <work-id>",
		Short: "Remove a stored outcome so the next run re-verifies the work",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid work id %q", args[0])
			}

			return ctx.withStore(func(store *outcomes.Store) error {
				if err := store.Remove(cmd.Context(), workID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed outcome for work id %d\n", workID)
				return nil
			})
		},
	}
}

func verdictLabel(record *outcomes.Record) string {
	if record.Positive() {
		return "positive"
	}
	return "negative"
}
