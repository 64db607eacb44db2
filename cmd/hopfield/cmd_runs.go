package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/hopfield/internal/constants"
	"github.com/nvandessel/hopfield/internal/store"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded demo runs",
		Long: `List and show runs recorded in <root>/.hopfield/runs.db.

Examples:
  hopfield runs list --limit 5
  hopfield runs show run-3f9a0c1d2e4b5a69`,
	}

	cmd.AddCommand(
		newRunsListCmd(),
		newRunsShowCmd(),
	)
	return cmd
}

func newRunsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")

			runStore, err := store.NewSQLiteRunStore(root)
			if err != nil {
				return fmt.Errorf("failed to open run store: %w", err)
			}
			defer runStore.Close()

			runs, err := runStore.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if runs == nil {
					runs = []store.Run{}
				}
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"runs":  runs,
					"count": len(runs),
				})
			}

			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			fmt.Fprintf(out, "%-20s  %-20s  %4s  %5s  %5s  %9s\n", "ID", "CREATED", "SIDE", "NOISE", "ITERS", "RECOVERED")
			for _, run := range runs {
				fmt.Fprintf(out, "%-20s  %-20s  %4d  %5.2f  %5d  %5d/%-3d\n",
					run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					run.Side, run.NoiseFraction, run.Iterations,
					run.RecoveredCount(), len(run.Trials))
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", constants.DefaultRunListLimit, "Maximum runs to list (0 for all)")
	return cmd
}

func newRunsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run and its trials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")

			runStore, err := store.NewSQLiteRunStore(root)
			if err != nil {
				return fmt.Errorf("failed to open run store: %w", err)
			}
			defer runStore.Close()

			run, err := runStore.GetRun(cmd.Context(), args[0])
			if errors.Is(err, store.ErrRunNotFound) {
				return fmt.Errorf("run not found: %s", args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(run)
			}

			fmt.Fprintf(out, "Run:        %s\n", run.ID)
			fmt.Fprintf(out, "Created:    %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Grid:       %dx%d\n", run.Side, run.Side)
			fmt.Fprintf(out, "Noise:      %.2f\n", run.NoiseFraction)
			fmt.Fprintf(out, "Iterations: %d (early stop: %v)\n", run.Iterations, run.EarlyStop)
			fmt.Fprintf(out, "Seed:       %d\n", run.Seed)
			fmt.Fprintf(out, "Duration:   %dms\n", run.DurationMs)
			fmt.Fprintf(out, "Recovered:  %d/%d\n", run.RecoveredCount(), len(run.Trials))
			fmt.Fprintln(out)
			for _, tr := range run.Trials {
				centre := "not found"
				if tr.Found {
					centre = fmt.Sprintf("(%d, %d)", tr.Row, tr.Col)
				}
				fmt.Fprintf(out, "  #%d seed=%d flipped=%d residual=%d sweeps=%d energy=%.0f centre=%s\n",
					tr.Index+1, tr.Seed, tr.Flipped, tr.RecalledDistance, tr.Sweeps, tr.Energy, centre)
			}
			return nil
		},
	}
}
