package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nvandessel/hopfield/internal/config"
	"github.com/nvandessel/hopfield/internal/logging"
	"github.com/nvandessel/hopfield/internal/store"
	"github.com/nvandessel/hopfield/internal/trial"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Train on a disk and recall it from noisy copies",
		Long: `Generate a disk on a side x side grid, store it, then recall several
independently corrupted copies and print the centre of each result.

Flags override ~/.hopfield/config.yaml and HOPFIELD_* environment variables.

Examples:
  hopfield demo                         # 10x10 grid, 30% noise, 3 trials
  hopfield demo --noise 0.7 --seed 42   # heavy noise recalls the inverse
  hopfield demo --trials 20 --workers 8 --early-stop`,
		RunE: runDemo,
	}

	cmd.Flags().Int("side", 0, "Grid side length")
	cmd.Flags().Float64("noise", 0, "Fraction of cells flipped per copy (0-1)")
	cmd.Flags().Int("iterations", 0, "Recall sweeps per copy")
	cmd.Flags().Int("trials", 0, "Number of noisy copies")
	cmd.Flags().Int("workers", 0, "Trials recalled concurrently")
	cmd.Flags().Int64("seed", 0, "Seed for trial 0 (trial k uses seed+k); 0 picks one")
	cmd.Flags().Bool("early-stop", false, "Stop recall after a sweep that changes nothing")
	cmd.Flags().Bool("no-store", false, "Do not record the run in .hopfield/runs.db")

	return cmd
}

// loadConfig loads configuration and applies the --log-level flag.
func loadConfig(cmd *cobra.Command) (*config.HopfieldConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// applyDemoFlags copies explicitly set flags over cfg.
func applyDemoFlags(cmd *cobra.Command, cfg *config.HopfieldConfig) {
	flags := cmd.Flags()
	if flags.Changed("side") {
		cfg.Grid.Side, _ = flags.GetInt("side")
	}
	if flags.Changed("noise") {
		cfg.Noise.Fraction, _ = flags.GetFloat64("noise")
	}
	if flags.Changed("iterations") {
		cfg.Recall.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("early-stop") {
		cfg.Recall.EarlyStop, _ = flags.GetBool("early-stop")
	}
	if flags.Changed("trials") {
		cfg.Trials.Count, _ = flags.GetInt("trials")
	}
	if flags.Changed("workers") {
		cfg.Trials.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("seed") {
		cfg.Trials.Seed, _ = flags.GetInt64("seed")
	}
	if noStore, _ := flags.GetBool("no-store"); noStore {
		cfg.Store.Enabled = false
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	jsonOut, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyDemoFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	trace := logging.NewTraceLogger(store.LocalStatePath(root), cfg.Logging.Level)
	defer trace.Close()

	runner, err := trial.NewRunner(trial.Config{
		Side:          cfg.Grid.Side,
		NoiseFraction: cfg.Noise.Fraction,
		Iterations:    cfg.Recall.Iterations,
		EarlyStop:     cfg.Recall.EarlyStop,
		Trials:        cfg.Trials.Count,
		Workers:       cfg.Trials.Workers,
		Seed:          cfg.Trials.Seed,
	}, trial.WithLogger(logger), trial.WithTrace(trace))
	if err != nil {
		return err
	}

	report, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	var runID string
	if cfg.Store.Enabled {
		runStore, err := store.NewSQLiteRunStore(root)
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer runStore.Close()

		runID, err = runStore.SaveRun(cmd.Context(), report.ToRun())
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		logger.Debug("run saved", "id", runID, "path", runStore.Path())
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return json.NewEncoder(out).Encode(map[string]interface{}{
			"run_id": runID,
			"report": report,
		})
	}
	printReport(out, report, runID)
	return nil
}

func printReport(out io.Writer, report *trial.Report, runID string) {
	for _, res := range report.Results {
		fmt.Fprintf(out, "\nProcessing image %d:\n", res.Index+1)
		if res.Found {
			fmt.Fprintf(out, "Disk found in image %d. Centre coordinates: X = %d, Y = %d\n",
				res.Index+1, res.Centroid.Row, res.Centroid.Col)
		} else {
			fmt.Fprintf(out, "No disk found in image %d.\n", res.Index+1)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Recovered %d/%d copies exactly (side %d, noise %.2f, seed %d)\n",
		report.RecoveredCount(), len(report.Results), report.Side, report.NoiseFraction, report.Seed)
	if runID != "" {
		fmt.Fprintf(out, "Saved run %s\n", runID)
	}
}
