package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nvandessel/hopfield/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show hopfield configuration",
		Long: `View the effective configuration.

Configuration is read from ~/.hopfield/config.yaml, then HOPFIELD_*
environment variables.

Examples:
  hopfield config list          # Show all settings
  hopfield config list --yaml   # Print a config.yaml you can edit
  hopfield config path          # Where the file lives`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigPathCmd(),
	)
	return cmd
}

func newConfigListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			yamlOut, _ := cmd.Flags().GetBool("yaml")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOut:
				return json.NewEncoder(out).Encode(cfg)
			case yamlOut:
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(cfg)
			}

			fmt.Fprintln(out, "Configuration (~/.hopfield/config.yaml):")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  grid.side:          %d\n", cfg.Grid.Side)
			fmt.Fprintf(out, "  noise.fraction:     %.2f\n", cfg.Noise.Fraction)
			fmt.Fprintf(out, "  recall.iterations:  %d\n", cfg.Recall.Iterations)
			fmt.Fprintf(out, "  recall.early_stop:  %v\n", cfg.Recall.EarlyStop)
			fmt.Fprintf(out, "  trials.count:       %d\n", cfg.Trials.Count)
			fmt.Fprintf(out, "  trials.workers:     %d\n", cfg.Trials.Workers)
			fmt.Fprintf(out, "  trials.seed:        %s\n", seedLabel(cfg.Trials.Seed))
			fmt.Fprintf(out, "  store.enabled:      %v\n", cfg.Store.Enabled)
			fmt.Fprintf(out, "  logging.level:      %s\n", cfg.Logging.Level)
			return nil
		},
	}
	cmd.Flags().Bool("yaml", false, "Output as YAML")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func seedLabel(seed int64) string {
	if seed == 0 {
		return "(time-derived)"
	}
	return fmt.Sprintf("%d", seed)
}
