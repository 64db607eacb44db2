package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hopfield",
		Short: "Hopfield associative memory - recall a stored disk from noisy copies",
		Long: `hopfield stores a reference disk pattern in a binary Hopfield network
and reconstructs it from randomly corrupted copies.

Each recalled pattern is reduced to the centre of its active cells, so a
successful recall reports the centre of the original disk.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory (state lives in <root>/.hopfield)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newDemoCmd(),
		newRunsCmd(),
		newConfigCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}
