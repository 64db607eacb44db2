package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/hopfield/internal/logging"
	"github.com/nvandessel/hopfield/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Serve the associative memory over the Model Context Protocol (stdio).

Tools: hopfield_generate, hopfield_noise, hopfield_train, hopfield_recall,
hopfield_centroid, hopfield_runs. The engine is sized from grid.side.

Example MCP client configuration:
  {
    "mcpServers": {
      "hopfield": { "command": "hopfield", "args": ["mcp-server"] }
    }
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// stdout carries the protocol; logs go to stderr.
			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "hopfield",
				Version: version,
				Root:    root,
				Side:    cfg.Grid.Side,
				Logger:  logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			logger.Info("mcp server starting", "root", root, "side", server.Side())
			return server.Run(cmd.Context())
		},
	}
}
