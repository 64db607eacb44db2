// Package mcp exposes the associative memory over the Model Context Protocol.
// The server holds one engine sized for the configured grid; clients can
// generate disks, add noise, train, recall, locate centres and browse run
// history.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/hopfield/internal/constants"
	"github.com/nvandessel/hopfield/internal/hopfield"
	"github.com/nvandessel/hopfield/internal/logging"
	"github.com/nvandessel/hopfield/internal/pattern"
	"github.com/nvandessel/hopfield/internal/ratelimit"
	"github.com/nvandessel/hopfield/internal/store"
)

// Server wraps the MCP SDK server and the engine it serves.
type Server struct {
	server       *sdk.Server
	engine       *hopfield.Engine
	side         int
	store        store.RunStore
	root         string
	toolLimiters ratelimit.ToolLimiters
	auditLogger  *AuditLogger
	logger       *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "hopfield")
	Version string
	Root    string // Project root; state lives in Root/.hopfield
	Side    int    // Grid side; the engine has Side*Side units. 0 means the default.

	// Store overrides the SQLite run store opened under Root.
	Store  store.RunStore
	Logger *slog.Logger
}

// NewServer creates the engine, opens the run store and registers tools.
func NewServer(cfg *Config) (*Server, error) {
	side := cfg.Side
	if side == 0 {
		side = constants.DefaultSide
	}
	if err := pattern.ValidateSide(side); err != nil {
		return nil, err
	}

	engine, err := hopfield.New(side * side)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	runStore := cfg.Store
	if runStore == nil {
		sqliteStore, err := store.NewSQLiteRunStore(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to open run store: %w", err)
		}
		runStore = sqliteStore
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:       mcpServer,
		engine:       engine,
		side:         side,
		store:        runStore,
		root:         cfg.Root,
		toolLimiters: ratelimit.NewToolLimiters(),
		auditLogger:  NewAuditLogger(store.LocalStatePath(cfg.Root)),
		logger:       logger,
	}

	s.registerTools()
	logger.Debug("mcp server ready", "side", side, "units", engine.Size())
	return s, nil
}

// Side returns the grid side the engine was sized for.
func (s *Server) Side() int {
	return s.side
}

// Run serves over stdio until the client disconnects, ctx is cancelled or
// the process is interrupted.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})
	if closeErr := s.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// Close releases the store and the audit log.
func (s *Server) Close() error {
	auditErr := s.auditLogger.Close()
	if err := s.store.Close(); err != nil {
		return err
	}
	return auditErr
}
