package mcp

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/hopfield/internal/centroid"
	"github.com/nvandessel/hopfield/internal/constants"
	"github.com/nvandessel/hopfield/internal/hopfield"
	"github.com/nvandessel/hopfield/internal/noise"
	"github.com/nvandessel/hopfield/internal/pattern"
	"github.com/nvandessel/hopfield/internal/ratelimit"
	"github.com/nvandessel/hopfield/internal/store"
)

// registerTools registers all hopfield MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hopfield_generate",
		Description: "Generate the reference disk pattern for a square grid",
	}, s.handleGenerate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hopfield_noise",
		Description: "Flip a fraction of a pattern's cells chosen uniformly at random",
	}, s.handleNoise)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hopfield_train",
		Description: "Store patterns in the associative memory (Hebbian, accumulating)",
	}, s.handleTrain)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hopfield_recall",
		Description: "Recall the stored pattern nearest to a probe by asynchronous update sweeps",
	}, s.handleRecall)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hopfield_centroid",
		Description: "Locate the integer centre of a pattern's active cells",
	}, s.handleCentroid)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hopfield_runs",
		Description: "List recorded demo runs, or show one run by ID",
	}, s.handleRuns)
}

// handleGenerate implements the hopfield_generate tool.
func (s *Server) handleGenerate(ctx context.Context, req *sdk.CallToolRequest, args GenerateInput) (_ *sdk.CallToolResult, _ GenerateOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("hopfield_generate", start, retErr, sanitizeToolParams(map[string]interface{}{
			"side": args.Side,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "hopfield_generate"); err != nil {
		return nil, GenerateOutput{}, err
	}

	side := args.Side
	if side == 0 {
		side = s.side
	}
	if err := pattern.ValidateSide(side); err != nil {
		return nil, GenerateOutput{}, err
	}

	disk := pattern.Disk(side)
	return nil, GenerateOutput{
		Pattern: disk.Ints(),
		Side:    side,
		Active:  disk.ActiveCount(),
	}, nil
}

// handleNoise implements the hopfield_noise tool.
func (s *Server) handleNoise(ctx context.Context, req *sdk.CallToolRequest, args NoiseInput) (_ *sdk.CallToolResult, _ NoiseOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("hopfield_noise", start, retErr, sanitizeToolParams(map[string]interface{}{
			"pattern": args.Pattern, "fraction": args.Fraction, "seed": args.Seed,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "hopfield_noise"); err != nil {
		return nil, NoiseOutput{}, err
	}

	p, err := pattern.FromInts(args.Pattern)
	if err != nil {
		return nil, NoiseOutput{}, fmt.Errorf("invalid pattern: %w", err)
	}

	var rng *rand.Rand
	if args.Seed != 0 {
		rng = rand.New(rand.NewSource(args.Seed))
	}
	noisy, err := noise.Flip(p, args.Fraction, rng)
	if err != nil {
		return nil, NoiseOutput{}, err
	}

	flipped, _ := pattern.Hamming(p, noisy)
	return nil, NoiseOutput{Pattern: noisy.Ints(), Flipped: flipped}, nil
}

// handleTrain implements the hopfield_train tool.
func (s *Server) handleTrain(ctx context.Context, req *sdk.CallToolRequest, args TrainInput) (_ *sdk.CallToolResult, _ TrainOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("hopfield_train", start, retErr, sanitizeToolParams(map[string]interface{}{
			"patterns": args.Patterns,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "hopfield_train"); err != nil {
		return nil, TrainOutput{}, err
	}

	patterns := make([]pattern.Pattern, 0, len(args.Patterns))
	for i, values := range args.Patterns {
		p, err := pattern.FromInts(values)
		if err != nil {
			return nil, TrainOutput{}, fmt.Errorf("pattern %d: %w", i, err)
		}
		patterns = append(patterns, p)
	}

	if err := s.engine.Train(patterns...); err != nil {
		return nil, TrainOutput{}, fmt.Errorf("training failed: %w", err)
	}

	s.logger.Debug("patterns stored", "count", len(patterns), "total", s.engine.Trained())
	return nil, TrainOutput{
		Size:         s.engine.Size(),
		Stored:       len(patterns),
		TrainedTotal: s.engine.Trained(),
	}, nil
}

// handleRecall implements the hopfield_recall tool.
func (s *Server) handleRecall(ctx context.Context, req *sdk.CallToolRequest, args RecallInput) (_ *sdk.CallToolResult, _ RecallOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("hopfield_recall", start, retErr, sanitizeToolParams(map[string]interface{}{
			"pattern": args.Pattern, "iterations": args.Iterations, "early_stop": args.EarlyStop,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "hopfield_recall"); err != nil {
		return nil, RecallOutput{}, err
	}

	probe, err := pattern.FromInts(args.Pattern)
	if err != nil {
		return nil, RecallOutput{}, fmt.Errorf("invalid pattern: %w", err)
	}

	iterations := hopfield.DefaultIterations
	if args.Iterations != nil {
		iterations = *args.Iterations
	}

	var recalled pattern.Pattern
	sweeps := iterations
	if args.EarlyStop {
		recalled, sweeps, err = s.engine.RecallUntilStable(probe, iterations)
	} else {
		recalled, err = s.engine.Recall(probe, iterations)
	}
	if err != nil {
		return nil, RecallOutput{}, fmt.Errorf("recall failed: %w", err)
	}

	energy, err := s.engine.Energy(recalled)
	if err != nil {
		return nil, RecallOutput{}, err
	}
	changed, _ := pattern.Hamming(probe, recalled)

	return nil, RecallOutput{
		Pattern: recalled.Ints(),
		Sweeps:  sweeps,
		Energy:  energy,
		Changed: changed,
	}, nil
}

// handleCentroid implements the hopfield_centroid tool.
func (s *Server) handleCentroid(ctx context.Context, req *sdk.CallToolRequest, args CentroidInput) (_ *sdk.CallToolResult, _ CentroidOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("hopfield_centroid", start, retErr, sanitizeToolParams(map[string]interface{}{
			"pattern": args.Pattern, "side": args.Side,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "hopfield_centroid"); err != nil {
		return nil, CentroidOutput{}, err
	}

	p, err := pattern.FromInts(args.Pattern)
	if err != nil {
		return nil, CentroidOutput{}, fmt.Errorf("invalid pattern: %w", err)
	}
	side := args.Side
	if side == 0 {
		side = s.side
	}

	point, found, err := centroid.Locate(p, side)
	if err != nil {
		return nil, CentroidOutput{}, err
	}
	if !found {
		return nil, CentroidOutput{Text: "No active cells found"}, nil
	}
	return nil, CentroidOutput{
		Found:  true,
		Row:    point.Row,
		Col:    point.Col,
		Active: p.ActiveCount(),
		Text:   "Centre at " + point.String(),
	}, nil
}

// handleRuns implements the hopfield_runs tool.
func (s *Server) handleRuns(ctx context.Context, req *sdk.CallToolRequest, args RunsInput) (_ *sdk.CallToolResult, _ RunsOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("hopfield_runs", start, retErr, sanitizeToolParams(map[string]interface{}{
			"limit": args.Limit, "id": args.ID,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "hopfield_runs"); err != nil {
		return nil, RunsOutput{}, err
	}

	if args.ID != "" {
		run, err := s.store.GetRun(ctx, args.ID)
		if errors.Is(err, store.ErrRunNotFound) {
			return nil, RunsOutput{Runs: []RunSummary{}}, nil
		}
		if err != nil {
			return nil, RunsOutput{}, fmt.Errorf("failed to load run: %w", err)
		}
		summary := summarizeRun(*run)
		for _, tr := range run.Trials {
			summary.Details = append(summary.Details, TrialOutcome{
				Index:            tr.Index,
				RecalledDistance: tr.RecalledDistance,
				Found:            tr.Found,
				Row:              tr.Row,
				Col:              tr.Col,
			})
		}
		return nil, RunsOutput{Runs: []RunSummary{summary}, Count: 1}, nil
	}

	limit := args.Limit
	if limit <= 0 {
		limit = constants.DefaultRunListLimit
	}
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, RunsOutput{}, fmt.Errorf("failed to list runs: %w", err)
	}

	out := RunsOutput{Runs: make([]RunSummary, 0, len(runs))}
	for _, run := range runs {
		out.Runs = append(out.Runs, summarizeRun(run))
	}
	out.Count = len(out.Runs)
	return nil, out, nil
}

func summarizeRun(run store.Run) RunSummary {
	return RunSummary{
		ID:            run.ID,
		CreatedAt:     run.CreatedAt.UTC().Format(time.RFC3339),
		Side:          run.Side,
		NoiseFraction: run.NoiseFraction,
		Iterations:    run.Iterations,
		Seed:          run.Seed,
		Trials:        len(run.Trials),
		Recovered:     run.RecoveredCount(),
	}
}
