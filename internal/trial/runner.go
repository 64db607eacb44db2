package trial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/nvandessel/hopfield/internal/centroid"
	"github.com/nvandessel/hopfield/internal/constants"
	"github.com/nvandessel/hopfield/internal/hopfield"
	"github.com/nvandessel/hopfield/internal/logging"
	"github.com/nvandessel/hopfield/internal/noise"
	"github.com/nvandessel/hopfield/internal/pattern"
)

// ErrInvalidConfig is returned by NewRunner for unusable parameters.
var ErrInvalidConfig = errors.New("trial: invalid config")

// Config controls one run.
type Config struct {
	Side          int
	NoiseFraction float64
	Iterations    int
	EarlyStop     bool // stop recall after the first sweep that changes nothing
	Trials        int
	Workers       int
	Seed          int64 // 0 derives a seed from the clock
}

// DefaultConfig returns the parameters of the classic demo.
func DefaultConfig() Config {
	return Config{
		Side:          constants.DefaultSide,
		NoiseFraction: constants.DefaultNoiseFraction,
		Iterations:    hopfield.DefaultIterations,
		Trials:        constants.DefaultTrials,
		Workers:       constants.DefaultWorkers,
	}
}

// Validate checks the parameters without running anything.
func (c Config) Validate() error {
	if c.Side < 1 || c.Side > constants.MaxSide {
		return fmt.Errorf("%w: side must be between 1 and %d, got %d", ErrInvalidConfig, constants.MaxSide, c.Side)
	}
	if _, err := noise.FlipCount(c.Side*c.Side, c.NoiseFraction); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be >= 0, got %d", ErrInvalidConfig, c.Iterations)
	}
	if c.Trials < 1 {
		return fmt.Errorf("%w: trials must be >= 1, got %d", ErrInvalidConfig, c.Trials)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Runner trains once and recalls many noisy copies.
type Runner struct {
	cfg       Config
	reference pattern.Pattern
	engine    *hopfield.Engine
	logger    *slog.Logger
	trace     *logging.TraceLogger
}

// Option customises a Runner.
type Option func(*Runner)

// WithLogger sets the operational logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTrace records one JSONL event per trial.
func WithTrace(t *logging.TraceLogger) Option {
	return func(r *Runner) { r.trace = t }
}

// NewRunner validates cfg, generates the reference disk and trains the
// engine on it.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	r := &Runner{cfg: cfg, logger: logging.Discard()}
	for _, opt := range opts {
		opt(r)
	}

	r.reference = pattern.Disk(cfg.Side)
	engine, err := hopfield.New(len(r.reference))
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	if err := engine.Train(r.reference); err != nil {
		return nil, fmt.Errorf("training on reference: %w", err)
	}
	r.engine = engine

	r.logger.Debug("engine trained",
		"side", cfg.Side, "units", engine.Size(), "active", r.reference.ActiveCount())
	return r, nil
}

// Config returns the effective configuration, with the resolved seed.
func (r *Runner) Config() Config {
	return r.cfg
}

// Reference returns a copy of the stored disk.
func (r *Runner) Reference() pattern.Pattern {
	return r.reference.Clone()
}

// Engine exposes the trained engine for inspection.
func (r *Runner) Engine() *hopfield.Engine {
	return r.engine
}

// Run executes every trial and returns the report ordered by trial index.
// Cancelling ctx stops trials that have not started yet.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	r.logger.Info("run started",
		"side", r.cfg.Side, "noise", r.cfg.NoiseFraction, "iterations", r.cfg.Iterations,
		"trials", r.cfg.Trials, "workers", r.cfg.Workers, "seed", r.cfg.Seed)

	p := pool.NewWithResults[Result]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(r.cfg.Workers)

	for k := 0; k < r.cfg.Trials; k++ {
		p.Go(func(ctx context.Context) (Result, error) {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			return r.runTrial(k)
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, fmt.Errorf("running trials: %w", err)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })

	report := &Report{
		Side:          r.cfg.Side,
		NoiseFraction: r.cfg.NoiseFraction,
		Iterations:    r.cfg.Iterations,
		EarlyStop:     r.cfg.EarlyStop,
		Seed:          r.cfg.Seed,
		Results:       results,
		StartedAt:     started,
		Duration:      time.Since(started),
	}

	r.logger.Info("run finished",
		"recovered", report.RecoveredCount(), "trials", len(results), "duration", report.Duration)
	return report, nil
}

func (r *Runner) runTrial(k int) (Result, error) {
	seed := r.cfg.Seed + int64(k)
	rng := rand.New(rand.NewSource(seed))

	flipped, err := noise.FlipCount(len(r.reference), r.cfg.NoiseFraction)
	if err != nil {
		return Result{}, fmt.Errorf("trial %d: %w", k, err)
	}
	noisy, err := noise.Flip(r.reference, r.cfg.NoiseFraction, rng)
	if err != nil {
		return Result{}, fmt.Errorf("trial %d: %w", k, err)
	}

	var recalled pattern.Pattern
	sweeps := r.cfg.Iterations
	if r.cfg.EarlyStop {
		recalled, sweeps, err = r.engine.RecallUntilStable(noisy, r.cfg.Iterations)
	} else {
		recalled, err = r.engine.Recall(noisy, r.cfg.Iterations)
	}
	if err != nil {
		return Result{}, fmt.Errorf("trial %d: %w", k, err)
	}

	energy, err := r.engine.Energy(recalled)
	if err != nil {
		return Result{}, fmt.Errorf("trial %d: %w", k, err)
	}
	point, found, err := centroid.Locate(recalled, r.cfg.Side)
	if err != nil {
		return Result{}, fmt.Errorf("trial %d: %w", k, err)
	}

	noisyDist, _ := pattern.Hamming(noisy, r.reference)
	recalledDist, _ := pattern.Hamming(recalled, r.reference)

	res := Result{
		Index:            k,
		Seed:             seed,
		Flipped:          flipped,
		NoisyDistance:    noisyDist,
		RecalledDistance: recalledDist,
		Sweeps:           sweeps,
		Energy:           energy,
		Recovered:        recalledDist == 0,
		Centroid:         point,
		Found:            found,
		Recalled:         recalled,
	}

	r.logger.Debug("trial done",
		"index", k, "seed", seed, "noisy_distance", noisyDist,
		"recalled_distance", recalledDist, "sweeps", sweeps, "found", found)
	r.traceTrial(res, noisy)
	return res, nil
}

func (r *Runner) traceTrial(res Result, noisy pattern.Pattern) {
	if r.trace == nil {
		return
	}
	event := map[string]any{
		"event":             "trial",
		"index":             res.Index,
		"seed":              res.Seed,
		"side":              r.cfg.Side,
		"noise_fraction":    r.cfg.NoiseFraction,
		"noisy_distance":    res.NoisyDistance,
		"recalled_distance": res.RecalledDistance,
		"sweeps":            res.Sweeps,
		"energy":            res.Energy,
		"found":             res.Found,
	}
	if res.Found {
		event["row"] = res.Centroid.Row
		event["col"] = res.Centroid.Col
	}
	if r.trace.IncludePatterns() {
		event["noisy"] = noisy.Ints()
		event["recalled"] = res.Recalled.Ints()
	}
	r.trace.Log(event)
}
