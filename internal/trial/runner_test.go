package trial_test

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvandessel/hopfield/internal/centroid"
	"github.com/nvandessel/hopfield/internal/constants"
	"github.com/nvandessel/hopfield/internal/logging"
	"github.com/nvandessel/hopfield/internal/pattern"
	"github.com/nvandessel/hopfield/internal/trial"
)

func TestRunner_DefaultDemoRecoversCentre(t *testing.T) {
	cfg := trial.DefaultConfig()
	cfg.Seed = 1

	r, err := trial.NewRunner(cfg)
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	require.Equal(t, 3, report.RecoveredCount())

	for k, res := range report.Results {
		require.Equal(t, k, res.Index)
		require.Equal(t, int64(1+k), res.Seed)
		require.Equal(t, 30, res.Flipped)
		require.Equal(t, 30, res.NoisyDistance)
		require.Zero(t, res.RecalledDistance)
		require.True(t, res.Found)
		require.Equal(t, centroid.Point{Row: 5, Col: 5}, res.Centroid)
		require.Equal(t, 5, res.Sweeps)
	}
}

func TestRunner_ManyTrialsManyWorkers(t *testing.T) {
	cfg := trial.DefaultConfig()
	cfg.Seed = 100
	cfg.Trials = 25
	cfg.Workers = 8

	r, err := trial.NewRunner(cfg)
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 25)
	require.Equal(t, 25, report.RecoveredCount())
	for k, res := range report.Results {
		require.Equal(t, k, res.Index, "results must be ordered by index")
	}
}

func TestRunner_Deterministic(t *testing.T) {
	cfg := trial.DefaultConfig()
	cfg.Seed = 42
	cfg.NoiseFraction = 0.45
	cfg.Trials = 6

	run := func(workers int) *trial.Report {
		c := cfg
		c.Workers = workers
		r, err := trial.NewRunner(c)
		require.NoError(t, err)
		report, err := r.Run(context.Background())
		require.NoError(t, err)
		return report
	}

	a, b := run(1), run(6)
	require.Len(t, b.Results, len(a.Results))
	for i := range a.Results {
		require.Equal(t, a.Results[i].Seed, b.Results[i].Seed)
		require.Equal(t, a.Results[i].RecalledDistance, b.Results[i].RecalledDistance)
		require.Equal(t, a.Results[i].Centroid, b.Results[i].Centroid)
		require.True(t, a.Results[i].Recalled.Equal(b.Results[i].Recalled))
	}
}

func TestRunner_HeavyNoiseGivesInverse(t *testing.T) {
	cfg := trial.DefaultConfig()
	cfg.Seed = 9
	cfg.NoiseFraction = 0.7

	r, err := trial.NewRunner(cfg)
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	inverse := pattern.Disk(10).Invert()
	for _, res := range report.Results {
		require.False(t, res.Recovered)
		require.Equal(t, 100, res.RecalledDistance)
		require.True(t, res.Recalled.Equal(inverse))
		require.True(t, res.Found)
		require.Equal(t, centroid.Point{Row: 4, Col: 4}, res.Centroid)
	}
}

func TestRunner_EarlyStop(t *testing.T) {
	cfg := trial.DefaultConfig()
	cfg.Seed = 3
	cfg.EarlyStop = true

	r, err := trial.NewRunner(cfg)
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)
	for _, res := range report.Results {
		require.True(t, res.Recovered)
		require.Equal(t, 2, res.Sweeps)
	}
}

func TestRunner_FlippedIsRequestedCount(t *testing.T) {
	cfg := trial.DefaultConfig()
	cfg.Seed = 21
	cfg.NoiseFraction = 0.25
	cfg.Side = 7 // 49 units, floor(0.25*49) = 12

	r, err := trial.NewRunner(cfg)
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)
	for _, res := range report.Results {
		require.Equal(t, 12, res.Flipped)
		require.Equal(t, res.Flipped, res.NoisyDistance, "every requested flip lands on a distinct cell")
	}
}

func TestRunner_ZeroIterationsLeavesNoise(t *testing.T) {
	cfg := trial.DefaultConfig()
	cfg.Seed = 5
	cfg.Iterations = 0

	r, err := trial.NewRunner(cfg)
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)
	for _, res := range report.Results {
		require.Equal(t, res.NoisyDistance, res.RecalledDistance)
		require.Zero(t, res.Sweeps)
	}
}

func TestRunner_ResolvesZeroSeed(t *testing.T) {
	r, err := trial.NewRunner(trial.DefaultConfig())
	require.NoError(t, err)
	require.NotZero(t, r.Config().Seed)
}

func TestRunner_Cancelled(t *testing.T) {
	r, err := trial.NewRunner(trial.DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*trial.Config)
	}{
		{"zero side", func(c *trial.Config) { c.Side = 0 }},
		{"side above max", func(c *trial.Config) { c.Side = constants.MaxSide + 1 }},
		{"side squared overflows", func(c *trial.Config) { c.Side = 1 << 32 }},
		{"negative noise", func(c *trial.Config) { c.NoiseFraction = -0.1 }},
		{"noise above one", func(c *trial.Config) { c.NoiseFraction = 1.5 }},
		{"negative iterations", func(c *trial.Config) { c.Iterations = -1 }},
		{"no trials", func(c *trial.Config) { c.Trials = 0 }},
		{"no workers", func(c *trial.Config) { c.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := trial.DefaultConfig()
			tt.mutate(&cfg)
			_, err := trial.NewRunner(cfg)
			require.ErrorIs(t, err, trial.ErrInvalidConfig)
		})
	}
}

func TestRunner_ReferenceAndEngine(t *testing.T) {
	r, err := trial.NewRunner(trial.DefaultConfig())
	require.NoError(t, err)
	require.True(t, r.Reference().Equal(pattern.Disk(10)))
	require.Equal(t, 100, r.Engine().Size())
	require.Equal(t, 1, r.Engine().Trained())
	require.NoError(t, r.Engine().Validate())
}

func TestReport_ToRun(t *testing.T) {
	cfg := trial.DefaultConfig()
	cfg.Seed = 11
	r, err := trial.NewRunner(cfg)
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	run := report.ToRun()
	require.Equal(t, 10, run.Side)
	require.Equal(t, int64(11), run.Seed)
	require.Len(t, run.Trials, 3)
	require.Equal(t, 3, run.RecoveredCount())
	for _, tr := range run.Trials {
		require.Equal(t, 5, tr.Row)
		require.Equal(t, 5, tr.Col)
		require.True(t, tr.Found)
	}
}

func TestRunner_TraceWritesEvents(t *testing.T) {
	dir := t.TempDir()
	tl := logging.NewTraceLogger(dir, "trace")
	require.NotNil(t, tl)

	cfg := trial.DefaultConfig()
	cfg.Seed = 2
	r, err := trial.NewRunner(cfg, trial.WithTrace(tl))
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.NoError(t, err)
	tl.Close()

	f, err := os.Open(filepath.Join(dir, logging.TraceFile))
	require.NoError(t, err)
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		var event map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &event))
		require.Equal(t, "trial", event["event"])
		require.Contains(t, event, "recalled")
		lines++
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, 3, lines)
}
