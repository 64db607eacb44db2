// Package store records the history of recall runs. A run captures the
// parameters of one demo invocation and the outcome of each noisy trial.
// Trained weights are never stored.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned by GetRun for an unknown ID.
var ErrRunNotFound = errors.New("store: run not found")

// Run is one demo invocation: a reference disk, a trained engine and a set
// of independently noised recall trials.
type Run struct {
	ID            string        `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	Side          int           `json:"side"`
	NoiseFraction float64       `json:"noise_fraction"`
	Iterations    int           `json:"iterations"`
	EarlyStop     bool          `json:"early_stop"`
	Seed          int64         `json:"seed"`
	DurationMs    int64         `json:"duration_ms"`
	Trials        []TrialRecord `json:"trials"`
}

// TrialRecord is the outcome of recalling one noisy copy.
type TrialRecord struct {
	Index            int     `json:"index"`
	Seed             int64   `json:"seed"`
	Flipped          int     `json:"flipped"`           // flips requested, floor(fraction*N)
	NoisyDistance    int     `json:"noisy_distance"`    // Hamming distance noisy vs reference
	RecalledDistance int     `json:"recalled_distance"` // Hamming distance recalled vs reference
	Sweeps           int     `json:"sweeps"`
	Energy           float64 `json:"energy"`
	Recovered        bool    `json:"recovered"`
	Found            bool    `json:"found"` // false when the recalled pattern had no active cell
	Row              int     `json:"row"`
	Col              int     `json:"col"`
}

// RecoveredCount returns how many trials reproduced the reference exactly.
func (r Run) RecoveredCount() int {
	n := 0
	for _, tr := range r.Trials {
		if tr.Recovered {
			n++
		}
	}
	return n
}

// RunStore persists runs.
type RunStore interface {
	// SaveRun stores the run and returns its ID. An empty ID is generated
	// and a zero CreatedAt is set to now.
	SaveRun(ctx context.Context, run Run) (string, error)

	// GetRun returns the run with the given ID or ErrRunNotFound.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	Close() error
}

// prepareRun fills in the ID and timestamp of a run about to be saved.
func prepareRun(run Run) Run {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.ID == "" {
		run.ID = runID(run)
	}
	return run
}

// runID derives a stable ID from the run's timestamp and parameters.
func runID(run Run) string {
	key := fmt.Sprintf("%s|%d|%v|%d|%d|%d",
		run.CreatedAt.Format(time.RFC3339Nano), run.Side, run.NoiseFraction,
		run.Iterations, run.Seed, len(run.Trials))
	sum := sha256.Sum256([]byte(key))
	return "run-" + hex.EncodeToString(sum[:])[:16]
}
