package trial

import (
	"time"

	"github.com/nvandessel/hopfield/internal/centroid"
	"github.com/nvandessel/hopfield/internal/pattern"
	"github.com/nvandessel/hopfield/internal/store"
)

// Result is the outcome of one noisy recall.
type Result struct {
	Index            int             `json:"index"`
	Seed             int64           `json:"seed"`
	Flipped          int             `json:"flipped"`        // floor(fraction*N), the flips requested
	NoisyDistance    int             `json:"noisy_distance"` // measured Hamming distance noisy vs reference
	RecalledDistance int             `json:"recalled_distance"`
	Sweeps           int             `json:"sweeps"`
	Energy           float64         `json:"energy"`
	Recovered        bool            `json:"recovered"`
	Centroid         centroid.Point  `json:"centroid"`
	Found            bool            `json:"found"`
	Recalled         pattern.Pattern `json:"-"`
}

// Report collects every trial of a run.
type Report struct {
	Side          int           `json:"side"`
	NoiseFraction float64       `json:"noise_fraction"`
	Iterations    int           `json:"iterations"`
	EarlyStop     bool          `json:"early_stop"`
	Seed          int64         `json:"seed"`
	Results       []Result      `json:"results"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration_ns"`
}

// RecoveredCount returns how many trials reproduced the reference exactly.
func (r *Report) RecoveredCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Recovered {
			n++
		}
	}
	return n
}

// ToRun converts the report into a storable run. Patterns are dropped.
func (r *Report) ToRun() store.Run {
	run := store.Run{
		CreatedAt:     r.StartedAt.UTC(),
		Side:          r.Side,
		NoiseFraction: r.NoiseFraction,
		Iterations:    r.Iterations,
		EarlyStop:     r.EarlyStop,
		Seed:          r.Seed,
		DurationMs:    r.Duration.Milliseconds(),
		Trials:        make([]store.TrialRecord, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		run.Trials = append(run.Trials, store.TrialRecord{
			Index:            res.Index,
			Seed:             res.Seed,
			Flipped:          res.Flipped,
			NoisyDistance:    res.NoisyDistance,
			RecalledDistance: res.RecalledDistance,
			Sweeps:           res.Sweeps,
			Energy:           res.Energy,
			Recovered:        res.Recovered,
			Found:            res.Found,
			Row:              res.Centroid.Row,
			Col:              res.Centroid.Col,
		})
	}
	return run
}
