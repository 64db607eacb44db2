package mcp

// GenerateInput defines the input for hopfield_generate.
type GenerateInput struct {
	Side int `json:"side,omitempty" jsonschema:"Grid side length; defaults to the server grid"`
}

// GenerateOutput defines the output for hopfield_generate.
type GenerateOutput struct {
	Pattern []int `json:"pattern" jsonschema:"Row-major disk pattern of -1 and +1 values"`
	Side    int   `json:"side" jsonschema:"Grid side length"`
	Active  int   `json:"active" jsonschema:"Number of +1 cells"`
}

// NoiseInput defines the input for hopfield_noise.
type NoiseInput struct {
	Pattern  []int   `json:"pattern" jsonschema:"Pattern of -1 and +1 values"`
	Fraction float64 `json:"fraction" jsonschema:"Fraction of cells to flip, between 0 and 1"`
	Seed     int64   `json:"seed,omitempty" jsonschema:"Random seed; 0 picks one from the clock"`
}

// NoiseOutput defines the output for hopfield_noise.
type NoiseOutput struct {
	Pattern []int `json:"pattern" jsonschema:"Noisy copy of the input"`
	Flipped int   `json:"flipped" jsonschema:"Number of flipped cells"`
}

// TrainInput defines the input for hopfield_train.
type TrainInput struct {
	Patterns [][]int `json:"patterns" jsonschema:"Patterns to store, each of length side*side"`
}

// TrainOutput defines the output for hopfield_train.
type TrainOutput struct {
	Size         int `json:"size" jsonschema:"Number of units in the engine"`
	Stored       int `json:"stored" jsonschema:"Patterns accepted by this call"`
	TrainedTotal int `json:"trained_total" jsonschema:"Patterns stored since the server started"`
}

// RecallInput defines the input for hopfield_recall.
type RecallInput struct {
	Pattern    []int `json:"pattern" jsonschema:"Probe pattern of -1 and +1 values"`
	Iterations *int  `json:"iterations,omitempty" jsonschema:"Number of full update sweeps; default 5"`
	EarlyStop  bool  `json:"early_stop,omitempty" jsonschema:"Stop after a sweep that changes nothing"`
}

// RecallOutput defines the output for hopfield_recall.
type RecallOutput struct {
	Pattern []int   `json:"pattern" jsonschema:"Recalled pattern"`
	Sweeps  int     `json:"sweeps" jsonschema:"Sweeps actually performed"`
	Energy  float64 `json:"energy" jsonschema:"Energy of the recalled pattern"`
	Changed int     `json:"changed" jsonschema:"Cells that differ from the probe"`
}

// CentroidInput defines the input for hopfield_centroid.
type CentroidInput struct {
	Pattern []int `json:"pattern" jsonschema:"Pattern of -1 and +1 values"`
	Side    int   `json:"side,omitempty" jsonschema:"Grid side length; defaults to the server grid"`
}

// CentroidOutput defines the output for hopfield_centroid.
type CentroidOutput struct {
	Found  bool   `json:"found" jsonschema:"False when no cell is active"`
	Row    int    `json:"row" jsonschema:"Row of the centre (integer mean)"`
	Col    int    `json:"col" jsonschema:"Column of the centre (integer mean)"`
	Active int    `json:"active" jsonschema:"Number of active cells"`
	Text   string `json:"text" jsonschema:"Human-readable result"`
}

// RunsInput defines the input for hopfield_runs.
type RunsInput struct {
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum runs to return, newest first; default 20"`
	ID    string `json:"id,omitempty" jsonschema:"Return only this run, with its trials"`
}

// RunsOutput defines the output for hopfield_runs.
type RunsOutput struct {
	Runs  []RunSummary `json:"runs" jsonschema:"Recorded demo runs"`
	Count int          `json:"count" jsonschema:"Number of runs returned"`
}

// RunSummary describes one stored run.
type RunSummary struct {
	ID            string         `json:"id"`
	CreatedAt     string         `json:"created_at"` // RFC3339
	Side          int            `json:"side"`
	NoiseFraction float64        `json:"noise_fraction"`
	Iterations    int            `json:"iterations"`
	Seed          int64          `json:"seed"`
	Trials        int            `json:"trials"`
	Recovered     int            `json:"recovered"`
	Details       []TrialOutcome `json:"details,omitempty"`
}

// TrialOutcome is one trial of a run returned by ID.
type TrialOutcome struct {
	Index            int  `json:"index"`
	RecalledDistance int  `json:"recalled_distance"`
	Found            bool `json:"found"`
	Row              int  `json:"row"`
	Col              int  `json:"col"`
}
