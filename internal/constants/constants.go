// Package constants provides named defaults shared by the CLI, the MCP
// server and the trial harness.
package constants

// Grid and noise defaults for the demo run.
const (
	// DefaultSide is the grid side length of the reference disk (10x10).
	DefaultSide = 10

	// DefaultNoiseFraction is the share of units flipped in each noisy copy.
	DefaultNoiseFraction = 0.3

	// MaxSide bounds the grid side. An engine for side s holds s⁴ weights,
	// so 64 already means 4096 units and a 128 MiB matrix.
	MaxSide = 64
)

// Trial harness defaults.
const (
	// DefaultTrials is the number of independently noised copies per run.
	DefaultTrials = 3

	// DefaultWorkers bounds how many trials recall concurrently.
	DefaultWorkers = 4

	// DefaultRunListLimit caps "runs list" and the hopfield_runs tool.
	DefaultRunListLimit = 20
)

// StateDirName is the per-project and per-user state directory.
const StateDirName = ".hopfield"
