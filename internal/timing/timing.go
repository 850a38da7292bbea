// Package timing defines the immutable per-run measurement record produced
// by an executor and consumed by the benchmark driver.
package timing

import "github.com/ja7ad/benchcore/internal/pcounter"

// ExitStatus reports how a child process terminated. Code is set when the
// process exited normally, Signal when it was killed by a signal; both are
// nil when neither could be determined.
type ExitStatus struct {
	Code   *int
	Signal *int
}

// Success reports whether the run is considered successful: exited with
// code 0. A signal-terminated or unknown-status run is never successful.
func (s ExitStatus) Success() bool {
	return s.Code != nil && *s.Code == 0
}

// Record is one measured (or preparation/conclusion/warmup) command
// execution. It is built once by an executor and never mutated afterwards.
type Record struct {
	TimeReal   float64
	TimeUser   float64
	TimeSystem float64

	// MemoryPeakBytes is the child's peak resident set size, or 0 if it
	// could not be determined.
	MemoryPeakBytes uint64

	// Counters is nil when counter collection was not requested or no
	// collector could be attached; when a collector was attached but no
	// counter could be opened or read, it is a Sample with every field nil.
	Counters *pcounter.Sample

	Status ExitStatus
}
