// Package bench implements the benchmark driver: the main loop that runs
// setup/warmup/measure/cleanup phases through an executor, decides how many
// runs to take, and turns the collected timing records into a summarized
// result plus diagnostic warnings.
package bench

import (
	"github.com/ja7ad/benchcore/internal/executor"
	"github.com/ja7ad/benchcore/internal/pcounter"
)

// Options is the read-only input to a single benchmark run.
type Options struct {
	Command string

	WarmupCount int
	MinRuns     int
	MaxRuns     *int

	// MinTotalTime is the target aggregate wall-clock budget, in seconds,
	// used only to raise MinRuns.
	MinTotalTime float64

	FailureAction executor.FailureAction

	Setup, Cleanup    string
	Prepare, Conclude string

	CountersEnabled bool
	CounterMetrics  []pcounter.Metric

	// Parameters carries the already-expanded parameter bindings this
	// benchmark instance represents, for downstream comparators to tell
	// apart sweep points. Expansion/templating itself is out of scope here.
	Parameters map[string]string

	Progress ProgressSink
}

func (o *Options) progress() ProgressSink {
	if o.Progress == nil {
		return NoopProgress{}
	}
	return o.Progress
}
