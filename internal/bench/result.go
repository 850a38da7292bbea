package bench

import "github.com/ja7ad/benchcore/internal/pcounter"

// Result is the output record delivered to downstream formatters: comparers,
// table/CSV/JSON writers. Produced exactly once per successful benchmark.
type Result struct {
	Command string

	Mean       float64
	StdDev     *float64
	Median     float64
	Min        float64
	Max        float64
	UserMean   float64
	SystemMean float64

	Times      []float64
	MemoryPeak []uint64
	ExitCodes  []int

	Counters       *pcounter.Sample
	CounterSamples []pcounter.Sample

	Parameters map[string]string

	Warnings []Warning
}
