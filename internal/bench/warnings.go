package bench

import (
	"fmt"

	"github.com/fatih/color"
)

// WarningKind is the closed set of anomaly kinds the driver can emit.
type WarningKind int

const (
	// FastExecutionTime fires when the shell executor measured a run below
	// the fixed floor where shell-fork overhead dwarfs the workload itself.
	FastExecutionTime WarningKind = iota
	// NonZeroExitCode fires when any measured run failed under
	// ignore-failure semantics.
	NonZeroExitCode
	// SlowInitialRun fires when the first measured sample's modified
	// z-score exceeds the outlier threshold on the high side.
	SlowInitialRun
	// OutliersDetected fires when any sample (other than a flagged first
	// run) has an absolute modified z-score over the threshold.
	OutliersDetected
	// CountersUnavailable fires when counters were requested but the
	// aggregator produced no data at all.
	CountersUnavailable
)

// fastExecutionFloor is the threshold below which shell-fork overhead is
// considered to dominate the measured command's own cost.
const fastExecutionFloor = 0.005 // 5ms

// WarningContext carries the booleans downstream remediation hints key off:
// whether warmup or a prepare hook were in use for this benchmark.
type WarningContext struct {
	WarmupInUse  bool
	PrepareInUse bool
}

// Warning is one emitted anomaly. FirstSampleRealTime is only meaningful for
// Kind == SlowInitialRun.
type Warning struct {
	Kind                WarningKind
	FirstSampleRealTime float64
	Context             WarningContext
}

func (w Warning) String() string {
	tag := color.New(color.FgYellow, color.Bold).Sprint("Warning:")
	switch w.Kind {
	case FastExecutionTime:
		return fmt.Sprintf("%s command execution time was below %.0fms; results may be dominated by shell overhead. Consider --shell=direct.", tag, fastExecutionFloor*1000)
	case NonZeroExitCode:
		return fmt.Sprintf("%s some runs reported a non-zero exit code; statistics include them because failures are being ignored.", tag)
	case SlowInitialRun:
		msg := fmt.Sprintf("%s the first run took %.3fs, much slower than the rest. This could be caused by caching effects.", tag, w.FirstSampleRealTime)
		if !w.Context.WarmupInUse {
			msg += " Consider using the --warmup option to stabilize timings."
		}
		return msg
	case OutliersDetected:
		msg := fmt.Sprintf("%s statistical outliers were detected.", tag)
		if !w.Context.PrepareInUse {
			msg += " Consider re-running with --prepare to clear caches before each timing run."
		}
		return msg
	case CountersUnavailable:
		return fmt.Sprintf("%s performance counters were requested but none could be collected on this system.", tag)
	default:
		return fmt.Sprintf("%s unknown warning", tag)
	}
}

func (w Warning) Error() string { return w.String() }
