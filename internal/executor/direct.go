//go:build linux

package executor

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/ja7ad/benchcore/internal/pcounter"
	"github.com/ja7ad/benchcore/internal/shellwords"
	"github.com/ja7ad/benchcore/internal/timing"
)

// directOverheadFloor is lower than the shell's: no intermediate shell
// process to fork before exec'ing the real workload.
const directOverheadFloor = 0.3e-3

// DirectExecutor spawns the command's first word as a program directly,
// with the remaining words as argv — no shell in between, so pipes,
// globs, and env expansion are not available, but per-run overhead is
// lower and more stable.
type DirectExecutor struct {
	CountersEnabled bool
	CounterMetrics  []pcounter.Metric
	FailureAction   FailureAction
}

func (e *DirectExecutor) Kind() Kind { return KindDirect }

func (e *DirectExecutor) TimeOverhead() float64 { return directOverheadFloor }

func (e *DirectExecutor) RunAndMeasure(
	ctx context.Context,
	command string,
	tag IterationTag,
	overrideFailure *FailureAction,
	policy OutputPolicy,
) (timing.Record, error) {
	words, err := shellwords.Split(command)
	if err != nil {
		return timing.Record{}, fmt.Errorf("executor: split command: %w", err)
	}
	if len(words) == 0 {
		return timing.Record{}, fmt.Errorf("executor: empty command")
	}

	cmd := exec.CommandContext(ctx, words[0], words[1:]...)
	applyOutputPolicy(cmd, policy)

	action := e.FailureAction
	if overrideFailure != nil {
		action = *overrideFailure
	}

	return runAndMeasure(cmd, action, e.CountersEnabled, e.CounterMetrics)
}
