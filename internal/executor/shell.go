//go:build linux

package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"syscall"
	"time"

	"github.com/ja7ad/benchcore/internal/pcounter"
	"github.com/ja7ad/benchcore/internal/procstat"
	"github.com/ja7ad/benchcore/internal/timing"
)

// shellOverheadFloor is the measurement machinery's own floor: forking a
// shell and having it exec the real command costs something even for a
// no-op workload. Calibrated from repeated `sh -c true` spawns on a typical
// Linux host; kept as a constant rather than measured at runtime so
// TimeOverhead stays pure per the executor contract.
const shellOverheadFloor = 1.5e-3

// ShellExecutor runs commands through sh (looked up on PATH), matching how a user would
// type them on a terminal (pipes, globs, env expansion all work). It is
// the default executor kind.
type ShellExecutor struct {
	// ShellPath/ShellArg override the shell invoked; zero values default
	// to "sh -c".
	ShellPath string
	ShellArg  string

	// CountersEnabled requests a perf counter sample per run.
	CountersEnabled bool
	CounterMetrics  []pcounter.Metric

	// FailureAction is the default action for benchmark runs; hook runs
	// always override it via RunAndMeasure's overrideFailure parameter.
	FailureAction FailureAction
}

func (e *ShellExecutor) Kind() Kind { return KindShell }

func (e *ShellExecutor) TimeOverhead() float64 { return shellOverheadFloor }

func (e *ShellExecutor) shell() (string, string) {
	if e.ShellPath != "" {
		return e.ShellPath, e.ShellArg
	}
	return "sh", "-c"
}

func (e *ShellExecutor) RunAndMeasure(
	ctx context.Context,
	command string,
	tag IterationTag,
	overrideFailure *FailureAction,
	policy OutputPolicy,
) (timing.Record, error) {
	shellPath, shellArg := e.shell()
	cmd := exec.CommandContext(ctx, shellPath, shellArg, command)
	applyOutputPolicy(cmd, policy)

	action := e.FailureAction
	if overrideFailure != nil {
		action = *overrideFailure
	}

	return runAndMeasure(cmd, action, e.CountersEnabled, e.CounterMetrics)
}

func applyOutputPolicy(cmd *exec.Cmd, policy OutputPolicy) {
	if policy == OutputDiscard {
		cmd.Stdout = nil
		cmd.Stderr = nil
		return
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
}

// runAndMeasure is shared by ShellExecutor and DirectExecutor. Without
// counters it's a plain start/wait. With counters it holds the child at the
// post-exec ptrace-stop (the kernel delivers this the instant execve
// succeeds, before the new program has run a single instruction) so the
// counter can be opened and enabled while the child is provably not yet
// running, matching the armed -> start-observed -> exit-observed -> disabled
// -> read order.
func runAndMeasure(
	cmd *exec.Cmd,
	action FailureAction,
	countersEnabled bool,
	metrics []pcounter.Metric,
) (timing.Record, error) {
	if countersEnabled {
		return runAndMeasureWithCounters(cmd, action, metrics)
	}
	return runAndMeasurePlain(cmd, action)
}

func runAndMeasurePlain(cmd *exec.Cmd, action FailureAction) (timing.Record, error) {
	if err := cmd.Start(); err != nil {
		return timing.Record{}, fmt.Errorf("executor: spawn: %w", err)
	}

	start := time.Now()
	waitErr := cmd.Wait()
	elapsed := time.Since(start).Seconds()

	return finishRecord(cmd, waitErr, elapsed, nil, action)
}

// runAndMeasureWithCounters starts the child under PTRACE_TRACEME (via
// SysProcAttr.Ptrace) and holds it at the stop the kernel raises right after
// a successful execve, before the target program's own code has executed.
// Per ptrace(2), the tracer must be the same OS thread that forked the
// tracee, so the OS thread is locked for the whole exchange.
func runAndMeasureWithCounters(cmd *exec.Cmd, action FailureAction, metrics []pcounter.Metric) (timing.Record, error) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Ptrace = true

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := cmd.Start(); err != nil {
		return timing.Record{}, fmt.Errorf("executor: spawn: %w", err)
	}
	pid := cmd.Process.Pid

	var ws syscall.WaitStatus
	if _, err := syscall.Wait4(pid, &ws, 0, nil); err != nil {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
		return timing.Record{}, fmt.Errorf("executor: wait for exec-stop: %w", err)
	}

	var coll *pcounter.Collector
	if ws.Stopped() {
		if c, err := pcounter.Open(pid, metrics); err == nil {
			coll = c
			_ = coll.Enable()
		}
	}

	start := time.Now()
	if ws.Stopped() {
		// Releases the child to run the target program; counters are
		// already armed and enabled by this point.
		if err := syscall.PtraceDetach(pid); err != nil {
			_ = cmd.Process.Kill()
		}
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(start).Seconds()

	var sample *pcounter.Sample
	if coll != nil {
		_ = coll.Disable()
		s := coll.Read()
		sample = &s
		_ = coll.Close()
	}

	return finishRecord(cmd, waitErr, elapsed, sample, action)
}

func finishRecord(cmd *exec.Cmd, waitErr error, elapsed float64, sample *pcounter.Sample, action FailureAction) (timing.Record, error) {
	status, rusage := extractStatus(cmd, waitErr)
	rec := timing.Record{
		TimeReal:        elapsed,
		TimeUser:        rusage.utime,
		TimeSystem:      rusage.stime,
		MemoryPeakBytes: rusage.maxRSSBytes,
		Counters:        sample,
		Status:          status,
	}

	if !status.Success() && action == RaiseOnFailure {
		return rec, fmt.Errorf("executor: command exited with status %s", describeStatus(status))
	}
	return rec, nil
}

type rusageSnapshot struct {
	utime, stime float64
	maxRSSBytes  uint64
}

// extractStatus pulls exit status and rusage out of the process state
// os/exec already collected via wait4 during cmd.Wait.
func extractStatus(cmd *exec.Cmd, waitErr error) (timing.ExitStatus, rusageSnapshot) {
	var snap rusageSnapshot
	state := cmd.ProcessState
	if state == nil {
		return timing.ExitStatus{}, snap
	}

	snap.utime = state.UserTime().Seconds()
	snap.stime = state.SystemTime().Seconds()
	if ru, ok := state.SysUsage().(*syscall.Rusage); ok {
		// ru_maxrss is reported in kilobytes on Linux.
		snap.maxRSSBytes = uint64(ru.Maxrss) * 1024
	}

	if ws, ok := state.Sys().(syscall.WaitStatus); ok {
		return procstat.ExitStatusFromWait(waitStatus{ws}), snap
	}
	_ = waitErr
	code := state.ExitCode()
	return timing.ExitStatus{Code: &code}, snap
}

// waitStatus adapts syscall.WaitStatus to procstat.WaitStatus.
type waitStatus struct{ ws syscall.WaitStatus }

func (w waitStatus) Exited() bool    { return w.ws.Exited() }
func (w waitStatus) ExitStatus() int { return w.ws.ExitStatus() }
func (w waitStatus) Signaled() bool  { return w.ws.Signaled() }
func (w waitStatus) Signal() int     { return int(w.ws.Signal()) }

func describeStatus(s timing.ExitStatus) string {
	switch {
	case s.Code != nil:
		return fmt.Sprintf("%d", *s.Code)
	case s.Signal != nil:
		return fmt.Sprintf("signal %d", *s.Signal)
	default:
		return "unknown"
	}
}
