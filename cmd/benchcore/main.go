//go:build linux

package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ja7ad/benchcore/internal/bench"
	"github.com/ja7ad/benchcore/internal/config"
	"github.com/ja7ad/benchcore/internal/executor"
	"github.com/ja7ad/benchcore/internal/pcounter"
	"github.com/ja7ad/benchcore/pkg/types"
)

type runFlags struct {
	warmup        int
	minRuns       int
	maxRuns       int
	minTotalTime  float64
	prepare       string
	conclude      string
	setup         string
	cleanup       string
	ignoreFailure bool
	perf          bool
	perfMetrics   []string
	shell         string // "shell" or "direct"
	exportJSON    string
	exportCSV     string
	configPath    string
}

func main() {
	var f runFlags

	root := &cobra.Command{
		Use:   "benchcore",
		Short: "Benchmark execution and measurement core",
	}

	run := &cobra.Command{
		Use:   "run -- COMMAND [ARG...]",
		Short: "Run a benchmark against a command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, f, args)
		},
	}

	run.Flags().IntVar(&f.warmup, "warmup", 0, "number of unmeasured warmup runs")
	run.Flags().IntVar(&f.minRuns, "min-runs", 10, "minimum number of measured runs")
	run.Flags().IntVar(&f.maxRuns, "max-runs", 0, "maximum number of measured runs (0 = unbounded)")
	run.Flags().Float64Var(&f.minTotalTime, "min-time", 3.0, "target aggregate wall-clock budget in seconds")
	run.Flags().StringVar(&f.prepare, "prepare", "", "command to run before every timing run")
	run.Flags().StringVar(&f.conclude, "conclude", "", "command to run after every timing run")
	run.Flags().StringVar(&f.setup, "setup", "", "command to run once before the benchmark")
	run.Flags().StringVar(&f.cleanup, "cleanup", "", "command to run once after the benchmark")
	run.Flags().BoolVar(&f.ignoreFailure, "ignore-failure", false, "treat non-zero exit codes as data, not errors")
	run.Flags().BoolVar(&f.perf, "perf", false, "collect hardware performance counters per run")
	run.Flags().StringSliceVar(&f.perfMetrics, "perf-metrics", nil, "counter metrics to collect (default: all seven)")
	run.Flags().StringVar(&f.shell, "shell", "shell", `executor kind: "shell" or "direct"`)
	run.Flags().StringVar(&f.exportJSON, "export-json", "", "write the result as JSON to this path")
	run.Flags().StringVar(&f.exportCSV, "export-csv", "", "write the per-run timing vector as CSV to this path")
	run.Flags().StringVar(&f.configPath, "config", "", "YAML file of defaults, overridden by any flag set explicitly")

	root.AddCommand(run)

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func runBenchmark(cmd *cobra.Command, f runFlags, args []string) error {
	if f.configPath != "" {
		cf, err := config.Load(f.configPath)
		if err != nil {
			return err
		}
		applyConfigDefaults(cmd, &f, cf)
	}

	var metrics []pcounter.Metric
	for _, name := range f.perfMetrics {
		m, ok := pcounter.ParseMetric(name)
		if !ok {
			return fmt.Errorf("unknown perf metric %q", name)
		}
		metrics = append(metrics, m)
	}

	failureAction := executor.RaiseOnFailure
	if f.ignoreFailure {
		failureAction = executor.IgnoreFailure
	}

	var exec executor.Executor
	switch f.shell {
	case "direct":
		exec = &executor.DirectExecutor{
			CountersEnabled: f.perf,
			CounterMetrics:  metrics,
			FailureAction:   failureAction,
		}
	case "shell", "":
		exec = &executor.ShellExecutor{
			CountersEnabled: f.perf,
			CounterMetrics:  metrics,
			FailureAction:   failureAction,
		}
	default:
		return fmt.Errorf("unknown --shell value %q", f.shell)
	}

	var maxRuns *int
	if f.maxRuns > 0 {
		maxRuns = &f.maxRuns
	}

	opts := bench.Options{
		Command:         strings.Join(args, " "),
		WarmupCount:     f.warmup,
		MinRuns:         f.minRuns,
		MaxRuns:         maxRuns,
		MinTotalTime:    f.minTotalTime,
		FailureAction:   failureAction,
		Setup:           f.setup,
		Cleanup:         f.cleanup,
		Prepare:         f.prepare,
		Conclude:        f.conclude,
		CountersEnabled: f.perf,
		CounterMetrics:  metrics,
		Progress:        bench.NewBarProgress(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := bench.New(exec).Run(ctx, opts)
	if err != nil {
		return err
	}

	printTable(result)
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}

	if f.exportJSON != "" {
		if err := exportJSON(f.exportJSON, result); err != nil {
			slog.Error("export json", "err", err)
		}
	}
	if f.exportCSV != "" {
		if err := exportCSV(f.exportCSV, result); err != nil {
			slog.Error("export csv", "err", err)
		}
	}

	return nil
}

func applyConfigDefaults(cmd *cobra.Command, f *runFlags, cf *config.File) {
	flags := cmd.Flags()
	if cf.Warmup != nil && !flags.Changed("warmup") {
		f.warmup = *cf.Warmup
	}
	if cf.MinRuns != nil && !flags.Changed("min-runs") {
		f.minRuns = *cf.MinRuns
	}
	if cf.MaxRuns != nil && !flags.Changed("max-runs") {
		f.maxRuns = *cf.MaxRuns
	}
	if cf.MinTotalTime != nil && !flags.Changed("min-time") {
		f.minTotalTime = *cf.MinTotalTime
	}
	if cf.Prepare != nil && !flags.Changed("prepare") {
		f.prepare = *cf.Prepare
	}
	if cf.Conclude != nil && !flags.Changed("conclude") {
		f.conclude = *cf.Conclude
	}
	if cf.Setup != nil && !flags.Changed("setup") {
		f.setup = *cf.Setup
	}
	if cf.Cleanup != nil && !flags.Changed("cleanup") {
		f.cleanup = *cf.Cleanup
	}
	if cf.IgnoreFailure != nil && !flags.Changed("ignore-failure") {
		f.ignoreFailure = *cf.IgnoreFailure
	}
	if cf.Perf != nil && !flags.Changed("perf") {
		f.perf = *cf.Perf
	}
	if cf.PerfMetrics != nil && !flags.Changed("perf-metrics") {
		f.perfMetrics = cf.PerfMetrics
	}
	if cf.Shell != nil && !flags.Changed("shell") {
		f.shell = *cf.Shell
	}
}

func printTable(r *bench.Result) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMMAND\tMEAN\tSTDDEV\tMEDIAN\tMIN\tMAX\tUSER\tSYSTEM\tPEAK MEM")
	stddev := "N/A"
	if r.StdDev != nil {
		stddev = fmt.Sprintf("%.4fs", *r.StdDev)
	}
	peakMem := types.Bytes(0)
	for _, m := range r.MemoryPeak {
		if types.Bytes(m) > peakMem {
			peakMem = types.Bytes(m)
		}
	}
	fmt.Fprintf(tw, "%s\t%.4fs\t%s\t%.4fs\t%.4fs\t%.4fs\t%.4fs\t%.4fs\t%s\n",
		r.Command, r.Mean, stddev, r.Median, r.Min, r.Max, r.UserMean, r.SystemMean, peakMem.Humanized())
	tw.Flush()

	if r.Counters != nil {
		printCounterLine(r.Counters)
	}
}

func printCounterLine(s *pcounter.Sample) {
	var parts []string
	if s.CPUCycles != nil {
		parts = append(parts, "cycles="+strconv.FormatUint(*s.CPUCycles, 10))
	}
	if s.Instructions != nil {
		parts = append(parts, "instructions="+strconv.FormatUint(*s.Instructions, 10))
	}
	if ipc, ok := s.InstructionsPerCycle(); ok {
		parts = append(parts, fmt.Sprintf("ipc=%.3f", ipc))
	}
	if rate, ok := s.CacheMissRate(); ok {
		parts = append(parts, fmt.Sprintf("cache-miss-rate=%.4f", rate))
	}
	if rate, ok := s.BranchMissRate(); ok {
		parts = append(parts, fmt.Sprintf("branch-miss-rate=%.4f", rate))
	}
	if s.PageFaults != nil {
		parts = append(parts, "page-faults="+strconv.FormatUint(*s.PageFaults, 10))
	}
	if len(parts) > 0 {
		fmt.Println(strings.Join(parts, "  "))
	}
}

func exportJSON(path string, r *bench.Result) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func exportCSV(path string, r *bench.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"run", "time_real", "memory_peak_bytes", "exit_code"}); err != nil {
		return err
	}
	for i := range r.Times {
		if err := w.Write([]string{
			strconv.Itoa(i),
			strconv.FormatFloat(r.Times[i], 'f', -1, 64),
			strconv.FormatUint(r.MemoryPeak[i], 10),
			strconv.Itoa(r.ExitCodes[i]),
		}); err != nil {
			return err
		}
	}
	return nil
}
