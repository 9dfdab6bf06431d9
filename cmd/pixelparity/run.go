package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelparity/internal/autotest"
	"github.com/cwbudde/pixelparity/internal/cascade"
	"github.com/cwbudde/pixelparity/internal/gen"
	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/kernel"
	"github.com/cwbudde/pixelparity/internal/sample"
	"github.com/cwbudde/pixelparity/internal/store"
)

var errTestsFailed = errors.New("tests failed")

var (
	runCfg       = harness.DefaultConfig()
	filter       string
	dataDir      string
	samplePath   string
	cascadePaths []string
	backend      string
	printPerf    bool
	noStore      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the differential test suite",
	Long: `Runs every registered test, or those whose name or family matches --filter,
comparing the reference kernels with the fast and the dispatched kernels on
the geometries (W, H), (W+O, H-O) and (W-O, H+O). Exits with status 1 if any
comparison fails.`,
	RunE: runTests,
}

func init() {
	f := runCmd.Flags()
	f.IntVar(&runCfg.Width, "width", runCfg.Width, "Nominal buffer width")
	f.IntVar(&runCfg.Height, "height", runCfg.Height, "Nominal buffer height")
	f.IntVar(&runCfg.Offset, "offset", runCfg.Offset, "Odd size offset of the secondary geometries")
	f.DurationVar(&runCfg.MinTime, "min-time", runCfg.MinTime, "Minimum timed duration per candidate call (0 = single call)")
	f.IntVar(&runCfg.Align, "align", runCfg.Align, "Row alignment in bytes (1 = tight rows)")
	f.Int64Var(&runCfg.Seed, "seed", 0, "Random seed (default: derived from time)")
	f.StringVar(&filter, "filter", "", "Regular expression selecting tests by name or family")
	f.StringVar(&dataDir, "data-dir", "./data", "Base directory for run reports")
	f.StringVar(&samplePath, "sample", "", "Grayscale face image for detection samples (default: synthetic face)")
	f.StringSliceVar(&cascadePaths, "cascade", nil, "Cascade JSON files (default: built-in cascades)")
	f.StringVar(&backend, "backend", "auto", "Dispatched kernel backend: auto, base, fast")
	f.BoolVar(&printPerf, "perf", false, "Print the throughput table")
	f.BoolVar(&noStore, "no-store", false, "Do not persist the run report and trace")

	rootCmd.AddCommand(runCmd)
}

func runTests(cmd *cobra.Command, args []string) error {
	cfg := runCfg
	if !cmd.Flags().Changed("seed") {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	b, err := parseBackend(backend)
	if err != nil {
		return err
	}
	prev := kernel.SetBackend(b)
	defer kernel.SetBackend(prev)

	var re *regexp.Regexp
	if filter != "" {
		if re, err = regexp.Compile(filter); err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
	}
	cs, err := loadCascades(cascadePaths)
	if err != nil {
		return err
	}
	suite := autotest.New(cs).Filter(re)
	if suite.Len() == 0 {
		return fmt.Errorf("filter %q selects no tests", filter)
	}

	src := sample.Synthetic()
	if samplePath != "" {
		src = sample.File(samplePath)
	}
	samples := sample.New(src, gen.New(cfg.Seed))
	defer samples.Close()

	runID := uuid.NewString()
	runner := harness.NewRunner(cfg, slog.Default()).WithSamples(samples)

	var reports *store.FSStore
	if !noStore {
		if reports, err = store.NewFSStore(dataDir); err != nil {
			return fmt.Errorf("failed to create report store: %w", err)
		}
		trace, err := store.NewTraceWriter(dataDir, runID)
		if err != nil {
			return err
		}
		defer func() {
			if err := trace.Close(); err != nil {
				slog.Error("Failed to close trace", "run_id", runID, "error", err)
			}
		}()
		runner.WithRecorder(trace)
	}

	slog.Info("Starting run", "run_id", runID, "seed", cfg.Seed, "tests", suite.Len(),
		"backend", kernel.ActiveBackend(), "features", kernel.Features())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	res := suite.Run(ctx, runner)

	out := cmd.OutOrStdout()
	if printPerf {
		fmt.Fprintln(out)
		if err := runner.Perf().WriteTable(out); err != nil {
			return fmt.Errorf("failed to write throughput table: %w", err)
		}
	}

	if reports != nil {
		cpu := store.CPUInfo{
			Backend:     kernel.ActiveBackend().String(),
			Features:    kernel.Features(),
			HardwareCRC: kernel.HardwareCRC(),
		}
		report := store.NewReport(runID, cfg, cpu, started, res, runner.Perf().Rows())
		if err := reports.SaveReport(report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		slog.Info("Report saved", "run_id", runID, "dir", dataDir)
	}

	if !res.Passed {
		fmt.Fprintf(out, "\nERRORS! Failed tests: %s (seed %d)\n", strings.Join(res.Failed(), ", "), cfg.Seed)
		return errTestsFailed
	}
	fmt.Fprintf(out, "\nALL %d TESTS PASSED (seed %d)\n", len(res.Tests), cfg.Seed)
	return nil
}

func parseBackend(name string) (kernel.Backend, error) {
	switch name {
	case "auto":
		return kernel.Detect(), nil
	case "base":
		return kernel.BackendBase, nil
	case "fast":
		return kernel.BackendFast, nil
	default:
		return 0, fmt.Errorf("unknown backend: %s", name)
	}
}

func loadCascades(paths []string) (autotest.Cascades, error) {
	var cs autotest.Cascades
	for _, p := range paths {
		c, err := cascade.Load(p)
		if err != nil {
			return nil, fmt.Errorf("failed to load cascade %s: %w", p, err)
		}
		cs = append(cs, c)
	}
	return cs, nil
}
