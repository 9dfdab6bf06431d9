package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelparity/internal/store"
)

var (
	runsDataDir   string
	keepLast      int
	olderThanDays int
	showTrace     bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage persisted run reports",
}

var listRunsCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs",
	RunE:  runListRuns,
}

var showRunCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the report of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var deleteRunCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and its trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteRun,
}

var cleanRunsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete old runs",
	Long:  `Delete runs older than --older-than days, or all but the --keep-last most recent runs.`,
	RunE:  runCleanRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(listRunsCmd, showRunCmd, deleteRunCmd, cleanRunsCmd)

	runsCmd.PersistentFlags().StringVar(&runsDataDir, "data-dir", "./data", "Base directory for run reports")
	showRunCmd.Flags().BoolVar(&showTrace, "trace", false, "Also print failing trace entries")
	cleanRunsCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the last N runs (0 = keep all)")
	cleanRunsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete runs older than N days (0 = no age limit)")
}

func openStore() (*store.FSStore, error) {
	s, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create report store: %w", err)
	}
	return s, nil
}

func runListRuns(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	infos, err := s.ListReports()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTARTED\tDURATION\tRESULT\tTESTS\tFAILED\tBACKEND\tSIZE")
	for _, info := range infos {
		size := "unknown"
		if n, err := getDirSize(filepath.Join(runsDataDir, "runs", info.RunID)); err == nil {
			size = formatBytes(n)
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%d\t%d\t%s\t%s\n",
			info.RunID,
			info.Started.Format("2006-01-02 15:04:05"),
			info.Duration.Round(time.Millisecond),
			passFail(info.Passed),
			info.Tests,
			info.Failed,
			info.Backend,
			size,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTotal runs: %d\n", len(infos))
	return nil
}

func runShowRun(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	r, err := s.LoadReport(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run: %s\n", r.RunID)
	fmt.Fprintf(out, "Result: %s\n", passFail(r.Passed))
	fmt.Fprintf(out, "Started: %s (%v)\n", r.Started.Format(time.RFC3339), r.Finished.Sub(r.Started).Round(time.Millisecond))
	fmt.Fprintf(out, "Seed: %d\n", r.Seed)
	fmt.Fprintf(out, "Backend: %s (%s, hardware crc32c: %t)\n", r.CPU.Backend, r.CPU.Features, r.CPU.HardwareCRC)
	fmt.Fprintf(out, "Geometry: %dx%d offset %d align %d min-time %v\n\n",
		r.Config.Width, r.Config.Height, r.Config.Offset, r.Config.Align, r.Config.MinTime)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEST\tFAMILY\tRESULT\tDURATION\tERROR")
	for _, t := range r.Tests {
		result := passFail(t.Passed)
		if t.Skipped {
			result = "SKIPPED"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n", t.Name, t.Family, result, t.Duration.Round(time.Microsecond), t.Error)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(r.Throughput) > 0 {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FUNCTION\tCALLS\tMEAN\tSTDDEV")
		for _, row := range r.Throughput {
			fmt.Fprintf(w, "%s\t%d\t%v\t%v\n", row.Label, row.Calls, row.Mean, row.StdDev)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if showTrace {
		return printFailures(cmd, r.RunID)
	}
	return nil
}

// printFailures prints the failing entries of a run's trace.
func printFailures(cmd *cobra.Command, runID string) error {
	tr, err := store.NewTraceReader(runsDataDir, runID)
	if err != nil {
		return err
	}
	defer tr.Close()

	entries, err := tr.ReadAll()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nTrace: %d entries\n", len(entries))
	for _, e := range entries {
		if e.Pass {
			continue
		}
		if e.Error != "" {
			fmt.Fprintf(out, "  %s [%d, %d]: %s\n", e.Operation, e.Width, e.Height, e.Error)
			continue
		}
		fmt.Fprintf(out, "  %s & %s [%d, %d] %s\n", e.A, e.B, e.Width, e.Height, e.Detail)
		for _, v := range e.Verdicts {
			fmt.Fprintf(out, "    %s\n", v)
		}
	}
	return nil
}

func runDeleteRun(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	if err := s.DeleteReport(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
	return nil
}

func runCleanRuns(cmd *cobra.Command, args []string) error {
	if keepLast == 0 && olderThanDays == 0 {
		return fmt.Errorf("must specify either --keep-last or --older-than")
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	infos, err := s.ListReports()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	toDelete := selectRunsForDeletion(infos, keepLast, olderThanDays, time.Now())
	if len(toDelete) == 0 {
		fmt.Fprintln(out, "No runs match deletion criteria.")
		return nil
	}

	deleted, failed := 0, 0
	for _, info := range toDelete {
		if err := s.DeleteReport(info.RunID); err != nil {
			slog.Error("Failed to delete run", "run_id", info.RunID, "error", err)
			failed++
			continue
		}
		slog.Info("Deleted run", "run_id", info.RunID)
		deleted++
	}

	fmt.Fprintf(out, "Deleted %d run(s), %d failed.\n", deleted, failed)
	return nil
}

// selectRunsForDeletion returns the runs older than olderThanDays plus the
// oldest runs beyond the keepLast most recent ones, each at most once.
func selectRunsForDeletion(infos []store.ReportInfo, keepLast, olderThanDays int, now time.Time) []store.ReportInfo {
	var toDelete []store.ReportInfo
	selected := map[string]bool{}
	add := func(info store.ReportInfo) {
		if !selected[info.RunID] {
			selected[info.RunID] = true
			toDelete = append(toDelete, info)
		}
	}

	if olderThanDays > 0 {
		cutoff := now.AddDate(0, 0, -olderThanDays)
		for _, info := range infos {
			if info.Started.Before(cutoff) {
				add(info)
			}
		}
	}

	if keepLast > 0 && len(infos) > keepLast {
		sorted := append([]store.ReportInfo(nil), infos...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Started.Before(sorted[j].Started) })
		for _, info := range sorted[:len(sorted)-keepLast] {
			add(info)
		}
	}

	return toDelete
}

func passFail(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

// getDirSize calculates the total size of a directory
func getDirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
