package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/kernel"
	"github.com/cwbudde/pixelparity/internal/store"
)

// resetFlags restores every flag of c and its subcommands to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer slog.SetDefault(slog.Default())
	err := rootCmd.Execute()
	if err != nil {
		t.Logf("stderr:\n%s", errOut.String())
	}
	return out.String(), err
}

func smallRun(dir string, extra ...string) []string {
	args := []string{"run", "--width", "32", "--height", "24", "--offset", "3", "--seed", "5",
		"--log-level", "warn", "--data-dir", dir}
	return append(args, extra...)
}

func TestRunStoresReport(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, smallRun(dir, "--filter", "^Crc32c$")...)
	require.NoError(t, err)
	assert.Contains(t, out, "ALL 1 TESTS PASSED (seed 5)")

	s, err := store.NewFSStore(dir)
	require.NoError(t, err)
	infos, err := s.ListReports()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Passed)
	assert.Equal(t, 1, infos[0].Tests)

	r, err := s.LoadReport(infos[0].RunID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), r.Seed)
	assert.Equal(t, 32, r.Config.Width)
	assert.Equal(t, kernel.HardwareCRC(), r.CPU.HardwareCRC)
	assert.Equal(t, kernel.Features(), r.CPU.Features)
	assert.NotEmpty(t, r.Throughput)

	tr, err := store.NewTraceReader(dir, r.RunID)
	require.NoError(t, err)
	defer tr.Close()
	entries, err := tr.ReadAll()
	require.NoError(t, err)
	assert.Len(t, entries, 6)
}

func TestRunNoStore(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, smallRun(dir, "--filter", "^BgraToBgr$", "--no-store", "--perf")...)
	require.NoError(t, err)
	assert.Contains(t, out, "FUNCTION")
	assert.Contains(t, out, "Fast::BgraToBgr")

	_, err = os.Stat(filepath.Join(dir, "runs"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunRandomSeedIsReported(t *testing.T) {
	args := []string{"run", "--width", "32", "--height", "24", "--offset", "3",
		"--log-level", "error", "--no-store", "--filter", "^ValueSum$"}
	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "ALL 1 TESTS PASSED (seed ")
	assert.NotContains(t, out, "(seed 0)")
}

func TestRunMissingSampleFailsDetection(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, smallRun(dir, "--filter", "^detection$",
		"--sample", filepath.Join(dir, "missing.png"))...)
	require.True(t, errors.Is(err, errTestsFailed), "got %v", err)
	assert.Contains(t, out, "Failed tests: DetectionHaarDetect")

	s, err := store.NewFSStore(dir)
	require.NoError(t, err)
	infos, err := s.ListReports()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.False(t, infos[0].Passed)

	out, err = execute(t, "runs", "show", infos[0].RunID, "--trace", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Result: FAIL")
	assert.Contains(t, out, "no sample")
}

func TestRunRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		extra []string
		want  string
	}{
		{"even offset", []string{"--offset", "8"}, "invalid configuration"},
		{"bad filter", []string{"--filter", "("}, "invalid filter"},
		{"empty selection", []string{"--filter", "^NoSuchTest$"}, "selects no tests"},
		{"bad backend", []string{"--backend", "gpu"}, "unknown backend"},
		{"missing cascade", []string{"--cascade", filepath.Join(dir, "none.json")}, "failed to load cascade"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, smallRun(dir, tt.extra...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunRestoresBackend(t *testing.T) {
	before := kernel.ActiveBackend()
	_, err := execute(t, smallRun(t.TempDir(), "--filter", "^Crc32c$", "--backend", "base", "--no-store")...)
	require.NoError(t, err)
	assert.Equal(t, before, kernel.ActiveBackend())
}

func TestParseBackend(t *testing.T) {
	b, err := parseBackend("base")
	require.NoError(t, err)
	assert.Equal(t, kernel.BackendBase, b)
	b, err = parseBackend("fast")
	require.NoError(t, err)
	assert.Equal(t, kernel.BackendFast, b)
	b, err = parseBackend("auto")
	require.NoError(t, err)
	assert.Equal(t, kernel.Detect(), b)
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Crc32c")
	assert.Contains(t, out, "DetectionHaarDetect")

	out, err = execute(t, "list", "--filter", "^texture$")
	require.NoError(t, err)
	assert.Contains(t, out, "Total tests: 4")
	assert.NotContains(t, out, "Crc32c")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pixelparity version "+version)
	assert.Contains(t, out, "features: "+kernel.Features())
	assert.Contains(t, out, fmt.Sprintf("hardware crc32c: %t", kernel.HardwareCRC()))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))

	_, err = newLogger(&buf, "debug", "xml")
	assert.Error(t, err)
}

func saveReport(t *testing.T, dir, runID string, started time.Time) {
	t.Helper()
	s, err := store.NewFSStore(dir)
	require.NoError(t, err)
	cfg := harness.DefaultConfig()
	res := harness.Result{Passed: true, Tests: []harness.TestResult{{Name: "Crc32c", Family: "crc32", Passed: true}}}
	r := store.NewReport(runID, cfg, store.CPUInfo{Backend: "base", Features: "none"}, started, res, nil)
	r.Finished = started.Add(time.Second)
	require.NoError(t, s.SaveReport(r))
}
