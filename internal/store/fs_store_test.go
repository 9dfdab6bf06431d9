package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/pixelparity/internal/harness"
)

// setupTestStore creates a temporary directory and returns an FSStore for testing.
func setupTestStore(t *testing.T) (*FSStore, string) {
	t.Helper()

	tempDir := t.TempDir()
	store, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}

	return store, tempDir
}

// createTestReport creates a passing report with test data.
func createTestReport(runID string) *Report {
	cfg := harness.DefaultConfig()
	cfg.Seed = 42
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Report{
		RunID:    runID,
		Seed:     cfg.Seed,
		Started:  started,
		Finished: started.Add(3 * time.Second),
		Passed:   true,
		CPU:      CPUInfo{Backend: "fast", Features: "sse2,avx2", HardwareCRC: true},
		Config:   cfg,
		Tests: []harness.TestResult{
			{Name: "Crc32c", Family: "crc32", Passed: true, Duration: time.Millisecond},
			{Name: "ValueSum", Family: "statistic", Passed: true, Duration: 2 * time.Millisecond},
		},
	}
}

func TestNewFSStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	if store.BaseDir() != dir {
		t.Errorf("Expected base dir %s, got %s", dir, store.BaseDir())
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("Base directory was not created: %v", err)
	}
}

func TestSaveReport(t *testing.T) {
	store, tempDir := setupTestStore(t)

	if err := store.SaveReport(createTestReport("run-1")); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	expectedPath := filepath.Join(tempDir, "runs", "run-1", "report.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Fatalf("Report file was not created at %s", expectedPath)
	}
	if _, err := os.Stat(expectedPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file left behind")
	}
}

func TestSaveReport_Invalid(t *testing.T) {
	store, _ := setupTestStore(t)

	if err := store.SaveReport(nil); err == nil {
		t.Error("Expected error for nil report")
	}

	report := createTestReport("")
	err := store.SaveReport(report)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "RunID" {
		t.Errorf("Expected RunID validation error, got %v", err)
	}
}

func TestSaveReport_Overwrite(t *testing.T) {
	store, _ := setupTestStore(t)

	report := createTestReport("run-1")
	if err := store.SaveReport(report); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	report.Passed = false
	report.Tests[0].Passed = false
	if err := store.SaveReport(report); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := store.LoadReport("run-1")
	if err != nil {
		t.Fatalf("LoadReport failed: %v", err)
	}
	if loaded.Passed {
		t.Error("Expected overwritten report to be failed")
	}
}

func TestLoadReport(t *testing.T) {
	store, _ := setupTestStore(t)

	original := createTestReport("run-1")
	if err := store.SaveReport(original); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	loaded, err := store.LoadReport("run-1")
	if err != nil {
		t.Fatalf("LoadReport failed: %v", err)
	}
	if loaded.Seed != original.Seed {
		t.Errorf("Seed mismatch: expected %d, got %d", original.Seed, loaded.Seed)
	}
	if loaded.Config != original.Config {
		t.Errorf("Config mismatch: expected %+v, got %+v", original.Config, loaded.Config)
	}
	if !loaded.Started.Equal(original.Started) {
		t.Errorf("Started mismatch: expected %v, got %v", original.Started, loaded.Started)
	}
	if len(loaded.Tests) != len(original.Tests) {
		t.Fatalf("Expected %d tests, got %d", len(original.Tests), len(loaded.Tests))
	}
	if loaded.Tests[1].Duration != original.Tests[1].Duration {
		t.Errorf("Duration mismatch: expected %v, got %v", original.Tests[1].Duration, loaded.Tests[1].Duration)
	}
}

func TestLoadReport_NotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.LoadReport("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if err.Error() != "run not found: missing" {
		t.Errorf("Unexpected message: %s", err)
	}

	if _, err := store.LoadReport(""); err == nil {
		t.Error("Expected error for empty runID")
	}
}

func TestListReports_Empty(t *testing.T) {
	store, _ := setupTestStore(t)

	infos, err := store.ListReports()
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("Expected no reports, got %d", len(infos))
	}
}

func TestListReports_SortedAndSkipsInvalid(t *testing.T) {
	store, tempDir := setupTestStore(t)

	for i, id := range []string{"c", "a", "b"} {
		report := createTestReport(id)
		report.Started = report.Started.Add(time.Duration(i) * time.Hour)
		report.Finished = report.Started.Add(time.Second)
		if err := store.SaveReport(report); err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
	}

	// A directory without a report, a corrupt report and a stray file.
	if err := os.MkdirAll(filepath.Join(tempDir, "runs", "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(tempDir, "runs", "corrupt"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "runs", "corrupt", "report.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "runs", "stray.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	infos, err := store.ListReports()
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("Expected 3 reports, got %d", len(infos))
	}
	for i, want := range []string{"c", "a", "b"} {
		if infos[i].RunID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, infos[i].RunID)
		}
	}
}

func TestDeleteReport(t *testing.T) {
	store, tempDir := setupTestStore(t)

	if err := store.SaveReport(createTestReport("run-1")); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}
	tw, err := NewTraceWriter(tempDir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := store.DeleteReport("run-1"); err != nil {
		t.Fatalf("DeleteReport failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "runs", "run-1")); !os.IsNotExist(err) {
		t.Error("Run directory still exists after delete")
	}
	if err := store.DeleteReport("run-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
	if err := store.DeleteReport(""); err == nil {
		t.Error("Expected error for empty runID")
	}
}

func TestConcurrentSave(t *testing.T) {
	store, _ := setupTestStore(t)

	const numRuns = 10
	done := make(chan bool, numRuns)
	for i := 0; i < numRuns; i++ {
		go func(idx int) {
			if err := store.SaveReport(createTestReport(fmt.Sprintf("run-%d", idx))); err != nil {
				t.Errorf("Concurrent save failed for run %d: %v", idx, err)
			}
			done <- true
		}(i)
	}
	for i := 0; i < numRuns; i++ {
		<-done
	}

	infos, err := store.ListReports()
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(infos) != numRuns {
		t.Errorf("Expected %d reports, got %d", numRuns, len(infos))
	}
}
