package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/pixelparity/internal/compare"
	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/perf"
)

func testOutcome(op string, pass bool) harness.Outcome {
	return harness.Outcome{
		Time:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Operation: op,
		A:         "Base::" + op,
		B:         "Fast::" + op,
		Size:      harness.Size{W: 256, H: 192},
		Pass:      pass,
		Verdicts:  []compare.Verdict{{Label: "dst", Pass: pass, Compared: 10}},
		Samples:   []perf.Sample{{Label: "Base::" + op, Iterations: 4, Elapsed: time.Millisecond}},
	}
}

func TestTraceWriter_RecordAndRead(t *testing.T) {
	tmpDir := t.TempDir()

	writer, err := NewTraceWriter(tmpDir, "run-1")
	require.NoError(t, err)
	require.NoError(t, writer.Record(testOutcome("ValueSum", true)))
	require.NoError(t, writer.Record(testOutcome("SquareSum", false)))
	require.NoError(t, writer.Record(harness.Outcome{
		Operation: "DetectionHaarDetect",
		Size:      harness.Size{W: 256, H: 192},
		Err:       errors.New("no sample source configured"),
	}))
	assert.Equal(t, 3, writer.Count())
	require.NoError(t, writer.Close())

	assert.Equal(t, filepath.Join(tmpDir, "runs", "run-1", "trace.jsonl.zst"), writer.Path())
	raw, err := os.ReadFile(writer.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, raw[:4], "zstd magic")

	reader, err := NewTraceReader(tmpDir, "run-1")
	require.NoError(t, err)
	defer reader.Close()

	entries, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "ValueSum", entries[0].Operation)
	assert.Equal(t, "Fast::ValueSum", entries[0].B)
	assert.Equal(t, 256, entries[0].Width)
	assert.True(t, entries[0].Pass)
	assert.Len(t, entries[0].Samples, 1)
	assert.Equal(t, 4, entries[0].Samples[0].Iterations)
	assert.False(t, entries[1].Pass)
	assert.Len(t, entries[1].Verdicts, 1)
	assert.Equal(t, "no sample source configured", entries[2].Error)
}

func TestTraceWriter_Flush(t *testing.T) {
	tmpDir := t.TempDir()

	writer, err := NewTraceWriter(tmpDir, "run-1")
	require.NoError(t, err)
	defer writer.Close()

	require.NoError(t, writer.Record(testOutcome("Crc32c", true)))
	require.NoError(t, writer.Flush())

	info, err := os.Stat(writer.Path())
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestTraceWriter_Truncates(t *testing.T) {
	tmpDir := t.TempDir()

	for _, n := range []int{3, 1} {
		writer, err := NewTraceWriter(tmpDir, "run-1")
		require.NoError(t, err)
		for i := 0; i < n; i++ {
			require.NoError(t, writer.Record(testOutcome("Crc32c", true)))
		}
		require.NoError(t, writer.Close())
	}

	reader, err := NewTraceReader(tmpDir, "run-1")
	require.NoError(t, err)
	defer reader.Close()
	entries, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTraceReader_ReadIteratively(t *testing.T) {
	tmpDir := t.TempDir()

	writer, err := NewTraceWriter(tmpDir, "run-1")
	require.NoError(t, err)
	for _, op := range []string{"A", "B"} {
		require.NoError(t, writer.Record(testOutcome(op, true)))
	}
	require.NoError(t, writer.Close())

	reader, err := NewTraceReader(tmpDir, "run-1")
	require.NoError(t, err)
	defer reader.Close()

	for _, op := range []string{"A", "B"} {
		entry, err := reader.Read()
		require.NoError(t, err)
		assert.Equal(t, op, entry.Operation)
	}
	_, err = reader.Read()
	assert.Equal(t, io.EOF, err)
}

func TestTraceReader_NotFound(t *testing.T) {
	_, err := NewTraceReader(t.TempDir(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTraceWriter_ConcurrentWrites(t *testing.T) {
	tmpDir := t.TempDir()

	writer, err := NewTraceWriter(tmpDir, "run-1")
	require.NoError(t, err)

	const goroutines, perGoroutine = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				assert.NoError(t, writer.Record(testOutcome("ValueSum", true)))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, writer.Close())

	reader, err := NewTraceReader(tmpDir, "run-1")
	require.NoError(t, err)
	defer reader.Close()
	entries, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Len(t, entries, goroutines*perGoroutine)
}
