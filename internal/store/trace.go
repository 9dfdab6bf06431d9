package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/perf"
)

const traceFile = "trace.jsonl.zst"

// TraceEntry is one recorded outcome. Each entry is a JSON line of the
// compressed trace.
type TraceEntry struct {
	Time      time.Time     `json:"time"`
	Operation string        `json:"operation"`
	A         string        `json:"a,omitempty"`
	B         string        `json:"b,omitempty"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Detail    string        `json:"detail,omitempty"`
	Pass      bool          `json:"pass"`
	Verdicts  []string      `json:"verdicts,omitempty"`
	Samples   []perf.Sample `json:"samples,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// NewTraceEntry flattens an outcome.
func NewTraceEntry(o harness.Outcome) TraceEntry {
	e := TraceEntry{
		Time:      o.Time,
		Operation: o.Operation,
		A:         o.A,
		B:         o.B,
		Width:     o.Size.W,
		Height:    o.Size.H,
		Detail:    o.Detail,
		Pass:      o.Pass,
		Samples:   o.Samples,
	}
	for _, v := range o.Verdicts {
		e.Verdicts = append(e.Verdicts, v.String())
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}
	return e
}

// TraceWriter writes outcomes of a run to a zstd-compressed JSONL file.
// It implements harness.Recorder and is safe for concurrent use.
type TraceWriter struct {
	mu      sync.Mutex
	file    *os.File
	encoder *zstd.Encoder
	writer  *bufio.Writer
	path    string
	count   int
}

var _ harness.Recorder = (*TraceWriter)(nil)

// NewTraceWriter creates the trace of the given run at
// <baseDir>/runs/<runID>/trace.jsonl.zst, truncating an existing one.
func NewTraceWriter(baseDir, runID string) (*TraceWriter, error) {
	runDir := filepath.Join(baseDir, "runs", runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	path := filepath.Join(runDir, traceFile)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	enc, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create trace encoder: %w", err)
	}

	return &TraceWriter{
		file:    file,
		encoder: enc,
		writer:  bufio.NewWriterSize(enc, 64*1024),
		path:    path,
	}, nil
}

// Record appends the outcome to the trace.
func (tw *TraceWriter) Record(o harness.Outcome) error {
	return tw.Write(NewTraceEntry(o))
}

// Write appends an entry. The entry is buffered until Flush or Close.
func (tw *TraceWriter) Write(entry TraceEntry) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal trace entry: %w", err)
	}
	if _, err := tw.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write trace entry: %w", err)
	}
	if err := tw.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	tw.count++
	return nil
}

// Count returns the number of entries written.
func (tw *TraceWriter) Count() int {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.count
}

// Flush completes the current compressed block so that every entry
// written so far can be decoded from the file.
func (tw *TraceWriter) Flush() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if err := tw.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush trace writer: %w", err)
	}
	if err := tw.encoder.Flush(); err != nil {
		return fmt.Errorf("failed to flush trace encoder: %w", err)
	}
	return nil
}

// Close flushes buffered entries, ends the zstd frame and closes the file.
func (tw *TraceWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if err := tw.writer.Flush(); err != nil {
		tw.encoder.Close()
		tw.file.Close()
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	if err := tw.encoder.Close(); err != nil {
		tw.file.Close()
		return fmt.Errorf("failed to close trace encoder: %w", err)
	}
	if err := tw.file.Close(); err != nil {
		return fmt.Errorf("failed to close trace file: %w", err)
	}
	return nil
}

// Path returns the filesystem path to the trace file.
func (tw *TraceWriter) Path() string {
	return tw.path
}

// TraceReader reads entries back from a compressed trace.
type TraceReader struct {
	file    *os.File
	decoder *zstd.Decoder
	scanner *bufio.Scanner
}

// NewTraceReader opens the trace of the given run.
func NewTraceReader(baseDir, runID string) (*TraceReader, error) {
	path := filepath.Join(baseDir, "runs", runID, traceFile)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{RunID: runID}
		}
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	dec, err := zstd.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create trace decoder: %w", err)
	}

	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &TraceReader{file: file, decoder: dec, scanner: scanner}, nil
}

// Read returns the next entry, or io.EOF after the last one.
func (tr *TraceReader) Read() (*TraceEntry, error) {
	if !tr.scanner.Scan() {
		if err := tr.scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to scan trace line: %w", err)
		}
		return nil, io.EOF
	}

	var entry TraceEntry
	if err := json.Unmarshal(tr.scanner.Bytes(), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trace entry: %w", err)
	}
	return &entry, nil
}

// ReadAll reads all remaining entries.
func (tr *TraceReader) ReadAll() ([]TraceEntry, error) {
	var entries []TraceEntry
	for {
		entry, err := tr.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
}

// Close releases the decoder and closes the file.
func (tr *TraceReader) Close() error {
	tr.decoder.Close()
	if err := tr.file.Close(); err != nil {
		return fmt.Errorf("failed to close trace file: %w", err)
	}
	return nil
}
