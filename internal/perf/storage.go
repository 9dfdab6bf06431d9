package perf

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Storage accumulates samples per label. It is safe for concurrent use.
type Storage struct {
	mu      sync.Mutex
	samples map[string][]Sample
}

// NewStorage returns an empty Storage.
func NewStorage() *Storage {
	return &Storage{samples: make(map[string][]Sample)}
}

// Add records s under its label.
func (st *Storage) Add(s Sample) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.samples[s.Label] = append(st.samples[s.Label], s)
}

// Len returns the number of distinct labels.
func (st *Storage) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.samples)
}

// Row aggregates the samples of one label. Durations are per call.
type Row struct {
	Label  string        `json:"label"`
	Calls  int           `json:"calls"`
	Total  time.Duration `json:"total"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"stddev"`
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
}

// Rows returns one row per label sorted by label. Mean and StdDev are
// weighted by the iterations of each sample.
func (st *Storage) Rows() []Row {
	st.mu.Lock()
	defer st.mu.Unlock()

	rows := make([]Row, 0, len(st.samples))
	for label, samples := range st.samples {
		r := Row{Label: label}
		perCall := make([]float64, len(samples))
		weights := make([]float64, len(samples))
		for i, s := range samples {
			pc := s.PerCall()
			perCall[i] = float64(pc)
			weights[i] = float64(s.Iterations)
			r.Calls += s.Iterations
			r.Total += s.Elapsed
			if i == 0 || pc < r.Min {
				r.Min = pc
			}
			if pc > r.Max {
				r.Max = pc
			}
		}
		mean, std := stat.MeanStdDev(perCall, weights)
		r.Mean = time.Duration(mean)
		if len(samples) > 1 {
			r.StdDev = time.Duration(std)
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
	return rows
}

// WriteTable prints the aggregated rows as an aligned table.
func (st *Storage) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FUNCTION\tCALLS\tTOTAL\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, r := range st.Rows() {
		fmt.Fprintf(tw, "%s\t%d\t%v\t%v\t%v\t%v\t%v\n",
			r.Label, r.Calls, r.Total.Round(time.Microsecond), r.Mean, r.StdDev, r.Min, r.Max)
	}
	return tw.Flush()
}
