package zdbi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"zgo.at/zstd/ztime"
)

// MetricRecorder records the run time of statements.
type MetricRecorder interface {
	Record(d time.Duration, query string)
}

// Metrics sets the recorder to call for every executed statement; use nil to
// disable it.
func (s *Session) Metrics(rec MetricRecorder) { s.metrics = rec }

// MetricsMemory records metrics in memory.
type MetricsMemory struct {
	mu      *sync.Mutex
	max     int
	metrics map[string]ztime.Durations
}

// QueryMetric is the recorded run times for a single statement.
type QueryMetric struct {
	Query string
	Times ztime.Durations
}

// NewMetricsMemory creates a new MetricsMemory, up to "max" metrics per
// statement.
func NewMetricsMemory(max int) *MetricsMemory {
	return &MetricsMemory{
		mu:      new(sync.Mutex),
		max:     max,
		metrics: make(map[string]ztime.Durations),
	}
}

// Reset the contents.
func (m *MetricsMemory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = make(map[string]ztime.Durations)
}

// Record this statement.
func (m *MetricsMemory) Record(d time.Duration, query string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	x, ok := m.metrics[query]
	if !ok {
		x = ztime.NewDurations(m.max)
	}
	x.Append(d)
	m.metrics[query] = x
}

// Queries gets a list of statements sorted by the total run time.
func (m *MetricsMemory) Queries() []QueryMetric {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := make([]QueryMetric, 0, len(m.metrics))
	for k, v := range m.metrics {
		l = append(l, QueryMetric{Query: k, Times: v})
	}
	sort.Slice(l, func(i, j int) bool {
		if a, b := l[i].Times.Sum(), l[j].Times.Sum(); a != b {
			return a > b
		}
		return l[i].Query < l[j].Query
	})
	return l
}

func (m *MetricsMemory) String() string {
	b := new(strings.Builder)
	for _, q := range m.Queries() {
		fmt.Fprintf(b, "Query %q:\n", q.Query)
		fmt.Fprintf(b, "    Run count: %6d\n", len(q.Times.List()))
		fmt.Fprintf(b, "    Run time:  %6s\n", q.Times.Sum())
		fmt.Fprintf(b, "    Min:       %6s\n", q.Times.Min())
		fmt.Fprintf(b, "    Max:       %6s\n", q.Times.Max())
		fmt.Fprintf(b, "    Median:    %6s\n", q.Times.Median())
		fmt.Fprintf(b, "    Mean:      %6s\n", q.Times.Mean())
	}
	return b.String()
}
