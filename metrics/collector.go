// Package metrics provides per-execution recording and time-windowed
// aggregation for the mutation engine.
//
// The package depends only on the types package. A
// scope is opened per execution, finalized into a
// types.MutationMetrics, and recorded under the execution id.
package metrics

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/wardenlabs/warden/types"
)

// Collector records finalized per-execution metrics and aggregates
// them over time windows. Thread-safe via sync.Mutex; all methods are
// nil-receiver safe.
type Collector struct {
	mu       sync.Mutex
	recorded []recordedMetrics
}

// recordedMetrics pairs an execution id with its finalized metrics.
type recordedMetrics struct {
	executionID string
	metrics     types.MutationMetrics
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// BeginScope opens a per-execution recording scope and starts its
// wall clock.
func (c *Collector) BeginScope(executionID string) *Scope {
	return &Scope{
		executionID: executionID,
		startedAt:   time.Now(),
	}
}

// Record associates finalized metrics with the execution id.
func (c *Collector) Record(executionID string, m types.MutationMetrics) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.recorded = append(c.recorded, recordedMetrics{executionID: executionID, metrics: m})
	c.mu.Unlock()
}

// Get returns the metrics recorded under the execution id.
func (c *Collector) Get(executionID string) (types.MutationMetrics, bool) {
	if c == nil {
		return types.MutationMetrics{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.recorded {
		if r.executionID == executionID {
			return r.metrics, true
		}
	}
	return types.MutationMetrics{}, false
}

// Len returns the number of recorded executions.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.recorded)
}

// Aggregated is a time-windowed summary of execution times.
type Aggregated struct {
	// From and To are the window bounds (inclusive).
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	// Total is the number of executions recorded in the window.
	Total int `json:"total"`
	// Avg is the mean execution time.
	Avg time.Duration `json:"avg"`
	// Min and Max bound the execution times.
	Min time.Duration `json:"min"`
	Max time.Duration `json:"max"`
	// P50, P95, P99 are index-based percentiles over the sorted times.
	P50 time.Duration `json:"p50"`
	P95 time.Duration `json:"p95"`
	P99 time.Duration `json:"p99"`
	// ThroughputPerSecond is total divided by the window duration.
	ThroughputPerSecond float64 `json:"throughput_per_second"`
}

// Aggregate summarizes executions with from <= recordedAt <= to.
// An empty window yields zeros except the bounds.
//
// Percentiles sort the execution times ascending and pick index
// floor(n*q) clamped to [0, n-1]. With n < 100 the p99 index selects
// the maximum; this is intentional for compatibility.
func (c *Collector) Aggregate(from, to time.Time) Aggregated {
	agg := Aggregated{From: from, To: to}
	if c == nil {
		return agg
	}

	c.mu.Lock()
	var times []time.Duration
	for _, r := range c.recorded {
		at := r.metrics.RecordedAt
		if at.Before(from) || at.After(to) {
			continue
		}
		times = append(times, r.metrics.ExecutionTime)
	}
	c.mu.Unlock()

	if len(times) == 0 {
		return agg
	}

	sortDurations(times)

	agg.Total = len(times)
	agg.Min = times[0]
	agg.Max = times[len(times)-1]
	agg.P50 = percentile(times, 0.50)
	agg.P95 = percentile(times, 0.95)
	agg.P99 = percentile(times, 0.99)

	var sum time.Duration
	for _, t := range times {
		sum += t
	}
	agg.Avg = sum / time.Duration(len(times))

	seconds := to.Sub(from).Seconds()
	if seconds <= 0 {
		seconds = math.SmallestNonzeroFloat64
	}
	agg.ThroughputPerSecond = float64(len(times)) / seconds

	return agg
}

// Statistics is the all-time execution summary.
type Statistics struct {
	// TotalExecuted is the number of recorded executions.
	TotalExecuted int `json:"total_executed"`
	// AverageExecutionTime is the mean execution time.
	AverageExecutionTime time.Duration `json:"average_execution_time"`
	// MedianExecutionTime is the p50 execution time.
	MedianExecutionTime time.Duration `json:"median_execution_time"`
	// P95ExecutionTime is the p95 execution time.
	P95ExecutionTime time.Duration `json:"p95_execution_time"`
	// LastUpdatedAt is the most recent record timestamp.
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// GetStatistics summarizes all recorded executions.
func (c *Collector) GetStatistics() Statistics {
	var stats Statistics
	if c == nil {
		return stats
	}

	c.mu.Lock()
	times := make([]time.Duration, 0, len(c.recorded))
	for _, r := range c.recorded {
		times = append(times, r.metrics.ExecutionTime)
		if r.metrics.RecordedAt.After(stats.LastUpdatedAt) {
			stats.LastUpdatedAt = r.metrics.RecordedAt
		}
	}
	c.mu.Unlock()

	if len(times) == 0 {
		return stats
	}

	sortDurations(times)

	stats.TotalExecuted = len(times)
	stats.MedianExecutionTime = percentile(times, 0.50)
	stats.P95ExecutionTime = percentile(times, 0.95)

	var sum time.Duration
	for _, t := range times {
		sum += t
	}
	stats.AverageExecutionTime = sum / time.Duration(len(times))

	return stats
}

// Clear removes all recorded metrics. Intended for test harnesses.
func (c *Collector) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.recorded = nil
	c.mu.Unlock()
}

// percentile picks index floor(n*q), clamped to [0, n-1], over sorted
// times.
func percentile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(float64(len(sorted)) * q))
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// sortDurations sorts in place, ascending.
func sortDurations(d []time.Duration) {
	sort.Slice(d, func(i, j int) bool { return d[i] < d[j] })
}
