package llm

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// DefaultStatsCapacity is the number of call records retained for
// latency percentiles when no explicit capacity is given.
const DefaultStatsCapacity = 1000

// CallRecord captures the outcome of a single LLM call.
type CallRecord struct {
	Timestamp time.Time     `json:"timestamp"`
	Latency   time.Duration `json:"latency_ms"`
	Success   bool          `json:"success"`
	Tokens    int           `json:"tokens,omitempty"`
	Err       string        `json:"error,omitempty"`
}

// StatsSummary is a point-in-time view of recorded calls.
//
// Latency figures are computed over the retained window only;
// the totals cover the full process lifetime.
type StatsSummary struct {
	TotalCalls    int64        `json:"total_calls"`
	TotalFailures int64        `json:"total_failures"`
	FailureRate   float64      `json:"failure_rate"`
	AvgLatencyMs  int64        `json:"avg_latency_ms"`
	MinLatencyMs  int64        `json:"min_latency_ms"`
	MaxLatencyMs  int64        `json:"max_latency_ms"`
	P95LatencyMs  int64        `json:"p95_latency_ms"`
	TotalTokens   int64        `json:"total_tokens"`
	RecentErrors  []CallRecord `json:"recent_errors"`
}

// CallStats tracks LLM call statistics in a fixed-capacity ring.
//
// All methods are safe for concurrent use; appends from concurrent
// turns are serialized by the internal mutex. Nothing is persisted,
// counters reset on process restart.
type CallStats struct {
	mu       sync.Mutex
	ring     []CallRecord
	next     int
	filled   bool
	calls    int64
	failures int64
	tokens   int64
}

// NewCallStats creates a recorder retaining up to capacity records.
// A non-positive capacity falls back to DefaultStatsCapacity.
func NewCallStats(capacity int) *CallStats {
	if capacity <= 0 {
		capacity = DefaultStatsCapacity
	}
	return &CallStats{ring: make([]CallRecord, capacity)}
}

// RecordSuccess records a completed call. tokens may be 0 when the
// backend does not report usage.
func (s *CallStats) RecordSuccess(latency time.Duration, tokens int) {
	s.append(CallRecord{
		Timestamp: time.Now(),
		Latency:   latency,
		Success:   true,
		Tokens:    tokens,
	})
	slog.Debug("llm call succeeded", "latency_ms", latency.Milliseconds(), "tokens", tokens)
}

// RecordFailure records a failed call with its error text.
func (s *CallStats) RecordFailure(latency time.Duration, errMsg string) {
	s.append(CallRecord{
		Timestamp: time.Now(),
		Latency:   latency,
		Success:   false,
		Err:       errMsg,
	})
	slog.Warn("llm call failed", "latency_ms", latency.Milliseconds(), "error", errMsg)
}

func (s *CallStats) append(rec CallRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ring[s.next] = rec
	s.next++
	if s.next == len(s.ring) {
		s.next = 0
		s.filled = true
	}

	s.calls++
	if !rec.Success {
		s.failures++
	}
	s.tokens += int64(rec.Tokens)
}

// Summary computes the current statistics snapshot.
func (s *CallStats) Summary() StatsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	window := s.window()
	out := StatsSummary{
		TotalCalls:    s.calls,
		TotalFailures: s.failures,
		TotalTokens:   s.tokens,
		RecentErrors:  []CallRecord{},
	}
	if s.calls > 0 {
		out.FailureRate = float64(s.failures) / float64(s.calls) * 100
	}
	if len(window) == 0 {
		return out
	}

	latencies := make([]int64, len(window))
	var sum int64
	for i, rec := range window {
		latencies[i] = rec.Latency.Milliseconds()
		sum += latencies[i]
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	out.AvgLatencyMs = sum / int64(len(latencies))
	out.MinLatencyMs = latencies[0]
	out.MaxLatencyMs = latencies[len(latencies)-1]
	p95 := int(float64(len(latencies)) * 0.95)
	if p95 >= len(latencies) {
		p95 = len(latencies) - 1
	}
	out.P95LatencyMs = latencies[p95]

	// Last 5 failures, newest first.
	for i := len(window) - 1; i >= 0 && len(out.RecentErrors) < 5; i-- {
		if !window[i].Success {
			out.RecentErrors = append(out.RecentErrors, window[i])
		}
	}
	return out
}

// window returns the retained records in chronological order.
// Caller must hold s.mu.
func (s *CallStats) window() []CallRecord {
	if !s.filled {
		return s.ring[:s.next]
	}
	out := make([]CallRecord, 0, len(s.ring))
	out = append(out, s.ring[s.next:]...)
	out = append(out, s.ring[:s.next]...)
	return out
}
