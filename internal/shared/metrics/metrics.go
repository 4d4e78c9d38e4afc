package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	matchRequestsTotal       atomic.Uint64
	matchShortCircuitTotal   atomic.Uint64
	matchDegradedTotal       atomic.Uint64
	matchRecommendationTotal atomic.Uint64
	extractFailedTotal       atomic.Uint64

	degradedByReason = newLabeledCounter()

	llmCallDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncMatchRequests counts recommendation requests that reached the pipeline.
func IncMatchRequests() {
	matchRequestsTotal.Add(1)
}

// IncMatchShortCircuit counts requests answered without calling the matching service.
func IncMatchShortCircuit() {
	matchShortCircuitTotal.Add(1)
}

// IncMatchDegraded counts requests that returned an empty list because of a failure.
func IncMatchDegraded(reason string) {
	matchDegradedTotal.Add(1)
	degradedByReason.Inc(reason)
}

// AddRecommendations counts recommendations returned to callers.
func AddRecommendations(n int) {
	if n > 0 {
		matchRecommendationTotal.Add(uint64(n))
	}
}

// IncExtractFailed counts résumé extraction failures.
func IncExtractFailed() {
	extractFailedTotal.Add(1)
}

// ObserveLLMCall records a matching service call duration.
func ObserveLLMCall(d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	if ms < 0 {
		ms = 0
	}
	llmCallDuration.Observe(ms)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "match_requests_total", "Recommendation requests handled", matchRequestsTotal.Load())
	writeCounter(&buf, "match_short_circuit_total", "Requests answered without a matching service call", matchShortCircuitTotal.Load())
	writeCounter(&buf, "match_degraded_total", "Requests degraded to an empty list", matchDegradedTotal.Load())
	writeLabeledCounter(&buf, "match_degraded_by_reason_total", "Degraded requests by reason", "reason", degradedByReason.Snapshot())
	writeCounter(&buf, "match_recommendations_total", "Recommendations returned", matchRecommendationTotal.Load())
	writeCounter(&buf, "extract_failed_total", "Résumé extraction failures", extractFailedTotal.Load())
	writeHistogram(&buf, "llm_call_duration_ms", "Matching service call duration in milliseconds", llmCallDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	values map[string]uint64
	order  []string
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(label string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.values[label]; !ok {
		l.order = append(l.order, label)
	}
	l.values[label]++
}

type labeledValue struct {
	label string
	value uint64
}

func (l *labeledCounter) Snapshot() []labeledValue {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]labeledValue, 0, len(l.order))
	for _, label := range l.order {
		out = append(out, labeledValue{label: label, value: l.values[label]})
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket that holds it; Render accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values []labeledValue) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	for _, v := range values {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, v.label, v.value)
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
