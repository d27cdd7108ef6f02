package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics
type Metrics struct {
	RequestCount        int64
	ErrorCount          int64
	ScreeningCount      int64
	WhatIfCount         int64
	ExportCount         int64
	TimeoutCount        int64
	CandidatesScored    int64
	CandidatesExcluded  int64
	FairnessAudits      int64
	FairnessFindings    int64
	AverageResponseTime int64 // in nanoseconds
	StartTime           time.Time

	// Response time samples for percentiles
	ResponseTimes      []time.Duration
	ResponseTimesMutex sync.RWMutex

	// Status code tracking
	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex

	// Rate limit metrics
	RateLimitIPBlocks int64
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		ResponseTimes:        make([]time.Duration, 0, 1000),
		RequestCountByStatus: make(map[int]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementTimeout increments the scoring timeout count
func (m *Metrics) IncrementTimeout() {
	atomic.AddInt64(&m.TimeoutCount, 1)
}

// IncrementWhatIf increments the what-if re-scoring count
func (m *Metrics) IncrementWhatIf() {
	atomic.AddInt64(&m.WhatIfCount, 1)
}

// IncrementExport increments the CSV export count
func (m *Metrics) IncrementExport() {
	atomic.AddInt64(&m.ExportCount, 1)
}

// RecordScreening records one completed screening batch.
func (m *Metrics) RecordScreening(scored, excluded int) {
	atomic.AddInt64(&m.ScreeningCount, 1)
	atomic.AddInt64(&m.CandidatesScored, int64(scored))
	atomic.AddInt64(&m.CandidatesExcluded, int64(excluded))
}

// RecordFairnessAudit records one fairness audit and its finding count.
func (m *Metrics) RecordFairnessAudit(findings int) {
	atomic.AddInt64(&m.FairnessAudits, 1)
	atomic.AddInt64(&m.FairnessFindings, int64(findings))
}

// IncrementRateLimitIPBlock increments IP-based rate limit blocks
func (m *Metrics) IncrementRateLimitIPBlock() {
	atomic.AddInt64(&m.RateLimitIPBlocks, 1)
}

// RecordResponseTime records response time for averaging and percentiles
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	current := atomic.LoadInt64(&m.AverageResponseTime)
	newAverage := (current + duration.Nanoseconds()) / 2
	atomic.StoreInt64(&m.AverageResponseTime, newAverage)

	// Keep the last 1000 samples
	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = append(m.ResponseTimes, duration)
	if len(m.ResponseTimes) > 1000 {
		m.ResponseTimes = m.ResponseTimes[1:]
	}
	m.ResponseTimesMutex.Unlock()
}

// RecordRequestByStatus records request count by HTTP status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// GetPercentileResponseTime calculates percentile response time
func (m *Metrics) GetPercentileResponseTime(percentile float64) time.Duration {
	m.ResponseTimesMutex.RLock()
	defer m.ResponseTimesMutex.RUnlock()

	if len(m.ResponseTimes) == 0 {
		return 0
	}

	times := make([]time.Duration, len(m.ResponseTimes))
	copy(times, m.ResponseTimes)

	sort.Slice(times, func(i, j int) bool {
		return times[i] < times[j]
	})

	index := int(float64(len(times)-1) * percentile / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}

	return times[index]
}

// GetStatusCodeDistribution returns request count by status code
func (m *Metrics) GetStatusCodeDistribution() map[int]int64 {
	m.StatusMutex.RLock()
	defer m.StatusMutex.RUnlock()

	distribution := make(map[int]int64)
	for code, count := range m.RequestCountByStatus {
		distribution[code] = count
	}
	return distribution
}

// GetStats returns current metrics statistics
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)
	avgResponseTime := atomic.LoadInt64(&m.AverageResponseTime)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	uptime := time.Since(m.StartTime)

	return map[string]interface{}{
		"uptime_seconds":       uptime.Seconds(),
		"total_requests":       requests,
		"error_count":          errors,
		"error_rate_percent":   errorRate,
		"screenings":           atomic.LoadInt64(&m.ScreeningCount),
		"whatif_requests":      atomic.LoadInt64(&m.WhatIfCount),
		"csv_exports":          atomic.LoadInt64(&m.ExportCount),
		"scoring_timeouts":     atomic.LoadInt64(&m.TimeoutCount),
		"candidates_scored":    atomic.LoadInt64(&m.CandidatesScored),
		"candidates_excluded":  atomic.LoadInt64(&m.CandidatesExcluded),
		"fairness_audits":      atomic.LoadInt64(&m.FairnessAudits),
		"fairness_findings":    atomic.LoadInt64(&m.FairnessFindings),
		"rate_limit_ip_blocks": atomic.LoadInt64(&m.RateLimitIPBlocks),
		"avg_response_time_ms": float64(avgResponseTime) / 1000000,
		"start_time":           m.StartTime.Format(time.RFC3339),

		"p50_response_time_ms":     float64(m.GetPercentileResponseTime(50)) / 1000000,
		"p95_response_time_ms":     float64(m.GetPercentileResponseTime(95)) / 1000000,
		"p99_response_time_ms":     float64(m.GetPercentileResponseTime(99)) / 1000000,
		"status_code_distribution": m.GetStatusCodeDistribution(),
	}
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.RequestCount, 0)
	atomic.StoreInt64(&m.ErrorCount, 0)
	atomic.StoreInt64(&m.ScreeningCount, 0)
	atomic.StoreInt64(&m.WhatIfCount, 0)
	atomic.StoreInt64(&m.ExportCount, 0)
	atomic.StoreInt64(&m.TimeoutCount, 0)
	atomic.StoreInt64(&m.CandidatesScored, 0)
	atomic.StoreInt64(&m.CandidatesExcluded, 0)
	atomic.StoreInt64(&m.FairnessAudits, 0)
	atomic.StoreInt64(&m.FairnessFindings, 0)
	atomic.StoreInt64(&m.AverageResponseTime, 0)
	atomic.StoreInt64(&m.RateLimitIPBlocks, 0)

	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = m.ResponseTimes[:0]
	m.ResponseTimesMutex.Unlock()

	m.StatusMutex.Lock()
	m.RequestCountByStatus = make(map[int]int64)
	m.StatusMutex.Unlock()

	m.StartTime = time.Now()
}
