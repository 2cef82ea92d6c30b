package cardgate

import (
	"sync/atomic"
	"time"
)

// MetricID indexes a registry counter.
type MetricID uint16

const (
	// MetricCardPut counts every Put, overwrites included.
	MetricCardPut MetricID = iota
	// MetricCardOverwrite counts Puts that replaced an existing entry.
	MetricCardOverwrite
	// MetricCardUnbind counts successful Unbind removals.
	MetricCardUnbind
	// MetricBackendReadSuccess counts backend reads that produced a card.
	MetricBackendReadSuccess
	// MetricBackendReadFailure counts backend reads that failed.
	MetricBackendReadFailure
	// MetricBackendWriteSuccess counts backend writes that completed.
	MetricBackendWriteSuccess
	// MetricBackendWriteFailure counts backend writes that failed.
	MetricBackendWriteFailure
	// MetricSenseProbe counts Sense probes issued through the registry.
	MetricSenseProbe
	// MetricTokenIssued counts signed card grants issued.
	MetricTokenIssued
	// MetricTokenRejected counts grant verifications that failed.
	MetricTokenRejected
	// MetricSyncLatency is the backend read latency histogram.
	MetricSyncLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

// paddedCounter keeps hot counters on separate cache lines.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is the in-process counter set. All methods are safe for concurrent
// use and are no-ops on a nil or disabled receiver, so call sites never need
// to branch on configuration.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters and histograms.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id != MetricSyncLatency {
		return
	}
	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricSyncLatency].buckets[i])
		}
		s.Histograms[MetricSyncLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
