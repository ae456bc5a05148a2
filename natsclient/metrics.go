package natsclient

import (
	"context"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
)

// kvMetrics tracks KV bucket state on a poll interval, rather than on every
// Put/Create/Watch call — polling bucket status is cheap relative to the
// update rate, and per-call metrics would outweigh the values they
// describe. Grounded on the same poll-and-snapshot shape a JetStream stream
// metrics tracker would use, narrowed to the one JetStream surface NATSCore
// actually exercises: KV buckets, not streams or consumers.
type kvMetrics struct {
	errors        *prometheus.CounterVec
	bucketEntries *prometheus.GaugeVec

	mu      sync.Mutex
	buckets map[string]jetstream.KeyValue
}

func newKVMetrics() *kvMetrics {
	return &kvMetrics{
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "federate",
				Subsystem: "nats_kv",
				Name:      "operation_errors_total",
				Help:      "KV operations (put, create, watch) that returned an error.",
			},
			[]string{"operation"},
		),
		bucketEntries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "federate",
				Subsystem: "nats_kv",
				Name:      "bucket_entries",
				Help:      "Entry count of a tracked KV bucket, as of the last poll.",
			},
			[]string{"bucket"},
		),
		buckets: make(map[string]jetstream.KeyValue),
	}
}

// recordError and trackBucket are nil-receiver-safe, and every call site
// invokes these unconditionally. NewClient always allocates kvMetrics.

func (km *kvMetrics) recordError(operation string) {
	if km == nil {
		return
	}
	km.errors.WithLabelValues(operation).Inc()
}

func (km *kvMetrics) trackBucket(bucket jetstream.KeyValue) {
	if km == nil || bucket == nil {
		return
	}
	km.mu.Lock()
	defer km.mu.Unlock()
	km.buckets[bucket.Bucket()] = bucket
}

// startPoller polls every tracked bucket's status on interval until ctx is
// cancelled or the returned CancelFunc is called.
func (km *kvMetrics) startPoller(ctx context.Context, interval time.Duration) context.CancelFunc {
	if km == nil {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				km.poll(ctx)
			}
		}
	}()
	return cancel
}

func (km *kvMetrics) poll(ctx context.Context) {
	km.mu.Lock()
	buckets := make(map[string]jetstream.KeyValue, len(km.buckets))
	for name, b := range km.buckets {
		buckets[name] = b
	}
	km.mu.Unlock()

	for name, bucket := range buckets {
		status, err := bucket.Status(ctx)
		if err != nil {
			km.recordError("bucket_status")
			continue
		}
		km.bucketEntries.WithLabelValues(name).Set(float64(status.Values()))
	}
}

// Collectors exposes the underlying Prometheus collectors so callers can
// register them into an external registry (metric.MetricsRegistry), instead
// of this package registering into the global default registry and risking
// a duplicate-registration panic across more than one Client.
func (km *kvMetrics) Collectors() []prometheus.Collector {
	if km == nil {
		return nil
	}
	return []prometheus.Collector{km.errors, km.bucketEntries}
}

// KVMetricsCollectors exposes m's KV-bucket collectors for registration
// into an external Prometheus registry.
func (m *Client) KVMetricsCollectors() []prometheus.Collector {
	return m.kvMetrics.Collectors()
}

// StartKVMetricsPolling begins polling every bucket tracked via NewKVStore
// on interval, returning a CancelFunc that stops it. Call it once after
// Connect if bucket-level metrics are wanted.
func (m *Client) StartKVMetricsPolling(ctx context.Context, interval time.Duration) context.CancelFunc {
	return m.kvMetrics.startPoller(ctx, interval)
}
