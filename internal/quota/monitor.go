// Package quota measures how much of the fixed storage budget the durable
// buckets consume and classifies usage into UI bands.
package quota

import (
	"context"
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"

	"refcore/pkg/domain"
)

// Capacity is the fixed storage budget in bytes. It is a constant by
// convention, not introspected from the backing store.
const Capacity = 5 * 1024 * 1024

// RecordCountNA marks a bucket whose value is not a JSON array.
const RecordCountNA = -1

// Band classifies quota usage for display.
type Band string

// Usage bands. Boundaries are exact: below 50 percent is ok, 50 through 80
// inclusive is warning, above 80 is critical.
const (
	BandOK       Band = "ok"
	BandWarning  Band = "warning"
	BandCritical Band = "critical"
)

// Classify maps a usage percentage to its band.
func Classify(percentage float64) Band {
	switch {
	case percentage < 50:
		return BandOK
	case percentage <= 80:
		return BandWarning
	default:
		return BandCritical
	}
}

// Item reports one stored bucket.
type Item struct {
	Key         string `json:"key"`
	SizeBytes   int    `json:"sizeBytes"`
	RecordCount int    `json:"recordCount"` // RecordCountNA when not an array
}

// Report is one full scan of the store.
type Report struct {
	UsedBytes  int     `json:"usedBytes"`
	Items      []Item  `json:"items"`
	Percentage float64 `json:"percentage"`
	Band       Band    `json:"band"`
}

// Monitor scans a persistent store and optionally publishes gauges.
type Monitor struct {
	store      domain.PersistentStore
	usedBytes  prometheus.Gauge
	percentage prometheus.Gauge
	bucketSize *prometheus.GaugeVec
}

// NewMonitor constructs a monitor over the store. When reg is non-nil the
// monitor registers and maintains prometheus gauges for used bytes,
// percentage and per-bucket sizes, refreshed on every Scan.
func NewMonitor(store domain.PersistentStore, reg prometheus.Registerer) (*Monitor, error) {
	m := &Monitor{store: store}
	if reg != nil {
		m.usedBytes = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "refcore", Subsystem: "quota", Name: "used_bytes",
			Help: "Serialized bytes across all buckets.",
		})
		m.percentage = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "refcore", Subsystem: "quota", Name: "used_percent",
			Help: "Quota usage as a percentage of the fixed capacity.",
		})
		m.bucketSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "refcore", Subsystem: "quota", Name: "bucket_bytes",
			Help: "Serialized bytes per bucket.",
		}, []string{"bucket"})
		for _, c := range []prometheus.Collector{m.usedBytes, m.percentage, m.bucketSize} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Scan measures every present bucket. Size is the byte length of the bucket's
// serialized text value; record count is the decoded array length when the
// value is a JSON array.
func (m *Monitor) Scan() (Report, error) {
	buckets, err := m.store.ExportBuckets()
	if err != nil {
		return Report{}, err
	}
	report := Report{}
	for _, key := range bucketOrder() {
		payload, ok := buckets[key]
		if !ok {
			continue
		}
		item := Item{Key: key, SizeBytes: len(payload), RecordCount: RecordCountNA}
		var records []json.RawMessage
		if err := json.Unmarshal(payload, &records); err == nil {
			item.RecordCount = len(records)
		}
		report.UsedBytes += item.SizeBytes
		report.Items = append(report.Items, item)
	}
	report.Percentage = float64(report.UsedBytes) / float64(Capacity) * 100
	report.Band = Classify(report.Percentage)
	m.publish(report)
	return report, nil
}

func (m *Monitor) publish(report Report) {
	if m.usedBytes == nil {
		return
	}
	m.usedBytes.Set(float64(report.UsedBytes))
	m.percentage.Set(report.Percentage)
	m.bucketSize.Reset()
	for _, item := range report.Items {
		m.bucketSize.WithLabelValues(item.Key).Set(float64(item.SizeBytes))
	}
}

// ClearKey removes every record from the named bucket. Destructive and
// irreversible; callers confirm first.
func (m *Monitor) ClearKey(ctx context.Context, key string) error {
	_, err := m.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.ClearBucket(key)
	})
	return err
}

// ClearAll empties every bucket, session included.
func (m *Monitor) ClearAll(ctx context.Context) error {
	_, err := m.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		for _, key := range bucketOrder() {
			if err := tx.ClearBucket(key); err != nil {
				return err
			}
		}
		return nil
	})
	return err
}

func bucketOrder() []string {
	return append(domain.CollectionBuckets(), domain.BucketCurrentUser)
}
