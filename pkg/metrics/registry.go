package metrics

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const meterName = "github.com/shishobooks/circulation"

// Registry owns the in-process meter provider and exposes what it has
// recorded as a Snapshot.
type Registry struct {
	provider  *sdkmetric.MeterProvider
	reader    *sdkmetric.ManualReader
	collector *OTelCollector
}

func NewRegistry() *Registry {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return &Registry{
		provider:  provider,
		reader:    reader,
		collector: NewOTelCollector(provider.Meter(meterName)),
	}
}

func (r *Registry) Collector() Collector {
	return r.collector
}

func (r *Registry) Shutdown(ctx context.Context) error {
	return errors.WithStack(r.provider.Shutdown(ctx))
}

type Snapshot struct {
	Metrics []Metric `json:"metrics"`
}

type Metric struct {
	Name   string  `json:"name"`
	Kind   string  `json:"kind"`
	Unit   string  `json:"unit,omitempty"`
	Points []Point `json:"points"`
}

// Point is one attribute combination of a metric. Counters fill Value;
// histograms fill Count and Sum.
type Point struct {
	Labels map[string]string `json:"labels"`
	Value  int64             `json:"value,omitempty"`
	Count  uint64            `json:"count,omitempty"`
	Sum    float64           `json:"sum,omitempty"`
}

const (
	KindCounter   = "counter"
	KindHistogram = "histogram"
)

// Snapshot collects the current cumulative state of every instrument,
// sorted by metric name.
func (r *Registry) Snapshot(ctx context.Context) (*Snapshot, error) {
	var rm metricdata.ResourceMetrics
	if err := r.reader.Collect(ctx, &rm); err != nil {
		return nil, errors.WithStack(err)
	}

	snapshot := &Snapshot{Metrics: []Metric{}}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				out := Metric{Name: m.Name, Kind: KindCounter, Unit: m.Unit}
				for _, dp := range data.DataPoints {
					out.Points = append(out.Points, Point{Labels: labels(dp.Attributes), Value: dp.Value})
				}
				snapshot.Metrics = append(snapshot.Metrics, out)
			case metricdata.Histogram[float64]:
				out := Metric{Name: m.Name, Kind: KindHistogram, Unit: m.Unit}
				for _, dp := range data.DataPoints {
					out.Points = append(out.Points, Point{Labels: labels(dp.Attributes), Count: dp.Count, Sum: dp.Sum})
				}
				snapshot.Metrics = append(snapshot.Metrics, out)
			}
		}
	}

	sort.Slice(snapshot.Metrics, func(i, j int) bool {
		return snapshot.Metrics[i].Name < snapshot.Metrics[j].Name
	})
	return snapshot, nil
}

// Find returns the metric with the given name, if it has been recorded.
func (s *Snapshot) Find(name string) (Metric, bool) {
	for _, m := range s.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// CounterValue sums the points of a counter whose labels include every
// entry of match.
func (s *Snapshot) CounterValue(name string, match map[string]string) int64 {
	m, ok := s.Find(name)
	if !ok {
		return 0
	}
	var total int64
	for _, p := range m.Points {
		if labelsMatch(p.Labels, match) {
			total += p.Value
		}
	}
	return total
}

func labelsMatch(labels, match map[string]string) bool {
	for k, v := range match {
		if labels[k] != v {
			return false
		}
	}
	return true
}

func labels(set attribute.Set) map[string]string {
	out := make(map[string]string, set.Len())
	for _, kv := range set.ToSlice() {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}
