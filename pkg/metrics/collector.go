package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	BooksAddedTotal           = "library.books.added.total"
	BooksBorrowedTotal        = "library.books.borrowed.total"
	BooksReturnedTotal        = "library.books.returned.total"
	BorrowersCreatedTotal     = "library.borrowers.created.total"
	LendingOutcomesTotal      = "library.lending.outcomes.total"
	BookOperationDuration     = "library.book.operation.duration"
	BorrowerOperationDuration = "library.borrower.operation.duration"
)

// Collector receives operation counters and timings. Implementations must be
// safe for concurrent use.
type Collector interface {
	IncrementCounter(ctx context.Context, name string, labels map[string]string)
	RecordDuration(ctx context.Context, name string, duration time.Duration, labels map[string]string)
}

// NoopCollector discards everything.
type NoopCollector struct{}

func (NoopCollector) IncrementCounter(context.Context, string, map[string]string) {}

func (NoopCollector) RecordDuration(context.Context, string, time.Duration, map[string]string) {}

// OTelCollector records into OpenTelemetry instruments, creating them the
// first time a name is seen. Durations are recorded in seconds.
type OTelCollector struct {
	meter metric.Meter

	mu         sync.Mutex
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
}

func NewOTelCollector(meter metric.Meter) *OTelCollector {
	return &OTelCollector{
		meter:      meter,
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
	}
}

func (c *OTelCollector) IncrementCounter(ctx context.Context, name string, labels map[string]string) {
	counter := c.counter(name)
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(toAttributes(labels)...))
}

func (c *OTelCollector) RecordDuration(ctx context.Context, name string, duration time.Duration, labels map[string]string) {
	histogram := c.histogram(name)
	if histogram == nil {
		return
	}
	histogram.Record(ctx, duration.Seconds(), metric.WithAttributes(toAttributes(labels)...))
}

func (c *OTelCollector) counter(name string) metric.Int64Counter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, ok := c.counters[name]; ok {
		return counter
	}
	counter, err := c.meter.Int64Counter(name)
	if err != nil {
		return nil
	}
	c.counters[name] = counter
	return counter
}

func (c *OTelCollector) histogram(name string) metric.Float64Histogram {
	c.mu.Lock()
	defer c.mu.Unlock()

	if histogram, ok := c.histograms[name]; ok {
		return histogram
	}
	histogram, err := c.meter.Float64Histogram(name, metric.WithUnit("s"))
	if err != nil {
		return nil
	}
	c.histograms[name] = histogram
	return histogram
}

func toAttributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}

// Since records the time elapsed from start under name. It's meant to be
// deferred at the top of an operation.
func Since(ctx context.Context, c Collector, name string, start time.Time, labels map[string]string) {
	c.RecordDuration(ctx, name, time.Since(start), labels)
}
