// FILE: lixenwraith/sinklog/metrics.go
package log

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names
const (
	metricNameQueued          = "sinklog.pool.queued"
	metricNameCapacity        = "sinklog.pool.capacity"
	metricNameProcessed       = "sinklog.pool.processed"
	metricNameDropped         = "sinklog.pool.dropped"
	metricNameOverrun         = "sinklog.pool.overrun"
	metricNameBlockedTimeouts = "sinklog.pool.blocked_timeouts"
)

// RegisterPoolMetrics exposes the counters of p as observable instruments
// on meterProvider, labelled with pool=name. The returned registration
// stops the observation when unregistered. A nil provider registers nothing.
func RegisterPoolMetrics(meterProvider metric.MeterProvider, name string, p *Pool) (metric.Registration, error) {
	if meterProvider == nil {
		return nil, nil
	}

	meter := meterProvider.Meter("github.com/lixenwraith/sinklog")

	queued, err := meter.Int64ObservableGauge(
		metricNameQueued,
		metric.WithDescription("Records waiting in the pool queue"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}
	capacity, err := meter.Int64ObservableGauge(
		metricNameCapacity,
		metric.WithDescription("Fixed capacity of the pool queue"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}
	processed, err := meter.Int64ObservableCounter(
		metricNameProcessed,
		metric.WithDescription("Records dispatched by pool workers"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}
	dropped, err := meter.Int64ObservableCounter(
		metricNameDropped,
		metric.WithDescription("Records rejected by the discard-new policy"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}
	overrun, err := meter.Int64ObservableCounter(
		metricNameOverrun,
		metric.WithDescription("Records evicted by the discard-oldest policy"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}
	timeouts, err := meter.Int64ObservableCounter(
		metricNameBlockedTimeouts,
		metric.WithDescription("Blocking enqueues that gave up after the block timeout"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	attrs := metric.WithAttributes(attribute.String("pool", name))
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := p.Stats()
		o.ObserveInt64(queued, int64(stats.Queued), attrs)
		o.ObserveInt64(capacity, int64(stats.Capacity), attrs)
		o.ObserveInt64(processed, int64(stats.Processed), attrs)
		o.ObserveInt64(dropped, int64(stats.Dropped), attrs)
		o.ObserveInt64(overrun, int64(stats.Overrun), attrs)
		o.ObserveInt64(timeouts, int64(stats.BlockedTimeouts), attrs)
		return nil
	}, queued, capacity, processed, dropped, overrun, timeouts)
}
