package planner

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// plannerMetrics holds the instruments recorded once per Plan call.
type plannerMetrics struct {
	plans    metric.Int64Counter
	expanded metric.Int64Histogram
	duration metric.Float64Histogram
}

func newPlannerMetrics(meter metric.Meter) (*plannerMetrics, error) {
	m := &plannerMetrics{}
	var err error

	m.plans, err = meter.Int64Counter(
		"planner.plans",
		metric.WithDescription("Number of planning calls by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create plans counter: %w", err)
	}

	m.expanded, err = meter.Int64Histogram(
		"planner.expanded_nodes",
		metric.WithDescription("Nodes expanded per planning call"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create expanded histogram: %w", err)
	}

	m.duration, err = meter.Float64Histogram(
		"planner.duration",
		metric.WithDescription("Planning call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return m, nil
}

func (m *plannerMetrics) record(ctx context.Context, variant, outcome string, expanded int, elapsed time.Duration) {
	opts := metric.WithAttributes(
		attribute.String("planner.variant", variant),
		attribute.String("planner.outcome", outcome),
	)
	m.plans.Add(ctx, 1, opts)
	m.expanded.Record(ctx, int64(expanded), opts)
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, opts)
}
