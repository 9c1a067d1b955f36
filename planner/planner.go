// Package planner runs grid path searches for a robot: it validates the
// request, binds the occupancy grid and cost model to the search engine, and
// reports the outcome with structured errors, logs, spans and metrics.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/pdrpinto/astarnav"
	"github.com/pdrpinto/astarnav/cost"
	"github.com/pdrpinto/astarnav/grid"
)

const instrumentationName = "github.com/pdrpinto/astarnav/planner"

// Plan is a path from start to goal together with its cost under the model
// that produced it.
type Plan struct {
	Path     []grid.Position
	Cost     float64
	Expanded int
	Duration time.Duration
}

// Steps returns the number of moves in the plan.
func (p *Plan) Steps() int {
	if len(p.Path) == 0 {
		return 0
	}
	return len(p.Path) - 1
}

// Valid reports whether every cell of the path is traversable on g and every
// hop is a single move under conn.
func (p *Plan) Valid(g *grid.Grid, conn grid.Connectivity) bool {
	for i, pos := range p.Path {
		if !g.IsTraversable(pos) {
			return false
		}
		if i > 0 && !conn.Adjacent(p.Path[i-1], pos) {
			return false
		}
	}
	return len(p.Path) > 0
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) { p.logger = logger }
}

// WithTracer sets the tracer used for the planner.plan span.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Planner) { p.tracer = tracer }
}

// WithMeter sets the meter the planner records its instruments on.
func WithMeter(meter metric.Meter) Option {
	return func(p *Planner) { p.meter = meter }
}

// WithMaxExpansions caps the nodes a single call may expand. Zero means no cap.
func WithMaxExpansions(n int) Option {
	return func(p *Planner) { p.maxExpansions = n }
}

// Planner plans paths under a fixed cost model. It holds no per-call state and
// may be reused for every replanning cycle.
type Planner struct {
	model         cost.Model
	logger        *slog.Logger
	tracer        trace.Tracer
	meter         metric.Meter
	metrics       *plannerMetrics
	maxExpansions int
}

// New returns a planner for model.
func New(model cost.Model, opts ...Option) (*Planner, error) {
	if err := model.Validate(); err != nil {
		return nil, &Error{Op: "planner.New", Kind: KindValidation, Err: err}
	}
	p := &Planner{
		model:  model,
		logger: slog.Default(),
		tracer: tracenoop.NewTracerProvider().Tracer(instrumentationName),
		meter:  metricnoop.NewMeterProvider().Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxExpansions < 0 {
		return nil, &Error{Op: "planner.New", Kind: KindValidation, Err: fmt.Errorf("negative expansion cap %d", p.maxExpansions)}
	}
	m, err := newPlannerMetrics(p.meter)
	if err != nil {
		return nil, err
	}
	p.metrics = m
	return p, nil
}

// NewBaseline returns a planner using cost.Baseline().
func NewBaseline(opts ...Option) (*Planner, error) { return New(cost.Baseline(), opts...) }

// NewAugmented returns a planner using cost.Augmented().
func NewAugmented(opts ...Option) (*Planner, error) { return New(cost.Augmented(), opts...) }

// Model returns the planner's cost model.
func (p *Planner) Model() cost.Model { return p.model }

// Plan searches g for a path from start to goal. heading is the robot's
// current heading in radians; only the augmented model uses it, as the
// incoming direction of the first move.
//
// g must not be modified until Plan returns.
func (p *Planner) Plan(ctx context.Context, g *grid.Grid, start, goal grid.Position, heading float64) (*Plan, error) {
	const op = "Planner.Plan"
	ctx, span := p.tracer.Start(ctx, "planner.plan")
	defer span.End()
	span.SetAttributes(
		attribute.String("planner.variant", string(p.model.Variant)),
		attribute.String("planner.start", start.String()),
		attribute.String("planner.goal", goal.String()),
	)

	if err := p.validate(g, start, goal); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")
		p.metrics.record(ctx, string(p.model.Variant), KindValidation, 0, 0)
		return nil, &Error{Op: op, Kind: KindValidation, Err: err}
	}

	began := time.Now()
	graph := gridGraph{grid: g, model: p.model, heading: heading}
	res, err := astarnav.Search[grid.Position](ctx, graph, start, goal, p.model.Heuristic, p.searchOptions()...)
	elapsed := time.Since(began)
	span.SetAttributes(attribute.Int("planner.expanded", res.ExpandedNodes))

	if err != nil {
		kind := KindNoPath
		switch {
		case errors.Is(err, astarnav.ErrExpansionLimit):
			kind = KindLimit
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			kind = KindCanceled
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		p.metrics.record(ctx, string(p.model.Variant), kind, res.ExpandedNodes, elapsed)
		p.logger.Debug("planning failed",
			"component", "planner",
			"variant", p.model.Variant,
			"start", start.String(),
			"goal", goal.String(),
			"kind", kind,
			"expanded", res.ExpandedNodes,
		)
		return nil, &Error{Op: op, Kind: kind, Err: err}
	}

	plan := &Plan{
		Path:     res.Path,
		Cost:     res.TotalCost,
		Expanded: res.ExpandedNodes,
		Duration: elapsed,
	}
	span.SetAttributes(
		attribute.Float64("planner.cost", plan.Cost),
		attribute.Int("planner.steps", plan.Steps()),
	)
	span.SetStatus(codes.Ok, "")
	p.metrics.record(ctx, string(p.model.Variant), "found", plan.Expanded, elapsed)
	p.logger.Debug("path planned",
		"component", "planner",
		"variant", p.model.Variant,
		"start", start.String(),
		"goal", goal.String(),
		"steps", plan.Steps(),
		"cost", plan.Cost,
		"expanded", plan.Expanded,
		"duration", elapsed,
	)
	return plan, nil
}

// Stepper prepares the search Plan would run without running it, so callers
// can watch the fringe and closed set evolve one expansion at a time.
func (p *Planner) Stepper(ctx context.Context, g *grid.Grid, start, goal grid.Position, heading float64) (*astarnav.Stepper[grid.Position], error) {
	if err := p.validate(g, start, goal); err != nil {
		return nil, &Error{Op: "Planner.Stepper", Kind: KindValidation, Err: err}
	}
	graph := gridGraph{grid: g, model: p.model, heading: heading}
	return astarnav.NewStepper[grid.Position](ctx, graph, start, goal, p.model.Heuristic, p.searchOptions()...), nil
}

func (p *Planner) searchOptions() []astarnav.Option[grid.Position] {
	opts := []astarnav.Option[grid.Position]{
		astarnav.WithTieBreak[grid.Position](grid.Position.Less),
	}
	if p.maxExpansions > 0 {
		opts = append(opts, astarnav.WithMaxExpansions[grid.Position](p.maxExpansions))
	}
	return opts
}

func (p *Planner) validate(g *grid.Grid, start, goal grid.Position) error {
	if g == nil {
		return fmt.Errorf("%w: no occupancy grid", ErrInvalidPosition)
	}
	for _, c := range []struct {
		name string
		pos  grid.Position
	}{{"start", start}, {"goal", goal}} {
		if !g.InBounds(c.pos) {
			return fmt.Errorf("%w: %s %v outside %dx%d grid", ErrInvalidPosition, c.name, c.pos, g.Rows(), g.Cols())
		}
		if !g.IsTraversable(c.pos) {
			return fmt.Errorf("%w: %s %v is blocked", ErrInvalidPosition, c.name, c.pos)
		}
	}
	return nil
}
