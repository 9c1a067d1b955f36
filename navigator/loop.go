// Package navigator drives a robot to a goal by repeatedly planning on the
// latest occupancy map, executing part of the plan, and sensing again.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pdrpinto/astarnav/cost"
	"github.com/pdrpinto/astarnav/grid"
	"github.com/pdrpinto/astarnav/planner"
)

var (
	// ErrGoalUnreachable is returned when planning keeps failing for more
	// consecutive cycles than WithMaxNoPath allows.
	ErrGoalUnreachable = errors.New("goal unreachable")

	// ErrIterationLimit is returned when the goal is not reached within
	// WithMaxIterations cycles.
	ErrIterationLimit = errors.New("iteration limit reached")
)

const (
	DefaultMaxIterations = 10000
	DefaultMaxNoPath     = 50
)

// Outcome summarizes a Run.
type Outcome struct {
	Session       string
	Reached       bool
	Iterations    int
	Replans       int
	NoPathRetries int
	Final         grid.Position
	Distance      float64
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithRecorder records every cycle. Recorder failures are logged, not fatal.
func WithRecorder(r Recorder) Option {
	return func(l *Loop) { l.recorder = r }
}

// WithMaxIterations caps the planning cycles of one Run. Zero removes the cap.
func WithMaxIterations(n int) Option {
	return func(l *Loop) { l.maxIterations = n }
}

// WithMaxNoPath sets how many consecutive unreachable plans are tolerated
// before Run gives up with ErrGoalUnreachable. Zero retries forever.
func WithMaxNoPath(n int) Option {
	return func(l *Loop) { l.maxNoPath = n }
}

// WithRetryDelay waits between an unreachable plan and the next map refresh.
func WithRetryDelay(d time.Duration) Option {
	return func(l *Loop) { l.retryDelay = d }
}

// WithGoalThreshold sets the distance at which the goal counts as reached.
func WithGoalThreshold(threshold float64) Option {
	return func(l *Loop) { l.goalThreshold = threshold }
}

// Loop is the plan, execute, sense cycle for one robot and one goal.
type Loop struct {
	controller    Controller
	planner       PathPlanner
	goal          grid.Position
	logger        *slog.Logger
	recorder      Recorder
	maxIterations int
	maxNoPath     int
	retryDelay    time.Duration
	goalThreshold float64
}

// New returns a loop steering controller to goal with p.
func New(controller Controller, p PathPlanner, goal grid.Position, opts ...Option) (*Loop, error) {
	if controller == nil {
		return nil, errors.New("navigator: nil controller")
	}
	if p == nil {
		return nil, errors.New("navigator: nil planner")
	}
	l := &Loop{
		controller:    controller,
		planner:       p,
		goal:          goal,
		logger:        slog.Default(),
		maxIterations: DefaultMaxIterations,
		maxNoPath:     DefaultMaxNoPath,
		goalThreshold: cost.DefaultGoalThreshold,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.maxIterations < 0 || l.maxNoPath < 0 || l.retryDelay < 0 || !(l.goalThreshold > 0) {
		return nil, fmt.Errorf("navigator: invalid options (iterations %d, no-path %d, delay %v, threshold %v)",
			l.maxIterations, l.maxNoPath, l.retryDelay, l.goalThreshold)
	}
	return l, nil
}

// Goal returns the target cell.
func (l *Loop) Goal() grid.Position { return l.goal }

// Run drives the robot until it is within the goal threshold. An unreachable
// goal is retried on refreshed maps; invalid positions and controller failures
// end the run immediately. The controller is stopped before Run returns.
func (l *Loop) Run(ctx context.Context) (out Outcome, err error) {
	out.Session = uuid.NewString()
	logger := l.logger.With("component", "navigator", "session", out.Session)

	defer func() {
		if stopErr := l.controller.Stop(context.WithoutCancel(ctx)); stopErr != nil {
			logger.Warn("failed to stop controller", "error", stopErr)
			if err == nil {
				err = fmt.Errorf("stop controller: %w", stopErr)
			}
		}
	}()

	pos, m, err := l.sense(ctx)
	if err != nil {
		return out, err
	}
	logger.Info("navigation started", "start", pos.String(), "goal", l.goal.String())

	noPath := 0
	for {
		out.Final = pos
		out.Distance = cost.Distance(pos, l.goal)
		if cost.ReachGoal(pos, l.goal, l.goalThreshold) {
			out.Reached = true
			logger.Info("goal reached",
				"position", pos.String(),
				"iterations", out.Iterations,
				"replans", out.Replans,
			)
			return out, nil
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if l.maxIterations > 0 && out.Iterations >= l.maxIterations {
			logger.Error("iteration limit reached", "iterations", out.Iterations, "distance", out.Distance)
			return out, fmt.Errorf("%w: %d cycles, %.2f from goal", ErrIterationLimit, out.Iterations, out.Distance)
		}
		out.Iterations++

		heading, err := l.controller.Heading(ctx)
		if err != nil {
			return out, fmt.Errorf("read heading: %w", err)
		}

		step := Step{Session: out.Session, Iteration: out.Iterations, Position: pos, Heading: heading}
		plan, err := l.planner.Plan(ctx, m, pos, l.goal, heading)
		switch {
		case errors.Is(err, planner.ErrNoPath):
			noPath++
			out.NoPathRetries++
			step.NoPath = true
			l.record(ctx, logger, step)
			logger.Warn("no path on current map, waiting for more sensing",
				"position", pos.String(),
				"attempt", noPath,
			)
			if l.maxNoPath > 0 && noPath > l.maxNoPath {
				return out, fmt.Errorf("%w: no path from %v after %d attempts", ErrGoalUnreachable, pos, noPath)
			}
			if err := l.wait(ctx); err != nil {
				return out, err
			}
		case err != nil:
			return out, fmt.Errorf("plan from %v: %w", pos, err)
		default:
			noPath = 0
			out.Replans++
			step.Path, step.Cost, step.Expanded = plan.Path, plan.Cost, plan.Expanded
			l.record(ctx, logger, step)
			logger.Debug("executing plan",
				"position", pos.String(),
				"steps", plan.Steps(),
				"cost", plan.Cost,
				"expanded", plan.Expanded,
			)
			if err := l.controller.ExecutePath(ctx, plan.Path); err != nil {
				return out, fmt.Errorf("execute path: %w", err)
			}
		}

		if pos, m, err = l.sense(ctx); err != nil {
			return out, err
		}
	}
}

func (l *Loop) sense(ctx context.Context) (grid.Position, *grid.Grid, error) {
	pos, err := l.controller.Position(ctx)
	if err != nil {
		return grid.Position{}, nil, fmt.Errorf("read position: %w", err)
	}
	m, err := l.controller.OccupancyMap(ctx)
	if err != nil {
		return grid.Position{}, nil, fmt.Errorf("read occupancy map: %w", err)
	}
	return pos, m, nil
}

func (l *Loop) record(ctx context.Context, logger *slog.Logger, step Step) {
	if l.recorder == nil {
		return
	}
	step.At = time.Now()
	if err := l.recorder.Record(ctx, step); err != nil {
		logger.Warn("failed to record step", "error", err, "iteration", step.Iteration)
	}
}

func (l *Loop) wait(ctx context.Context) error {
	if l.retryDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(l.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
