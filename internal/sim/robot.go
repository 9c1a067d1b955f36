// Package sim is a simulated robot: it hides a ground-truth world and reveals
// it through a square range sensor as the robot moves, so the navigator can be
// exercised against a map that is only partially known.
package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdrpinto/astarnav/cost"
	"github.com/pdrpinto/astarnav/grid"
)

var (
	// ErrStopped is returned by every call after Stop.
	ErrStopped = errors.New("sim: robot stopped")

	// ErrOffPath is returned when a path neither starts at nor contains the
	// robot's cell, or contains a jump between non-adjacent cells.
	ErrOffPath = errors.New("sim: path does not continue from robot position")
)

const (
	DefaultSensorRadius = 2
	DefaultStepsPerMove = 3
)

// Config describes a simulation.
type Config struct {
	World        *grid.Grid
	Start        grid.Position
	Heading      float64
	SensorRadius int
	StepsPerMove int
}

// Robot implements navigator.Controller over a simulated world.
type Robot struct {
	world        *grid.Grid
	known        *grid.Grid
	pos          grid.Position
	heading      float64
	sensorRadius int
	stepsPerMove int
	trajectory   []grid.Position
	executions   int
	stopped      bool
}

// New places a robot at cfg.Start with nothing known beyond its sensor range.
func New(cfg Config) (*Robot, error) {
	if cfg.World == nil {
		return nil, errors.New("sim: nil world")
	}
	if !cfg.World.IsTraversable(cfg.Start) {
		return nil, fmt.Errorf("sim: start %v is not a free cell", cfg.Start)
	}
	if cfg.SensorRadius <= 0 {
		cfg.SensorRadius = DefaultSensorRadius
	}
	if cfg.StepsPerMove <= 0 {
		cfg.StepsPerMove = DefaultStepsPerMove
	}
	r := &Robot{
		world:        cfg.World.Clone(),
		known:        grid.New(cfg.World.Rows(), cfg.World.Cols()),
		pos:          cfg.Start,
		heading:      cfg.Heading,
		sensorRadius: cfg.SensorRadius,
		stepsPerMove: cfg.StepsPerMove,
		trajectory:   []grid.Position{cfg.Start},
	}
	r.sense()
	return r, nil
}

func (r *Robot) Position(context.Context) (grid.Position, error) {
	if r.stopped {
		return grid.Position{}, ErrStopped
	}
	return r.pos, nil
}

func (r *Robot) Heading(context.Context) (float64, error) {
	if r.stopped {
		return 0, ErrStopped
	}
	return r.heading, nil
}

// OccupancyMap senses and returns a snapshot of the known map. Cells never
// observed are reported free.
func (r *Robot) OccupancyMap(context.Context) (*grid.Grid, error) {
	if r.stopped {
		return nil, ErrStopped
	}
	r.sense()
	return r.known.Clone(), nil
}

// ExecutePath advances along path from the robot's cell for at most
// StepsPerMove moves, stopping early in front of a cell known to be blocked.
func (r *Robot) ExecutePath(ctx context.Context, path []grid.Position) error {
	if r.stopped {
		return ErrStopped
	}
	r.executions++
	from := -1
	for i, p := range path {
		if p == r.pos {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("%w: robot at %v", ErrOffPath, r.pos)
	}

	for i, moved := from+1, 0; i < len(path) && moved < r.stepsPerMove; i, moved = i+1, moved+1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := path[i]
		if !grid.Eight.Adjacent(r.pos, next) {
			return fmt.Errorf("%w: %v -> %v", ErrOffPath, r.pos, next)
		}
		if !r.known.IsTraversable(next) {
			return nil
		}
		r.heading = cost.HeadingOf(cost.VectorOf(next.Sub(r.pos)))
		r.pos = next
		r.trajectory = append(r.trajectory, next)
		r.sense()
	}
	return nil
}

// Stop ends the session; it is idempotent.
func (r *Robot) Stop(context.Context) error {
	r.stopped = true
	return nil
}

// Stopped reports whether Stop has been called.
func (r *Robot) Stopped() bool { return r.stopped }

// Trajectory returns every cell the robot has occupied, in order.
func (r *Robot) Trajectory() []grid.Position {
	out := make([]grid.Position, len(r.trajectory))
	copy(out, r.trajectory)
	return out
}

// Executions returns how many paths the robot has been handed.
func (r *Robot) Executions() int { return r.executions }

// Known returns a snapshot of the known map without sensing.
func (r *Robot) Known() *grid.Grid { return r.known.Clone() }

func (r *Robot) sense() {
	for dr := -r.sensorRadius; dr <= r.sensorRadius; dr++ {
		for dc := -r.sensorRadius; dc <= r.sensorRadius; dc++ {
			p := r.pos.Add(grid.Offset{Row: dr, Col: dc})
			if r.world.InBounds(p) {
				r.known.Set(p, r.world.At(p))
			}
		}
	}
}
