package navigator

import (
	"context"
	"time"

	"github.com/pdrpinto/astarnav/grid"
	"github.com/pdrpinto/astarnav/planner"
)

// Controller is the robot the loop drives. Implementations own actuation and
// sensing; the loop only reads from them and hands them paths.
type Controller interface {
	// Position returns the cell the robot currently occupies.
	Position(ctx context.Context) (grid.Position, error)

	// Heading returns the robot heading in radians (0 along +col, pi/2 along +row).
	Heading(ctx context.Context) (float64, error)

	// OccupancyMap refreshes the map from the sensors and returns it. The
	// returned grid must not be modified afterwards.
	OccupancyMap(ctx context.Context) (*grid.Grid, error)

	// ExecutePath moves the robot along as much of path as is safe. It may stop
	// early when newly sensed obstacles block the remainder.
	ExecutePath(ctx context.Context, path []grid.Position) error

	// Stop ends the control session.
	Stop(ctx context.Context) error
}

// PathPlanner computes a path on a map snapshot. *planner.Planner implements it.
type PathPlanner interface {
	Plan(ctx context.Context, g *grid.Grid, start, goal grid.Position, heading float64) (*planner.Plan, error)
}

// Step is one replanning cycle as handed to a Recorder.
type Step struct {
	Session   string          `json:"session"`
	Iteration int             `json:"iteration"`
	Position  grid.Position   `json:"position"`
	Heading   float64         `json:"heading"`
	Path      []grid.Position `json:"path,omitempty"`
	Cost      float64         `json:"cost"`
	Expanded  int             `json:"expanded"`
	NoPath    bool            `json:"no_path,omitempty"`
	At        time.Time       `json:"at"`
}

// Recorder persists replanning cycles.
type Recorder interface {
	Record(ctx context.Context, step Step) error
}
