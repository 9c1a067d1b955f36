// Package cost holds the heuristic and edge-cost model used by the planner.
//
// Two variants are provided. The baseline model moves on a 4-connected grid and
// charges the Euclidean step length. The augmented model moves on an 8-connected
// grid and adds a penalty for cells that hug obstacles and a penalty for turning
// relative to the previous move (or the robot heading on the first move).
package cost

import (
	"errors"
	"fmt"
	"math"

	"github.com/pdrpinto/astarnav/grid"
)

// ErrInvalidModel is returned by Validate.
var ErrInvalidModel = errors.New("invalid cost model")

// Variant selects the cost terms that apply.
type Variant string

const (
	VariantBaseline  Variant = "baseline"
	VariantAugmented Variant = "augmented"
)

// DefaultGoalThreshold is the distance at which the goal counts as reached.
const DefaultGoalThreshold = 1.0

// Model is the configuration surface of the cost model.
type Model struct {
	Variant        Variant
	Connectivity   grid.Connectivity
	DistanceWeight float64
	ObstacleWeight float64
	SteeringWeight float64
	GoalThreshold  float64
}

// Baseline returns the 4-connected, distance-only model.
func Baseline() Model {
	return Model{
		Variant:        VariantBaseline,
		Connectivity:   grid.Four,
		DistanceWeight: 1,
		ObstacleWeight: 1,
		SteeringWeight: 1,
		GoalThreshold:  DefaultGoalThreshold,
	}
}

// Augmented returns the 8-connected model with obstacle and steering penalties.
func Augmented() Model {
	return Model{
		Variant:        VariantAugmented,
		Connectivity:   grid.Eight,
		DistanceWeight: 1,
		ObstacleWeight: 1,
		SteeringWeight: 1,
		GoalThreshold:  DefaultGoalThreshold,
	}
}

// Validate checks that m is usable.
func (m Model) Validate() error {
	switch m.Variant {
	case VariantBaseline, VariantAugmented:
	default:
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidModel, m.Variant)
	}
	if !m.Connectivity.Valid() {
		return fmt.Errorf("%w: connectivity %v", ErrInvalidModel, m.Connectivity)
	}
	for name, w := range map[string]float64{
		"distance": m.DistanceWeight,
		"obstacle": m.ObstacleWeight,
		"steering": m.SteeringWeight,
	} {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: %s weight %v", ErrInvalidModel, name, w)
		}
	}
	if !(m.GoalThreshold > 0) {
		return fmt.Errorf("%w: goal threshold %v", ErrInvalidModel, m.GoalThreshold)
	}
	return nil
}

// ReachGoal applies the model's goal threshold.
func (m Model) ReachGoal(p, goal grid.Position) bool {
	return ReachGoal(p, goal, m.GoalThreshold)
}

// Heuristic is the straight-line distance to the goal.
func (m Model) Heuristic(from, to grid.Position) float64 { return Distance(from, to) }

// EdgeCost is the cost of moving from current to candidate. previous is the
// cell the robot came from to reach current, or nil at the start of a plan, in
// which case heading (radians) supplies the incoming direction.
func (m Model) EdgeCost(g *grid.Grid, current, candidate grid.Position, previous *grid.Position, heading float64) float64 {
	w := m.DistanceWeight * Distance(current, candidate)
	if m.Variant != VariantAugmented {
		return w
	}
	in := HeadingVector(heading)
	if previous != nil {
		in = VectorOf(current.Sub(*previous))
	}
	w += m.ObstacleWeight * ObstaclePenalty(g, candidate, m.Connectivity)
	w += m.SteeringWeight * SteeringPenalty(in, VectorOf(candidate.Sub(current)))
	return w
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b grid.Position) float64 {
	return math.Hypot(float64(a.Row-b.Row), float64(a.Col-b.Col))
}

// ReachGoal reports whether p is within threshold of goal.
func ReachGoal(p, goal grid.Position, threshold float64) bool {
	return Distance(p, goal) <= threshold
}

// ObstaclePenalty is the fraction of candidate's neighbors that are not
// traversable: 0 in open space, 1 when fully enclosed.
func ObstaclePenalty(g *grid.Grid, candidate grid.Position, conn grid.Connectivity) float64 {
	total := float64(len(conn.Offsets()))
	return (total - float64(g.FreeNeighborCount(candidate, conn))) / total
}
