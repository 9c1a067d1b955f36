package planner

import (
	"github.com/pdrpinto/astarnav"
	"github.com/pdrpinto/astarnav/cost"
	"github.com/pdrpinto/astarnav/grid"
)

// gridGraph adapts an occupancy grid and cost model to astarnav.Graph.
type gridGraph struct {
	grid    *grid.Grid
	model   cost.Model
	heading float64
}

func (gg gridGraph) Neighbors(p, previous grid.Position, hasPrevious bool) []astarnav.Neighbor[grid.Position] {
	var prev *grid.Position
	if hasPrevious {
		prev = &previous
	}
	candidates := gg.grid.NeighborsOf(p, gg.model.Connectivity)
	out := make([]astarnav.Neighbor[grid.Position], 0, len(candidates))
	for _, c := range candidates {
		out = append(out, astarnav.Neighbor[grid.Position]{
			ID:   c,
			Cost: gg.model.EdgeCost(gg.grid, p, c, prev, gg.heading),
		})
	}
	return out
}
