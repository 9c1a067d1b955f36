package astarnav

import (
	"context"
	"errors"

	"github.com/pdrpinto/astarnav/internal"
)

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot[NodeType comparable] struct {
	Current   NodeType
	GScore    float64
	Open      map[NodeType]bool
	Closed    map[NodeType]bool
	CameFrom  map[NodeType]NodeType
	Done      bool
	Found     bool
	Path      []NodeType
	StepIndex int
}

// Stepper runs the same search as Search one expansion at a time, for
// visualizers and debugging tools.
type Stepper[NodeType comparable] struct {
	ctx       context.Context
	state     *search[NodeType]
	stepCount int
}

// NewStepper prepares a search from startNode to goalNode without running it.
func NewStepper[NodeType comparable](
	ctx context.Context,
	graph Graph[NodeType],
	startNode NodeType,
	goalNode NodeType,
	heuristic Heuristic[NodeType],
	options ...Option[NodeType],
) *Stepper[NodeType] {
	return &Stepper[NodeType]{
		ctx:   ctx,
		state: newSearch(graph, startNode, goalNode, heuristic, options),
	}
}

// Step advances the search by one node expansion and returns a snapshot.
// An exhausted fringe ends the search with Done set and Found unset; the
// error is reserved for cancellation and the expansion limit.
func (s *Stepper[NodeType]) Step() (StepSnapshot[NodeType], error) {
	if s.state.done {
		return s.snapshot(s.state.current.Node), nil
	}
	if err := s.ctx.Err(); err != nil {
		s.state.done = true
		return s.snapshot(s.state.current.Node), err
	}

	s.stepCount++
	expanded := s.state.current.Node
	_, err := s.state.step()
	if err != nil && !errors.Is(err, ErrNoPath) {
		return s.snapshot(expanded), err
	}
	return s.snapshot(expanded), nil
}

// Result returns what Search would have returned had it stopped here.
func (s *Stepper[NodeType]) Result() Result[NodeType] {
	return s.state.result()
}

func (s *Stepper[NodeType]) snapshot(current NodeType) StepSnapshot[NodeType] {
	snap := StepSnapshot[NodeType]{
		Current:   current,
		Open:      s.openSetToBoolMap(),
		Closed:    make(map[NodeType]bool, len(s.state.closed)),
		CameFrom:  make(map[NodeType]NodeType, len(s.state.closed)),
		Done:      s.state.done,
		Found:     s.state.found,
		StepIndex: s.stepCount,
	}
	if link, ok := s.state.closed[current]; ok {
		snap.GScore = link.Cost
	}
	for node, link := range s.state.closed {
		snap.Closed[node] = true
		if link.HasPrevious {
			snap.CameFrom[node] = link.Previous
		}
	}
	if s.state.found {
		snap.Path = internal.ReconstructPath(s.state.closed, s.state.goal)
	}
	return snap
}

func (s *Stepper[NodeType]) openSetToBoolMap() map[NodeType]bool {
	m := make(map[NodeType]bool, s.state.fringe.Len())
	for _, entry := range s.state.fringe.items {
		if _, closed := s.state.closed[entry.Node]; !closed {
			m[entry.Node] = true
		}
	}
	if !s.state.done {
		m[s.state.current.Node] = true
	}
	return m
}
