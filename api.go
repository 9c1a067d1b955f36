package astarnav

import (
	"container/heap"
	"context"
	"errors"

	"github.com/pdrpinto/astarnav/internal"
)

var (
	// ErrNoPath is returned when the fringe empties before the goal is reached.
	ErrNoPath = errors.New("no path found")

	// ErrExpansionLimit is returned when WithMaxExpansions stops the search.
	ErrExpansionLimit = errors.New("expansion limit reached")
)

// Graph is generic over node type N.
// N must be comparable so it can be used in maps.
//
// Neighbors receives the node being expanded together with the node it was
// reached from, so edge costs may depend on the incoming direction.
// hasPrevious is false only for the start node.
type Graph[NodeType comparable] interface {
	Neighbors(node NodeType, previous NodeType, hasPrevious bool) []Neighbor[NodeType]
}

// Neighbor represents a reachable node with a cost.
type Neighbor[NodeType comparable] struct {
	ID   NodeType
	Cost float64
}

// Heuristic returns the estimated cost from node a to node b
type Heuristic[NodeType comparable] func(from NodeType, to NodeType) float64

// Result contains the outcome of a search
type Result[NodeType comparable] struct {
	Path          []NodeType
	TotalCost     float64
	ExpandedNodes int
	Found         bool
}

// Options defines parameters for the search.
type Options[NodeType comparable] struct {
	MaxExpansions int
	TieBreak      TieBreak[NodeType]
}

// Option is a function that modifies Options.
type Option[NodeType comparable] func(*Options[NodeType])

// WithMaxExpansions stops the search with ErrExpansionLimit after n node
// expansions. Zero means unlimited.
func WithMaxExpansions[NodeType comparable](n int) Option[NodeType] {
	return func(options *Options[NodeType]) { options.MaxExpansions = n }
}

// WithTieBreak orders fringe entries of equal priority. Entries the comparator
// does not order are expanded in insertion order.
func WithTieBreak[NodeType comparable](less TieBreak[NodeType]) Option[NodeType] {
	return func(options *Options[NodeType]) { options.TieBreak = less }
}

// Search runs best-first search from startNode to goalNode.
//
// Each node is expanded at most once: the first time it is popped its
// predecessor and cost are fixed, and cheaper routes to it found later are
// ignored. With an admissible heuristic and costs no smaller than the
// heuristic's step estimate this yields an optimal path.
func Search[NodeType comparable](
	contextObject context.Context,
	graph Graph[NodeType],
	startNode NodeType,
	goalNode NodeType,
	heuristic Heuristic[NodeType],
	options ...Option[NodeType],
) (Result[NodeType], error) {
	state := newSearch(graph, startNode, goalNode, heuristic, options)
	for {
		if err := contextObject.Err(); err != nil {
			return state.result(), err
		}
		done, err := state.step()
		if err != nil {
			return state.result(), err
		}
		if done {
			return state.result(), nil
		}
	}
}

// search is the state machine shared by Search and Stepper.
type search[NodeType comparable] struct {
	graph     Graph[NodeType]
	goal      NodeType
	heuristic Heuristic[NodeType]
	options   Options[NodeType]

	fringe   Fringe[NodeType]
	closed   map[NodeType]internal.Link[NodeType]
	current  FringeEntry[NodeType]
	expanded int
	done     bool
	found    bool
}

func newSearch[NodeType comparable](
	graph Graph[NodeType],
	startNode NodeType,
	goalNode NodeType,
	heuristic Heuristic[NodeType],
	options []Option[NodeType],
) *search[NodeType] {
	var opts Options[NodeType]
	for _, option := range options {
		option(&opts)
	}
	s := &search[NodeType]{
		graph:     graph,
		goal:      goalNode,
		heuristic: heuristic,
		options:   opts,
		fringe:    Fringe[NodeType]{tieBreak: opts.TieBreak},
		closed:    make(map[NodeType]internal.Link[NodeType]),
		current: FringeEntry[NodeType]{
			Node:  startNode,
			FCost: heuristic(startNode, goalNode),
		},
	}
	heap.Init(&s.fringe)
	return s
}

// step expands the current node if it is not closed yet and pops the next one.
// It reports true once the goal has been reached.
func (s *search[NodeType]) step() (bool, error) {
	if s.done {
		return true, nil
	}
	current := s.current
	if current.Node == s.goal {
		s.close(current)
		s.done, s.found = true, true
		return true, nil
	}

	if _, closed := s.closed[current.Node]; !closed {
		if s.options.MaxExpansions > 0 && s.expanded >= s.options.MaxExpansions {
			s.done = true
			return true, ErrExpansionLimit
		}
		s.close(current)
		s.expanded++
		for _, neighbor := range s.graph.Neighbors(current.Node, current.Predecessor, current.HasPredecessor) {
			if _, closed := s.closed[neighbor.ID]; closed {
				continue
			}
			g := current.GScore + neighbor.Cost
			heap.Push(&s.fringe, &FringeEntry[NodeType]{
				Node:           neighbor.ID,
				Predecessor:    current.Node,
				HasPredecessor: true,
				GScore:         g,
				FCost:          g + s.heuristic(neighbor.ID, s.goal),
			})
		}
	}

	// entries for nodes closed after they were pushed are stale
	for s.fringe.Len() > 0 {
		next := heap.Pop(&s.fringe).(*FringeEntry[NodeType])
		if _, closed := s.closed[next.Node]; !closed {
			s.current = *next
			return false, nil
		}
	}
	s.done = true
	return true, ErrNoPath
}

func (s *search[NodeType]) close(entry FringeEntry[NodeType]) {
	s.closed[entry.Node] = internal.Link[NodeType]{
		Previous:    entry.Predecessor,
		HasPrevious: entry.HasPredecessor,
		Cost:        entry.GScore,
	}
}

func (s *search[NodeType]) result() Result[NodeType] {
	if !s.found {
		return Result[NodeType]{ExpandedNodes: s.expanded}
	}
	return Result[NodeType]{
		Path:          internal.ReconstructPath(s.closed, s.goal),
		TotalCost:     s.current.GScore,
		ExpandedNodes: s.expanded,
		Found:         true,
	}
}
