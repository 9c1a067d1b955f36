package astarnav

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edge struct {
	to   string
	cost float64
}

// mapGraph is a directed graph that records the predecessor passed with every expansion.
type mapGraph struct {
	edges map[string][]edge
	seen  map[string]string
}

func (g *mapGraph) Neighbors(node, previous string, hasPrevious bool) []Neighbor[string] {
	if g.seen != nil {
		if hasPrevious {
			g.seen[node] = previous
		} else {
			g.seen[node] = "<start>"
		}
	}
	out := make([]Neighbor[string], 0, len(g.edges[node]))
	for _, e := range g.edges[node] {
		out = append(out, Neighbor[string]{ID: e.to, Cost: e.cost})
	}
	return out
}

func table(h map[string]float64) Heuristic[string] {
	return func(from, _ string) float64 { return h[from] }
}

func zero(string, string) float64 { return 0 }

func TestSearchStartIsGoal(t *testing.T) {
	g := &mapGraph{edges: map[string][]edge{}}
	res, err := Search[string](context.Background(), g, "S", "S", zero)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, []string{"S"}, res.Path)
	assert.Equal(t, 0.0, res.TotalCost)
	assert.Equal(t, 0, res.ExpandedNodes)
}

func TestSearchShortestPath(t *testing.T) {
	g := &mapGraph{
		edges: map[string][]edge{
			"S": {{"A", 1}, {"B", 4}},
			"A": {{"B", 1}, {"G", 6}},
			"B": {{"G", 2}},
		},
		seen: map[string]string{},
	}
	res, err := Search[string](context.Background(), g, "S", "G", zero)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, []string{"S", "A", "B", "G"}, res.Path)
	assert.Equal(t, 4.0, res.TotalCost)
	assert.Equal(t, map[string]string{"S": "<start>", "A": "S", "B": "A"}, g.seen)
}

func TestSearchNoPath(t *testing.T) {
	g := &mapGraph{edges: map[string][]edge{
		"S": {{"A", 1}},
		"A": {{"S", 1}},
	}}
	res, err := Search[string](context.Background(), g, "S", "G", zero)
	require.ErrorIs(t, err, ErrNoPath)
	assert.False(t, res.Found)
	assert.Nil(t, res.Path)
	assert.Equal(t, 2, res.ExpandedNodes)
}

func TestSearchCanceled(t *testing.T) {
	g := &mapGraph{edges: map[string][]edge{"S": {{"G", 1}}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Search[string](ctx, g, "S", "G", zero)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchExpansionLimit(t *testing.T) {
	g := &mapGraph{edges: map[string][]edge{
		"S": {{"A", 1}},
		"A": {{"B", 1}},
		"B": {{"G", 1}},
	}}
	_, err := Search[string](context.Background(), g, "S", "G", zero, WithMaxExpansions[string](2))
	assert.ErrorIs(t, err, ErrExpansionLimit)

	res, err := Search[string](context.Background(), g, "S", "G", zero, WithMaxExpansions[string](3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.TotalCost)
}

// Closed nodes are never reopened: with an inconsistent heuristic the first
// route to A is kept even though a cheaper one is found afterwards.
func TestSearchDoesNotReopenClosedNodes(t *testing.T) {
	g := &mapGraph{edges: map[string][]edge{
		"S": {{"A", 4}, {"B", 1}},
		"B": {{"A", 1}},
		"A": {{"G", 10}},
	}}
	h := table(map[string]float64{"B": 10})
	res, err := Search[string](context.Background(), g, "S", "G", h)
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "A", "G"}, res.Path)
	assert.Equal(t, 14.0, res.TotalCost)
}

func TestSearchTieBreak(t *testing.T) {
	g := &mapGraph{edges: map[string][]edge{
		"S": {{"X", 1}, {"Y", 1}},
		"X": {{"G", 1}},
		"Y": {{"G", 1}},
	}}

	t.Run("insertion order by default", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			res, err := Search[string](context.Background(), g, "S", "G", zero)
			require.NoError(t, err)
			assert.Equal(t, []string{"S", "X", "G"}, res.Path)
		}
	})
	t.Run("comparator first", func(t *testing.T) {
		reverse := func(a, b string) bool { return a > b }
		res, err := Search[string](context.Background(), g, "S", "G", zero, WithTieBreak[string](reverse))
		require.NoError(t, err)
		assert.Equal(t, []string{"S", "Y", "G"}, res.Path)
		assert.Equal(t, 2.0, res.TotalCost)
	})
}
