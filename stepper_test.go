package astarnav

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diamond() *mapGraph {
	return &mapGraph{edges: map[string][]edge{
		"S": {{"A", 1}, {"B", 4}},
		"A": {{"B", 1}, {"G", 6}},
		"B": {{"G", 2}},
	}}
}

func TestStepperMatchesSearch(t *testing.T) {
	want, err := Search[string](context.Background(), diamond(), "S", "G", zero)
	require.NoError(t, err)

	stepper := NewStepper[string](context.Background(), diamond(), "S", "G", zero)
	var last StepSnapshot[string]
	for i := 0; i < 20; i++ {
		last, err = stepper.Step()
		require.NoError(t, err)
		if last.Done {
			break
		}
		assert.Len(t, last.Closed, last.StepIndex)
	}
	require.True(t, last.Done)
	assert.True(t, last.Found)
	assert.Equal(t, "G", last.Current)
	assert.Equal(t, want.Path, last.Path)
	assert.Equal(t, want.TotalCost, last.GScore)
	assert.Equal(t, want, stepper.Result())
	assert.Equal(t, "A", last.CameFrom["B"])

	// stepping a finished search is idempotent
	again, err := stepper.Step()
	require.NoError(t, err)
	assert.Equal(t, last.StepIndex, again.StepIndex)
}

func TestStepperFirstStepExpandsStart(t *testing.T) {
	stepper := NewStepper[string](context.Background(), diamond(), "S", "G", zero)
	snap, err := stepper.Step()
	require.NoError(t, err)
	assert.Equal(t, "S", snap.Current)
	assert.Equal(t, map[string]bool{"S": true}, snap.Closed)
	assert.Equal(t, map[string]bool{"A": true, "B": true}, snap.Open)
	assert.False(t, snap.Done)
}

func TestStepperNoPath(t *testing.T) {
	g := &mapGraph{edges: map[string][]edge{"S": {{"A", 1}}}}
	stepper := NewStepper[string](context.Background(), g, "S", "G", zero)
	var snap StepSnapshot[string]
	var err error
	for i := 0; i < 5 && !snap.Done; i++ {
		snap, err = stepper.Step()
		require.NoError(t, err)
	}
	assert.True(t, snap.Done)
	assert.False(t, snap.Found)
	assert.Nil(t, snap.Path)
}

func TestStepperCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stepper := NewStepper[string](ctx, diamond(), "S", "G", zero)
	cancel()
	snap, err := stepper.Step()
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, snap.Done)
}
