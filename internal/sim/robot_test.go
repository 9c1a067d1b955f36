package sim

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/astarnav/grid"
)

func world(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(`
		........
		........
		.....#..
		........
	`)
	require.NoError(t, err)
	return g
}

func TestNewRevealsOnlySensorRange(t *testing.T) {
	r, err := New(Config{World: world(t), Start: grid.Pos(0, 0), SensorRadius: 1})
	require.NoError(t, err)
	m, err := r.OccupancyMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, m.BlockedCount())

	_, err = New(Config{World: world(t), Start: grid.Pos(2, 5)})
	assert.Error(t, err)
}

func TestExecutePathMovesLimitedSteps(t *testing.T) {
	ctx := context.Background()
	r, err := New(Config{World: world(t), Start: grid.Pos(0, 0), StepsPerMove: 2})
	require.NoError(t, err)

	path := []grid.Position{grid.Pos(0, 0), grid.Pos(0, 1), grid.Pos(1, 2), grid.Pos(1, 3)}
	require.NoError(t, r.ExecutePath(ctx, path))
	pos, err := r.Position(ctx)
	require.NoError(t, err)
	assert.Equal(t, grid.Pos(1, 2), pos)
	assert.Equal(t, path[:3], r.Trajectory())

	heading, err := r.Heading(ctx)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/4, heading, 1e-9)

	// the path may be resumed from the middle
	require.NoError(t, r.ExecutePath(ctx, path))
	pos, _ = r.Position(ctx)
	assert.Equal(t, grid.Pos(1, 3), pos)
	assert.Equal(t, 2, r.Executions())
}

func TestExecutePathStopsBeforeSensedObstacle(t *testing.T) {
	ctx := context.Background()
	r, err := New(Config{World: world(t), Start: grid.Pos(2, 2), SensorRadius: 1, StepsPerMove: 10})
	require.NoError(t, err)

	path := []grid.Position{grid.Pos(2, 2), grid.Pos(2, 3), grid.Pos(2, 4), grid.Pos(2, 5), grid.Pos(2, 6)}
	require.NoError(t, r.ExecutePath(ctx, path))
	pos, _ := r.Position(ctx)
	assert.Equal(t, grid.Pos(2, 4), pos)

	m, err := r.OccupancyMap(ctx)
	require.NoError(t, err)
	assert.False(t, m.IsTraversable(grid.Pos(2, 5)))
}

func TestExecutePathRejectsForeignPath(t *testing.T) {
	ctx := context.Background()
	r, err := New(Config{World: world(t), Start: grid.Pos(0, 0)})
	require.NoError(t, err)

	assert.ErrorIs(t, r.ExecutePath(ctx, []grid.Position{grid.Pos(3, 3)}), ErrOffPath)
	assert.ErrorIs(t, r.ExecutePath(ctx, []grid.Position{grid.Pos(0, 0), grid.Pos(0, 2)}), ErrOffPath)
}

func TestStop(t *testing.T) {
	ctx := context.Background()
	r, err := New(Config{World: world(t), Start: grid.Pos(0, 0)})
	require.NoError(t, err)
	require.NoError(t, r.Stop(ctx))
	require.NoError(t, r.Stop(ctx))
	assert.True(t, r.Stopped())

	_, err = r.Position(ctx)
	assert.ErrorIs(t, err, ErrStopped)
	_, err = r.OccupancyMap(ctx)
	assert.ErrorIs(t, err, ErrStopped)
	assert.ErrorIs(t, r.ExecutePath(ctx, nil), ErrStopped)
}

func TestOccupancyMapIsSnapshot(t *testing.T) {
	r, err := New(Config{World: world(t), Start: grid.Pos(0, 0)})
	require.NoError(t, err)
	m, err := r.OccupancyMap(context.Background())
	require.NoError(t, err)
	m.Set(grid.Pos(0, 1), grid.Blocked)
	assert.True(t, r.Known().IsTraversable(grid.Pos(0, 1)))
}
