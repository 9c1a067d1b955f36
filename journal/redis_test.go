package journal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/astarnav/grid"
	"github.com/pdrpinto/astarnav/navigator"
)

// setupJournal creates a miniredis instance and returns a connected journal.
func setupJournal(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	j, err := NewRedis(Options{
		URL:    fmt.Sprintf("redis://%s", mr.Addr()),
		Prefix: "test",
		TTL:    ttl,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = j.Close()
	})

	return j, mr
}

func TestRecordAndRead(t *testing.T) {
	j, mr := setupJournal(t, 0)
	ctx := context.Background()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	steps := []navigator.Step{
		{Session: "s1", Iteration: 1, Position: grid.Pos(0, 0), Path: []grid.Position{grid.Pos(0, 0), grid.Pos(0, 1)}, Cost: 1, Expanded: 2, At: at},
		{Session: "s1", Iteration: 2, Position: grid.Pos(0, 1), NoPath: true, At: at},
		{Session: "s2", Iteration: 1, Position: grid.Pos(5, 5), At: at},
	}
	for _, s := range steps {
		require.NoError(t, j.Record(ctx, s))
	}

	got, err := j.Steps(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, steps[0].Path, got[0].Path)
	assert.Equal(t, grid.Pos(0, 1), got[1].Position)
	assert.True(t, got[1].NoPath)
	assert.True(t, got[0].At.Equal(at))

	sessions, err := j.Sessions(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s2"}, sessions)

	assert.True(t, mr.Exists("test:s1:steps"))
	assert.Equal(t, time.Duration(0), mr.TTL("test:s1:steps"))
}

func TestRecordSetsTTL(t *testing.T) {
	j, mr := setupJournal(t, time.Minute)
	require.NoError(t, j.Record(context.Background(), navigator.Step{Session: "s", Iteration: 1}))
	assert.Equal(t, time.Minute, mr.TTL("test:s:steps"))

	mr.FastForward(2 * time.Minute)
	got, err := j.Steps(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStepsDecodeError(t *testing.T) {
	j, mr := setupJournal(t, 0)
	_, err := mr.RPush("test:bad:steps", "not json")
	require.NoError(t, err)
	_, err = j.Steps(context.Background(), "bad")
	assert.Error(t, err)
}

func TestNewRedisErrors(t *testing.T) {
	_, err := NewRedis(Options{URL: "://bad"})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = NewRedis(Options{URL: "redis://" + addr, ConnectTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestRecordAfterServerLoss(t *testing.T) {
	j, mr := setupJournal(t, 0)
	mr.Close()
	err := j.Record(context.Background(), navigator.Step{Session: "s", Iteration: 1})
	assert.Error(t, err)
}
