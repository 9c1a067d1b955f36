package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstructPath(t *testing.T) {
	closed := map[string]Link[string]{
		"S": {},
		"A": {Previous: "S", HasPrevious: true, Cost: 1},
		"B": {Previous: "A", HasPrevious: true, Cost: 2},
		"X": {Previous: "S", HasPrevious: true, Cost: 5},
	}
	assert.Equal(t, []string{"S", "A", "B"}, ReconstructPath(closed, "B"))
	assert.Equal(t, []string{"S"}, ReconstructPath(closed, "S"))
	assert.Nil(t, ReconstructPath(closed, "missing"))
}

func TestReconstructPathCycle(t *testing.T) {
	closed := map[int]Link[int]{
		1: {Previous: 2, HasPrevious: true},
		2: {Previous: 1, HasPrevious: true},
	}
	assert.Nil(t, ReconstructPath(closed, 1))
}
