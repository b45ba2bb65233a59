package belts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_ParallelEdgesSumCapacity(t *testing.T) {
	req := &Request{
		Edges: []EdgeSpec{
			{From: "a", To: "b", Hi: 10},
			{From: "a", To: "b", Hi: 5},
		},
		Sources: []SourceSpec{{Node: "a", Supply: 15}},
		Sink:    "b",
	}

	r, err := reduce(req)
	require.NoError(t, err)
	require.Len(t, r.groups, 1)
	assert.InDelta(t, 15.0, r.groups[0].totalHi, 1e-9)
}

func TestReduce_LowerBoundExcess(t *testing.T) {
	req := &Request{
		Edges: []EdgeSpec{
			{From: "a", To: "b", Lo: 3, Hi: 10},
		},
		Sources: []SourceSpec{{Node: "a", Supply: 10}},
		Sink:    "b",
	}

	r, err := reduce(req)
	require.NoError(t, err)

	aID := r.arena.id("a")
	bID := r.arena.id("b")
	assert.InDelta(t, -3.0, r.excess[aID], 1e-9)
	assert.InDelta(t, 3.0, r.excess[bID], 1e-9)
}

func TestReduce_NodeCapSplitsNode(t *testing.T) {
	req := &Request{
		Edges: []EdgeSpec{
			{From: "a", To: "n", Hi: 10},
			{From: "n", To: "sink", Hi: 10},
		},
		NodeCaps: map[string]float64{"n": 5},
		Sources:  []SourceSpec{{Node: "a", Supply: 10}},
		Sink:     "sink",
	}

	r, err := reduce(req)
	require.NoError(t, err)

	nID := r.arena.id("n")
	assert.True(t, r.arena.isSplit(nID))
	assert.Contains(t, r.nodeCap, nID)
}

func TestReduce_CapOnSourceOrSinkIgnored(t *testing.T) {
	req := &Request{
		Edges:    []EdgeSpec{{From: "a", To: "sink", Hi: 10}},
		NodeCaps: map[string]float64{"a": 5, "sink": 5},
		Sources:  []SourceSpec{{Node: "a", Supply: 10}},
		Sink:     "sink",
	}

	r, err := reduce(req)
	require.NoError(t, err)
	assert.Empty(t, r.nodeCap)
}

func TestReduce_AdjustedSupply(t *testing.T) {
	req := &Request{
		Edges: []EdgeSpec{
			{From: "a", To: "sink", Lo: 4, Hi: 10},
		},
		Sources: []SourceSpec{{Node: "a", Supply: 10}},
		Sink:    "sink",
	}

	r, err := reduce(req)
	require.NoError(t, err)

	aID := r.arena.id("a")
	assert.InDelta(t, 6.0, r.adjustedSupply[aID], 1e-9)
}

func TestReduce_RejectsInvalidBounds(t *testing.T) {
	_, err := reduce(&Request{
		Edges: []EdgeSpec{{From: "a", To: "b", Lo: -1, Hi: 10}},
		Sink:  "b",
	})
	assert.Error(t, err)

	_, err = reduce(&Request{
		Edges: []EdgeSpec{{From: "a", To: "b", Lo: 10, Hi: 5}},
		Sink:  "b",
	})
	assert.Error(t, err)
}
