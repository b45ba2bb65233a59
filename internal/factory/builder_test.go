package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainRequest() *Request {
	return &Request{
		Machines: map[string]MachineSpec{
			"furnace":   {CraftsPerMin: 60},
			"assembler": {CraftsPerMin: 30},
		},
		Recipes: map[string]RecipeSpec{
			"iron_plate": {
				Machine: "furnace",
				TimeS:   3.2,
				In:      map[string]float64{"iron_ore": 1},
				Out:     map[string]float64{"iron_plate": 1},
			},
			"gear": {
				Machine: "assembler",
				TimeS:   0.5,
				In:      map[string]float64{"iron_plate": 2},
				Out:     map[string]float64{"gear": 1},
			},
		},
		Limits: Limits{
			RawSupplyPerMin: map[string]float64{"iron_ore": 2000},
			MaxMachines:     map[string]float64{},
		},
		Target: Target{Item: "gear", RatePerMin: 100},
	}
}

func TestBuild_ClassifiesItems(t *testing.T) {
	m, err := build(chainRequest())
	require.NoError(t, err)

	assert.Equal(t, classRaw, m.class["iron_ore"])
	assert.Equal(t, classIntermediate, m.class["iron_plate"])
	assert.Equal(t, classTarget, m.class["gear"])
}

func TestBuild_EffAndProd(t *testing.T) {
	m, err := build(chainRequest())
	require.NoError(t, err)

	assert.InDelta(t, 60.0*60/3.2, m.eff["iron_plate"], 1e-9)
	assert.InDelta(t, 30.0*60/0.5, m.eff["gear"], 1e-9)
	assert.InDelta(t, 1.0, m.prod["iron_plate"], 1e-9)
}

func TestBuild_ByproductClassification(t *testing.T) {
	req := &Request{
		Machines: map[string]MachineSpec{"m": {CraftsPerMin: 60}},
		Recipes: map[string]RecipeSpec{
			"r1": {
				Machine: "m",
				TimeS:   1,
				In:      map[string]float64{"a": 1},
				Out:     map[string]float64{"b": 1, "slag": 1},
			},
		},
		Limits: Limits{RawSupplyPerMin: map[string]float64{"a": 1000}},
		Target: Target{Item: "b", RatePerMin: 10},
	}

	m, err := build(req)
	require.NoError(t, err)
	assert.Equal(t, classByproduct, m.class["slag"])
	assert.Equal(t, classRaw, m.class["a"])
}

func TestBuild_RejectsMissingMachine(t *testing.T) {
	req := &Request{
		Machines: map[string]MachineSpec{},
		Recipes: map[string]RecipeSpec{
			"r1": {Machine: "ghost", TimeS: 1, Out: map[string]float64{"x": 1}},
		},
		Limits: Limits{},
		Target: Target{Item: "x", RatePerMin: 1},
	}
	_, err := build(req)
	assert.Error(t, err)
}

func TestBuild_RejectsZeroRate(t *testing.T) {
	req := chainRequest()
	req.Target.RatePerMin = 0
	_, err := build(req)
	assert.Error(t, err)
}
