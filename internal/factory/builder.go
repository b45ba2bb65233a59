package factory

import (
	"sort"

	"foundry/pkg/apperror"
)

// itemClass is the derived role of an item in the recipe graph.
type itemClass int

const (
	classRaw itemClass = iota
	classIntermediate
	classByproduct
	classTarget
)

// model is the F1 Recipe Graph Builder's output: every recipe's effective
// rate and productivity multiplier, plus the derived item classification,
// built once per request and shared across every LP attempt F3 makes.
type model struct {
	req *Request

	recipeNames []string // sorted, for deterministic variable indexing
	eff         map[string]float64
	prod        map[string]float64

	allItems     []string // sorted
	class        map[string]itemClass
	machineNames []string // sorted
}

// build runs F1: walks every recipe, classifies items, and precomputes
// eff(r) and prod(r).
func build(req *Request) (*model, error) {
	if req.Target.Item == "" {
		return nil, apperror.New(apperror.CodeMalformedRequest, "target item is required")
	}
	if req.Target.RatePerMin <= 0 {
		return nil, apperror.New(apperror.CodeMalformedRequest, "target rate_per_min must be > 0")
	}
	if len(req.Recipes) == 0 {
		return nil, apperror.New(apperror.CodeMalformedRequest, "at least one recipe is required")
	}

	for name, r := range req.Recipes {
		if _, ok := req.Machines[r.Machine]; !ok {
			return nil, apperror.New(apperror.CodeMalformedRequest, "recipe "+name+" references unknown machine "+r.Machine)
		}
		if r.TimeS <= 0 {
			return nil, apperror.New(apperror.CodeMalformedRequest, "recipe "+name+" time_s must be > 0")
		}
		if len(r.Out) == 0 {
			return nil, apperror.New(apperror.CodeMalformedRequest, "recipe "+name+" must have a non-empty out")
		}
	}
	for name, m := range req.Machines {
		if m.CraftsPerMin <= 0 {
			return nil, apperror.New(apperror.CodeMalformedRequest, "machine "+name+" crafts_per_min must be > 0")
		}
	}

	produced := make(map[string]bool)
	consumed := make(map[string]bool)
	itemSet := make(map[string]bool)

	recipeNames := make([]string, 0, len(req.Recipes))
	for name := range req.Recipes {
		recipeNames = append(recipeNames, name)
	}
	sort.Strings(recipeNames)

	for _, name := range recipeNames {
		r := req.Recipes[name]
		for item := range r.Out {
			produced[item] = true
			itemSet[item] = true
		}
		for item := range r.In {
			consumed[item] = true
			itemSet[item] = true
		}
	}

	eff := make(map[string]float64, len(recipeNames))
	prod := make(map[string]float64, len(recipeNames))
	for _, name := range recipeNames {
		r := req.Recipes[name]
		mod := req.Modules[r.Machine]
		base := req.Machines[r.Machine].CraftsPerMin
		eff[name] = base * (1 + mod.Speed) * 60 / r.TimeS
		prod[name] = 1 + mod.Prod
	}

	class := make(map[string]itemClass, len(itemSet))
	allItems := make([]string, 0, len(itemSet))
	for item := range itemSet {
		allItems = append(allItems, item)
	}
	sort.Strings(allItems)

	for _, item := range allItems {
		switch {
		case item == req.Target.Item:
			class[item] = classTarget
		case !produced[item]:
			class[item] = classRaw
		case produced[item] && !consumed[item]:
			class[item] = classByproduct
		default:
			class[item] = classIntermediate
		}
	}
	if _, ok := class[req.Target.Item]; !ok {
		// The target item doesn't appear in any recipe in/out: treat it as
		// its own raw-like node with zero production so the LP reports
		// infeasibility rather than panicking on a missing balance row.
		class[req.Target.Item] = classTarget
		allItems = append(allItems, req.Target.Item)
		sort.Strings(allItems)
	}

	machineNames := make([]string, 0, len(req.Machines))
	for name := range req.Machines {
		machineNames = append(machineNames, name)
	}
	sort.Strings(machineNames)

	return &model{
		req:          req,
		recipeNames:  recipeNames,
		eff:          eff,
		prod:         prod,
		allItems:     allItems,
		class:        class,
		machineNames: machineNames,
	}, nil
}

func (m *model) rawItems() []string {
	var out []string
	for _, item := range m.allItems {
		if m.class[item] == classRaw {
			out = append(out, item)
		}
	}
	return out
}

func (m *model) byproductItems() []string {
	var out []string
	for _, item := range m.allItems {
		if m.class[item] == classByproduct {
			out = append(out, item)
		}
	}
	return out
}
