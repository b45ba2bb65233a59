package factory

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/optimize/convex/lp"

	"foundry/pkg/apperror"
	"foundry/pkg/domain"
)

const (
	lpTolerance        = 1e-9
	binarySearchRounds = 50
	binarySearchSpread = 0.01

	// lpWallClockBudget bounds a single LP invocation. A backend that
	// hasn't reached a verdict within this window is treated the same as
	// an infeasible result, so it still flows into the binary-search
	// fallback instead of surfacing as a process error.
	lpWallClockBudget = 2 * time.Second
)

// Solve runs the full FACTORY pipeline: F1 builds the recipe graph and item
// classification, then F3 drives F2's LP at the requested rate and, on
// infeasibility, binary-searches for the largest satisfiable rate.
func Solve(req *Request) (*Response, error) {
	m, err := build(req)
	if err != nil {
		return nil, err
	}

	attempt, err := m.attempt(req.Target.RatePerMin)
	if err != nil {
		return nil, err
	}
	if attempt != nil {
		return attempt.response(), nil
	}

	low, high := 0.0, req.Target.RatePerMin
	maxFeasible := 0.0
	for i := 0; i < binarySearchRounds; i++ {
		mid := (low + high) / 2
		test, err := m.attempt(mid)
		if err != nil {
			return nil, err
		}
		if test != nil {
			maxFeasible = mid
			low = mid
		} else {
			high = mid
		}
		if high-low < binarySearchSpread {
			break
		}
	}

	return m.infeasibleResponse(maxFeasible, req.Target.RatePerMin), nil
}

// solved is one feasible LP solution, ready to be translated into the
// reported units (item-output rate, machine counts, raw draw).
type solved struct {
	m    *model
	cs   *columnSet
	x    []float64
}

// simplexResult carries the outcome of a backend call across the goroutine
// boundary lpWallClockBudget races against.
type simplexResult struct {
	x   []float64
	err error
}

// attempt runs F2+the backend for a single target rate. A nil, nil return
// means the LP was correctly solved to infeasible (or stalled past its wall-
// clock budget, which is reported the same way); a non-nil error means the
// backend itself returned a genuine non-optimal, non-infeasible status.
func (m *model) attempt(targetRate float64) (*solved, error) {
	c, A, b, cs := m.buildLP(targetRate)

	done := make(chan simplexResult, 1)
	go func() {
		_, x, err := lp.Simplex(c, A, b, lpTolerance, nil)
		done <- simplexResult{x: x, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, lp.ErrInfeasible) {
				return nil, nil
			}
			return nil, apperror.New(apperror.CodeUnsolvableCore, "LP backend returned a non-optimal, non-infeasible status: "+res.err.Error())
		}
		return &solved{m: m, cs: cs, x: res.x}, nil
	case <-time.After(lpWallClockBudget):
		return nil, nil
	}
}

func (s *solved) response() *Response {
	perRecipe := make(map[string]float64)
	perMachine := make(map[string]float64)
	rawConsumption := make(map[string]float64)
	byproductSurplus := make(map[string]float64)

	for _, name := range s.m.recipeNames {
		activity := s.x[s.cs.recipeCol[name]]
		if domain.IsPositive(activity) {
			perRecipe[name] = round2(activity * s.m.prod[name])
		}
	}

	for _, mc := range s.m.machineNames {
		var count float64
		for _, name := range s.m.recipeNames {
			if s.m.req.Recipes[name].Machine == mc {
				count += s.x[s.cs.recipeCol[name]] / s.m.eff[name]
			}
		}
		if domain.IsPositive(count) {
			perMachine[mc] = round2(count)
		}
	}

	for _, item := range s.m.rawItems() {
		consumption := s.x[s.cs.consumptionCol[item]]
		if domain.IsPositive(consumption) {
			rawConsumption[item] = round2(consumption)
		}
	}

	for _, item := range s.m.byproductItems() {
		surplus := s.x[s.cs.surplusCol[item]]
		if domain.IsPositive(surplus) {
			byproductSurplus[item] = round2(surplus)
		}
	}

	resp := &Response{
		Status:                statusOK,
		PerRecipeCraftsPerMin: perRecipe,
		PerMachineCounts:      perMachine,
		RawConsumptionPerMin:  rawConsumption,
	}
	if len(byproductSurplus) > 0 {
		resp.ByproductSurplusPerMin = byproductSurplus
	}
	return resp
}

// infeasibleResponse is F3's bottleneck-hint construction: gated on the
// achieved rate falling below the high-utilization threshold of the
// requested target, it names every machine class and supplied raw item as a
// candidate bottleneck, capped at two entries.
func (m *model) infeasibleResponse(maxFeasible, targetRate float64) *Response {
	var hints []string
	if maxFeasible < targetRate*domain.HighUtilizationThreshold {
		for _, mc := range m.machineNames {
			hints = append(hints, mc+" cap")
		}
		rawSupply := m.req.Limits.RawSupplyPerMin
		raw := m.rawItems()
		sort.Strings(raw)
		for _, item := range raw {
			if _, ok := rawSupply[item]; ok {
				hints = append(hints, item+" supply")
			}
		}
	}
	if len(hints) == 0 {
		hints = []string{"unknown"}
	}
	if len(hints) > 2 {
		hints = hints[:2]
	}

	return &Response{
		Status:                  statusInfeasible,
		MaxFeasibleTargetPerMin: round2(domain.Max(0, maxFeasible)),
		BottleneckHint:          hints,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
