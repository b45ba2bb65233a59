package belts

import (
	"math"
	"sort"

	"foundry/internal/flow"
	"foundry/internal/graph"
	"foundry/pkg/domain"
)

const (
	dummySourceID       = domain.SuperSourceID
	dummySinkID         = domain.SuperSinkID
	virtualSourceID     = domain.SuperSourceID
	equalityTolerance   = 1e-6
	roundPlaces         = 2
)

// Solve runs the full BELTS pipeline: the B1 Network Reducer, the B3
// lower-bound feasibility check, the B2 max-flow engine on the main
// problem, the second feasibility gate, and flow reconstruction.
func Solve(req *Request) (*Response, error) {
	r, err := reduce(req)
	if err != nil {
		return nil, err
	}

	if resp := r.checkLowerBoundFeasibility(); resp != nil {
		return resp, nil
	}

	return r.solveMainFlow(), nil
}

// checkLowerBoundFeasibility is B3 step 1: the internal-imbalance
// feasibility check via a dummy-terminal circulation. Supply sources and
// the sink are excluded from the imbalance check, since their imbalance is
// resolved by the super-source and main flow respectively.
func (r *reduced) checkLowerBoundFeasibility() *Response {
	internal := make(map[int64]float64)
	for id, imb := range r.excess {
		if r.sourceOriginalIDs[r.arena.original(id)] || id == r.sinkID {
			continue
		}
		internal[id] = imb
	}

	anyNonZero := false
	for _, imb := range internal {
		if !domain.FloatEquals(imb, 0) {
			anyNonZero = true
			break
		}
	}
	if !anyNonZero {
		return nil
	}

	fg := graph.NewResidualGraph()
	for _, grp := range r.groups {
		fg.AddEdgeWithReverse(grp.tailID, grp.headID, grp.totalHi-grp.totalLo)
	}
	for id, cap := range r.nodeCap {
		inID, outID := r.arena.split(id)
		fg.AddEdgeWithReverse(inID, outID, cap)
	}

	totalDummyDemand := 0.0
	for _, id := range sortedIDs(internal) {
		imb := internal[id]
		switch {
		case domain.FloatGreater(imb, 0):
			fg.AddEdgeWithReverse(dummySourceID, id, imb)
			totalDummyDemand += imb
		case domain.FloatLess(imb, 0):
			fg.AddEdgeWithReverse(id, dummySinkID, -imb)
		}
	}

	result := flow.EdmondsKarp(fg, dummySourceID, dummySinkID)

	if math.Abs(result.MaxFlow-totalDummyDemand) > equalityTolerance {
		reachable := fg.Reachable(dummySourceID)
		cutReachable := r.namesExcluding(reachable, dummySourceID, dummySinkID)
		return infeasible(cutReachable, Deficit{
			DemandBalance: round(domain.Max(0, totalDummyDemand-result.MaxFlow)),
			TightNodes:    []string{},
			TightEdges:    []TightEdge{},
		})
	}
	return nil
}

// solveMainFlow is B3 steps 2-5: the main flow from the super-source to
// the sink, the second feasibility gate, and flow reconstruction.
func (r *reduced) solveMainFlow() *Response {
	mg := graph.NewResidualGraph()
	for _, grp := range r.groups {
		mg.AddEdgeWithReverse(grp.tailID, grp.headID, grp.totalHi-grp.totalLo)
	}
	for id, cap := range r.nodeCap {
		inID, outID := r.arena.split(id)
		mg.AddEdgeWithReverse(inID, outID, cap)
	}

	totalAdjustedSupply := 0.0
	for _, id := range sortedOriginalIDs(r.adjustedSupply) {
		supply := r.adjustedSupply[id]
		mg.AddEdgeWithReverse(virtualSourceID, id, supply)
		totalAdjustedSupply += supply
	}

	result := flow.EdmondsKarp(mg, virtualSourceID, r.sinkID)

	if math.Abs(result.MaxFlow-totalAdjustedSupply) > equalityTolerance {
		reachable := mg.Reachable(virtualSourceID)
		cutReachable := r.namesExcluding(reachable, virtualSourceID)

		tightNodes := r.tightNodes(mg, reachable)
		tightEdges := r.tightEdges(mg, reachable)

		return infeasible(cutReachable, Deficit{
			DemandBalance: round(domain.Max(0, totalAdjustedSupply-result.MaxFlow)),
			TightNodes:    capStrings(tightNodes, 2),
			TightEdges:    capTightEdges(tightEdges, 2),
		})
	}

	return r.reconstruct(mg)
}

// tightNodes finds capped nodes whose n_in is reachable from the
// super-source and whose n_in -> n_out edge is saturated (zero residual
// capacity).
func (r *reduced) tightNodes(mg *graph.ResidualGraph, reachable []int64) []string {
	reachableSet := toSet(reachable)
	var names []string
	for _, id := range sortedNodeCapIDs(r.nodeCap) {
		inID, outID := r.arena.split(id)
		if !reachableSet[inID] {
			continue
		}
		edge := mg.GetEdge(inID, outID)
		if edge != nil && !domain.IsPositive(edge.Capacity) {
			names = append(names, r.arena.name(id))
		}
	}
	return names
}

// tightEdges finds original edges crossing the min cut (tail reachable,
// head not) whose reduced residual capacity is zero.
func (r *reduced) tightEdges(mg *graph.ResidualGraph, reachable []int64) []TightEdge {
	reachableSet := toSet(reachable)
	var edges []TightEdge
	for _, grp := range r.groups {
		if !reachableSet[grp.tailID] || reachableSet[grp.headID] {
			continue
		}
		edge := mg.GetEdge(grp.tailID, grp.headID)
		if edge != nil && !domain.IsPositive(edge.Capacity) {
			edges = append(edges, TightEdge{
				From:       grp.from,
				To:         grp.to,
				FlowNeeded: round(grp.totalHi),
			})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// reconstruct is B3 step 4-5: project the solved residual graph's flows
// back onto original edges and recompute the reported total from them.
func (r *reduced) reconstruct(mg *graph.ResidualGraph) *Response {
	var flows []FlowEntry
	for _, grp := range r.groups {
		transformedCap := grp.totalHi - grp.totalLo
		residual := 0.0
		if edge := mg.GetEdge(grp.tailID, grp.headID); edge != nil {
			residual = edge.Capacity
		}
		actualFlow := (transformedCap - residual) + grp.totalLo
		if domain.IsPositive(actualFlow) {
			flows = append(flows, FlowEntry{From: grp.from, To: grp.to, Flow: round(actualFlow)})
		}
	}

	sort.Slice(flows, func(i, j int) bool {
		if flows[i].From != flows[j].From {
			return flows[i].From < flows[j].From
		}
		return flows[i].To < flows[j].To
	})

	total := 0.0
	sinkName := r.arena.name(r.sinkID)
	for _, f := range flows {
		if f.To == sinkName {
			total += f.Flow
		}
	}

	return &Response{
		Status:        statusOK,
		MaxFlowPerMin: round(total),
		Flows:         flows,
	}
}

// namesExcluding maps reachable virtual ids back to original names,
// deduplicating and excluding the given virtual terminal ids, then sorts
// the result.
func (r *reduced) namesExcluding(reachable []int64, exclude ...int64) []string {
	excl := toSet(exclude)
	seen := make(map[string]bool)
	var names []string
	for _, id := range reachable {
		if excl[id] {
			continue
		}
		name := r.arena.originalName(id)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func toSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func sortedOriginalIDs(m map[int64]float64) []int64 {
	return sortedIDs(m)
}

func sortedNodeCapIDs(m map[int64]float64) []int64 {
	return sortedIDs(m)
}

func capStrings(s []string, n int) []string {
	if s == nil {
		return []string{}
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}

func capTightEdges(e []TightEdge, n int) []TightEdge {
	if e == nil {
		return []TightEdge{}
	}
	if len(e) > n {
		return e[:n]
	}
	return e
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
