package belts

import (
	"sort"

	"foundry/internal/graph"
	"foundry/pkg/apperror"
)

// edgeGroup is every original edge between the same (from, to) pair,
// collapsed into the single reduced edge the network reducer builds for
// them. Multiple raw edges between the same pair sum their hi/lo into one
// reduced-capacity edge (hi - lo), per the node-splitting and lower-bound
// reduction rules.
type edgeGroup struct {
	from, to     string
	tailID       int64
	headID       int64
	totalHi      float64
	totalLo      float64
}

// reduced is the output of the Network Reducer (B1): a residual graph ready
// for max flow, plus everything B3 needs to check feasibility and map
// results back onto the original request.
type reduced struct {
	arena   *arena
	g       *graph.ResidualGraph
	groups  []*edgeGroup
	excess  map[int64]float64 // virtual id -> lower-bound excess
	nodeCap map[int64]float64 // original id -> cap, only for split nodes
	sinkID  int64

	sourceOriginalIDs map[int64]bool // original ids of supply sources
	adjustedSupply    map[int64]float64
}

// reduce runs the B1 Network Reducer over req, applying node splitting,
// lower-bound reduction, and source aggregation (the virtual super-source
// is added by the caller once the feasibility gate in B3 step 1 passes).
func reduce(req *Request) (*reduced, error) {
	if req.Sink == "" {
		return nil, apperror.New(apperror.CodeMalformedRequest, "sink is required")
	}

	names := map[string]struct{}{req.Sink: {}}
	for _, e := range req.Edges {
		if e.From == "" || e.To == "" {
			return nil, apperror.New(apperror.CodeMalformedRequest, "edge endpoints must be non-empty")
		}
		if e.Lo < 0 {
			return nil, apperror.New(apperror.CodeMalformedRequest, "edge lo must be >= 0")
		}
		if e.Hi < e.Lo {
			return nil, apperror.New(apperror.CodeMalformedRequest, "edge hi must be >= lo")
		}
		names[e.From] = struct{}{}
		names[e.To] = struct{}{}
	}
	for _, s := range req.Sources {
		if s.Node == "" {
			return nil, apperror.New(apperror.CodeMalformedRequest, "source node is required")
		}
		if s.Supply < 0 {
			return nil, apperror.New(apperror.CodeMalformedRequest, "source supply must be >= 0")
		}
		names[s.Node] = struct{}{}
	}
	for n := range req.NodeCaps {
		names[n] = struct{}{}
	}

	a := newArena(names)

	sourceOriginalIDs := make(map[int64]bool, len(req.Sources))
	for _, s := range req.Sources {
		sourceOriginalIDs[a.id(s.Node)] = true
	}
	sinkID := a.id(req.Sink)
	if sourceOriginalIDs[sinkID] {
		return nil, apperror.New(apperror.CodeMalformedRequest, "sink must not be a supply source")
	}

	// Identify split nodes: have a positive cap, and are neither a source
	// nor the sink.
	nodeCap := make(map[int64]float64)
	for name, cap := range req.NodeCaps {
		if cap <= 0 {
			return nil, apperror.New(apperror.CodeMalformedRequest, "node cap must be > 0")
		}
		id := a.id(name)
		if id == sinkID || sourceOriginalIDs[id] {
			continue
		}
		nodeCap[id] = cap
		a.split(id)
	}

	g := graph.NewResidualGraph()

	// Group original edges by (from, to) before registering them, so the
	// reduced network has exactly one edge per distinct original pair.
	groupByKey := make(map[string]*edgeGroup)
	var groups []*edgeGroup
	for _, e := range req.Edges {
		uID := a.id(e.From)
		vID := a.id(e.To)
		key := e.From + "\x00" + e.To
		grp, ok := groupByKey[key]
		if !ok {
			grp = &edgeGroup{
				from:   e.From,
				to:     e.To,
				tailID: a.tailID(uID),
				headID: a.headID(vID),
			}
			groupByKey[key] = grp
			groups = append(groups, grp)
		}
		grp.totalHi += e.Hi
		grp.totalLo += e.Lo
	}

	excess := make(map[int64]float64)
	for _, grp := range groups {
		cap := grp.totalHi - grp.totalLo
		g.AddEdgeWithReverse(grp.tailID, grp.headID, cap)
		excess[grp.headID] += grp.totalLo
		excess[grp.tailID] -= grp.totalLo
	}

	// Split-capacity edges: n_in -> n_out, capacity = node cap.
	for id, cap := range nodeCap {
		inID, outID := a.split(id)
		g.AddEdgeWithReverse(inID, outID, cap)
	}

	// Adjusted supply per source: supply minus the lower bounds already
	// "pre-sent" on that source's outgoing edges.
	loFromSource := make(map[int64]float64)
	for _, e := range req.Edges {
		if sourceOriginalIDs[a.id(e.From)] {
			loFromSource[a.id(e.From)] += e.Lo
		}
	}

	adjustedSupply := make(map[int64]float64, len(req.Sources))
	for _, s := range req.Sources {
		id := a.id(s.Node)
		adjustedSupply[id] = s.Supply - loFromSource[id]
	}

	return &reduced{
		arena:             a,
		g:                 g,
		groups:            groups,
		excess:            excess,
		nodeCap:           nodeCap,
		sinkID:            sinkID,
		sourceOriginalIDs: sourceOriginalIDs,
		adjustedSupply:    adjustedSupply,
	}, nil
}

// sortedIDs returns ids sorted ascending, used wherever a deterministic
// iteration order over a map's keys is needed.
func sortedIDs(m map[int64]float64) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
