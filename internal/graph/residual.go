// Package graph provides the residual-graph data structure and deterministic
// traversal primitives used by the BELTS max-flow engine.
package graph

import (
	"sort"

	"foundry/pkg/domain"
)

// Epsilon is the tolerance for floating-point comparisons.
// Values smaller than Epsilon are considered zero. This is crucial for
// numerical stability in flow algorithms.
const Epsilon = domain.Epsilon

// Infinity represents an unreachable distance or unlimited capacity.
const Infinity = domain.Infinity

// ResidualEdge represents an edge in the residual graph.
//
// In the residual graph, each original edge (u, v) with capacity c
// is represented by two edges:
//   - Forward edge (u, v) with capacity c
//   - Backward edge (v, u) with capacity 0
//
// When flow f is pushed along (u, v):
//   - Forward edge capacity becomes c - f
//   - Backward edge capacity becomes f
//
// This allows the algorithm to "undo" flow decisions.
type ResidualEdge struct {
	// To is the destination node ID.
	To int64

	// Capacity is the current residual capacity.
	Capacity float64

	// Flow is the amount of flow currently on this edge.
	// Only meaningful for forward edges.
	Flow float64

	// OriginalCapacity is the initial capacity of the edge.
	OriginalCapacity float64

	// IsReverse indicates whether this is a backward (reverse) edge.
	IsReverse bool

	// Index is the position of this edge in the EdgesList slice.
	Index int
}

// HasCapacity returns true if the edge has positive residual capacity.
func (e *ResidualEdge) HasCapacity() bool {
	return e.Capacity > Epsilon
}

// IncomingEdge represents an edge for reverse graph traversal.
type IncomingEdge struct {
	// From is the source node of the edge.
	From int64

	// Edge is the edge data (points to node From).
	Edge *ResidualEdge
}

// ResidualGraph is the core data structure for the max-flow engine.
//
// It maintains both forward and backward edges, supporting efficient:
//   - Edge lookup by (from, to) pair: O(1)
//   - Neighbor iteration in deterministic (insertion) order: O(degree)
//   - Incoming edge lookup for reverse traversal: O(in-degree log in-degree)
//
// # Determinism
//
// Edge insertion order is not itself significant. Traversal order is made
// deterministic at read time: BFSDeterministic sorts each node's neighbors
// by ascending identifier before visiting them, matching the sole
// determinism primitive required by the solvers.
type ResidualGraph struct {
	// Nodes contains all node IDs in the graph. The bool value is always true.
	Nodes map[int64]bool

	// Edges provides O(1) edge lookup by (from, to) pair.
	Edges map[int64]map[int64]*ResidualEdge

	// EdgesList provides deterministic edge iteration in insertion order.
	EdgesList map[int64][]*ResidualEdge

	// ReverseEdges enables efficient reverse graph traversal.
	ReverseEdges map[int64]map[int64]*ResidualEdge

	sortedNodes      []int64
	sortedNodesDirty bool
}

// NewResidualGraph creates a new empty residual graph.
func NewResidualGraph() *ResidualGraph {
	return &ResidualGraph{
		Nodes:            make(map[int64]bool),
		Edges:            make(map[int64]map[int64]*ResidualEdge),
		EdgesList:        make(map[int64][]*ResidualEdge),
		ReverseEdges:     make(map[int64]map[int64]*ResidualEdge),
		sortedNodesDirty: true,
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (rg *ResidualGraph) AddNode(id int64) {
	if !rg.Nodes[id] {
		rg.Nodes[id] = true
		rg.sortedNodesDirty = true
	}
}

func (rg *ResidualGraph) ensureNode(id int64) {
	if !rg.Nodes[id] {
		rg.Nodes[id] = true
		rg.sortedNodesDirty = true
	}
}

// AddEdge adds a forward edge to the graph.
//
// If an edge already exists between the same pair:
//   - If the existing edge is a reverse edge, it is converted to a forward edge.
//   - Otherwise, the capacity is accumulated (parallel edges are merged).
//
// For most use cases, prefer AddEdgeWithReverse which handles both directions.
func (rg *ResidualGraph) AddEdge(from, to int64, capacity float64) {
	rg.ensureNode(from)
	rg.ensureNode(to)

	if rg.Edges[from] == nil {
		rg.Edges[from] = make(map[int64]*ResidualEdge)
	}

	if existing := rg.Edges[from][to]; existing != nil {
		if existing.IsReverse {
			existing.OriginalCapacity = capacity
			existing.Capacity = capacity
			existing.IsReverse = false
			return
		}
		existing.Capacity += capacity
		existing.OriginalCapacity += capacity
		return
	}

	edge := &ResidualEdge{
		To:               to,
		Capacity:         capacity,
		OriginalCapacity: capacity,
		Index:            len(rg.EdgesList[from]),
	}

	rg.Edges[from][to] = edge
	rg.EdgesList[from] = append(rg.EdgesList[from], edge)
	rg.addReverseIndex(from, to, edge)
}

// AddReverseEdge adds a backward edge for flow cancellation, starting at
// capacity 0. Typically called internally by AddEdgeWithReverse.
func (rg *ResidualGraph) AddReverseEdge(from, to int64) {
	rg.ensureNode(from)
	rg.ensureNode(to)

	if rg.Edges[from] == nil {
		rg.Edges[from] = make(map[int64]*ResidualEdge)
	}

	if existing := rg.Edges[from][to]; existing != nil {
		return
	}

	edge := &ResidualEdge{
		To:        to,
		IsReverse: true,
		Index:     len(rg.EdgesList[from]),
	}

	if rg.ReverseEdges[to] == nil {
		rg.ReverseEdges[to] = make(map[int64]*ResidualEdge)
	}
	rg.ReverseEdges[to][from] = edge

	rg.Edges[from][to] = edge
	rg.EdgesList[from] = append(rg.EdgesList[from], edge)
	rg.addReverseIndex(from, to, edge)
}

func (rg *ResidualGraph) addReverseIndex(from, to int64, edge *ResidualEdge) {
	if rg.ReverseEdges[to] == nil {
		rg.ReverseEdges[to] = make(map[int64]*ResidualEdge)
	}
	rg.ReverseEdges[to][from] = edge
}

// AddEdgeWithReverse adds both the forward edge (capacity) and a zero-capacity
// backward edge in one call. This is the standard way to populate a reduced
// network before running the max-flow engine.
func (rg *ResidualGraph) AddEdgeWithReverse(from, to int64, capacity float64) {
	rg.AddEdge(from, to, capacity)
	rg.AddReverseEdge(to, from)
}

// GetEdge returns the edge from 'from' to 'to', or nil if not found.
func (rg *ResidualGraph) GetEdge(from, to int64) *ResidualEdge {
	if rg.Edges[from] == nil {
		return nil
	}
	return rg.Edges[from][to]
}

// GetNeighborsList returns all outgoing edges from a node in insertion order.
// Algorithms must use this (not map iteration) for deterministic traversal.
func (rg *ResidualGraph) GetNeighborsList(node int64) []*ResidualEdge {
	return rg.EdgesList[node]
}

// GetIncomingEdgesList returns all incoming edges to a node, sorted by
// source node ID for determinism.
func (rg *ResidualGraph) GetIncomingEdgesList(to int64) []IncomingEdge {
	incoming := rg.ReverseEdges[to]
	if incoming == nil {
		return nil
	}

	result := make([]IncomingEdge, 0, len(incoming))
	for from, edge := range incoming {
		result = append(result, IncomingEdge{From: from, Edge: edge})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].From < result[j].From
	})

	return result
}

// GetSortedNodes returns node IDs sorted in ascending order. The result is
// cached and invalidated whenever a node is added.
func (rg *ResidualGraph) GetSortedNodes() []int64 {
	if rg.sortedNodesDirty || len(rg.sortedNodes) != len(rg.Nodes) {
		rg.sortedNodes = make([]int64, 0, len(rg.Nodes))
		for node := range rg.Nodes {
			rg.sortedNodes = append(rg.sortedNodes, node)
		}
		sort.Slice(rg.sortedNodes, func(i, j int) bool {
			return rg.sortedNodes[i] < rg.sortedNodes[j]
		})
		rg.sortedNodesDirty = false
	}
	return rg.sortedNodes
}

// NodeCount returns the number of nodes in the graph.
func (rg *ResidualGraph) NodeCount() int {
	return len(rg.Nodes)
}

// UpdateFlow pushes flow along an edge and updates the residual graph:
// the forward edge's capacity decreases by flow and the backward edge's
// capacity increases by flow. The backward edge is created if absent.
func (rg *ResidualGraph) UpdateFlow(from, to int64, flow float64) {
	if edge := rg.GetEdge(from, to); edge != nil {
		edge.Flow += flow
		edge.Capacity -= flow
	}

	if backEdge := rg.GetEdge(to, from); backEdge != nil {
		backEdge.Capacity += flow
		return
	}

	if rg.Edges[to] == nil {
		rg.Edges[to] = make(map[int64]*ResidualEdge)
	}
	newEdge := &ResidualEdge{
		To:        from,
		Capacity:  flow,
		IsReverse: true,
		Index:     len(rg.EdgesList[to]),
	}
	rg.Edges[to][from] = newEdge
	rg.EdgesList[to] = append(rg.EdgesList[to], newEdge)
	rg.addReverseIndex(to, from, newEdge)
}

// GetFlowOnEdge returns the current flow on an edge, or 0 if it doesn't exist.
func (rg *ResidualGraph) GetFlowOnEdge(from, to int64) float64 {
	if edge := rg.GetEdge(from, to); edge != nil {
		return edge.Flow
	}
	return 0
}

// GetTotalFlow computes the total flow leaving the given node, summing only
// forward edges with positive flow.
func (rg *ResidualGraph) GetTotalFlow(source int64) float64 {
	total := 0.0
	for _, edge := range rg.EdgesList[source] {
		if !edge.IsReverse && edge.Flow > 0 {
			total += edge.Flow
		}
	}
	return total
}

// Reachable returns, in ascending order, every node reachable from source
// along edges with residual capacity greater than Epsilon. Used both for
// cut extraction in infeasibility certificates and for tight-edge detection.
func (rg *ResidualGraph) Reachable(source int64) []int64 {
	visited := map[int64]bool{source: true}
	queue := []int64{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, edge := range rg.GetNeighborsList(u) {
			if !visited[edge.To] && edge.Capacity > Epsilon {
				visited[edge.To] = true
				queue = append(queue, edge.To)
			}
		}
	}
	result := make([]int64, 0, len(visited))
	for node := range visited {
		result = append(result, node)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
