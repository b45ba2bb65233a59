package graph

// ReconstructPath builds a path from source to sink using the parent map
// produced by BFSDeterministic. Starting from sink, it follows parent
// pointers back to source and reverses the result.
//
// Returns an empty slice if sink is not reachable.
func ReconstructPath(parent map[int64]int64, source, sink int64) []int64 {
	if _, ok := parent[sink]; !ok {
		return nil
	}

	var path []int64
	for at := sink; ; {
		path = append(path, at)
		if at == source {
			break
		}
		next, ok := parent[at]
		if !ok {
			return nil
		}
		at = next
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindMinCapacityOnPath finds the minimum residual capacity along a path:
// the bottleneck that determines how much flow can be pushed without
// exceeding any edge's capacity.
func FindMinCapacityOnPath(g *ResidualGraph, path []int64) float64 {
	if len(path) < 2 {
		return 0
	}

	minCapacity := Infinity
	for i := 0; i < len(path)-1; i++ {
		edge := g.GetEdge(path[i], path[i+1])
		if edge == nil {
			return 0
		}
		if edge.Capacity < minCapacity {
			minCapacity = edge.Capacity
		}
	}

	if minCapacity == Infinity {
		return 0
	}
	return minCapacity
}

// AugmentPath pushes flow along a path, updating residual capacities on both
// the forward and backward edges of every hop.
func AugmentPath(g *ResidualGraph, path []int64, flow float64) {
	for i := 0; i < len(path)-1; i++ {
		g.UpdateFlow(path[i], path[i+1], flow)
	}
}
