// Package belts implements the transport-network feasibility and
// maximum-flow solver: lower-bound reduction and node-cap splitting (the
// Network Reducer), Edmonds-Karp max flow over the reduced network, and
// feasibility certification with flow reconstruction back onto the
// original edges.
package belts

// EdgeSpec is a directed edge in the original (un-split) network.
type EdgeSpec struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Lo   float64 `json:"lo,omitempty"`
	Hi   float64 `json:"hi"`
}

// SourceSpec is a supply source: a node supplying flow into the network.
type SourceSpec struct {
	Node   string  `json:"node"`
	Supply float64 `json:"supply"`
}

// Request is the BELTS request record.
type Request struct {
	Edges    []EdgeSpec         `json:"edges"`
	NodeCaps map[string]float64 `json:"node_caps,omitempty"`
	Sources  []SourceSpec       `json:"sources"`
	Sink     string             `json:"sink"`
}

// FlowEntry reports the flow carried by one original edge.
type FlowEntry struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Flow float64 `json:"flow"`
}

// TightEdge identifies an original edge crossing the min cut with zero
// residual capacity, reported as part of an infeasibility certificate.
type TightEdge struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	FlowNeeded float64 `json:"flow_needed"`
}

// Deficit is the infeasibility certificate attached to a failed solve.
type Deficit struct {
	DemandBalance float64     `json:"demand_balance"`
	TightNodes    []string    `json:"tight_nodes"`
	TightEdges    []TightEdge `json:"tight_edges"`
}

// Response is the BELTS response record. Exactly one of the success fields
// (MaxFlowPerMin/Flows) or failure fields (CutReachable/Deficit) is
// populated, selected by Status.
type Response struct {
	Status        string      `json:"status"`
	MaxFlowPerMin float64     `json:"max_flow_per_min,omitempty"`
	Flows         []FlowEntry `json:"flows,omitempty"`
	CutReachable  []string    `json:"cut_reachable,omitempty"`
	Deficit       *Deficit    `json:"deficit,omitempty"`
}

const (
	statusOK         = "ok"
	statusInfeasible = "infeasible"
)

func infeasible(cutReachable []string, deficit Deficit) *Response {
	return &Response{
		Status:       statusInfeasible,
		CutReachable: cutReachable,
		Deficit:      &deficit,
	}
}
