package factory

import (
	"gonum.org/v1/gonum/mat"
)

// columnSet assigns every LP variable a column index. Recipe activities come
// first (sorted, for deterministic indexing), followed by the surplus,
// consumption, and slack variables F2 introduces to turn each inequality
// into an equality.
type columnSet struct {
	recipeCol       map[string]int
	surplusCol      map[string]int
	consumptionCol  map[string]int
	rawSlackCol     map[string]int
	machineSlackCol map[string]int
	numVars         int
}

func (m *model) columns() *columnSet {
	cs := &columnSet{
		recipeCol:       make(map[string]int, len(m.recipeNames)),
		surplusCol:      make(map[string]int),
		consumptionCol:  make(map[string]int),
		rawSlackCol:     make(map[string]int),
		machineSlackCol: make(map[string]int),
	}

	col := 0
	for _, name := range m.recipeNames {
		cs.recipeCol[name] = col
		col++
	}
	for _, item := range m.byproductItems() {
		cs.surplusCol[item] = col
		col++
	}
	raw := m.rawItems()
	for _, item := range raw {
		cs.consumptionCol[item] = col
		col++
	}
	for _, item := range raw {
		cs.rawSlackCol[item] = col
		col++
	}
	for _, mc := range m.machineNames {
		if _, ok := m.req.Limits.MaxMachines[mc]; ok {
			cs.machineSlackCol[mc] = col
			col++
		}
	}
	cs.numVars = col
	return cs
}

// buildLP is the F2 LP Formulator: it turns the per-item balance rules, the
// raw-supply cap, and the per-machine-class capacity into a standard-form
// equality system Ax = b, x >= 0, minimizing total machine usage.
func (m *model) buildLP(targetRate float64) (c []float64, A *mat.Dense, b []float64, cs *columnSet) {
	cs = m.columns()
	n := cs.numVars

	c = make([]float64, n)
	for _, name := range m.recipeNames {
		c[cs.recipeCol[name]] = 1 / m.eff[name]
	}

	var rows [][]float64
	var rhs []float64

	rawSupply := m.req.Limits.RawSupplyPerMin

	// Per-item balance: net production, adjusted per classification.
	for _, item := range m.allItems {
		row := make([]float64, n)
		for _, name := range m.recipeNames {
			r := m.req.Recipes[name]
			if qty, ok := r.Out[item]; ok {
				row[cs.recipeCol[name]] += qty * m.prod[name]
			}
			if qty, ok := r.In[item]; ok {
				row[cs.recipeCol[name]] -= qty
			}
		}
		switch m.class[item] {
		case classTarget:
			rows = append(rows, row)
			rhs = append(rhs, targetRate)
		case classIntermediate:
			rows = append(rows, row)
			rhs = append(rhs, 0)
		case classByproduct:
			row[cs.surplusCol[item]] = -1
			rows = append(rows, row)
			rhs = append(rhs, 0)
		case classRaw:
			row[cs.consumptionCol[item]] = 1
			rows = append(rows, row)
			rhs = append(rhs, 0)
		}
	}

	// Raw supply cap: consumption + slack = supply (defaults to 0 when the
	// item has no supply entry, which forces consumption to 0).
	for _, item := range m.rawItems() {
		row := make([]float64, n)
		row[cs.consumptionCol[item]] = 1
		row[cs.rawSlackCol[item]] = 1
		rows = append(rows, row)
		rhs = append(rhs, rawSupply[item])
	}

	// Machine-class capacity: usage + slack = cap, only when a cap is given.
	for _, mc := range m.machineNames {
		cap, ok := m.req.Limits.MaxMachines[mc]
		if !ok {
			continue
		}
		row := make([]float64, n)
		for _, name := range m.recipeNames {
			if m.req.Recipes[name].Machine == mc {
				row[cs.recipeCol[name]] += 1 / m.eff[name]
			}
		}
		row[cs.machineSlackCol[mc]] = 1
		rows = append(rows, row)
		rhs = append(rhs, cap)
	}

	data := make([]float64, 0, len(rows)*n)
	for _, row := range rows {
		data = append(data, row...)
	}
	A = mat.NewDense(len(rows), n, data)
	b = rhs
	return c, A, b, cs
}
