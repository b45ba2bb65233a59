package belts

import "sort"

// arena interns node names to int64 identifiers in ascending sorted-name
// order, so identifier comparisons (used by graph.BFSDeterministic) agree
// with the original implementation's alphabetical neighbor ordering. It
// also tracks, for every split node, the back-pointer from its in/out
// identifiers to the original node identifier — the index-based
// arena-of-records representation favored over string suffixes such as
// "<node>_in" / "<node>_out".
type arena struct {
	idByName map[string]int64
	names    []string

	// splitOut and splitIn map an original node id to its virtual out/in
	// ids, populated only for nodes that need splitting.
	splitOut map[int64]int64
	splitIn  map[int64]int64

	// originalOf maps a virtual split id back to the original node id it
	// was split from.
	originalOf map[int64]int64
}

func newArena(names map[string]struct{}) *arena {
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	a := &arena{
		idByName:   make(map[string]int64, len(sorted)),
		names:      make([]string, 0, len(sorted)),
		splitOut:   make(map[int64]int64),
		splitIn:    make(map[int64]int64),
		originalOf: make(map[int64]int64),
	}
	for _, n := range sorted {
		a.intern(n)
	}
	return a
}

// intern assigns (or returns the existing) id for name. Names not present
// in the initial construction set are appended in first-seen order; callers
// should pre-seed the arena with every known node name to keep ids in
// alphabetical order.
func (a *arena) intern(name string) int64 {
	if id, ok := a.idByName[name]; ok {
		return id
	}
	id := int64(len(a.names))
	a.idByName[name] = id
	a.names = append(a.names, name)
	return id
}

func (a *arena) id(name string) int64 {
	return a.intern(name)
}

func (a *arena) name(id int64) string {
	return a.names[id]
}

// split registers node as requiring an in/out pair, returning the (in, out)
// ids. Calling split twice on the same node returns the same pair.
func (a *arena) split(node int64) (inID, outID int64) {
	if out, ok := a.splitOut[node]; ok {
		return a.splitIn[node], out
	}

	inID = int64(len(a.names))
	a.names = append(a.names, a.names[node]+"::in")
	outID = int64(len(a.names))
	a.names = append(a.names, a.names[node]+"::out")

	a.splitIn[node] = inID
	a.splitOut[node] = outID
	a.originalOf[inID] = node
	a.originalOf[outID] = node
	return inID, outID
}

// isSplit reports whether node has been split.
func (a *arena) isSplit(node int64) bool {
	_, ok := a.splitOut[node]
	return ok
}

// tailID returns the id to use as the tail of an edge leaving node.
func (a *arena) tailID(node int64) int64 {
	if out, ok := a.splitOut[node]; ok {
		return out
	}
	return node
}

// headID returns the id to use as the head of an edge entering node.
func (a *arena) headID(node int64) int64 {
	if in, ok := a.splitIn[node]; ok {
		return in
	}
	return node
}

// original maps any virtual id (including split in/out ids) back to the
// original user-facing node id. Non-split ids are their own original.
func (a *arena) original(id int64) int64 {
	if orig, ok := a.originalOf[id]; ok {
		return orig
	}
	return id
}

// originalName is a convenience combining original and name.
func (a *arena) originalName(id int64) string {
	return a.name(a.original(id))
}
