package naming

import (
	"github.com/searchtools/luceneq/pkg/lucene/tree"
)

// MatchingPropagator maps the set of names a search engine reported as
// matching back onto the query tree.
//
// A named node matched when its name is in the report. The boolean
// operators combine their operands: AND (and implicit operations) need
// every operand to match, OR needs one, NOT and - invert, everything else
// follows its sub expression.
type MatchingPropagator struct {
	matched map[string]bool
}

// NewMatchingPropagator builds a propagator for the names the engine
// reported as matching.
func NewMatchingPropagator(matchedNames ...string) *MatchingPropagator {
	matched := make(map[string]bool, len(matchedNames))
	for _, name := range matchedNames {
		matched[name] = true
	}
	return &MatchingPropagator{matched: matched}
}

// Propagate classifies every node of the tree: ok holds the paths of the
// nodes that matched (themselves or through their descendants), ko the
// paths of the nodes that were in a position to match but did not. The
// two sets are disjoint, in document order, and cover every node except
// the inner nodes of named match units, which are not classified.
func (m *MatchingPropagator) Propagate(t tree.Item) (ok, ko []Path) {
	m.classify(t, nil, &ok, &ko)
	return ok, ko
}

func (m *MatchingPropagator) classify(n tree.Item, path Path, ok, ko *[]Path) {
	here := append(Path(nil), path...)
	if m.eval(n) {
		*ok = append(*ok, here)
	} else {
		*ko = append(*ko, here)
	}
	if named(n) && n.Base().QueryName() != "" {
		// a named match unit is atomic, its inner nodes are not classified
		return
	}
	for i, c := range n.Children() {
		m.classify(c, append(path, i), ok, ko)
	}
}

// eval computes whether a node matched.
func (m *MatchingPropagator) eval(n tree.Item) bool {
	if name := n.Base().QueryName(); name != "" && named(n) {
		return m.matched[name]
	}

	switch v := n.(type) {
	case *tree.OrOperation:
		for _, op := range v.Ops {
			if m.eval(op) {
				return true
			}
		}
		return false
	case *tree.AndOperation:
		return m.evalAll(v.Ops)
	case *tree.UnknownOperation:
		return m.evalAll(v.Ops)
	case *tree.Not:
		return !m.eval(v.Sub)
	case *tree.Prohibit:
		return !m.eval(v.Sub)
	}

	// single child wrappers follow their sub expression
	if children := n.Children(); len(children) == 1 {
		return m.eval(children[0])
	}
	return false
}

func (m *MatchingPropagator) evalAll(ops []tree.Item) bool {
	for _, op := range ops {
		if !m.eval(op) {
			return false
		}
	}
	return true
}
