// Package naming assigns stable names to the sub expressions of a query
// tree. The elasticsearch translator emits those names as named queries,
// so that the per document match reports of the engine can be mapped back
// onto the original expression.
package naming

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/searchtools/luceneq/pkg/lucene/tree"
	"github.com/searchtools/luceneq/pkg/lucene/visit"
)

// Path addresses a node as the sequence of child indices from the root.
type Path []int

// String renders the path in a compact dotted form, "" for the root.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// Equal reports whether two paths address the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// named reports whether a node kind is a match unit that receives a name:
// terms, ranges and approximations. Fuzzy and proximity are named as a
// whole, their inner term is not.
func named(n tree.Item) bool {
	switch n.(type) {
	case *tree.Word, *tree.Phrase, *tree.Regex, *tree.Range,
		*tree.Fuzzy, *tree.Proximity:
		return true
	}
	return false
}

// AutoName assigns a name to every match unit of the tree, in document
// order: a, b, ..., z, aa, ab... Names are stored on the nodes themselves
// and the returned index maps each name to the node's path.
func AutoName(t tree.Item) map[string]Path {
	index := map[string]Path{}
	count := 0
	// the callback never fails
	_ = visit.Walk(t, func(n tree.Item, ctx *visit.Context) (bool, error) {
		if !named(n) {
			return true, nil
		}
		name := nameFor(count)
		count++
		n.Base().SetQueryName(name)
		index[name] = append(Path(nil), ctx.Path...)
		return false, nil
	})
	return index
}

// nameFor turns a counter into a short letter name.
func nameFor(i int) string {
	name := ""
	for {
		name = string(rune('a'+i%26)) + name
		i = i/26 - 1
		if i < 0 {
			return name
		}
	}
}

// ElementFromPath returns the node addressed by path.
func ElementFromPath(t tree.Item, path Path) (tree.Item, error) {
	node := t
	for depth, idx := range path {
		children := node.Children()
		if idx < 0 || idx >= len(children) {
			return nil, errors.Errorf(
				"no child %d at depth %d of path %s", idx, depth, path)
		}
		node = children[idx]
	}
	return node, nil
}

// ElementFromName returns the node bearing name, using the index built by
// AutoName.
func ElementFromName(t tree.Item, name string, index map[string]Path) (tree.Item, error) {
	path, found := index[name]
	if !found {
		return nil, errors.Errorf("unknown name [%s]", name)
	}
	return ElementFromPath(t, path)
}
