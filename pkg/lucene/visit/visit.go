// Package visit provides generic traversal and rewriting of lucene query
// trees. Walk visits nodes in document order, Transform builds a modified
// copy of a tree without ever mutating the original.
package visit

import (
	"github.com/pkg/errors"

	"github.com/searchtools/luceneq/pkg/lucene/tree"
)

// Context describes where the traversal currently is in the tree.
type Context struct {
	// Path is the sequence of child indices leading from the root to the
	// current node.
	Path []int

	// Parents holds the ancestors of the current node, root first.
	Parents []tree.Item
}

// Parent returns the direct parent of the current node, or nil at the root.
func (c *Context) Parent() tree.Item {
	if len(c.Parents) == 0 {
		return nil
	}
	return c.Parents[len(c.Parents)-1]
}

// child derives the context for the i-th child of n.
func (c *Context) child(n tree.Item, i int) *Context {
	path := make([]int, len(c.Path)+1)
	copy(path, c.Path)
	path[len(c.Path)] = i
	parents := make([]tree.Item, len(c.Parents)+1)
	copy(parents, c.Parents)
	parents[len(c.Parents)] = n
	return &Context{Path: path, Parents: parents}
}

// VisitFunc is called for every node. Return descend=false to skip the
// node's children.
type VisitFunc func(n tree.Item, ctx *Context) (descend bool, err error)

// Walk traverses the tree in pre-order, children in order.
func Walk(root tree.Item, fn VisitFunc) error {
	return walk(root, &Context{}, fn)
}

func walk(n tree.Item, ctx *Context, fn VisitFunc) error {
	descend, err := fn(n, ctx)
	if err != nil {
		return err
	}
	if !descend {
		return nil
	}
	for i, child := range n.Children() {
		if err := walk(child, ctx.child(n, i), fn); err != nil {
			return err
		}
	}
	return nil
}

// TransformFunc is called for every node of the tree being transformed.
//
// Returning handled=true replaces the node with the returned items: none
// removes it from its parent, one replaces it, several splice in. The
// children of a handled node are not visited, the returned items are used
// as is. Returning handled=false applies the generic behavior: clone the
// node and transform its children.
type TransformFunc func(n tree.Item, ctx *Context) (replacements []tree.Item, handled bool, err error)

// Transform builds a transformed copy of the tree. The input tree is
// never modified. Removing all the children of an n-ary operation removes
// the operation, a single surviving child takes the operation's place.
func Transform(root tree.Item, fn TransformFunc) (tree.Item, error) {
	results, err := transform(root, &Context{}, fn)
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, errors.Errorf(
			"the transform must produce exactly one root, got %d", len(results))
	}
	return results[0], nil
}

func transform(n tree.Item, ctx *Context, fn TransformFunc) ([]tree.Item, error) {
	replacements, handled, err := fn(n, ctx)
	if err != nil {
		return nil, err
	}
	if handled {
		return replacements, nil
	}
	return GenericTransform(n, ctx, fn)
}

// GenericTransform is the default transformation of a node: clone it,
// transform the children, and rebuild. It is exported so a TransformFunc
// can invoke the generic behavior on a node it partially handles.
func GenericTransform(n tree.Item, ctx *Context, fn TransformFunc) ([]tree.Item, error) {
	children := n.Children()
	clone := n.CloneItem()
	if len(children) == 0 {
		return []tree.Item{clone}, nil
	}

	newChildren := make([]tree.Item, 0, len(children))
	for i, child := range children {
		results, err := transform(child, ctx.child(n, i), fn)
		if err != nil {
			return nil, err
		}
		newChildren = append(newChildren, results...)
	}

	if _, isOperation := n.(tree.Operation); isOperation {
		switch len(newChildren) {
		case 0:
			// the whole operation vanishes
			return nil, nil
		case 1:
			// an operation with a single operand is that operand
			return newChildren, nil
		}
	}

	if err := clone.SetChildren(newChildren); err != nil {
		return nil, err
	}
	return []tree.Item{clone}, nil
}
