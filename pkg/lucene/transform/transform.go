// Package transform holds ready made tree transformations: resolving
// implicit operations to an explicit boolean operator, and filling in the
// minimal whitespace a hand built tree needs to print as a valid query.
package transform

import (
	"github.com/searchtools/luceneq/pkg/lucene/tree"
	"github.com/searchtools/luceneq/pkg/lucene/visit"
)

// Operator designates one of the explicit boolean operations.
type Operator int

const (
	// AndOperator resolves implicit operations to AND.
	AndOperator Operator = iota
	// OrOperator resolves implicit operations to OR.
	OrOperator
)

// UnknownOperationResolver rewrites every UnknownOperation of a tree into
// an AndOperation or an OrOperation. An implicit operation takes the kind
// of the nearest enclosing explicit operation, so that `a AND (b c)`
// resolves to AND. Without such a neighbor the default operator applies.
type UnknownOperationResolver struct {
	defaultOp Operator
}

// NewUnknownOperationResolver builds a resolver using defaultOp when the
// surroundings of an implicit operation give no hint.
func NewUnknownOperationResolver(defaultOp Operator) *UnknownOperationResolver {
	return &UnknownOperationResolver{defaultOp: defaultOp}
}

// Resolve returns a copy of the tree with every UnknownOperation replaced.
// The input tree is left untouched.
func (r *UnknownOperationResolver) Resolve(t tree.Item) (tree.Item, error) {
	return visit.Transform(t, r.resolve)
}

func (r *UnknownOperationResolver) resolve(n tree.Item, ctx *visit.Context) ([]tree.Item, bool, error) {
	unknown, ok := n.(*tree.UnknownOperation)
	if !ok {
		return nil, false, nil
	}

	items, err := visit.GenericTransform(unknown, ctx, r.resolve)
	if err != nil {
		return nil, false, err
	}
	if len(items) != 1 {
		// the operation got downgraded or removed while transforming
		return items, true, nil
	}
	clone, ok := items[0].(*tree.UnknownOperation)
	if !ok {
		return items, true, nil
	}

	var resolved tree.Item
	switch r.operatorFor(ctx) {
	case OrOperator:
		op := &tree.OrOperation{Ops: clone.Ops}
		op.ItemBase = *clone.Base()
		resolved = op
	default:
		op := &tree.AndOperation{Ops: clone.Ops}
		op.ItemBase = *clone.Base()
		resolved = op
	}
	// the keyword replaces bare whitespace, give it room to print
	spaceAroundKeywords(clone.Ops)
	return []tree.Item{resolved}, true, nil
}

// operatorFor picks the operator from the nearest explicit operation
// above the current node, falling back on the default.
func (r *UnknownOperationResolver) operatorFor(ctx *visit.Context) Operator {
	for i := len(ctx.Parents) - 1; i >= 0; i-- {
		switch ctx.Parents[i].(type) {
		case *tree.AndOperation:
			return AndOperator
		case *tree.OrOperation:
			return OrOperator
		}
	}
	return r.defaultOp
}

const spacer = " "

// AutoHeadTail returns a copy of the tree with just enough head and tail
// trivia added for the printed expression to be syntactically valid:
// a single space between keyword operators and their operands, none
// inside parentheses or brackets. Existing trivia is kept.
func AutoHeadTail(t tree.Item) (tree.Item, error) {
	return visit.Transform(t, autoHeadTail)
}

func autoHeadTail(n tree.Item, ctx *visit.Context) ([]tree.Item, bool, error) {
	switch n.(type) {
	case *tree.AndOperation, *tree.OrOperation, *tree.UnknownOperation,
		*tree.Not, *tree.Range:
	default:
		return nil, false, nil
	}

	items, err := visit.GenericTransform(n, ctx, autoHeadTail)
	if err != nil {
		return nil, false, err
	}
	if len(items) == 1 {
		// the children of the rebuilt node are fresh clones, safe to touch
		addSpacing(items[0])
	}
	return items, true, nil
}

func addSpacing(n tree.Item) {
	switch v := n.(type) {
	case *tree.AndOperation:
		spaceAroundKeywords(v.Ops)
	case *tree.OrOperation:
		spaceAroundKeywords(v.Ops)
	case *tree.UnknownOperation:
		// only a separator between operands
		for _, op := range v.Ops[:len(v.Ops)-1] {
			addTail(op)
		}
	case *tree.Not:
		addHead(v.Sub)
	case *tree.Range:
		addTail(v.Low)
		addHead(v.High)
	}
}

// spaceAroundKeywords separates operands from the AND / OR keywords.
func spaceAroundKeywords(ops []tree.Item) {
	addTail(ops[0])
	for _, op := range ops[1 : len(ops)-1] {
		addHead(op)
		addTail(op)
	}
	addHead(ops[len(ops)-1])
}

func addHead(n tree.Item) {
	if n.Base().Head == "" {
		n.Base().Head = spacer
	}
}

func addTail(n tree.Item) {
	if n.Base().Tail == "" {
		n.Base().Tail = spacer
	}
}
