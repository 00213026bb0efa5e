// Package tree contains the elements that constitute a parsed lucene query.
//
// You may build a tree directly to represent a query, or get one as the
// result of parsing a query string. Every node keeps the non meaningful
// text surrounding it (head and tail) so an unmodified tree prints back
// to the exact original string, apart from the root's own head and tail,
// which are not printed.
package tree

import (
	"fmt"
	"strings"
)

// Item is the interface implemented by every node of the parse tree.
type Item interface {
	fmt.Stringer

	// Children returns the sub items, in order.
	Children() []Item

	// SetChildren replaces the sub items. The number of children must fit
	// the node kind (eg. a Range takes exactly two).
	SetChildren(children []Item) error

	// CloneItem returns a shallow copy of the node. Children are shared
	// with the original, trivia and span are copied.
	CloneItem() Item

	// Base gives access to the trivia and span common to all nodes.
	Base() *ItemBase

	equal(other Item, trivia bool) bool
}

// ItemBase carries what every item has: surrounding trivia, the span in the
// original text, and an optional query name used for named queries.
//
// Pos and Size are only meaningful on trees produced by the parser. They
// do not account for head and tail.
type ItemBase struct {
	Head string
	Tail string
	Pos  int
	Size int

	queryName string
}

// Base implements the Item interface access to common fields.
func (b *ItemBase) Base() *ItemBase { return b }

// Span returns the (start, end) position of the element in the original
// expression. ok is false when the node was built programmatically and
// carries no span.
func (b *ItemBase) Span(trivia bool) (start, end int, ok bool) {
	if b.Size == 0 {
		return 0, 0, false
	}
	start = b.Pos
	end = b.Pos + b.Size
	if trivia {
		start -= len(b.Head)
		end += len(b.Tail)
	}
	return start, end, true
}

// SetQueryName attaches a stable name to the node, used by the
// elasticsearch translator to emit named queries.
func (b *ItemBase) SetQueryName(name string) { b.queryName = name }

// QueryName returns the name attached to the node, or "".
func (b *ItemBase) QueryName() string { return b.queryName }

// Equal compares two trees structurally: same kinds, same own attributes,
// same children pairwise. Trivia, spans and query names are ignored.
func Equal(a, b Item) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.equal(b, false)
}

// EqualWithTrivia compares two trees structurally, also requiring head and
// tail trivia to match on every node.
func EqualWithTrivia(a, b Item) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.equal(b, true)
}

// itemString renders a node: its own head and tail are omitted, children
// are rendered with their trivia. Parsing then printing an expression
// gives it back unchanged, less any leading or trailing whitespace.
func itemString(n Item) string {
	var sb strings.Builder
	writeSurface(n, &sb)
	return sb.String()
}

// writeSurface writes a node's surface by walking its parts.
func writeSurface(n Item, sb *strings.Builder) {
	for _, part := range Parts(n) {
		if part.Child != nil {
			emit(part.Child, sb)
		} else {
			sb.WriteString(part.Text)
		}
	}
}

// emit writes a node including its own head and tail.
func emit(n Item, sb *strings.Builder) {
	b := n.Base()
	sb.WriteString(b.Head)
	writeSurface(n, sb)
	sb.WriteString(b.Tail)
}

// baseEqual checks trivia equality when requested.
func (b *ItemBase) baseEqual(o *ItemBase, trivia bool) bool {
	if !trivia {
		return true
	}
	return b.Head == o.Head && b.Tail == o.Tail
}

// childrenEqual compares two children slices pairwise.
func childrenEqual(a, b []Item, trivia bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i], trivia) {
			return false
		}
	}
	return true
}

// DeepClone clones a whole tree, sharing nothing with the original.
func DeepClone(n Item) Item {
	clone := n.CloneItem()
	children := n.Children()
	if len(children) == 0 {
		return clone
	}
	newChildren := make([]Item, len(children))
	for i, c := range children {
		newChildren[i] = DeepClone(c)
	}
	// the child count is unchanged so this cannot fail
	_ = clone.SetChildren(newChildren)
	return clone
}

// errChildren builds the error for a SetChildren call with a wrong count.
func errChildren(n Item, want string, got int) error {
	return fmt.Errorf("%T accepts %s children, got %d", n, want, got)
}
