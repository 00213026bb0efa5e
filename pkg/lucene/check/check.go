// Package check verifies that a query tree is consistent: that it is
// structurally sound, and that its search fields agree with the nested
// and object field layout of the target index.
package check

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/searchtools/luceneq/pkg/lucene/tree"
	"github.com/searchtools/luceneq/pkg/lucene/visit"
)

// InconsistentQueryError is implemented by every semantic error this
// package and the elasticsearch translator report.
type InconsistentQueryError interface {
	error
	inconsistentQuery()
}

// NestedSearchFieldError reports a search expression attributed directly
// to a nested field, or a sub field not declared under its nested parent.
type NestedSearchFieldError struct {
	Expr  string
	Field string
	Why   string
}

func (e *NestedSearchFieldError) Error() string {
	return fmt.Sprintf("%q can't be attributed to %q: %s", e.Expr, e.Field, e.Why)
}

func (e *NestedSearchFieldError) inconsistentQuery() {}

// ObjectSearchFieldError reports a search path crossing object fields
// that does not resolve to a known object, nested or sub field.
type ObjectSearchFieldError struct {
	Expr  string
	Field string
}

func (e *ObjectSearchFieldError) Error() string {
	return fmt.Sprintf("%q attributed to unknown nested or object field %q", e.Expr, e.Field)
}

func (e *ObjectSearchFieldError) inconsistentQuery() {}

// OrAndAndOnSameLevelError reports an OR and an AND mixed on the same
// level without explicit grouping, which makes the intent ambiguous.
type OrAndAndOnSameLevelError struct {
	Excerpt string
}

func (e *OrAndAndOnSameLevelError) Error() string {
	return fmt.Sprintf("OR and AND on the same level, use parenthesis around %q", e.Excerpt)
}

func (e *OrAndAndOnSameLevelError) inconsistentQuery() {}

// StructureError gathers the structural problems LuceneCheck found.
type StructureError struct {
	Problems []string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("inconsistent query: %s", strings.Join(e.Problems, "; "))
}

func (e *StructureError) inconsistentQuery() {}

var fieldNameRe = regexp.MustCompile(`^[\w.]+$`)

// LuceneCheck reports structural problems in a query tree. It is meant
// both for trees built by hand and for parsed trees, the parser being
// more tolerant than what a search engine accepts.
//
// Zeal above zero turns on extra pitfall checks.
type LuceneCheck struct {
	Zeal int
}

// Check returns the problems found as a single error, or nil.
func (c *LuceneCheck) Check(t tree.Item) error {
	problems := c.Errors(t)
	if len(problems) == 0 {
		return nil
	}
	return &StructureError{Problems: problems}
}

// Errors lists every problem found in the tree, in document order.
func (c *LuceneCheck) Errors(t tree.Item) []string {
	var problems []string
	// the walk callback cannot fail, errors are accumulated instead
	_ = visit.Walk(t, func(n tree.Item, ctx *visit.Context) (bool, error) {
		problems = append(problems, c.checkNode(n, ctx)...)
		return true, nil
	})
	return problems
}

func (c *LuceneCheck) checkNode(n tree.Item, ctx *visit.Context) []string {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	switch v := n.(type) {
	case *tree.SearchField:
		if !fieldNameRe.MatchString(v.Name) {
			report("%q is not a valid field name", v.Name)
		}
		switch v.Expr.(type) {
		case *tree.Word, *tree.Phrase, *tree.Regex, *tree.FieldGroup,
			*tree.Range, *tree.Fuzzy, *tree.Proximity, *tree.Boost:
		default:
			report("field expression is not valid: %s", v)
		}

	case *tree.Group:
		if _, underField := ctx.Parent().(*tree.SearchField); underField {
			report("misused group, after a field use a field group: %s", ctx.Parent())
		}

	case *tree.FieldGroup:
		if _, underField := ctx.Parent().(*tree.SearchField); !underField {
			report("misused field group, it only goes after a field: %s", v)
		}

	case *tree.Word:
		if strings.ContainsAny(v.Value, " \t\r\n") {
			report("a single term can't hold a space: %s", v)
		}

	case *tree.Fuzzy:
		if v.Degree < 0 {
			report("invalid degree %v, it must not be negative", v.Degree)
		}
		if _, isWord := v.Term.(*tree.Word); !isWord {
			report("fuzziness only applies to a single term in %s", v)
		}

	case *tree.Proximity:
		if _, isPhrase := v.Term.(*tree.Phrase); !isPhrase {
			report("proximity only applies to a phrase in %s", v)
		}

	case *tree.Range:
		if !isRangeBound(v.Low) || !isRangeBound(v.High) {
			report("range bounds must be words: %s", v)
		}

	case tree.Operation:
		if len(v.Operands()) < 2 {
			report("operation needs at least two operands: %s", v)
		}

	case *tree.Not:
		problems = append(problems, c.checkNegation(n, ctx)...)
	case *tree.Prohibit:
		problems = append(problems, c.checkNegation(n, ctx)...)
	}
	return problems
}

func isRangeBound(n tree.Item) bool {
	_, isWord := n.(*tree.Word)
	return isWord
}

// checkNegation flags NOT and - inside an OR, which really mean AND NOT.
func (c *LuceneCheck) checkNegation(n tree.Item, ctx *visit.Context) []string {
	if c.Zeal <= 0 {
		return nil
	}
	if _, inOr := ctx.Parent().(*tree.OrOperation); inOr {
		return []string{fmt.Sprintf(
			"%s really means AND NOT, inconsistent inside the OR %s", n, ctx.Parent())}
	}
	return nil
}
