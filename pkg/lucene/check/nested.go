package check

import (
	"strings"

	"github.com/searchtools/luceneq/pkg/lucene/tree"
	"github.com/searchtools/luceneq/pkg/lucene/visit"
)

// NestedFields checks the search fields of a tree against the nested and
// object layout of an index.
//
// NestedSpecs maps each nested parent path to the names of its direct sub
// fields, eg. {"authors": ["firstname", "lastname"]}. ObjectFields lists
// the dotted leaf paths living inside plain object mappings, SubFields
// the dotted multi-field paths. A nil ObjectFields or SubFields accepts
// any unknown dotted path.
type NestedFields struct {
	NestedSpecs  map[string][]string
	ObjectFields []string
	SubFields    []string
}

// Check walks the tree and returns the first nested or object field
// violation, or nil.
func (c *NestedFields) Check(t tree.Item) error {
	nestedFull := map[string]bool{}
	nestedPrefixes := map[string]bool{}
	for parent, subs := range c.NestedSpecs {
		nestedPrefixes[parent] = true
		for _, sub := range subs {
			nestedFull[parent+"."+sub] = true
		}
	}

	objectFields := map[string]bool{}
	objectPrefixes := map[string]bool{}
	for _, f := range c.ObjectFields {
		objectFields[f] = true
		if i := strings.LastIndex(f, "."); i >= 0 {
			objectPrefixes[f[:i]] = true
		}
	}

	subFields := map[string]bool{}
	for _, f := range c.SubFields {
		subFields[f] = true
	}

	return visit.Walk(t, func(n tree.Item, ctx *visit.Context) (bool, error) {
		switch n.(type) {
		case *tree.Word, *tree.Phrase, *tree.Regex, *tree.Range:
		default:
			return true, nil
		}

		prefix := fieldPrefix(ctx)
		if len(prefix) == 0 {
			return true, nil
		}
		fullname := strings.Join(prefix, ".")

		switch {
		case nestedPrefixes[fullname]:
			return false, &NestedSearchFieldError{
				Expr:  n.String(),
				Field: fullname,
				Why:   "it is a nested field",
			}
		case objectPrefixes[fullname]:
			return false, &NestedSearchFieldError{
				Expr:  n.String(),
				Field: fullname,
				Why:   "it is an object field",
			}
		case len(prefix) > 1:
			unknown := c.SubFields != nil && c.ObjectFields != nil &&
				!subFields[fullname] && !objectFields[fullname] && !nestedFull[fullname]
			if unknown {
				return false, &ObjectSearchFieldError{Expr: n.String(), Field: fullname}
			}
		}
		return true, nil
	})
}

// fieldPrefix joins the dotted names of the search fields enclosing the
// current node.
func fieldPrefix(ctx *visit.Context) []string {
	var prefix []string
	for _, parent := range ctx.Parents {
		if sf, ok := parent.(*tree.SearchField); ok {
			prefix = append(prefix, strings.Split(sf.Name, ".")...)
		}
	}
	return prefix
}
