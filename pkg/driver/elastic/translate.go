package elastic

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/searchtools/luceneq/pkg/lucene/check"
	"github.com/searchtools/luceneq/pkg/lucene/tree"
)

// Translator lowers a lucene query tree into the elasticsearch query
// DSL. It is safe to reuse for any number of translations, the options
// are read only once built.
type Translator struct {
	opts          Options
	notAnalyzed   map[string]bool
	nestedParents []string // sorted by length, shortest first
}

// NewTranslator builds a translator. Without options, every field is
// considered analyzed and fieldless terms search the "text" field.
func NewTranslator(opts ...Option) *Translator {
	o := Options{
		DefaultField: "text",
		Logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Translator{opts: o, notAnalyzed: map[string]bool{}}
	for _, field := range o.NotAnalyzedFields {
		t.notAnalyzed[field] = true
	}
	for parent := range o.NestedFields {
		t.nestedParents = append(t.nestedParents, parent)
	}
	sort.Slice(t.nestedParents, func(i, j int) bool {
		return len(t.nestedParents[i]) < len(t.nestedParents[j])
	})
	return t
}

// Translate produces the json structure for the query field of an
// elasticsearch search body. The tree is not modified.
func (t *Translator) Translate(item tree.Item) (map[string]any, error) {
	t.opts.Logger.Debug().Str("query", item.String()).Msg("translating lucene query")

	if len(t.opts.NestedFields) > 0 || t.opts.ObjectFields != nil || t.opts.SubFields != nil {
		checker := &check.NestedFields{
			NestedSpecs:  t.opts.NestedFields,
			ObjectFields: t.opts.ObjectFields,
			SubFields:    t.opts.SubFields,
		}
		if err := checker.Check(item); err != nil {
			return nil, err
		}
	}

	elem, err := t.element(item, transContext{})
	if err != nil {
		return nil, err
	}
	result, err := elem.json()
	if err != nil {
		return nil, err
	}
	t.opts.Logger.Debug().Msg("lucene query translated")
	return result, nil
}

// transContext is the state threaded down the tree during the first
// pass: the field the expression applies to and the nested path an
// ancestor already wrapped.
type transContext struct {
	field      string
	nestedPath string
}

func (t *Translator) fieldOrDefault(ctx transContext) string {
	if ctx.field != "" {
		return ctx.field
	}
	return t.opts.DefaultField
}

func hasWildcard(value string) bool {
	return len(tree.IterWildcards(value)) > 0
}

var spaceRuns = regexp.MustCompile(`\s+`)

// normalizePhrase folds every whitespace run of a phrase, newlines
// included, into a single space.
func normalizePhrase(value string) string {
	return spaceRuns.ReplaceAllString(value, " ")
}

// excerpt shortens a node's text for error messages.
func excerpt(n tree.Item) string {
	s := n.String()
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}

// element builds the intermediate element for a tree node.
func (t *Translator) element(n tree.Item, ctx transContext) (element, error) {
	switch v := n.(type) {
	case *tree.Word:
		field := t.fieldOrDefault(ctx)
		if v.IsWildcard() {
			return &eExists{leafProps{field: field, name: v.QueryName()}}, nil
		}
		return &eWord{
			t:         t,
			leafProps: leafProps{field: field, name: v.QueryName()},
			value:     v.Value,
		}, nil

	case *tree.Phrase:
		return &ePhrase{
			t:         t,
			leafProps: leafProps{field: t.fieldOrDefault(ctx), name: v.QueryName()},
			value:     normalizePhrase(v.Text()),
		}, nil

	case *tree.Regex:
		return &eRegex{
			t:         t,
			leafProps: leafProps{field: t.fieldOrDefault(ctx), name: v.QueryName()},
			value:     v.Text(),
		}, nil

	case *tree.Range:
		return t.rangeElement(v, ctx)

	case *tree.Fuzzy:
		word, ok := v.Term.(*tree.Word)
		if !ok {
			return nil, errors.Errorf("fuzziness only applies to words: %s", excerpt(v))
		}
		return &eFuzzy{
			t:         t,
			leafProps: leafProps{field: t.fieldOrDefault(ctx), name: nodeName(v, word)},
			value:     word.Value,
			degree:    v.Degree,
		}, nil

	case *tree.Proximity:
		phrase, ok := v.Term.(*tree.Phrase)
		if !ok {
			return nil, errors.Errorf("proximity only applies to phrases: %s", excerpt(v))
		}
		return &eProximity{
			t:         t,
			leafProps: leafProps{field: t.fieldOrDefault(ctx), name: nodeName(v, phrase)},
			value:     normalizePhrase(phrase.Text()),
			degree:    v.Degree,
		}, nil

	case *tree.Boost:
		sub, err := t.element(v.Sub, ctx)
		if err != nil {
			return nil, err
		}
		if leaf, isLeaf := sub.(interface{ setBoost(float64) }); isLeaf {
			leaf.setBoost(v.Force)
			return sub, nil
		}
		return &eBoost{sub: sub, force: v.Force}, nil

	case *tree.Not:
		return t.negation(v.Sub, ctx)
	case *tree.Prohibit:
		return t.negation(v.Sub, ctx)

	case *tree.Plus:
		sub, err := t.element(v.Sub, ctx)
		if err != nil {
			return nil, err
		}
		setZeroTerms(sub, "all")
		return &eBool{kind: "must", items: []element{sub}}, nil

	case *tree.Group:
		return t.element(v.Expr, ctx)
	case *tree.FieldGroup:
		return t.element(v.Expr, ctx)

	case *tree.SearchField:
		return t.searchField(v, ctx)

	case *tree.AndOperation:
		return t.boolOperation(v, "must", ctx)
	case *tree.OrOperation:
		return t.boolOperation(v, "should", ctx)

	case *tree.UnknownOperation:
		switch t.opts.DefaultOperator {
		case OpAnd:
			return t.boolOperation(v, "must", ctx)
		case OpOr:
			return t.boolOperation(v, "should", ctx)
		}
		return nil, &UnknownOperationError{Excerpt: excerpt(v)}
	}

	return nil, errors.Errorf("no translation for %T", n)
}

// nodeName prefers the name of the wrapping node, falling back on the
// inner term's.
func nodeName(outer, inner tree.Item) string {
	if name := outer.Base().QueryName(); name != "" {
		return name
	}
	return inner.Base().QueryName()
}

func (t *Translator) rangeElement(v *tree.Range, ctx transContext) (element, error) {
	low, lowOk := v.Low.(*tree.Word)
	high, highOk := v.High.(*tree.Word)
	if !lowOk || !highOk {
		return nil, errors.Errorf("range bounds must be words: %s", excerpt(v))
	}

	e := &eRange{
		t:         t,
		leafProps: leafProps{field: t.fieldOrDefault(ctx), name: v.QueryName()},
	}
	if low.Value != "*" {
		if v.IncludeLow {
			e.gte = low.Value
		} else {
			e.gt = low.Value
		}
	}
	if high.Value != "*" {
		if v.IncludeHigh {
			e.lte = high.Value
		} else {
			e.lt = high.Value
		}
	}
	return e, nil
}

func (t *Translator) negation(sub tree.Item, ctx transContext) (element, error) {
	elem, err := t.element(sub, ctx)
	if err != nil {
		return nil, err
	}
	setZeroTerms(elem, "none")
	return &eBool{kind: "must_not", items: []element{elem}}, nil
}

// searchField pushes the field onto the context and wraps the resulting
// query for every nested boundary the field path crosses.
func (t *Translator) searchField(v *tree.SearchField, ctx transContext) (element, error) {
	sub := ctx
	if ctx.field == "" {
		sub.field = v.Name
	} else {
		sub.field = ctx.field + "." + v.Name
	}

	chain := t.nestedChain(sub.field, ctx.nestedPath)
	if len(chain) > 0 {
		sub.nestedPath = chain[len(chain)-1]
	}

	elem, err := t.element(v.Expr, sub)
	if err != nil {
		return nil, err
	}
	// wrap innermost first so the outermost nested ends up on top
	for i := len(chain) - 1; i >= 0; i-- {
		elem = &eNested{path: chain[i], query: elem}
	}
	return elem, nil
}

// nestedChain lists the nested parents covering field that no ancestor
// wrapped yet, outermost first.
func (t *Translator) nestedChain(field, wrapped string) []string {
	var chain []string
	for _, parent := range t.nestedParents {
		if field != parent && !strings.HasPrefix(field, parent+".") {
			continue
		}
		if wrapped == parent || strings.HasPrefix(wrapped, parent+".") ||
			wrapped == field {
			continue // already inside this nested scope
		}
		chain = append(chain, parent)
	}
	return chain
}

// boolKind gives the bool clause an operation maps to, when known.
func (t *Translator) boolKind(n tree.Item) (string, bool) {
	switch n.(type) {
	case *tree.AndOperation:
		return "must", true
	case *tree.OrOperation:
		return "should", true
	case *tree.UnknownOperation:
		switch t.opts.DefaultOperator {
		case OpAnd:
			return "must", true
		case OpOr:
			return "should", true
		}
	}
	return "", false
}

func (t *Translator) boolOperation(op tree.Operation, kind string, ctx transContext) (element, error) {
	operands := flattenSame(op)

	for _, operand := range operands {
		childKind, isOperation := t.boolKind(operand)
		if isOperation && childKind != kind {
			return nil, &check.OrAndAndOnSameLevelError{Excerpt: excerpt(operand)}
		}
	}

	items := make([]element, 0, len(operands))
	for _, operand := range operands {
		elem, err := t.element(operand, ctx)
		if err != nil {
			return nil, err
		}
		if kind == "must" {
			setZeroTerms(elem, "all")
		}
		items = append(items, elem)
	}
	return &eBool{kind: kind, items: items}, nil
}

// flattenSame folds operations of the same kind nested in one another
// into a single level, eg. an OR directly under an OR.
func flattenSame(op tree.Operation) []tree.Item {
	var flat []tree.Item
	for _, operand := range op.Operands() {
		inner, ok := operand.(tree.Operation)
		if ok && sameOperation(op, inner) {
			flat = append(flat, flattenSame(inner)...)
		} else {
			flat = append(flat, operand)
		}
	}
	return flat
}

func sameOperation(a, b tree.Operation) bool {
	switch a.(type) {
	case *tree.AndOperation:
		_, same := b.(*tree.AndOperation)
		return same
	case *tree.OrOperation:
		_, same := b.(*tree.OrOperation)
		return same
	case *tree.UnknownOperation:
		_, same := b.(*tree.UnknownOperation)
		return same
	}
	return false
}

// setZeroTerms adjusts the zero_terms_query of a word match directly
// under a must or must_not clause.
func setZeroTerms(elem element, value string) {
	if word, ok := elem.(*eWord); ok {
		word.zeroTerms = value
	}
}
