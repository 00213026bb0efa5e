package elastic

// The translation goes through an intermediate tree of elements, each
// knowing how to emit its own piece of the query DSL. The first pass over
// the lucene tree builds the elements, resolving field context and nested
// wrapping; emitting JSON is then local to each element.

// element is one node of the intermediate elasticsearch query tree.
type element interface {
	json() (map[string]any, error)
}

// leafProps carries what every leaf query shares: the target field, an
// optional query name and an optional boost.
type leafProps struct {
	field string
	name  string
	boost float64
}

// setBoost attaches a boost directly to a leaf query.
func (l *leafProps) setBoost(force float64) { l.boost = force }

// addCommon adds the shared attributes to a leaf's inner json.
func (l *leafProps) addCommon(inner map[string]any) {
	if l.name != "" {
		inner["_name"] = l.name
	}
	if l.boost != 0 {
		inner["boost"] = l.boost
	}
}

// inner starts the inner json of a leaf on a field, seeded with the per
// field overrides.
func (t *Translator) inner(field string) map[string]any {
	inner := map[string]any{}
	for k, v := range t.opts.FieldOptions[field] {
		if k == "match_type" {
			continue
		}
		inner[k] = v
	}
	return inner
}

// matchType picks the query kind used for an analyzed word.
func (t *Translator) matchType(field string) string {
	matchType := "match"
	if t.opts.MatchWordAsPhrase {
		matchType = "match_phrase"
	}
	if override, ok := t.opts.FieldOptions[field]["match_type"].(string); ok {
		matchType = override
	}
	return matchType
}

// eWord emits the query for a single word. Depending on the field and the
// value it becomes a term, match, match_phrase, multi_match, wildcard or
// query_string query.
type eWord struct {
	t *Translator
	leafProps
	value     string
	zeroTerms string
}

func (e *eWord) json() (map[string]any, error) {
	inner := e.t.inner(e.field)
	e.addCommon(inner)

	notAnalyzed := e.t.notAnalyzed[e.field]
	wildcard := hasWildcard(e.value)

	switch {
	case notAnalyzed && wildcard:
		inner["value"] = e.value
		return map[string]any{"wildcard": map[string]any{e.field: inner}}, nil

	case wildcard:
		inner["query"] = e.value
		inner["default_field"] = e.field
		if _, ok := inner["analyze_wildcard"]; !ok {
			inner["analyze_wildcard"] = true
		}
		if _, ok := inner["allow_leading_wildcard"]; !ok {
			inner["allow_leading_wildcard"] = true
		}
		return map[string]any{"query_string": inner}, nil

	case notAnalyzed:
		inner["value"] = e.value
		return map[string]any{"term": map[string]any{e.field: inner}}, nil
	}

	switch matchType := e.t.matchType(e.field); matchType {
	case "multi_match":
		inner["query"] = e.value
		return map[string]any{"multi_match": inner}, nil
	case "match_phrase":
		inner["query"] = e.value
		return map[string]any{"match_phrase": map[string]any{e.field: inner}}, nil
	default:
		inner["query"] = e.value
		inner["zero_terms_query"] = e.zeroTermsQuery()
		return map[string]any{matchType: map[string]any{e.field: inner}}, nil
	}
}

func (e *eWord) zeroTermsQuery() string {
	if e.zeroTerms == "" {
		return "none"
	}
	return e.zeroTerms
}

// eExists emits the query for a lone wildcard on a field.
type eExists struct {
	leafProps
}

func (e *eExists) json() (map[string]any, error) {
	inner := map[string]any{"field": e.field}
	e.addCommon(inner)
	return map[string]any{"exists": inner}, nil
}

// ePhrase emits a match_phrase query. The value is the phrase without its
// quotes, whitespace runs folded to single spaces.
type ePhrase struct {
	t *Translator
	leafProps
	value string
}

func (e *ePhrase) json() (map[string]any, error) {
	inner := e.t.inner(e.field)
	e.addCommon(inner)
	inner["query"] = e.value
	return map[string]any{"match_phrase": map[string]any{e.field: inner}}, nil
}

// eProximity emits a match_phrase query with a slop.
type eProximity struct {
	t *Translator
	leafProps
	value  string
	degree int
}

func (e *eProximity) json() (map[string]any, error) {
	inner := e.t.inner(e.field)
	e.addCommon(inner)
	inner["query"] = e.value
	inner["slop"] = e.degree
	return map[string]any{"match_phrase": map[string]any{e.field: inner}}, nil
}

// eFuzzy emits a fuzzy query.
type eFuzzy struct {
	t *Translator
	leafProps
	value  string
	degree float64
}

func (e *eFuzzy) json() (map[string]any, error) {
	inner := e.t.inner(e.field)
	e.addCommon(inner)
	inner["value"] = e.value
	inner["fuzziness"] = e.degree
	return map[string]any{"fuzzy": map[string]any{e.field: inner}}, nil
}

// eRegex emits a regexp query. The value is the expression without its
// slashes.
type eRegex struct {
	t *Translator
	leafProps
	value string
}

func (e *eRegex) json() (map[string]any, error) {
	inner := e.t.inner(e.field)
	e.addCommon(inner)
	inner["value"] = e.value
	return map[string]any{"regexp": map[string]any{e.field: inner}}, nil
}

// eRange emits a range query. Absent bounds are simply not emitted.
type eRange struct {
	t *Translator
	leafProps
	gt, gte, lt, lte string
}

func (e *eRange) json() (map[string]any, error) {
	inner := e.t.inner(e.field)
	e.addCommon(inner)
	for bound, value := range map[string]string{
		"gt": e.gt, "gte": e.gte, "lt": e.lt, "lte": e.lte,
	} {
		if value != "" {
			inner[bound] = value
		}
	}
	return map[string]any{"range": map[string]any{e.field: inner}}, nil
}

// eBool groups elements under one clause of a bool query: must, should or
// must_not.
type eBool struct {
	kind  string
	items []element
}

func (e *eBool) json() (map[string]any, error) {
	items := e.mergeNested()

	// a single positive entry needs no bool around it
	if len(items) == 1 && e.kind != "must_not" {
		return items[0].json()
	}

	clause := make([]any, 0, len(items))
	for _, item := range items {
		itemJSON, err := item.json()
		if err != nil {
			return nil, err
		}
		clause = append(clause, itemJSON)
	}
	return map[string]any{"bool": map[string]any{e.kind: clause}}, nil
}

// mergeNested groups sibling nested elements sharing a path under a
// single nested wrapper, which keeps the emitted requests short. Only the
// positive clauses merge, a shared must_not wrapper would change meaning.
func (e *eBool) mergeNested() []element {
	if e.kind == "must_not" {
		return e.items
	}

	merged := make([]element, 0, len(e.items))
	groups := map[string]int{} // nested path -> index in merged
	for _, item := range e.items {
		nested, isNested := item.(*eNested)
		if !isNested {
			merged = append(merged, item)
			continue
		}
		at, seen := groups[nested.path]
		if !seen {
			groups[nested.path] = len(merged)
			merged = append(merged, item)
			continue
		}
		first := merged[at].(*eNested)
		inner, isBool := first.query.(*eBool)
		if !isBool || inner.kind != e.kind {
			inner = &eBool{kind: e.kind, items: []element{first.query}}
			merged[at] = &eNested{path: first.path, query: inner}
		}
		inner.items = append(inner.items, nested.query)
	}
	return merged
}

// eNested wraps a query on fields living under a nested path.
type eNested struct {
	path  string
	query element
}

func (e *eNested) json() (map[string]any, error) {
	queryJSON, err := e.query.json()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"nested": map[string]any{"path": e.path, "query": queryJSON},
	}, nil
}

// eBoost boosts a compound query through a function_score wrapper. Leaf
// queries carry their boost attribute directly instead.
type eBoost struct {
	sub   element
	force float64
}

func (e *eBoost) json() (map[string]any, error) {
	subJSON, err := e.sub.json()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"function_score": map[string]any{"query": subJSON, "boost": e.force},
	}, nil
}
