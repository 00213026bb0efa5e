package elastic

// Elasticsearch does not explain why a nested query matched: match
// reports stop at the nested wrapper. When named queries are used to map
// matches back onto the original expression, the queries under a nested
// wrapper have to be re-run one by one. ExtractNestedQueries produces
// those atomic queries.

import "sort"

// queryNester rebuilds the chain of nested wrappers around a sub query.
type queryNester func(query map[string]any, name string) map[string]any

// ExtractNestedQueries lists, for every boolean operation found under a
// nested wrapper, the atomic nested version of each of its sub queries.
// Each extracted query takes the name of its nearest inner named query,
// so running them tells which named sub expressions matched.
//
// Re-nesting one clause at a time is not strictly equivalent for multi
// valued fields, where separate nested queries may match across distinct
// inner objects; the result is a superset of the true inner matches.
func ExtractNestedQueries(query map[string]any) []map[string]any {
	return extractNested(query, nil)
}

func extractNested(query any, nester queryNester) []map[string]any {
	var queries []map[string]any
	var children []any
	subNester := nester

	switch q := query.(type) {
	case map[string]any:
		if nestedRaw, ok := q["nested"].(map[string]any); ok {
			params := map[string]any{}
			for k, v := range nestedRaw {
				if k != "query" && k != "_name" {
					params[k] = v
				}
			}
			outer := nester
			subNester = func(req map[string]any, name string) map[string]any {
				inner := map[string]any{"query": req}
				for k, v := range params {
					inner[k] = v
				}
				wrapped := map[string]any{"nested": inner}
				if outer != nil {
					wrapped = outer(wrapped, name)
				}
				if name != "" {
					inner["_name"] = name
				}
				return wrapped
			}
		}

		if _, values, ok := boolClause(q); ok && nester != nil {
			// a boolean under a nested wrapper: re-nest every sub query
			for _, sub := range values {
				subQuery, isMap := sub.(map[string]any)
				if !isMap {
					continue
				}
				queries = append(queries, nester(subQuery, firstName(subQuery)))
			}
			children = values
		} else {
			for _, key := range sortedKeys(q) {
				children = append(children, q[key])
			}
		}

	case []any:
		children = q
	}

	for _, child := range children {
		queries = append(queries, extractNested(child, subNester)...)
	}
	return queries
}

// boolClause finds the single bool clause of a query fragment, if any.
func boolClause(q map[string]any) (string, []any, bool) {
	for _, clause := range []string{"must", "should", "must_not"} {
		raw, ok := q[clause]
		if !ok {
			continue
		}
		if list, isList := raw.([]any); isList {
			return clause, list, true
		}
		return clause, []any{raw}, true
	}
	return "", nil, false
}

// firstName finds the name of the nearest named query, without entering
// bool operations.
func firstName(query any) string {
	switch q := query.(type) {
	case map[string]any:
		if name, ok := q["_name"].(string); ok {
			return name
		}
		if _, isBool := q["bool"]; isBool {
			return ""
		}
		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if name := firstName(q[k]); name != "" {
				return name
			}
		}
	case []any:
		for _, child := range q {
			if name := firstName(child); name != "" {
				return name
			}
		}
	}
	return ""
}
