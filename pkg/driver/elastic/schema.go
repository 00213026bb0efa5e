package elastic

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SchemaAnalyzer digs through an elasticsearch index definition to derive
// the options a Translator needs: which fields are not analyzed, nested,
// objects or multi-fields, and the default search field.
type SchemaAnalyzer struct {
	settings map[string]any
	mappings map[string]any
}

// NewSchemaAnalyzer builds an analyzer from an index definition already
// decoded into maps, as returned by the elasticsearch get-index API.
func NewSchemaAnalyzer(schema map[string]any) *SchemaAnalyzer {
	settings, _ := schema["settings"].(map[string]any)
	mappings, _ := schema["mappings"].(map[string]any)

	if _, singleType := mappings["properties"]; singleType {
		// from ES 6 on, one document type per index
		mappings = map[string]any{"_doc": mappings}
	}
	return &SchemaAnalyzer{settings: settings, mappings: mappings}
}

// ParseSchema builds an analyzer from an index definition document,
// encoded in YAML or JSON.
func ParseSchema(data []byte) (*SchemaAnalyzer, error) {
	var schema map[string]any
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, errors.Wrap(err, "parsing index schema")
	}
	return NewSchemaAnalyzer(schema), nil
}

// field is one mapping entry encountered during the walk, with the chain
// of definitions above it.
type field struct {
	name    string
	def     map[string]any
	parents []field
}

func (f field) dotted() string {
	parts := make([]string, 0, len(f.parents)+1)
	for _, p := range f.parents {
		parts = append(parts, p.name)
	}
	return strings.Join(append(parts, f.name), ".")
}

// typ returns the declared type of a field definition. A definition with
// properties but no explicit type is an object.
func typ(def map[string]any) string {
	if t, ok := def["type"].(string); ok {
		return t
	}
	if _, ok := def["properties"]; ok {
		return "object"
	}
	return ""
}

// iterFields walks every field of every mapping, depth first. With
// subFields, the entries of multi-field definitions are walked too, their
// definition overloading the parent's.
func (s *SchemaAnalyzer) iterFields(subFields bool) []field {
	var all []field
	for _, name := range sortedKeys(s.mappings) {
		mapping, ok := s.mappings[name].(map[string]any)
		if !ok {
			continue
		}
		properties, _ := mapping["properties"].(map[string]any)
		all = append(all, walkProperties(properties, nil, subFields)...)
	}
	return all
}

func walkProperties(properties map[string]any, parents []field, subFields bool) []field {
	var all []field
	for _, fname := range sortedKeys(properties) {
		fdef, ok := properties[fname].(map[string]any)
		if !ok {
			continue
		}
		current := field{name: fname, def: fdef, parents: parents}
		all = append(all, current)

		if multi, ok := fdef["fields"].(map[string]any); ok && subFields {
			subParents := append(append([]field(nil), parents...), current)
			for _, subName := range sortedKeys(multi) {
				subDef, ok := multi[subName].(map[string]any)
				if !ok {
					continue
				}
				// a sub field inherits what it does not override
				merged := map[string]any{}
				for k, v := range fdef {
					if k != "fields" {
						merged[k] = v
					}
				}
				for k, v := range subDef {
					merged[k] = v
				}
				all = append(all, field{name: subName, def: merged, parents: subParents})
			}
		}

		if inner, ok := fdef["properties"].(map[string]any); ok {
			newParents := append(append([]field(nil), parents...), current)
			all = append(all, walkProperties(inner, newParents, subFields)...)
		}
	}
	return all
}

// DefaultField returns the index's query default field, or "*".
func (s *SchemaAnalyzer) DefaultField() string {
	query, _ := s.settings["query"].(map[string]any)
	if defaultField, ok := query["default_field"].(string); ok {
		return defaultField
	}
	return "*"
}

// NotAnalyzedFields lists the dotted paths of the fields stored as single
// opaque tokens: keyword, numeric, date, boolean, ip, and legacy
// not_analyzed strings.
func (s *SchemaAnalyzer) NotAnalyzedFields() []string {
	var fields []string
	for _, f := range s.iterFields(true) {
		fieldType := typ(f.def)
		index, _ := f.def["index"].(string)
		notAnalyzed := (fieldType == "string" && index == "not_analyzed") ||
			(fieldType != "" && fieldType != "text" && fieldType != "string" &&
				fieldType != "nested" && fieldType != "object")
		if notAnalyzed {
			fields = append(fields, f.dotted())
		}
	}
	return dedupe(fields)
}

// NestedFields maps each nested parent path to the names of its direct
// sub fields.
func (s *SchemaAnalyzer) NestedFields() map[string][]string {
	nested := map[string][]string{}
	for _, f := range s.iterFields(false) {
		if typ(f.def) != "nested" {
			continue
		}
		properties, _ := f.def["properties"].(map[string]any)
		nested[f.dotted()] = sortedKeys(properties)
	}
	return nested
}

// ObjectFields lists the dotted paths of the leaves living inside object
// mappings.
func (s *SchemaAnalyzer) ObjectFields() []string {
	var fields []string
	for _, f := range s.iterFields(false) {
		if len(f.parents) == 0 {
			continue
		}
		parentType := typ(f.parents[len(f.parents)-1].def)
		fieldType := typ(f.def)
		if parentType == "object" && fieldType != "object" && fieldType != "nested" {
			fields = append(fields, f.dotted())
		}
	}
	return fields
}

// SubFields maps each dotted multi-field path to its type.
func (s *SchemaAnalyzer) SubFields() map[string]string {
	subFields := map[string]string{}
	for _, f := range s.iterFields(false) {
		multi, ok := f.def["fields"].(map[string]any)
		if !ok {
			continue
		}
		for _, subName := range sortedKeys(multi) {
			subDef, _ := multi[subName].(map[string]any)
			subFields[f.dotted()+"."+subName] = typ(subDef)
		}
	}
	return subFields
}

// Options returns the translator options derived from the schema, ready
// to pass to NewTranslator.
func (s *SchemaAnalyzer) Options() []Option {
	subFields := s.SubFields()
	return []Option{
		WithDefaultField(s.DefaultField()),
		WithNotAnalyzedFields(s.NotAnalyzedFields()...),
		WithNestedFields(s.NestedFields()),
		WithObjectFields(s.ObjectFields()...),
		WithSubFields(sortedKeys2(subFields)...),
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys2(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
