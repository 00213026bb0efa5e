// Package elastic lowers lucene query trees into the elasticsearch query
// DSL. The translation is driven by what the target index looks like:
// which fields are analyzed, which are nested or objects, which carry sub
// fields. Those options can be written by hand or derived from the index
// mapping by the SchemaAnalyzer.
package elastic

import (
	"github.com/rs/zerolog"
)

// Operator is the boolean operator used to resolve implicit operations
// found during translation.
type Operator int

const (
	// OpNone makes the translator reject implicit operations.
	OpNone Operator = iota
	// OpAnd resolves implicit operations to AND.
	OpAnd
	// OpOr resolves implicit operations to OR.
	OpOr
)

// Options gathers everything driving a translation.
type Options struct {
	// DefaultField is searched when a term appears without a field.
	DefaultField string

	// DefaultOperator resolves UnknownOperation nodes. With OpNone the
	// translation of a tree containing one fails.
	DefaultOperator Operator

	// NotAnalyzedFields are matched with term and range queries instead
	// of match queries.
	NotAnalyzedFields []string

	// NestedFields maps each nested parent path to its direct sub field
	// names. Queries on those fields get a nested wrapper.
	NestedFields map[string][]string

	// ObjectFields are the dotted leaf paths inside object mappings. They
	// are queried directly, without a wrapper.
	ObjectFields []string

	// SubFields are the dotted multi-field paths, eg. title.raw.
	SubFields []string

	// FieldOptions carries per field overrides merged into the emitted
	// query. The match_type key switches the query kind (match,
	// match_phrase, multi_match) and is not emitted itself.
	FieldOptions map[string]map[string]any

	// MatchWordAsPhrase makes single word queries on analyzed fields use
	// match_phrase instead of match.
	MatchWordAsPhrase bool

	// Logger receives debug traces of the translation. Disabled when left
	// at its zero value.
	Logger zerolog.Logger
}

// Option configures a Translator.
type Option func(*Options)

// WithDefaultField sets the field searched by fieldless terms.
func WithDefaultField(field string) Option {
	return func(o *Options) { o.DefaultField = field }
}

// WithDefaultOperator resolves implicit operations during translation.
func WithDefaultOperator(op Operator) Option {
	return func(o *Options) { o.DefaultOperator = op }
}

// WithNotAnalyzedFields declares the fields stored as single opaque
// tokens (keyword, numeric, date, boolean, ip).
func WithNotAnalyzedFields(fields ...string) Option {
	return func(o *Options) {
		o.NotAnalyzedFields = append(o.NotAnalyzedFields, fields...)
	}
}

// WithNestedFields declares the nested parents and their direct sub
// fields.
func WithNestedFields(nested map[string][]string) Option {
	return func(o *Options) {
		if o.NestedFields == nil {
			o.NestedFields = map[string][]string{}
		}
		for parent, subs := range nested {
			o.NestedFields[parent] = append(o.NestedFields[parent], subs...)
		}
	}
}

// WithObjectFields declares the dotted leaf paths of object mappings.
func WithObjectFields(fields ...string) Option {
	return func(o *Options) {
		o.ObjectFields = append(o.ObjectFields, fields...)
	}
}

// WithSubFields declares the dotted multi-field paths.
func WithSubFields(fields ...string) Option {
	return func(o *Options) {
		o.SubFields = append(o.SubFields, fields...)
	}
}

// WithFieldOptions overrides the emitted query per field.
func WithFieldOptions(fieldOptions map[string]map[string]any) Option {
	return func(o *Options) {
		if o.FieldOptions == nil {
			o.FieldOptions = map[string]map[string]any{}
		}
		for field, opts := range fieldOptions {
			o.FieldOptions[field] = opts
		}
	}
}

// WithMatchWordAsPhrase turns single word queries on analyzed fields into
// match_phrase queries.
func WithMatchWordAsPhrase() Option {
	return func(o *Options) { o.MatchWordAsPhrase = true }
}

// WithLogger enables debug logging of the translation.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
