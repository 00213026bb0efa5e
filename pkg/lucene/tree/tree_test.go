package tree

import (
	"reflect"
	"testing"
)

const errTemplate = "%s:\n    wanted %v\n    got    %v"

// spaced gives an item the head and tail it needs when composed by hand.
func spaced(n Item, head, tail string) Item {
	n.Base().Head = head
	n.Base().Tail = tail
	return n
}

func TestString(t *testing.T) {
	type tc struct {
		input Item
		want  string
	}

	tcs := map[string]tc{
		"word": {
			input: &Word{Value: "foo"},
			want:  "foo",
		},
		"phrase_keeps_quotes": {
			input: &Phrase{Value: `"foo bar"`},
			want:  `"foo bar"`,
		},
		"regex_keeps_slashes": {
			input: &Regex{Value: "/foo?/"},
			want:  "/foo?/",
		},
		"own_trivia_is_not_printed": {
			input: spaced(&Word{Value: "foo"}, "  ", " "),
			want:  "foo",
		},
		"child_trivia_is_printed": {
			input: &SearchField{
				Name: "title",
				Expr: spaced(&Word{Value: "foo"}, " ", ""),
			},
			want: "title: foo",
		},
		"group": {
			input: &Group{Expr: spaced(&Word{Value: "foo"}, " ", " ")},
			want:  "( foo )",
		},
		"field_group": {
			input: &FieldGroup{Expr: &Word{Value: "a"}},
			want:  "(a)",
		},
		"range_inclusive": {
			input: &Range{
				Low:         spaced(&Word{Value: "1"}, "", " "),
				High:        spaced(&Word{Value: "5"}, " ", ""),
				IncludeLow:  true,
				IncludeHigh: true,
			},
			want: "[1 TO 5]",
		},
		"range_mixed": {
			input: &Range{
				Low:         spaced(&Word{Value: "a"}, "", " "),
				High:        spaced(&Word{Value: "*"}, " ", ""),
				IncludeLow:  true,
				IncludeHigh: false,
			},
			want: "[a TO *}",
		},
		"implicit_fuzzy": {
			input: NewImplicitFuzzy(&Word{Value: "frog"}),
			want:  "frog~",
		},
		"fuzzy_with_degree": {
			input: NewFuzzy(&Word{Value: "frog"}, 0.5),
			want:  "frog~0.5",
		},
		"proximity": {
			input: NewProximity(&Phrase{Value: `"foo bar"`}, 3),
			want:  `"foo bar"~3`,
		},
		"boost_trims_number": {
			input: NewBoost(&Word{Value: "important"}, 2),
			want:  "important^2",
		},
		"not": {
			input: &Not{Sub: spaced(&Word{Value: "foo"}, " ", "")},
			want:  "NOT foo",
		},
		"plus_and_prohibit": {
			input: &UnknownOperation{Ops: []Item{
				spaced(&Plus{Sub: &Word{Value: "a"}}, "", " "),
				&Prohibit{Sub: &Word{Value: "b"}},
			}},
			want: "+a -b",
		},
		"and_operation": {
			input: &AndOperation{Ops: []Item{
				spaced(&Word{Value: "a"}, "", " "),
				spaced(&Word{Value: "b"}, " ", ""),
			}},
			want: "a AND b",
		},
		"or_operation_flat": {
			input: &OrOperation{Ops: []Item{
				spaced(&Word{Value: "a"}, "", " "),
				spaced(&Word{Value: "b"}, " ", " "),
				spaced(&Word{Value: "c"}, " ", ""),
			}},
			want: "a OR b OR c",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			got := tc.input.String()
			if tc.want != got {
				t.Fatalf(errTemplate, "printed query does not match", tc.want, got)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	type tc struct {
		a, b Item
		want bool
	}

	tcs := map[string]tc{
		"same_words": {
			a:    &Word{Value: "foo"},
			b:    &Word{Value: "foo"},
			want: true,
		},
		"different_values": {
			a:    &Word{Value: "foo"},
			b:    &Word{Value: "bar"},
			want: false,
		},
		"different_kinds": {
			a:    &Word{Value: "foo"},
			b:    &Phrase{Value: `"foo"`},
			want: false,
		},
		"trivia_is_ignored": {
			a:    spaced(&Word{Value: "foo"}, "  ", " "),
			b:    &Word{Value: "foo"},
			want: true,
		},
		"children_compared_pairwise": {
			a: &AndOperation{Ops: []Item{
				&Word{Value: "a"}, &Word{Value: "b"},
			}},
			b: &AndOperation{Ops: []Item{
				&Word{Value: "a"}, &Word{Value: "c"},
			}},
			want: false,
		},
		"group_and_field_group_differ": {
			a:    &Group{Expr: &Word{Value: "a"}},
			b:    &FieldGroup{Expr: &Word{Value: "a"}},
			want: false,
		},
		"range_inclusivity_matters": {
			a: &Range{
				Low: &Word{Value: "1"}, High: &Word{Value: "5"},
				IncludeLow: true, IncludeHigh: true,
			},
			b: &Range{
				Low: &Word{Value: "1"}, High: &Word{Value: "5"},
				IncludeLow: true, IncludeHigh: false,
			},
			want: false,
		},
		"fuzzy_implicit_flag_is_ignored": {
			a:    NewImplicitFuzzy(&Word{Value: "frog"}),
			b:    NewFuzzy(&Word{Value: "frog"}, 0.5),
			want: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf(errTemplate, "equality does not match", tc.want, got)
			}
		})
	}
}

func TestEqualWithTrivia(t *testing.T) {
	a := spaced(&Word{Value: "foo"}, " ", "")
	b := &Word{Value: "foo"}

	if !Equal(a, b) {
		t.Fatalf("expected trivia insensitive equality")
	}
	if EqualWithTrivia(a, b) {
		t.Fatalf("expected trivia sensitive comparison to fail")
	}
}

func TestCloneItem(t *testing.T) {
	inner := &Word{Value: "a"}
	original := &SearchField{Name: "title", Expr: inner}
	original.Head = " "

	clone := original.CloneItem().(*SearchField)

	if clone == original {
		t.Fatalf("clone must be a new node")
	}
	if clone.Expr != Item(inner) {
		t.Fatalf("shallow clone must share children by reference")
	}
	if clone.Head != " " || clone.Name != "title" {
		t.Fatalf("clone must keep trivia and attributes")
	}

	// changing the clone does not touch the original
	clone.Name = "body"
	if original.Name != "title" {
		t.Fatalf("clone mutation leaked into the original")
	}
}

func TestDeepClone(t *testing.T) {
	original := &AndOperation{Ops: []Item{
		&SearchField{Name: "a", Expr: &Word{Value: "x"}},
		&Word{Value: "y"},
	}}

	clone := DeepClone(original)

	if !Equal(original, clone) {
		t.Fatalf("deep clone must be structurally equal")
	}
	if clone == Item(original) {
		t.Fatalf("deep clone must be a new node")
	}
	cloneOp := clone.(*AndOperation)
	if cloneOp.Ops[0] == original.Ops[0] {
		t.Fatalf("deep clone must not share children")
	}
}

func TestSpan(t *testing.T) {
	w := &Word{Value: "foo"}
	w.Head = "  "
	w.Tail = " "
	w.Pos = 2
	w.Size = 3

	start, end, ok := w.Span(false)
	if !ok || start != 2 || end != 5 {
		t.Fatalf(errTemplate, "span does not match", "[2, 5]", []int{start, end})
	}
	start, end, ok = w.Span(true)
	if !ok || start != 0 || end != 6 {
		t.Fatalf(errTemplate, "span with trivia does not match", "[0, 6]", []int{start, end})
	}

	_, _, ok = (&Word{Value: "bar"}).Span(false)
	if ok {
		t.Fatalf("a hand built node has no span")
	}
}

func TestWildcards(t *testing.T) {
	w := &Word{Value: `fo*o\?ba?`}

	if !w.HasWildcard() {
		t.Fatalf("expected a wildcard")
	}
	wildcards := w.IterWildcards()
	expected := []Wildcard{{Pos: 2, Glyph: "*"}, {Pos: 8, Glyph: "?"}}
	if !reflect.DeepEqual(expected, wildcards) {
		t.Fatalf(errTemplate, "wildcards do not match", expected, wildcards)
	}

	parts := w.SplitWildcards()
	expectedParts := []string{"fo", `o\?ba`, ""}
	if !reflect.DeepEqual(expectedParts, parts) {
		t.Fatalf(errTemplate, "split does not match", expectedParts, parts)
	}

	if (&Word{Value: `\*`}).HasWildcard() {
		t.Fatalf("an escaped star is not a wildcard")
	}
	if !(&Word{Value: "*"}).IsWildcard() {
		t.Fatalf("a lone star is the wildcard")
	}
	if (&Word{Value: "foo*"}).IsWildcard() {
		t.Fatalf("a partial wildcard is not the lone wildcard")
	}
}

func TestUnescape(t *testing.T) {
	type tc struct {
		input string
		want  string
	}

	tcs := map[string]tc{
		"no_escape":          {input: "foo", want: "foo"},
		"escaped_colon":      {input: `foo\:bar`, want: "foo:bar"},
		"escaped_backslash":  {input: `foo\\bar`, want: `foo\bar`},
		"escaped_star":       {input: `\*`, want: "*"},
		"double_then_star":   {input: `\\*`, want: `\*`},
		"non_special_intact": {input: `foo\nbar`, want: `foo\nbar`},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			if got := Unescape(tc.input); got != tc.want {
				t.Fatalf(errTemplate, "unescaped value does not match", tc.want, got)
			}
		})
	}
}
