package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchtools/luceneq/pkg/lucene/tree"
)

func word(v string) *tree.Word { return &tree.Word{Value: v} }

func spaced(n tree.Item, head, tail string) tree.Item {
	n.Base().Head = head
	n.Base().Tail = tail
	return n
}

// scenarioTree builds `foo~2 OR (bar AND baz)` with its trivia.
func scenarioTree() tree.Item {
	return &tree.OrOperation{Ops: []tree.Item{
		spaced(tree.NewFuzzy(word("foo"), 2), "", " "),
		spaced(&tree.Group{Expr: &tree.AndOperation{Ops: []tree.Item{
			spaced(word("bar"), "", " "),
			spaced(word("baz"), " ", ""),
		}}}, " ", ""),
	}}
}

func TestAutoName(t *testing.T) {
	root := scenarioTree()
	index := AutoName(root)

	require.Len(t, index, 3)
	assert.Equal(t, Path{0}, index["a"])
	assert.Equal(t, Path{1, 0, 0}, index["b"])
	assert.Equal(t, Path{1, 0, 1}, index["c"])

	// names land on the match units themselves
	fuzzy, err := ElementFromName(root, "a", index)
	require.NoError(t, err)
	assert.IsType(t, &tree.Fuzzy{}, fuzzy)
	assert.Equal(t, "a", fuzzy.Base().QueryName())

	bar, err := ElementFromName(root, "b", index)
	require.NoError(t, err)
	assert.Equal(t, "bar", bar.(*tree.Word).Value)

	// the inner word of the fuzzy is not named
	inner := fuzzy.(*tree.Fuzzy).Term
	assert.Empty(t, inner.Base().QueryName())

	// operations are not named
	assert.Empty(t, root.Base().QueryName())
}

func TestAutoNameManyLeaves(t *testing.T) {
	// more than 26 leaves keeps names unique
	ops := make([]tree.Item, 0, 30)
	for i := 0; i < 30; i++ {
		ops = append(ops, word("w"))
	}
	index := AutoName(&tree.AndOperation{Ops: ops})

	require.Len(t, index, 30)
	assert.Equal(t, Path{25}, index["z"])
	assert.Equal(t, Path{26}, index["aa"])
	assert.Equal(t, Path{29}, index["ad"])
}

func TestElementFromPath(t *testing.T) {
	root := scenarioTree()

	node, err := ElementFromPath(root, Path{1, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, "baz", node.(*tree.Word).Value)

	self, err := ElementFromPath(root, nil)
	require.NoError(t, err)
	assert.Equal(t, root, self)

	_, err = ElementFromPath(root, Path{5})
	assert.Error(t, err)
}

func TestMatchingPropagator(t *testing.T) {
	root := scenarioTree()
	AutoName(root)

	// the engine reported the fuzzy (a) and bar (b) as matching
	ok, ko := NewMatchingPropagator("a", "b").Propagate(root)

	okKeys := pathKeys(ok)
	koKeys := pathKeys(ko)

	// bar and the top OR are ok, baz and the enclosing AND are ko
	assert.Contains(t, okKeys, "1.0.0") // bar
	assert.Contains(t, okKeys, "")      // the OR at the root
	assert.Contains(t, okKeys, "0")     // the fuzzy
	assert.Contains(t, koKeys, "1.0.1") // baz
	assert.Contains(t, koKeys, "1.0")   // the AND
	assert.Contains(t, koKeys, "1")     // the group around it

	// the two sets are disjoint and cover every match position
	for _, key := range okKeys {
		assert.NotContains(t, koKeys, key)
	}
	assert.Len(t, append(ok, ko...), 6)
}

func TestMatchingPropagatorOperators(t *testing.T) {
	type tc struct {
		build   func() tree.Item
		matched []string
		rootOK  bool
	}

	tcs := map[string]tc{
		"and_needs_all": {
			build: func() tree.Item {
				return &tree.AndOperation{Ops: []tree.Item{word("x"), word("y")}}
			},
			matched: []string{"a"},
			rootOK:  false,
		},
		"or_needs_one": {
			build: func() tree.Item {
				return &tree.OrOperation{Ops: []tree.Item{word("x"), word("y")}}
			},
			matched: []string{"b"},
			rootOK:  true,
		},
		"not_inverts": {
			build: func() tree.Item {
				return &tree.Not{Sub: word("x")}
			},
			matched: nil,
			rootOK:  true,
		},
		"prohibit_inverts": {
			build: func() tree.Item {
				return &tree.Prohibit{Sub: word("x")}
			},
			matched: []string{"a"},
			rootOK:  false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			root := tc.build()
			AutoName(root)
			ok, _ := NewMatchingPropagator(tc.matched...).Propagate(root)
			assert.Equal(t, tc.rootOK, containsKey(ok, ""),
				"root classification does not match")
		})
	}
}

func TestHTMLMarker(t *testing.T) {
	root := scenarioTree()
	AutoName(root)
	ok, ko := NewMatchingPropagator("a", "b").Propagate(root)

	got := NewHTMLMarker(ok, ko).Mark(root)

	want := `<span class="ok">` +
		`<span class="ok">foo~2</span> ` +
		`OR ` +
		`<span class="ko">(<span class="ko">` +
		`<span class="ok">bar</span> AND <span class="ko">baz</span>` +
		`</span>)</span>` +
		`</span>`
	assert.Equal(t, want, got)
}

func TestHTMLMarkerEscapes(t *testing.T) {
	root := &tree.SearchField{Name: "title", Expr: &tree.Phrase{Value: `"a&b <c>"`}}
	got := NewHTMLMarker(nil, nil).Mark(root)
	assert.Equal(t, "title:&#34;a&amp;b &lt;c&gt;&#34;", got)
}

func TestNameIndexAndExtract(t *testing.T) {
	root := scenarioTree()
	AutoName(root)

	query := root.String()
	require.Equal(t, "foo~2 OR (bar AND baz)", query)

	index := NameIndex(root)
	require.Len(t, index, 3)

	assert.Equal(t, "foo~2", Extract(query, "a", index))
	assert.Equal(t, "bar", Extract(query, "b", index))
	assert.Equal(t, "baz", Extract(query, "c", index))
	assert.Equal(t, "", Extract(query, "nope", index))
}

func pathKeys(paths []Path) []string {
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		keys = append(keys, p.String())
	}
	return keys
}

func containsKey(paths []Path, key string) bool {
	for _, p := range paths {
		if p.String() == key {
			return true
		}
	}
	return false
}
