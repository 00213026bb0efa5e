package naming

import (
	"strings"

	"github.com/searchtools/luceneq/pkg/lucene/tree"
)

// Span is the position of a named expression in the printed query:
// a byte offset and a length.
type Span struct {
	Start  int
	Length int
}

// NameIndex locates every named node in the printed representation of
// the tree, mapping its name to the span it occupies. Pair it with
// Extract to pull the matching text out of the query string.
func NameIndex(t tree.Item) map[string]Span {
	index := map[string]Span{}
	var sb strings.Builder
	indexSurface(t, &sb, index)
	return index
}

func indexNode(n tree.Item, sb *strings.Builder, index map[string]Span) {
	b := n.Base()
	sb.WriteString(b.Head)
	indexSurface(n, sb, index)
	sb.WriteString(b.Tail)
}

func indexSurface(n tree.Item, sb *strings.Builder, index map[string]Span) {
	start := sb.Len()
	for _, part := range tree.Parts(n) {
		if part.Child != nil {
			indexNode(part.Child, sb, index)
		} else {
			sb.WriteString(part.Text)
		}
	}
	if name := n.Base().QueryName(); name != "" {
		index[name] = Span{Start: start, Length: sb.Len() - start}
	}
}

// Extract returns the part of the printed query covered by name.
func Extract(query string, name string, index map[string]Span) string {
	span, found := index[name]
	if !found {
		return ""
	}
	end := span.Start + span.Length
	if span.Start < 0 || end > len(query) {
		return ""
	}
	return query[span.Start:end]
}
