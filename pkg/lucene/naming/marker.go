package naming

import (
	"html"
	"strings"

	"github.com/searchtools/luceneq/pkg/lucene/tree"
)

// HTMLMarker reprints a query as HTML, wrapping the expressions that
// matched in a span of class "ok" and those that did not in a span of
// class "ko", as classified by the MatchingPropagator.
type HTMLMarker struct {
	ok map[string]bool
	ko map[string]bool
}

// NewHTMLMarker builds a marker from the ok and ko path sets.
func NewHTMLMarker(ok, ko []Path) *HTMLMarker {
	marker := &HTMLMarker{ok: map[string]bool{}, ko: map[string]bool{}}
	for _, p := range ok {
		marker.ok[p.String()] = true
	}
	for _, p := range ko {
		marker.ko[p.String()] = true
	}
	return marker
}

// Mark renders the annotated query. The HTML escaped output prints the
// exact same text as the tree's String.
func (m *HTMLMarker) Mark(t tree.Item) string {
	var sb strings.Builder
	m.renderWrapped(t, nil, &sb)
	return sb.String()
}

func (m *HTMLMarker) render(n tree.Item, path Path, sb *strings.Builder) {
	b := n.Base()
	sb.WriteString(html.EscapeString(b.Head))
	m.renderWrapped(n, path, sb)
	sb.WriteString(html.EscapeString(b.Tail))
}

func (m *HTMLMarker) renderWrapped(n tree.Item, path Path, sb *strings.Builder) {
	key := path.String()
	switch {
	case m.ok[key]:
		sb.WriteString(`<span class="ok">`)
		m.renderSurface(n, path, sb)
		sb.WriteString(`</span>`)
	case m.ko[key]:
		sb.WriteString(`<span class="ko">`)
		m.renderSurface(n, path, sb)
		sb.WriteString(`</span>`)
	default:
		m.renderSurface(n, path, sb)
	}
}

func (m *HTMLMarker) renderSurface(n tree.Item, path Path, sb *strings.Builder) {
	childIdx := 0
	for _, part := range tree.Parts(n) {
		if part.Child != nil {
			m.render(part.Child, append(path, childIdx), sb)
			childIdx++
		} else {
			sb.WriteString(html.EscapeString(part.Text))
		}
	}
}
