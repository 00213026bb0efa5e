package tree

import "strconv"

// Part is one piece of a node's printed surface: either a literal glyph
// owned by the node, or a child item printed with its own trivia.
type Part struct {
	Text  string
	Child Item
}

func text(s string) Part     { return Part{Text: s} }
func child(n Item) Part      { return Part{Child: n} }

// Parts decomposes the surface of a node into its glyphs and children in
// print order. Concatenating the parts, children rendered with their head
// and tail, reproduces the node's String output. This is what the printer
// uses and what tooling that needs to intercept the rendering (markers,
// name indexers) should build on.
func Parts(n Item) []Part {
	switch v := n.(type) {
	case *Word:
		return []Part{text(v.Value)}
	case *Phrase:
		return []Part{text(v.Value)}
	case *Regex:
		return []Part{text(v.Value)}
	case *SearchField:
		return []Part{text(v.Name), text(":"), child(v.Expr)}
	case *Group:
		return []Part{text("("), child(v.Expr), text(")")}
	case *FieldGroup:
		return []Part{text("("), child(v.Expr), text(")")}
	case *Range:
		open, closing := "[", "]"
		if !v.IncludeLow {
			open = "{"
		}
		if !v.IncludeHigh {
			closing = "}"
		}
		return []Part{
			text(open), child(v.Low), text("TO"), child(v.High), text(closing),
		}
	case *Fuzzy:
		parts := []Part{child(v.Term), text("~")}
		if !v.Implicit {
			if v.degreeText != "" {
				parts = append(parts, text(v.degreeText))
			} else {
				parts = append(parts, text(formatNumber(v.Degree)))
			}
		}
		return parts
	case *Proximity:
		parts := []Part{child(v.Term), text("~")}
		if !v.Implicit {
			if v.degreeText != "" {
				parts = append(parts, text(v.degreeText))
			} else {
				parts = append(parts, text(strconv.Itoa(v.Degree)))
			}
		}
		return parts
	case *Boost:
		force := v.forceText
		if force == "" {
			force = formatNumber(v.Force)
		}
		return []Part{child(v.Sub), text("^"), text(force)}
	case *Not:
		kw := v.kw
		if kw == "" {
			kw = "NOT"
		}
		return []Part{text(kw), child(v.Sub)}
	case *Plus:
		return []Part{text("+"), child(v.Sub)}
	case *Prohibit:
		return []Part{text("-"), child(v.Sub)}
	case Operation:
		operands := v.Operands()
		parts := make([]Part, 0, 2*len(operands))
		for i, o := range operands {
			if i > 0 {
				if kw := v.junction(i); kw != "" {
					parts = append(parts, text(kw))
				}
			}
			parts = append(parts, child(o))
		}
		return parts
	}
	return nil
}
