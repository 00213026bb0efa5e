package tree

import (
	"strconv"

	"github.com/pkg/errors"
)

// formatNumber renders a degree or boost force the shortest way,
// eg. 0.5 -> "0.5" and 2 -> "2".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseNonNegative parses a non negative decimal number.
func parseNonNegative(text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 {
		return 0, errors.Errorf("[%s] is not a non negative number", text)
	}
	return f, nil
}

// SearchField binds a field name to a searched expression,
// eg. desc in desc:(this OR that).
type SearchField struct {
	ItemBase
	Name string
	Expr Item
}

func (s *SearchField) String() string   { return itemString(s) }
func (s *SearchField) Children() []Item { return []Item{s.Expr} }
func (s *SearchField) CloneItem() Item  { c := *s; return &c }

func (s *SearchField) SetChildren(children []Item) error {
	if len(children) != 1 {
		return errChildren(s, "1", len(children))
	}
	s.Expr = children[0]
	return nil
}

func (s *SearchField) equal(other Item, trivia bool) bool {
	o, ok := other.(*SearchField)
	return ok && s.Name == o.Name && s.baseEqual(&o.ItemBase, trivia) &&
		s.Expr.equal(o.Expr, trivia)
}

// Group is an explicit parenthesization around a sub expression.
type Group struct {
	ItemBase
	Expr Item
}

func (g *Group) String() string   { return itemString(g) }
func (g *Group) Children() []Item { return []Item{g.Expr} }
func (g *Group) CloneItem() Item  { c := *g; return &c }

func (g *Group) SetChildren(children []Item) error {
	if len(children) != 1 {
		return errChildren(g, "1", len(children))
	}
	g.Expr = children[0]
	return nil
}

func (g *Group) equal(other Item, trivia bool) bool {
	o, ok := other.(*Group)
	return ok && g.baseEqual(&o.ItemBase, trivia) && g.Expr.equal(o.Expr, trivia)
}

// FieldGroup is the parenthesized body of a SearchField. It prints the
// same as a Group but is semantically distinct.
type FieldGroup struct {
	ItemBase
	Expr Item
}

func (g *FieldGroup) String() string   { return itemString(g) }
func (g *FieldGroup) Children() []Item { return []Item{g.Expr} }
func (g *FieldGroup) CloneItem() Item  { c := *g; return &c }

func (g *FieldGroup) SetChildren(children []Item) error {
	if len(children) != 1 {
		return errChildren(g, "1", len(children))
	}
	g.Expr = children[0]
	return nil
}

func (g *FieldGroup) equal(other Item, trivia bool) bool {
	o, ok := other.(*FieldGroup)
	return ok && g.baseEqual(&o.ItemBase, trivia) && g.Expr.equal(o.Expr, trivia)
}

// GroupToFieldGroup converts a Group into a FieldGroup, keeping trivia and
// span. The parser uses it when a group directly follows a field colon.
func GroupToFieldGroup(g *Group) *FieldGroup {
	return &FieldGroup{ItemBase: g.ItemBase, Expr: g.Expr}
}

// Range is a range of values, eg. [a TO b] or {a TO b}. Bounds are Word
// items, possibly the wildcard *.
type Range struct {
	ItemBase
	Low         Item
	High        Item
	IncludeLow  bool
	IncludeHigh bool
}

func (r *Range) String() string   { return itemString(r) }
func (r *Range) Children() []Item { return []Item{r.Low, r.High} }
func (r *Range) CloneItem() Item  { c := *r; return &c }

func (r *Range) SetChildren(children []Item) error {
	if len(children) != 2 {
		return errChildren(r, "2", len(children))
	}
	r.Low, r.High = children[0], children[1]
	return nil
}

func (r *Range) equal(other Item, trivia bool) bool {
	o, ok := other.(*Range)
	return ok && r.IncludeLow == o.IncludeLow && r.IncludeHigh == o.IncludeHigh &&
		r.baseEqual(&o.ItemBase, trivia) &&
		r.Low.equal(o.Low, trivia) && r.High.equal(o.High, trivia)
}

// Fuzzy is a fuzzy search on a word, eg. frog~ or frog~2. An absent degree
// defaults to 0.5 and is remembered as implicit so printing stays exact.
type Fuzzy struct {
	ItemBase
	Term     Item
	Degree   float64
	Implicit bool

	// raw degree text as parsed, kept for printing
	degreeText string
}

// NewFuzzy builds a fuzzy search with an explicit degree.
func NewFuzzy(term Item, degree float64) *Fuzzy {
	return &Fuzzy{Term: term, Degree: degree}
}

// NewImplicitFuzzy builds a fuzzy search without a degree, eg. frog~.
func NewImplicitFuzzy(term Item) *Fuzzy {
	return &Fuzzy{Term: term, Degree: 0.5, Implicit: true}
}

// NewFuzzyFromText builds a fuzzy search from the degree text as it
// appeared in the source, so printing reproduces it exactly.
func NewFuzzyFromText(term Item, text string) (*Fuzzy, error) {
	degree, err := parseNonNegative(text)
	if err != nil {
		return nil, err
	}
	return &Fuzzy{Term: term, Degree: degree, degreeText: text}, nil
}

func (f *Fuzzy) String() string   { return itemString(f) }
func (f *Fuzzy) Children() []Item { return []Item{f.Term} }
func (f *Fuzzy) CloneItem() Item  { c := *f; return &c }

func (f *Fuzzy) SetChildren(children []Item) error {
	if len(children) != 1 {
		return errChildren(f, "1", len(children))
	}
	f.Term = children[0]
	return nil
}

func (f *Fuzzy) equal(other Item, trivia bool) bool {
	o, ok := other.(*Fuzzy)
	return ok && f.Degree == o.Degree && f.baseEqual(&o.ItemBase, trivia) &&
		f.Term.equal(o.Term, trivia)
}

// Proximity is a proximity search on a phrase, eg. "foo bar"~3. An absent
// degree defaults to 1.
type Proximity struct {
	ItemBase
	Term     Item
	Degree   int
	Implicit bool

	degreeText string
}

// NewProximity builds a proximity search with an explicit degree.
func NewProximity(term Item, degree int) *Proximity {
	return &Proximity{Term: term, Degree: degree}
}

// NewImplicitProximity builds a proximity search without a degree.
func NewImplicitProximity(term Item) *Proximity {
	return &Proximity{Term: term, Degree: 1, Implicit: true}
}

// NewProximityFromText builds a proximity search from the degree text as
// it appeared in the source.
func NewProximityFromText(term Item, text string) (*Proximity, error) {
	degree, err := parseNonNegative(text)
	if err != nil {
		return nil, err
	}
	return &Proximity{Term: term, Degree: int(degree), degreeText: text}, nil
}

func (p *Proximity) String() string   { return itemString(p) }
func (p *Proximity) Children() []Item { return []Item{p.Term} }
func (p *Proximity) CloneItem() Item  { c := *p; return &c }

func (p *Proximity) SetChildren(children []Item) error {
	if len(children) != 1 {
		return errChildren(p, "1", len(children))
	}
	p.Term = children[0]
	return nil
}

func (p *Proximity) equal(other Item, trivia bool) bool {
	o, ok := other.(*Proximity)
	return ok && p.Degree == o.Degree && p.baseEqual(&o.ItemBase, trivia) &&
		p.Term.equal(o.Term, trivia)
}

// Boost gives more weight to the sub expression, eg. important^2.
type Boost struct {
	ItemBase
	Sub   Item
	Force float64

	forceText string
}

// NewBoost builds a boost of the sub expression by force.
func NewBoost(sub Item, force float64) *Boost {
	return &Boost{Sub: sub, Force: force}
}

// NewBoostFromText builds a boost from the force text as it appeared in
// the source.
func NewBoostFromText(sub Item, text string) (*Boost, error) {
	force, err := parseNonNegative(text)
	if err != nil {
		return nil, err
	}
	if force <= 0 {
		return nil, errors.Errorf("boost force must be positive, got [%s]", text)
	}
	return &Boost{Sub: sub, Force: force, forceText: text}, nil
}

func (b *Boost) String() string   { return itemString(b) }
func (b *Boost) Children() []Item { return []Item{b.Sub} }
func (b *Boost) CloneItem() Item  { c := *b; return &c }

func (b *Boost) SetChildren(children []Item) error {
	if len(children) != 1 {
		return errChildren(b, "1", len(children))
	}
	b.Sub = children[0]
	return nil
}

func (b *Boost) equal(other Item, trivia bool) bool {
	o, ok := other.(*Boost)
	return ok && b.Force == o.Force && b.baseEqual(&o.ItemBase, trivia) &&
		b.Sub.equal(o.Sub, trivia)
}

// Not negates its sub expression with the NOT keyword or its ! alias.
type Not struct {
	ItemBase
	Sub Item

	// keyword lexeme as written, for the ! alias
	kw string
}

// SetKeyword records the negation lexeme as written, eg. !. The parser
// uses it to keep printing lossless.
func (n *Not) SetKeyword(kw string) { n.kw = kw }

func (n *Not) String() string   { return itemString(n) }
func (n *Not) Children() []Item { return []Item{n.Sub} }
func (n *Not) CloneItem() Item  { c := *n; return &c }

func (n *Not) SetChildren(children []Item) error {
	if len(children) != 1 {
		return errChildren(n, "1", len(children))
	}
	n.Sub = children[0]
	return nil
}

func (n *Not) equal(other Item, trivia bool) bool {
	o, ok := other.(*Not)
	return ok && n.baseEqual(&o.ItemBase, trivia) && n.Sub.equal(o.Sub, trivia)
}

// Plus marks its sub expression as required, eg. +apples.
type Plus struct {
	ItemBase
	Sub Item
}

func (p *Plus) String() string   { return itemString(p) }
func (p *Plus) Children() []Item { return []Item{p.Sub} }
func (p *Plus) CloneItem() Item  { c := *p; return &c }

func (p *Plus) SetChildren(children []Item) error {
	if len(children) != 1 {
		return errChildren(p, "1", len(children))
	}
	p.Sub = children[0]
	return nil
}

func (p *Plus) equal(other Item, trivia bool) bool {
	o, ok := other.(*Plus)
	return ok && p.baseEqual(&o.ItemBase, trivia) && p.Sub.equal(o.Sub, trivia)
}

// Prohibit excludes its sub expression, eg. -vegetables.
type Prohibit struct {
	ItemBase
	Sub Item
}

func (p *Prohibit) String() string   { return itemString(p) }
func (p *Prohibit) Children() []Item { return []Item{p.Sub} }
func (p *Prohibit) CloneItem() Item  { c := *p; return &c }

func (p *Prohibit) SetChildren(children []Item) error {
	if len(children) != 1 {
		return errChildren(p, "1", len(children))
	}
	p.Sub = children[0]
	return nil
}

func (p *Prohibit) equal(other Item, trivia bool) bool {
	o, ok := other.(*Prohibit)
	return ok && p.baseEqual(&o.ItemBase, trivia) && p.Sub.equal(o.Sub, trivia)
}
