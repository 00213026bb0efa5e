// Package luceneq parses queries written in the lucene query language
// into a syntax tree, prints them back losslessly, and, through its sub
// packages, rewrites them and translates them to the elasticsearch query
// DSL.
package luceneq

import (
	"github.com/pkg/errors"

	"github.com/searchtools/luceneq/internal/lex"
	"github.com/searchtools/luceneq/pkg/lucene/tree"
)

// Grammar, lowest to highest precedence:
// expr      <- or_expr
// or_expr   <- and_expr ( OR and_expr )*
// and_expr  <- impl_expr ( AND impl_expr )*
// impl_expr <- unary ( unary )*          two or more make an UnknownOperation
// unary     <- NOT unary | + unary | - unary | postfix
// postfix   <- atom ( ~ num? | ^ num )*
// atom      <- TERM : field_body | atom_body
// atom_body <- ( expr ) | [ range ] | { range } | PHRASE | REGEX | TERM | *

// Parse parses a lucene query into its syntax tree. The returned tree
// prints back to the input string exactly, except for whitespace before
// the first token and after the last: it is kept as the root's head and
// tail, which String does not print. Errors are of type
// *ParseSyntaxError or IllegalCharacterError.
func Parse(input string) (tree.Item, error) {
	toks, err := lex.Lex(input).Tokens()
	if err != nil {
		return nil, convertLexError(input, err)
	}

	p := &parser{input: input, toks: toks}
	if p.cur().Kind == lex.TEOF {
		return nil, &ParseSyntaxError{
			Pos:      p.cur().Pos,
			Excerpt:  lex.Excerpt(input, p.cur().Pos),
			Expected: []string{"an expression"},
			AtEOF:    true,
		}
	}

	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lex.TEOF {
		return nil, p.syntaxError("end of input")
	}
	// trailing whitespace ends up as the tail of the root
	root.Base().Tail += p.cur().Head
	return root, nil
}

type parser struct {
	input string
	toks  []lex.Token
	pos   int
}

func (p *parser) cur() lex.Token { return p.toks[p.pos] }

func (p *parser) peek() lex.Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

func (p *parser) advance() lex.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

// syntaxError builds the error for an unexpected current token.
func (p *parser) syntaxError(expected ...string) error {
	tok := p.cur()
	return &ParseSyntaxError{
		Pos:      tok.Pos,
		Excerpt:  lex.Excerpt(p.input, tok.Pos),
		Got:      tok.String(),
		Expected: expected,
		AtEOF:    tok.Kind == lex.TEOF,
	}
}

// endOf returns the offset just after a node's surface and tail.
func endOf(n tree.Item) int {
	b := n.Base()
	return b.Pos + b.Size + len(b.Tail)
}

// spanFromChildren sets the span of an operation node: its surface starts
// at the head of its first operand and ends after the tail of its last.
func spanFromChildren(b *tree.ItemBase, first, last tree.Item) {
	fb := first.Base()
	b.Pos = fb.Pos - len(fb.Head)
	b.Size = endOf(last) - b.Pos
}

func (p *parser) parseOr() (tree.Item, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	ops := []tree.Item{left}
	var kws []string
	for p.cur().Kind == lex.TOr {
		opTok := p.advance()
		ops[len(ops)-1].Base().Tail += opTok.Head
		kws = append(kws, opTok.Val)
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		ops = append(ops, right)
	}
	if len(ops) == 1 {
		return left, nil
	}
	n := &tree.OrOperation{Ops: ops}
	n.SetJunctionKeywords(kws)
	spanFromChildren(&n.ItemBase, ops[0], ops[len(ops)-1])
	return n, nil
}

func (p *parser) parseAnd() (tree.Item, error) {
	left, err := p.parseImplicit()
	if err != nil {
		return nil, err
	}
	ops := []tree.Item{left}
	var kws []string
	for p.cur().Kind == lex.TAnd {
		opTok := p.advance()
		ops[len(ops)-1].Base().Tail += opTok.Head
		kws = append(kws, opTok.Val)
		right, err := p.parseImplicit()
		if err != nil {
			return nil, err
		}
		ops = append(ops, right)
	}
	if len(ops) == 1 {
		return left, nil
	}
	n := &tree.AndOperation{Ops: ops}
	n.SetJunctionKeywords(kws)
	spanFromChildren(&n.ItemBase, ops[0], ops[len(ops)-1])
	return n, nil
}

// startsOperand reports whether a token kind can begin an operand, which
// drives the detection of implicit operations.
func startsOperand(k lex.Kind) bool {
	switch k {
	case lex.TTerm, lex.TPhrase, lex.TRegex, lex.TStar, lex.TTo,
		lex.TLParen, lex.TLBracket, lex.TLBrace,
		lex.TNot, lex.TPlus, lex.TMinus:
		return true
	}
	return false
}

func (p *parser) parseImplicit() (tree.Item, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	ops := []tree.Item{first}
	for startsOperand(p.cur().Kind) {
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		ops = append(ops, next)
	}
	if len(ops) == 1 {
		return first, nil
	}
	n := &tree.UnknownOperation{Ops: ops}
	spanFromChildren(&n.ItemBase, ops[0], ops[len(ops)-1])
	return n, nil
}

func (p *parser) parseUnary() (tree.Item, error) {
	switch p.cur().Kind {
	case lex.TNot:
		tok := p.advance()
		sub, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n := &tree.Not{Sub: sub}
		if tok.Val != "NOT" {
			n.SetKeyword(tok.Val)
		}
		n.Head = tok.Head
		n.Pos = tok.Pos
		n.Size = endOf(sub) - tok.Pos
		return n, nil

	case lex.TPlus:
		tok := p.advance()
		sub, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n := &tree.Plus{Sub: sub}
		n.Head = tok.Head
		n.Pos = tok.Pos
		n.Size = endOf(sub) - tok.Pos
		return n, nil

	case lex.TMinus:
		tok := p.advance()
		sub, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n := &tree.Prohibit{Sub: sub}
		n.Head = tok.Head
		n.Pos = tok.Pos
		n.Size = endOf(sub) - tok.Pos
		return n, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (tree.Item, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return p.applyPostfix(atom)
}

// applyPostfix wraps an atom with any trailing fuzziness, proximity or
// boost operators.
func (p *parser) applyPostfix(atom tree.Item) (tree.Item, error) {
	for {
		switch p.cur().Kind {
		case lex.TTilde:
			tilde := p.advance()
			atom.Base().Tail += tilde.Head
			degree := ""
			end := tilde.Pos + len(tilde.Val)
			if p.cur().Kind == lex.TApprox {
				num := p.advance()
				degree = num.Val
				end = num.Pos + len(num.Val)
			}
			wrapped, err := wrapApprox(atom, degree)
			if err != nil {
				return nil, &ParseSyntaxError{
					Pos:     tilde.Pos,
					Excerpt: lex.Excerpt(p.input, tilde.Pos),
					Got:     tilde.String(),
					Expected: []string{
						"a word or a phrase before the tilde",
					},
				}
			}
			b := wrapped.Base()
			b.Pos = atom.Base().Pos - len(atom.Base().Head)
			b.Size = end - b.Pos
			atom = wrapped

		case lex.TCaret:
			caret := p.advance()
			atom.Base().Tail += caret.Head
			if p.cur().Kind != lex.TBoost {
				return nil, p.syntaxError("a number after ^")
			}
			num := p.advance()
			boost, err := tree.NewBoostFromText(atom, num.Val)
			if err != nil {
				return nil, &ParseSyntaxError{
					Pos:      num.Pos,
					Excerpt:  lex.Excerpt(p.input, num.Pos),
					Got:      num.String(),
					Expected: []string{"a positive number after ^"},
				}
			}
			boost.Pos = atom.Base().Pos - len(atom.Base().Head)
			boost.Size = num.Pos + len(num.Val) - boost.Pos
			atom = boost

		default:
			return atom, nil
		}
	}
}

// wrapApprox builds a Fuzzy for a word and a Proximity for a phrase.
func wrapApprox(atom tree.Item, degree string) (tree.Item, error) {
	switch atom.(type) {
	case *tree.Phrase:
		if degree == "" {
			return tree.NewImplicitProximity(atom), nil
		}
		return tree.NewProximityFromText(atom, degree)
	case *tree.Word:
		if degree == "" {
			return tree.NewImplicitFuzzy(atom), nil
		}
		return tree.NewFuzzyFromText(atom, degree)
	}
	return nil, errors.Errorf("approximation needs a word or a phrase, got %T", atom)
}

func (p *parser) parseAtom() (tree.Item, error) {
	if p.cur().Kind == lex.TTerm && p.peek().Kind == lex.TColon {
		name := p.advance()
		p.advance() // the colon; space around it is not meaningful
		body, err := p.parseFieldBody()
		if err != nil {
			return nil, err
		}
		n := &tree.SearchField{Name: name.Val, Expr: body}
		n.Head = name.Head
		n.Pos = name.Pos
		n.Size = endOf(body) - name.Pos
		return n, nil
	}
	return p.parseAtomBody()
}

// parseFieldBody parses what follows `field:`. A group becomes a
// FieldGroup there, and postfix operators still bind to the body.
func (p *parser) parseFieldBody() (tree.Item, error) {
	body, err := p.parseAtomBody()
	if err != nil {
		return nil, err
	}
	if g, ok := body.(*tree.Group); ok {
		body = tree.GroupToFieldGroup(g)
	}
	return p.applyPostfix(body)
}

func (p *parser) parseAtomBody() (tree.Item, error) {
	switch p.cur().Kind {
	case lex.TLParen:
		lparen := p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.cur().Kind != lex.TRParen {
			return nil, p.syntaxError(") to close the group")
		}
		rparen := p.advance()
		expr.Base().Tail += rparen.Head
		n := &tree.Group{Expr: expr}
		n.Head = lparen.Head
		n.Pos = lparen.Pos
		n.Size = rparen.Pos + len(rparen.Val) - lparen.Pos
		return n, nil

	case lex.TLBracket, lex.TLBrace:
		return p.parseRange()

	case lex.TPhrase:
		tok := p.advance()
		n := &tree.Phrase{Value: tok.Val}
		n.Head = tok.Head
		n.Pos = tok.Pos
		n.Size = len(tok.Val)
		return n, nil

	case lex.TRegex:
		tok := p.advance()
		n := &tree.Regex{Value: tok.Val}
		n.Head = tok.Head
		n.Pos = tok.Pos
		n.Size = len(tok.Val)
		return n, nil

	case lex.TTerm, lex.TStar, lex.TTo:
		tok := p.advance()
		n := &tree.Word{Value: tok.Val}
		n.Head = tok.Head
		n.Pos = tok.Pos
		n.Size = len(tok.Val)
		return n, nil
	}

	return nil, p.syntaxError("a term, a phrase, a regex, a group or a range")
}

// parseRange parses `[low TO high]`, `{low TO high}` or a mix of both
// bracket kinds. Bounds are words, possibly the wildcard *.
func (p *parser) parseRange() (tree.Item, error) {
	open := p.advance()

	low, err := p.parseBound()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lex.TTo {
		return nil, p.syntaxError("TO between the range bounds")
	}
	to := p.advance()
	low.Base().Tail += to.Head

	high, err := p.parseBound()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lex.TRBracket && p.cur().Kind != lex.TRBrace {
		return nil, p.syntaxError("] or } to close the range")
	}
	closing := p.advance()
	high.Base().Tail += closing.Head

	n := &tree.Range{
		Low:         low,
		High:        high,
		IncludeLow:  open.Kind == lex.TLBracket,
		IncludeHigh: closing.Kind == lex.TRBracket,
	}
	n.Head = open.Head
	n.Pos = open.Pos
	n.Size = closing.Pos + len(closing.Val) - open.Pos
	return n, nil
}

func (p *parser) parseBound() (*tree.Word, error) {
	if p.cur().Kind != lex.TTerm && p.cur().Kind != lex.TStar {
		return nil, p.syntaxError("a range bound")
	}
	tok := p.advance()
	n := &tree.Word{Value: tok.Val}
	n.Head = tok.Head
	n.Pos = tok.Pos
	n.Size = len(tok.Val)
	return n, nil
}
