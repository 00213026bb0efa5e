package luceneq

import (
	"fmt"
	"strings"

	"github.com/searchtools/luceneq/internal/lex"
)

// IllegalCharacterError is returned by Parse when the input contains a
// character that starts no valid token.
type IllegalCharacterError = lex.IllegalCharacterError

// ParseSyntaxError is returned by Parse when the input does not match the
// query grammar. It carries the offending position, a one line excerpt of
// the input around it, and the tokens that would have been accepted.
type ParseSyntaxError struct {
	Pos      int
	Excerpt  string
	Got      string
	Expected []string
	AtEOF    bool
}

func (e *ParseSyntaxError) Error() string {
	expected := strings.Join(e.Expected, " or ")
	if e.AtEOF {
		return fmt.Sprintf(
			"syntax error: unexpected end of input at position %d (near %q), expected %s",
			e.Pos, e.Excerpt, expected)
	}
	return fmt.Sprintf(
		"syntax error at position %d (near %q): got %s, expected %s",
		e.Pos, e.Excerpt, e.Got, expected)
}

// convertLexError maps lexer failures onto the parse error types.
func convertLexError(input string, err error) error {
	if unterminated, ok := err.(lex.UnterminatedError); ok {
		return &ParseSyntaxError{
			Pos:      unterminated.Pos,
			Excerpt:  lex.Excerpt(input, unterminated.Pos),
			Expected: []string{"a closing delimiter for the " + unterminated.What},
			AtEOF:    true,
		}
	}
	return err
}
