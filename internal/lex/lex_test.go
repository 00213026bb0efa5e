package lex

import (
	"reflect"
	"testing"
)

const errTemplate = "%s:\n    wanted %v\n    got    %v"

func tok(kind Kind, val string, pos int, head string) Token {
	return Token{Kind: kind, Val: val, Pos: pos, Head: head}
}

func TestLex(t *testing.T) {
	type tc struct {
		input    string
		expected []Token
	}

	tcs := map[string]tc{
		"empty": {
			input:    "",
			expected: []Token{tok(TEOF, "", 0, "")},
		},
		"single_term": {
			input: "foo",
			expected: []Token{
				tok(TTerm, "foo", 0, ""),
				tok(TEOF, "", 3, ""),
			},
		},
		"whitespace_becomes_head": {
			input: "  foo \t bar",
			expected: []Token{
				tok(TTerm, "foo", 2, "  "),
				tok(TTerm, "bar", 8, " \t "),
				tok(TEOF, "", 11, ""),
			},
		},
		"trailing_whitespace_on_eof": {
			input: "foo  ",
			expected: []Token{
				tok(TTerm, "foo", 0, ""),
				tok(TEOF, "", 5, "  "),
			},
		},
		"reserved_words": {
			input: "a AND b OR c NOT d",
			expected: []Token{
				tok(TTerm, "a", 0, ""),
				tok(TAnd, "AND", 2, " "),
				tok(TTerm, "b", 6, " "),
				tok(TOr, "OR", 8, " "),
				tok(TTerm, "c", 11, " "),
				tok(TNot, "NOT", 13, " "),
				tok(TTerm, "d", 17, " "),
				tok(TEOF, "", 18, ""),
			},
		},
		"reserved_words_are_case_sensitive": {
			input: "and or not to",
			expected: []Token{
				tok(TTerm, "and", 0, ""),
				tok(TTerm, "or", 4, " "),
				tok(TTerm, "not", 7, " "),
				tok(TTerm, "to", 11, " "),
				tok(TEOF, "", 13, ""),
			},
		},
		"operator_aliases": {
			input: "a && b || !c",
			expected: []Token{
				tok(TTerm, "a", 0, ""),
				tok(TAnd, "&&", 2, " "),
				tok(TTerm, "b", 5, " "),
				tok(TOr, "||", 7, " "),
				tok(TNot, "!", 10, " "),
				tok(TTerm, "c", 11, ""),
				tok(TEOF, "", 12, ""),
			},
		},
		"field_and_phrase": {
			input: `title:"foo bar"`,
			expected: []Token{
				tok(TTerm, "title", 0, ""),
				tok(TColon, ":", 5, ""),
				tok(TPhrase, `"foo bar"`, 6, ""),
				tok(TEOF, "", 15, ""),
			},
		},
		"phrase_with_escaped_quote": {
			input: `"say \"hi\""`,
			expected: []Token{
				tok(TPhrase, `"say \"hi\""`, 0, ""),
				tok(TEOF, "", 12, ""),
			},
		},
		"regex": {
			input: `/fo[o]?\/bar/`,
			expected: []Token{
				tok(TRegex, `/fo[o]?\/bar/`, 0, ""),
				tok(TEOF, "", 13, ""),
			},
		},
		"range_tokens": {
			input: "[1 TO 5}",
			expected: []Token{
				tok(TLBracket, "[", 0, ""),
				tok(TTerm, "1", 1, ""),
				tok(TTo, "TO", 3, " "),
				tok(TTerm, "5", 6, " "),
				tok(TRBrace, "}", 7, ""),
				tok(TEOF, "", 8, ""),
			},
		},
		"parens_and_unary": {
			input: "+(a -b)",
			expected: []Token{
				tok(TPlus, "+", 0, ""),
				tok(TLParen, "(", 1, ""),
				tok(TTerm, "a", 2, ""),
				tok(TMinus, "-", 4, " "),
				tok(TTerm, "b", 5, ""),
				tok(TRParen, ")", 6, ""),
				tok(TEOF, "", 7, ""),
			},
		},
		"fuzzy_and_boost_numbers": {
			input: "foo~0.5 bar^2",
			expected: []Token{
				tok(TTerm, "foo", 0, ""),
				tok(TTilde, "~", 3, ""),
				tok(TApprox, "0.5", 4, ""),
				tok(TTerm, "bar", 8, " "),
				tok(TCaret, "^", 11, ""),
				tok(TBoost, "2", 12, ""),
				tok(TEOF, "", 13, ""),
			},
		},
		"tilde_without_degree": {
			input: "frog~",
			expected: []Token{
				tok(TTerm, "frog", 0, ""),
				tok(TTilde, "~", 4, ""),
				tok(TEOF, "", 5, ""),
			},
		},
		"standalone_star": {
			input: "field:*",
			expected: []Token{
				tok(TTerm, "field", 0, ""),
				tok(TColon, ":", 5, ""),
				tok(TStar, "*", 6, ""),
				tok(TEOF, "", 7, ""),
			},
		},
		"wildcards_inside_term": {
			input: "fo*o?",
			expected: []Token{
				tok(TTerm, "fo*o?", 0, ""),
				tok(TEOF, "", 5, ""),
			},
		},
		"negative_number_is_a_term": {
			input: "[-5 TO 5]",
			expected: []Token{
				tok(TLBracket, "[", 0, ""),
				tok(TTerm, "-5", 1, ""),
				tok(TTo, "TO", 4, " "),
				tok(TTerm, "5", 7, " "),
				tok(TRBracket, "]", 8, ""),
				tok(TEOF, "", 9, ""),
			},
		},
		"escaped_specials_in_term": {
			input: `foo\:bar\ baz`,
			expected: []Token{
				tok(TTerm, `foo\:bar\ baz`, 0, ""),
				tok(TEOF, "", 13, ""),
			},
		},
		"dotted_field_name": {
			input: "author.last_name:Smith",
			expected: []Token{
				tok(TTerm, "author.last_name", 0, ""),
				tok(TColon, ":", 16, ""),
				tok(TTerm, "Smith", 17, ""),
				tok(TEOF, "", 22, ""),
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			got, err := Lex(tc.input).Tokens()
			if err != nil {
				t.Fatalf("got an unexpected error while lexing: %v", err)
			}
			if !reflect.DeepEqual(tc.expected, got) {
				t.Fatalf(errTemplate, "tokens do not match", tc.expected, got)
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	type tc struct {
		input    string
		expected error
	}

	tcs := map[string]tc{
		"illegal_character": {
			input:    "foo = bar",
			expected: IllegalCharacterError{Pos: 4, Char: '='},
		},
		"single_ampersand": {
			input:    "a & b",
			expected: IllegalCharacterError{Pos: 2, Char: '&'},
		},
		"single_pipe": {
			input:    "a | b",
			expected: IllegalCharacterError{Pos: 2, Char: '|'},
		},
		"unterminated_phrase": {
			input:    `"no closing quote`,
			expected: UnterminatedError{Pos: 0, What: "phrase"},
		},
		"unterminated_regex": {
			input:    "/no closing slash",
			expected: UnterminatedError{Pos: 0, What: "regex"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := Lex(tc.input).Tokens()
			if err == nil {
				t.Fatalf("expected an error but got none")
			}
			if !reflect.DeepEqual(tc.expected, err) {
				t.Fatalf(errTemplate, "errors do not match", tc.expected, err)
			}
		})
	}
}
