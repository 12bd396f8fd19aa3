package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenExpectation struct {
	Type   TokenType
	Text   string
	Line   int
	Column int
}

// defaultTokens lexes input and returns its Default-channel tokens.
func defaultTokens(t *testing.T, input string, marker *CommandMarker) []Token {
	t.Helper()
	lex := New(input, marker)
	tokens := lex.Tokenize()
	require.Empty(t, lex.Errors(), "unexpected lexical errors for %q", input)

	var out []Token
	for _, tok := range tokens {
		if tok.Channel == Default {
			out = append(out, tok)
		}
	}
	return out
}

// assertTokens compares the Default-channel tokens of input with expected.
func assertTokens(t *testing.T, input string, expected []tokenExpectation) {
	t.Helper()
	var actual []tokenExpectation
	for _, tok := range defaultTokens(t, input, nil) {
		actual = append(actual, tokenExpectation{tok.Type, tok.Text, tok.Position.Line, tok.Position.Column})
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("%q: token mismatch (-expected +actual):\n%s", input, diff)
	}
}

// types lexes input and returns the types of its Default-channel tokens
// without the trailing EOF.
func types(t *testing.T, input string, marker *CommandMarker) []TokenType {
	t.Helper()
	var out []TokenType
	for _, tok := range defaultTokens(t, input, marker) {
		if tok.Type != EOF {
			out = append(out, tok.Type)
		}
	}
	return out
}

func TestEmptyInput(t *testing.T) {
	assertTokens(t, "", []tokenExpectation{{EOF, "", 1, 1}})
}

func TestPositions(t *testing.T) {
	assertTokens(t, "x = 1;\r\ny(2)", []tokenExpectation{
		{ID, "x", 1, 1},
		{ASSIGN, "=", 1, 3},
		{REAL, "1", 1, 5},
		{SEMI, ";", 1, 6},
		{EOL, "\r\n", 1, 7},
		{ID, "y", 2, 1},
		{LPAREN, "(", 2, 2},
		{REAL, "2", 2, 3},
		{RPAREN, ")", 2, 4},
		{EOF, "", 2, 5},
	})
}

func TestKeywords(t *testing.T) {
	for word, typ := range Keywords {
		t.Run(word, func(t *testing.T) {
			assert.Equal(t, []TokenType{typ}, types(t, word, nil))
			assert.True(t, typ.IsKeyword())
		})
	}
	assert.Equal(t, []TokenType{ID}, types(t, "endfor", nil))
	assert.Equal(t, []TokenType{ID}, types(t, "End", nil))
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"1", []TokenType{REAL}},
		{"1.5", []TokenType{REAL}},
		{".5", []TokenType{REAL}},
		{"1.", []TokenType{REAL}},
		{"1e3", []TokenType{REAL}},
		{"1.5E-3", []TokenType{REAL}},
		{"2i", []TokenType{IMAGINARY}},
		{"2.5e+2j", []TokenType{IMAGINARY}},
		{"1.*2", []TokenType{REAL, TIMES, REAL}},
		{"1./2", []TokenType{REAL, RDIV, REAL}},
		{"1.^2", []TokenType{REAL, POW, REAL}},
		{"1.'", []TokenType{REAL, TRANS}},
		{"1:3", []TokenType{REAL, COLON, REAL}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, types(t, tt.input, nil))
		})
	}
}

func TestOperators(t *testing.T) {
	input := "+ - * .* / ./ \\ .\\ ^ .^ == ~= < <= > >= & && | || ~ = @ ? : , ; ( ) [ ] { } ."
	expected := []TokenType{
		PLUS, MINUS, MTIMES, TIMES, MRDIV, RDIV, MLDIV, LDIV, MPOW, POW,
		EQ, NOTEQ, LT, LTEQ, GT, GTEQ, AND, SHORTAND, OR, SHORTOR, NOT, ASSIGN,
		AT, QUESTION, COLON, COMMA, SEMI, LPAREN, RPAREN, LSQUARE, RSQUARE, LCURLY, RCURLY, DOT,
	}
	assert.Equal(t, expected, types(t, input, nil))
}

func TestStrings(t *testing.T) {
	assertTokens(t, "x = 'it''s'", []tokenExpectation{
		{ID, "x", 1, 1},
		{ASSIGN, "=", 1, 3},
		{STRING, "'it''s'", 1, 5},
		{EOF, "", 1, 12},
	})
	assert.Equal(t, []TokenType{STRING}, types(t, `"say ""hi"""`, nil))
}

func TestQuoteVersusTranspose(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{"after_identifier", "a'", []TokenType{ID, CTRANS}},
		{"after_number", "2'", []TokenType{REAL, CTRANS}},
		{"after_imaginary", "2i'", []TokenType{IMAGINARY, CTRANS}},
		{"after_square", "[1]'", []TokenType{LSQUARE, REAL, RSQUARE, CTRANS}},
		{"after_curly", "c{1}'", []TokenType{ID, LCURLY, REAL, RCURLY, CTRANS}},
		{"double_transpose", "a''", []TokenType{ID, CTRANS, CTRANS}},
		{"after_dot_transpose", "a.''", []TokenType{ID, TRANS, CTRANS}},
		{"after_paren", "f(x)'", []TokenType{ID, LPAREN, ID, RPAREN, CTRANS}},
		{"nested_paren", "f((x))'", []TokenType{ID, LPAREN, LPAREN, ID, RPAREN, RPAREN, CTRANS}},
		{"anonymous_params", "@(x)'s'", []TokenType{AT, LPAREN, ID, RPAREN, STRING}},
		{"keyword_field", "s.end'", []TokenType{ID, DOT, END, CTRANS}},
		{"keyword_statement", "disp(end)\nend'x'", []TokenType{ID, LPAREN, END, RPAREN, EOL, END, STRING}},
		{"after_comma", "[1,'a']", []TokenType{LSQUARE, REAL, COMMA, STRING, RSQUARE}},
		{"after_open_square", "['a']", []TokenType{LSQUARE, STRING, RSQUARE}},
		{"after_operator", "x='a'", []TokenType{ID, ASSIGN, STRING}},
		{"after_space", "[a 'b']", []TokenType{LSQUARE, ID, STRING, RSQUARE}},
		{"line_start", "'a'", []TokenType{STRING}},
		{"after_newline", "a\n'b'", []TokenType{ID, EOL, STRING}},
		{"after_string", "'a''", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expected == nil {
				lex := New(tt.input, nil)
				lex.Tokenize()
				assert.NotEmpty(t, lex.Errors())
				return
			}
			assert.Equal(t, tt.expected, types(t, tt.input, nil))
		})
	}
}

func TestChannels(t *testing.T) {
	lex := New("a ... more\n+ b % note\n%{\nblock\n%}\n", nil)
	tokens := lex.Tokenize()
	require.Empty(t, lex.Errors())

	var got []string
	for _, tok := range tokens {
		got = append(got, tok.Type.String()+"/"+tok.Channel.String())
	}
	expected := []string{
		"ID/Default", "SPACE/Spaces", "ELLIPSIS/Spaces", "PLUS/Default", "SPACE/Spaces",
		"ID/Default", "SPACE/Spaces", "COMMENT/Skipped", "EOL/Default",
		"BLOCKCOMMENT/Skipped", "EOL/Default", "EOF/Default",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("channel mismatch (-expected +actual):\n%s", diff)
	}
	for i, tok := range tokens {
		assert.Equal(t, i, tok.Index)
	}
}

func TestBlockComments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{"simple", "%{\nx = 1\n%}\ny", []TokenType{EOL, ID}},
		{"indented", "  %{  \nx\n  %}\ny", []TokenType{EOL, ID}},
		{"nested", "%{\n%{\nx\n%}\nstill comment\n%}\ny", []TokenType{EOL, ID}},
		{"not_alone_is_line_comment", "x %{\ny", []TokenType{ID, EOL, ID}},
		{"trailing_text_is_line_comment", "%{ text\ny", []TokenType{EOL, ID}},
		{"unterminated", "%{\nx = 1\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, types(t, tt.input, nil))
		})
	}
}

func TestCommandMode(t *testing.T) {
	input := "hold on, x = 1\nformat long 'a b' c;y"
	marker := NewCommandMarker(0, 15)

	lex := New(input, marker)
	tokens := lex.Tokenize()
	require.Empty(t, lex.Errors())

	var got []tokenExpectation
	for _, tok := range tokens {
		if tok.Channel == Default {
			got = append(got, tokenExpectation{tok.Type, tok.Text, tok.Position.Line, tok.Position.Column})
		}
	}
	expected := []tokenExpectation{
		{COMMAND, "hold", 1, 1},
		{CMDARG, "on", 1, 6},
		{COMMA, ",", 1, 8},
		{ID, "x", 1, 10},
		{ASSIGN, "=", 1, 12},
		{REAL, "1", 1, 14},
		{EOL, "\n", 1, 15},
		{COMMAND, "format", 2, 1},
		{CMDARG, "long", 2, 8},
		{CMDARG, "'a b'", 2, 13},
		{CMDARG, "c", 2, 19},
		{SEMI, ";", 2, 20},
		{ID, "y", 2, 21},
		{EOF, "", 2, 22},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("command tokens mismatch (-expected +actual):\n%s", diff)
	}
	assert.Equal(t, ModeDefault, lex.Mode())
}

func TestKeywordBeatsCommandMarker(t *testing.T) {
	assert.Equal(t, []TokenType{END}, types(t, "end", NewCommandMarker(0)))
}

func TestShellEscape(t *testing.T) {
	assertTokens(t, "  !ls -la\nx", []tokenExpectation{
		{EXCLAMATION, "!ls -la", 1, 3},
		{EOL, "\n", 1, 10},
		{ID, "x", 2, 1},
		{EOF, "", 2, 2},
	})
	assert.Equal(t, []TokenType{ID, NOTEQ, ID}, types(t, "a != b", nil))
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{"unknown_character", "x = 1\ny = $", 2, 5},
		{"unterminated_string", "s = 'abc\n", 1, 5},
		{"malformed_number", "x = 12abc", 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := New(tt.input, nil)
			tokens := lex.Tokenize()
			require.Len(t, lex.Errors(), 1)
			assert.Equal(t, tt.line, lex.Errors()[0].Position.Line)
			assert.Equal(t, tt.column, lex.Errors()[0].Position.Column)
			assert.Equal(t, EOF, tokens[len(tokens)-1].Type)
		})
	}
}

func TestContinueAfterErrors(t *testing.T) {
	lex := New("$ x # y", nil, WithStopOnFirstError(false))
	tokens := lex.Tokenize()
	assert.Len(t, lex.Errors(), 2)

	var ids []string
	for _, tok := range tokens {
		if tok.Type == ID {
			ids = append(ids, tok.Text)
		}
	}
	assert.Equal(t, []string{"x", "y"}, ids)
}

func TestLayoutPredicates(t *testing.T) {
	at := func(input string, offset int) *Lexer {
		l := New(input, nil)
		l.position = offset
		return l
	}

	assert.True(t, at("abc", 0).lineStartPrecedes())
	assert.True(t, at("a\nb", 2).lineStartPrecedes())
	assert.False(t, at("ab", 1).lineStartPrecedes())

	assert.True(t, at("ab", 0).lineEndFollows(2))
	assert.True(t, at("a\r", 0).lineEndFollows(1))
	assert.False(t, at("ab", 0).lineEndFollows(1))

	assert.True(t, at("   x", 3).spacesPrecedeInLine(), "stream start counts as a line start")
	assert.True(t, at("a\n \tx", 4).spacesPrecedeInLine())
	assert.False(t, at("a x", 2).spacesPrecedeInLine())

	assert.True(t, at("x...", 1).threeDotsFollow())
	assert.False(t, at("x..", 1).threeDotsFollow())
	assert.True(t, at("classdef", 0).textFollows("class"))
}
