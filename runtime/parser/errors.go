package parser

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/mrecognizer/runtime/lexer"
)

// ErrorType tells a lexical failure from a syntactic one.
type ErrorType int

const (
	ErrorLexer ErrorType = iota
	ErrorParser
)

func (e ErrorType) String() string {
	switch e {
	case ErrorLexer:
		return "LEXER"
	case ErrorParser:
		return "PARSER"
	default:
		return "ERROR"
	}
}

// ParseError is one diagnostic found while recognizing a source unit
type ParseError struct {
	Type       ErrorType
	Position   lexer.Position
	Message    string            // "missing END", "no viable alternative at character '$'"
	Context    string            // "if statement", "argument list"
	Expected   []lexer.TokenType // Tokens that would have been accepted
	Got        lexer.TokenType   // Token found instead
	Suggestion string            // "did you mean 'end'?"
}

// Line is the 1-based line of the error.
func (e ParseError) Line() int {
	return e.Position.Line
}

// Column is the 1-based column of the error.
func (e ParseError) Column() int {
	return e.Position.Column
}

// Error renders the message the way diagnostics show it: "PARSER - missing END in if statement".
func (e ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	b.WriteString(" - ")
	b.WriteString(e.Message)
	if e.Context != "" {
		b.WriteString(" in ")
		b.WriteString(e.Context)
	}
	if e.Suggestion != "" {
		b.WriteString("; ")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}

// tokenName renders a token type for messages.
func tokenName(t lexer.TokenType) string {
	switch t {
	case lexer.EOF:
		return "end of input"
	case lexer.EOL:
		return "end of line"
	case lexer.ID:
		return "identifier"
	}
	return t.String()
}

func expectedList(types []lexer.TokenType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = tokenName(t)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return fmt.Sprintf("one of {%s}", strings.Join(names, ", "))
	}
}
