package parser

import (
	"github.com/aledsdavies/mrecognizer/core/invariant"
	"github.com/aledsdavies/mrecognizer/runtime/lexer"
)

// specialOperators may follow a command word only when they do not read as
// a binary operator (a - b is an expression, a -b is a command).
var specialOperators = map[lexer.TokenType]bool{
	lexer.PLUS: true, lexer.MINUS: true, lexer.MTIMES: true, lexer.TIMES: true,
	lexer.MRDIV: true, lexer.RDIV: true, lexer.MLDIV: true, lexer.LDIV: true,
	lexer.MPOW: true, lexer.POW: true, lexer.EQ: true, lexer.NOTEQ: true,
	lexer.LT: true, lexer.LTEQ: true, lexer.GT: true, lexer.GTEQ: true,
	lexer.AND: true, lexer.SHORTAND: true, lexer.OR: true, lexer.SHORTOR: true,
	lexer.AT: true, lexer.COLON: true, lexer.EXCLAMATION: true,
}

// operandStarts are the tokens that can open the right operand of a binary
// operator.
var operandStarts = map[lexer.TokenType]bool{
	lexer.PLUS: true, lexer.MINUS: true, lexer.NOT: true, lexer.ID: true,
	lexer.REAL: true, lexer.IMAGINARY: true, lexer.STRING: true,
	lexer.LPAREN: true, lexer.LSQUARE: true, lexer.LCURLY: true,
	lexer.QUESTION: true, lexer.EXCLAMATION: true,
}

// CommandDetector decides at a statement's first identifier whether the
// statement uses command syntax (hold on) rather than an expression.
type CommandDetector struct {
	stream *lexer.Stream
	marker *lexer.CommandMarker
}

func NewCommandDetector(stream *lexer.Stream, marker *lexer.CommandMarker) *CommandDetector {
	invariant.NotNil(stream, "stream")
	invariant.NotNil(marker, "marker")
	return &CommandDetector{stream: stream, marker: marker}
}

// IsEnabled reports whether LT(1) begins command syntax.
func (d *CommandDetector) IsEnabled() bool {
	word := d.stream.LT(1)
	if word.Type != lexer.ID {
		return false
	}
	if _, spaced := d.stream.OffChannelRightIn(word.Index, lexer.Spaces); !spaced {
		return false
	}

	next := d.stream.LT(2)
	switch next.Type {
	case lexer.LPAREN, lexer.RPAREN, lexer.ASSIGN:
		return false
	}

	if specialOperators[next.Type] {
		if _, spaced := d.stream.OffChannelRightIn(next.Index, lexer.Spaces); spaced {
			operand := d.stream.LT(3)
			if operandStarts[operand.Type] || operand.Type.IsKeyword() {
				return false
			}
		}
	}
	return true
}

// Mark pins the offset of LT(1) so the next attempt lexes it as COMMAND.
func (d *CommandDetector) Mark() {
	word := d.stream.LT(1)
	invariant.Precondition(word.Type == lexer.ID, "command mark on %s", word.Type)
	added := d.marker.Add(word.Position.Offset)
	invariant.Invariant(added, "command offset %d marked twice", word.Position.Offset)
}
