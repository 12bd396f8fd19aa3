package parser

import "github.com/aledsdavies/mrecognizer/runtime/lexer"

// spacesPrecede reports whether blanks or a continuation sit left of tok.
func (p *parser) spacesPrecede(tok lexer.Token) bool {
	run, ok := p.stream.OffChannelLeftIn(tok.Index, lexer.Spaces)
	return ok && len(run) > 0
}

// commaFollowsOrSpacesPrecede reports whether LT(1) separates two elements
// of an array row: an explicit comma, or an element start after blanks.
func (p *parser) commaFollowsOrSpacesPrecede() bool {
	next := p.la(1)
	return next.Type == lexer.COMMA || p.spacesPrecede(next)
}

// atStatementEnd reports whether LT(1) closes a statement.
func (p *parser) atStatementEnd() bool {
	return p.atAny(lexer.EOL, lexer.SEMI, lexer.COMMA, lexer.EOF)
}
