package parser

import "github.com/aledsdavies/mrecognizer/runtime/lexer"

// blockOpeners are the keywords closed by end.
var blockOpeners = map[lexer.TokenType]bool{
	lexer.IF: true, lexer.FOR: true, lexer.PARFOR: true, lexer.WHILE: true,
	lexer.SWITCH: true, lexer.TRY: true, lexer.SPMD: true,
	lexer.FUNCTION: true, lexer.CLASSDEF: true,
}

// functionsUseEnd reports whether the functions of a file are closed by end.
// A file either closes all of its functions or none of them, so it is
// enough to check that the block ends cover every opener, functions
// included. end inside brackets is a subscript and a keyword after a dot is
// a field name; neither counts.
func functionsUseEnd(tokens []lexer.Token) bool {
	openers, ends, depth := 0, 0, 0
	var prev lexer.TokenType = lexer.EOL
	for _, tok := range tokens {
		if tok.Channel != lexer.Default {
			continue
		}
		switch tok.Type {
		case lexer.LPAREN, lexer.LSQUARE, lexer.LCURLY:
			depth++
		case lexer.RPAREN, lexer.RSQUARE, lexer.RCURLY:
			if depth > 0 {
				depth--
			}
		case lexer.END:
			if depth == 0 && prev != lexer.DOT {
				ends++
			}
		default:
			if blockOpeners[tok.Type] && prev != lexer.DOT {
				openers++
			}
		}
		prev = tok.Type
	}
	return openers > 0 && ends >= openers
}
