package parser

import (
	"strings"

	"github.com/aledsdavies/mrecognizer/runtime/lexer"
)

// file parses a whole source unit. The first meaningful token picks the
// kind: function files hold only functions, class files a classdef and its
// local functions, scripts statements followed by local functions.
func (p *parser) file() *Node {
	p.skipSeparators()
	start := p.la(1)

	switch start.Type {
	case lexer.FUNCTION:
		p.functionsHaveEnd = functionsUseEnd(p.stream.Tokens())
		f := newNode(NodeFunctionFile, start)
		f.add(p.localFunctions()...)
		return p.finishFile(f)

	case lexer.CLASSDEF:
		// Methods and local functions of a class are always closed by end.
		p.functionsHaveEnd = true
		f := newNode(NodeClassFile, start)
		f.add(p.classdef())
		f.add(p.localFunctions()...)
		return p.finishFile(f)

	default:
		p.functionsHaveEnd = functionsUseEnd(p.stream.Tokens())
		f := newNode(NodeScriptFile, start)
		body, _ := p.block("script", lexer.FUNCTION)
		f.add(body...)
		f.add(p.localFunctions()...)
		return p.finishFile(f)
	}
}

func (p *parser) finishFile(f *Node) *Node {
	if !p.at(lexer.EOF) {
		p.errorUnexpected("file")
	}
	return f
}

// localFunctions parses the function definitions that fill the rest of a file.
func (p *parser) localFunctions() []*Node {
	var functions []*Node
	for {
		p.skipSeparators()
		if !p.at(lexer.FUNCTION) {
			return functions
		}
		functions = append(functions, p.function())
	}
}

// skipSeparators consumes empty statements.
func (p *parser) skipSeparators() {
	for p.atAny(lexer.EOL, lexer.SEMI, lexer.COMMA) {
		p.advance()
	}
}

// function parses a definition:
//
//	function [a, b] = name(x, ~, y)
//	    body
//	end
//
// The end is required exactly when the file closes its functions.
func (p *parser) function() *Node {
	kw := p.advance()
	fn := newNode(NodeFunction, kw)
	fn.add(p.functionHeader(kw)...)

	outer := p.inFunction
	p.inFunction = true
	defer func() { p.inFunction = outer }()

	if p.functionsHaveEnd {
		body, hint := p.block("function body", lexer.END)
		fn.add(body...)
		p.expectEnd("function definition", hint)
		return fn
	}
	body, _ := p.block("function body", lexer.FUNCTION)
	fn.add(body...)
	return fn
}

// functionHeader parses outputs, name and inputs of a function definition
// or method signature. Missing parts are empty Output and Input nodes.
func (p *parser) functionHeader(anchor lexer.Token) []*Node {
	output := newNode(NodeOutput, anchor)
	switch {
	case p.at(lexer.LSQUARE):
		p.advance()
		for !p.at(lexer.RSQUARE) {
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			tok, ok := p.expect(lexer.ID, "function outputs")
			if !ok {
				return nil
			}
			output.add(newNode(NodeID, tok))
		}
		p.advance()
		if _, ok := p.expect(lexer.ASSIGN, "function outputs"); !ok {
			return nil
		}
	case p.at(lexer.ID) && p.la(2).Type == lexer.ASSIGN:
		output.add(newNode(NodeID, p.advance()))
		p.advance()
	}

	name, ok := p.dottedName(NodeName, "function name")
	if !ok {
		return nil
	}

	input := newNode(NodeInput, anchor)
	if p.at(lexer.LPAREN) {
		p.advance()
		for !p.at(lexer.RPAREN) {
			switch {
			case p.at(lexer.COMMA):
				p.advance()
			case p.at(lexer.NOT):
				input.add(newNode(NodeNot, p.advance()))
			default:
				tok, ok := p.expect(lexer.ID, "function inputs")
				if !ok {
					return nil
				}
				input.add(newNode(NodeID, tok))
			}
		}
		p.advance()
	}
	return []*Node{output, name, input}
}

// dottedName parses name(.name)* into one leaf of kind whose text is the
// whole dotted name: get.Value, pkg.Class.
func (p *parser) dottedName(kind NodeKind, context string) (*Node, bool) {
	first, ok := p.expect(lexer.ID, context)
	if !ok {
		return nil, false
	}
	parts := []string{first.Text}
	for p.at(lexer.DOT) && p.isName(p.la(2)) {
		p.advance()
		parts = append(parts, p.advance().Text)
	}
	n := newNode(kind, first)
	n.Text = strings.Join(parts, ".")
	return n, true
}

// isName reports whether tok can name a field or package member. Keywords
// can: s.end is a field.
func (p *parser) isName(tok lexer.Token) bool {
	return tok.Type == lexer.ID || tok.Type.IsKeyword()
}

// expectEnd closes a block, adding a spelling hint when a stray statement
// looked like a misspelled keyword.
func (p *parser) expectEnd(context, hint string) {
	if p.at(lexer.END) {
		p.advance()
		return
	}
	got := p.la(1)
	p.fail(ParseError{
		Type:       ErrorParser,
		Position:   got.Position,
		Message:    "missing END at " + describe(got),
		Context:    context,
		Expected:   []lexer.TokenType{lexer.END},
		Got:        got.Type,
		Suggestion: hint,
	})
}
