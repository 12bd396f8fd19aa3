package parser

import "github.com/aledsdavies/mrecognizer/runtime/lexer"

// Section names are plain identifiers; they open a section only at the
// top of a class body.
func (p *parser) sectionIdFollows(name string) bool {
	tok := p.la(1)
	return tok.Type == lexer.ID && tok.Text == name
}

func (p *parser) propertiesIdFollows() bool  { return p.sectionIdFollows("properties") }
func (p *parser) methodsIdFollows() bool     { return p.sectionIdFollows("methods") }
func (p *parser) eventsIdFollows() bool      { return p.sectionIdFollows("events") }
func (p *parser) enumerationIdFollows() bool { return p.sectionIdFollows("enumeration") }

// classdef parses
//
//	classdef (Sealed) Name < Base & mixin.Copyable
//	    properties ... end
//	    methods ... end
//	    events ... end
//	    enumeration ... end
//	end
func (p *parser) classdef() *Node {
	const context = "class definition"
	kw := p.advance()
	class := newNode(NodeClassdef, kw)

	if p.at(lexer.LPAREN) {
		attrs, ok := p.attributes()
		if !ok {
			return nil
		}
		class.add(attrs...)
	}

	name, ok := p.dottedName(NodeName, context)
	if !ok {
		return nil
	}
	class.add(name)

	if p.at(lexer.LT) {
		p.advance()
		for {
			super, ok := p.dottedName(NodeClassRef, "superclass list")
			if !ok {
				return nil
			}
			class.add(super)
			if !p.at(lexer.AND) {
				break
			}
			p.advance()
		}
	}

	for {
		p.skipSeparators()
		var section *Node
		switch tok := p.la(1); {
		case tok.Type == lexer.END:
			p.advance()
			return class
		case p.propertiesIdFollows():
			section = p.propertySection()
		case p.methodsIdFollows():
			section = p.methodSection()
		case p.eventsIdFollows():
			section = p.eventSection()
		case p.enumerationIdFollows():
			section = p.enumerationSection()
		case tok.Type == lexer.ID:
			p.fail(ParseError{
				Type:       ErrorParser,
				Position:   tok.Position,
				Message:    "unexpected " + describe(tok),
				Context:    "class body",
				Expected:   []lexer.TokenType{lexer.END},
				Got:        tok.Type,
				Suggestion: didYouMean(tok.Text, classSections),
			})
			return nil
		default:
			p.expectEnd(context, "")
			return nil
		}
		if section == nil {
			return nil
		}
		class.add(section)
	}
}

// attributes parses (Name, Name = value, ~Name).
func (p *parser) attributes() ([]*Node, bool) {
	p.advance()
	p.balance.Enter(BalanceParenthesis)
	defer p.balance.Exit(BalanceParenthesis)

	var attrs []*Node
	for !p.at(lexer.RPAREN) {
		tok := p.la(1)
		switch {
		case tok.Type == lexer.COMMA:
			p.advance()
		case tok.Type == lexer.NOT:
			p.advance()
			id, ok := p.expect(lexer.ID, "attribute list")
			if !ok {
				return nil, false
			}
			attrs = append(attrs, newNode(NodeAttribute, tok, newNode(NodeNot, tok, newNode(NodeID, id))))
		default:
			id, ok := p.expect(lexer.ID, "attribute list")
			if !ok {
				return nil, false
			}
			attr := newNode(NodeAttribute, id, newNode(NodeID, id))
			if p.at(lexer.ASSIGN) {
				p.advance()
				value := p.expression()
				if value == nil {
					return nil, false
				}
				attr.add(value)
			}
			attrs = append(attrs, attr)
		}
	}
	p.advance()
	return attrs, true
}

// sectionHeader consumes the section word and its attributes.
func (p *parser) sectionHeader(kind NodeKind) *Node {
	section := newNode(kind, p.advance())
	if p.at(lexer.LPAREN) {
		attrs, ok := p.attributes()
		if !ok {
			return nil
		}
		section.add(attrs...)
	}
	return section
}

// memberEnd checks that a member declaration fills its line.
func (p *parser) memberEnd(context string) bool {
	if p.atStatementEnd() || p.at(lexer.END) {
		return true
	}
	p.errorExpected(context, lexer.EOL, lexer.SEMI, lexer.COMMA)
	return false
}

func (p *parser) propertySection() *Node {
	const context = "properties section"
	section := p.sectionHeader(NodePropertySection)
	if section == nil {
		return nil
	}
	for {
		p.skipSeparators()
		if p.at(lexer.END) {
			p.advance()
			return section
		}
		if !p.at(lexer.ID) {
			p.expectEnd(context, "")
			return nil
		}
		id := p.advance()
		prop := newNode(NodeProperty, id, newNode(NodeID, id))
		if p.at(lexer.ASSIGN) {
			p.advance()
			value := p.expression()
			if value == nil {
				return nil
			}
			prop.add(value)
		}
		if !p.memberEnd(context) {
			return nil
		}
		section.add(prop)
	}
}

func (p *parser) methodSection() *Node {
	const context = "methods section"
	section := p.sectionHeader(NodeMethodSection)
	if section == nil {
		return nil
	}
	for {
		p.skipSeparators()
		tok := p.la(1)
		switch tok.Type {
		case lexer.END:
			p.advance()
			return section
		case lexer.FUNCTION:
			fn := p.function()
			if fn == nil {
				return nil
			}
			section.add(newNode(NodeRegularMethod, tok, fn))
		case lexer.ID, lexer.LSQUARE:
			method := p.methodSignature()
			if method == nil {
				return nil
			}
			section.add(method)
		default:
			p.expectEnd(context, "")
			return nil
		}
	}
}

// methodSignature parses a declaration whose body lives in its own file:
// result = compute(obj, x).
func (p *parser) methodSignature() *Node {
	start := p.la(1)
	p.signature.Enter()
	defer p.signature.Exit()

	header := p.functionHeader(start)
	if header == nil || !p.memberEnd("method signature") {
		return nil
	}
	return newNode(NodeExternalMethod, start, header...)
}

func (p *parser) eventSection() *Node {
	const context = "events section"
	section := p.sectionHeader(NodeEventSection)
	if section == nil {
		return nil
	}
	for {
		p.skipSeparators()
		if p.at(lexer.END) {
			p.advance()
			return section
		}
		if !p.at(lexer.ID) {
			p.expectEnd(context, "")
			return nil
		}
		id := p.advance()
		if !p.memberEnd(context) {
			return nil
		}
		section.add(newNode(NodeEvent, id, newNode(NodeID, id)))
	}
}

// enumerationSection parses members with optional constructor arguments:
// Red (1, 0, 0).
func (p *parser) enumerationSection() *Node {
	const context = "enumeration section"
	section := p.sectionHeader(NodeEnumerationSection)
	if section == nil {
		return nil
	}
	for {
		p.skipSeparators()
		if p.at(lexer.END) {
			p.advance()
			return section
		}
		if !p.at(lexer.ID) {
			p.expectEnd(context, "")
			return nil
		}
		id := p.advance()
		member := newNode(NodeEnumeration, id, newNode(NodeID, id))
		if p.at(lexer.LPAREN) {
			args, ok := p.enumerationArguments()
			if !ok {
				return nil
			}
			member.add(args...)
		}
		if !p.memberEnd(context) {
			return nil
		}
		section.add(member)
	}
}

func (p *parser) enumerationArguments() ([]*Node, bool) {
	p.advance()
	p.balance.Enter(BalanceParenthesis)
	defer p.balance.Exit(BalanceParenthesis)

	var args []*Node
	for !p.at(lexer.RPAREN) {
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		arg := p.expression()
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if !p.atAny(lexer.COMMA, lexer.RPAREN) {
			p.errorExpected("enumeration arguments", lexer.COMMA, lexer.RPAREN)
			return nil, false
		}
	}
	p.advance()
	return args, true
}
