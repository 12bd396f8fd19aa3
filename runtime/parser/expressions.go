package parser

import "github.com/aledsdavies/mrecognizer/runtime/lexer"

// Binary operator levels, lowest precedence first.
var (
	shortOrOps    = map[lexer.TokenType]NodeKind{lexer.SHORTOR: NodeShortOr}
	shortAndOps   = map[lexer.TokenType]NodeKind{lexer.SHORTAND: NodeShortAnd}
	orOps         = map[lexer.TokenType]NodeKind{lexer.OR: NodeOr}
	andOps        = map[lexer.TokenType]NodeKind{lexer.AND: NodeAnd}
	comparisonOps = map[lexer.TokenType]NodeKind{
		lexer.EQ: NodeEq, lexer.NOTEQ: NodeNotEq,
		lexer.LT: NodeLt, lexer.LTEQ: NodeLtEq,
		lexer.GT: NodeGt, lexer.GTEQ: NodeGtEq,
	}
	additiveOps       = map[lexer.TokenType]NodeKind{lexer.PLUS: NodePlus, lexer.MINUS: NodeMinus}
	multiplicativeOps = map[lexer.TokenType]NodeKind{
		lexer.MTIMES: NodeMTimes, lexer.TIMES: NodeTimes,
		lexer.MRDIV: NodeMRDiv, lexer.RDIV: NodeRDiv,
		lexer.MLDIV: NodeMLDiv, lexer.LDIV: NodeLDiv,
	}
	unaryOps   = map[lexer.TokenType]NodeKind{lexer.PLUS: NodePositive, lexer.MINUS: NodeNegative, lexer.NOT: NodeNot}
	powerOps   = map[lexer.TokenType]NodeKind{lexer.MPOW: NodeMPow, lexer.POW: NodePow}
	postfixOps = map[lexer.TokenType]NodeKind{lexer.CTRANS: NodeCTrans, lexer.TRANS: NodeTrans}
)

func (p *parser) expression() *Node {
	return p.binary(p.shortAnd, shortOrOps)
}

func (p *parser) shortAnd() *Node   { return p.binary(p.or, shortAndOps) }
func (p *parser) or() *Node         { return p.binary(p.and, orOps) }
func (p *parser) and() *Node        { return p.binary(p.comparison, andOps) }
func (p *parser) comparison() *Node { return p.binary(p.rangeExpr, comparisonOps) }

func (p *parser) multiplicative() *Node {
	return p.binary(p.unary, multiplicativeOps)
}

// binary parses a left-associative level: next (op next)*.
func (p *parser) binary(next func() *Node, ops map[lexer.TokenType]NodeKind) *Node {
	left := next()
	for left != nil {
		op := p.la(1)
		kind, ok := ops[op.Type]
		if !ok {
			return left
		}
		p.advance()
		right := next()
		if right == nil {
			return nil
		}
		left = newNode(kind, op, left, right)
	}
	return left
}

// rangeExpr parses start:stop and start:step:stop.
func (p *parser) rangeExpr() *Node {
	first := p.additive()
	if first == nil || !p.at(lexer.COLON) {
		return first
	}
	op := p.advance()
	second := p.additive()
	if second == nil {
		return nil
	}
	if !p.at(lexer.COLON) {
		return newNode(NodeColon, op, first, second)
	}
	p.advance()
	third := p.additive()
	if third == nil {
		return nil
	}
	return newNode(NodeColon, op, first, second, third)
}

// additive stops at an operator that is blank on the left only inside a
// literal: [a -b] holds two elements, [a - b] one.
func (p *parser) additive() *Node {
	left := p.multiplicative()
	for left != nil {
		op := p.la(1)
		kind, ok := additiveOps[op.Type]
		if !ok || p.balance.SpacesPrecedeButNotFollow(op) {
			return left
		}
		p.advance()
		right := p.multiplicative()
		if right == nil {
			return nil
		}
		left = newNode(kind, op, left, right)
	}
	return left
}

// unary binds looser than power: -2^2 is -(2^2).
func (p *parser) unary() *Node {
	tok := p.la(1)
	kind, ok := unaryOps[tok.Type]
	if !ok {
		return p.power()
	}
	p.advance()
	operand := p.unary()
	if operand == nil {
		return nil
	}
	return newNode(kind, tok, operand)
}

// power parses the left-to-right postfix level: a^b, a', a.^b.'.
func (p *parser) power() *Node {
	left := p.primary()
	for left != nil {
		tok := p.la(1)
		if kind, ok := postfixOps[tok.Type]; ok {
			p.advance()
			left = newNode(kind, tok, left)
			continue
		}
		kind, ok := powerOps[tok.Type]
		if !ok {
			return left
		}
		p.advance()
		exponent := p.powerOperand()
		if exponent == nil {
			return nil
		}
		left = newNode(kind, tok, left, exponent)
	}
	return left
}

// powerOperand admits prefix operators on an exponent: 2^-1.
func (p *parser) powerOperand() *Node {
	tok := p.la(1)
	kind, ok := unaryOps[tok.Type]
	if !ok {
		return p.primary()
	}
	p.advance()
	operand := p.powerOperand()
	if operand == nil {
		return nil
	}
	return newNode(kind, tok, operand)
}

func (p *parser) primary() *Node {
	tok := p.la(1)
	switch tok.Type {
	case lexer.ID:
		return p.variable()
	case lexer.REAL:
		return newNode(NodeReal, p.advance())
	case lexer.IMAGINARY:
		return newNode(NodeImaginary, p.advance())
	case lexer.STRING:
		return newNode(NodeString, p.advance())
	case lexer.LPAREN:
		return p.group()
	case lexer.LSQUARE:
		return p.array(NodeRegularArray, lexer.RSQUARE, CreationSquareBrace, "array")
	case lexer.LCURLY:
		return p.array(NodeCellArray, lexer.RCURLY, CreationCurlyBrace, "cell array")
	case lexer.END:
		if p.index.IsActive() {
			return newNode(NodeEnd, p.advance())
		}
	case lexer.AT:
		if p.la(2).Type == lexer.LPAREN {
			return p.anonymousFunction()
		}
		at := p.advance()
		ref, ok := p.dottedName(NodeFunctionRef, "function handle")
		if !ok {
			return nil
		}
		return newNode(NodeFunctionHandle, at, ref)
	case lexer.QUESTION:
		q := p.advance()
		ref, ok := p.dottedName(NodeClassRef, "metaclass query")
		if !ok {
			return nil
		}
		return newNode(NodeQuestion, q, ref)
	}
	p.errorUnexpected("expression")
	return nil
}

// group parses a parenthesized expression. The parentheses leave no node.
func (p *parser) group() *Node {
	p.advance()
	p.balance.Enter(BalanceParenthesis)
	defer p.balance.Exit(BalanceParenthesis)

	expr := p.expression()
	if expr == nil {
		return nil
	}
	if _, ok := p.expect(lexer.RPAREN, "parenthesized expression"); !ok {
		return nil
	}
	return expr
}

// variable parses an identifier and its postfix chain:
// a(1){2}.b.(name)(3), obj@Base(args).
func (p *parser) variable() *Node {
	id := p.advance()
	v := newNode(NodeVar, id, newNode(NodeID, id))

	p.chain.Begin()
	defer p.chain.End()

	for {
		tok := p.la(1)
		switch tok.Type {
		case lexer.LPAREN:
			if p.balance.SpacesPrecede(tok) {
				return v
			}
			if !p.chain.MayAddParenthesis() {
				p.errorUnexpected("postfix chain")
				return nil
			}
			args := p.arguments(NodeParenthesis, lexer.RPAREN, BalanceParenthesis, IndexParen)
			if args == nil {
				return nil
			}
			v.add(args)
			p.chain.Added(ChainParenthesis)

		case lexer.LCURLY:
			if p.balance.SpacesPrecede(tok) {
				return v
			}
			if !p.chain.MayAddCurlyBrace() {
				p.errorUnexpected("postfix chain")
				return nil
			}
			args := p.arguments(NodeCurlyBrace, lexer.RCURLY, IndexCurlyBrace, IndexCurly)
			if args == nil {
				return nil
			}
			v.add(args)
			p.chain.Added(ChainCurlyBrace)

		case lexer.DOT:
			next := p.la(2)
			switch {
			case p.isName(next):
				if !p.chain.MayAddDotName() {
					p.errorUnexpected("postfix chain")
					return nil
				}
				p.advance()
				name := p.advance()
				v.add(newNode(NodeDotName, tok, newNode(NodeName, name)))
				p.chain.Added(ChainDotName)
			case next.Type == lexer.LPAREN:
				if !p.chain.MayAddDotExpression() {
					p.errorUnexpected("postfix chain")
					return nil
				}
				field := p.dynamicField()
				if field == nil {
					return nil
				}
				v.add(field)
				p.chain.Added(ChainDotExpression)
			default:
				p.advance()
				p.errorExpected("field reference", lexer.ID, lexer.LPAREN)
				return nil
			}

		case lexer.AT:
			if p.spacesPrecede(tok) || p.la(2).Type != lexer.ID {
				return v
			}
			if !p.chain.MayAddAtBase() {
				p.errorUnexpected("postfix chain")
				return nil
			}
			p.advance()
			ref, ok := p.dottedName(NodeClassRef, "superclass reference")
			if !ok {
				return nil
			}
			v.add(newNode(NodeAtBase, tok, ref))
			p.chain.Added(ChainAtBase)

		default:
			return v
		}
	}
}

// arguments parses a subscript or call argument list. end and a bare :
// are values inside it.
func (p *parser) arguments(kind NodeKind, closer lexer.TokenType, balance BalanceOperator, index IndexOperator) *Node {
	open := p.advance()
	p.balance.Enter(balance)
	defer p.balance.Exit(balance)
	p.index.Enter(index)
	defer p.index.Exit(index)

	args := newNode(kind, open)
	if p.at(closer) {
		p.advance()
		return args
	}
	for {
		if p.at(lexer.COLON) && (p.la(2).Type == closer || p.la(2).Type == lexer.COMMA) {
			args.add(newNode(NodeAll, p.advance()))
		} else {
			arg := p.expression()
			if arg == nil {
				return nil
			}
			args.add(arg)
		}
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		if _, ok := p.expect(closer, "argument list"); !ok {
			return nil
		}
		return args
	}
}

// dynamicField parses .(expr). Subscripts outside do not reach inside.
func (p *parser) dynamicField() *Node {
	dot := p.advance()
	p.advance()
	p.balance.Enter(BalanceParenthesis)
	defer p.balance.Exit(BalanceParenthesis)
	restore := p.index.Suspend()
	defer restore()

	expr := p.expression()
	if expr == nil {
		return nil
	}
	if _, ok := p.expect(lexer.RPAREN, "dynamic field"); !ok {
		return nil
	}
	return newNode(NodeDotExpression, dot, expr)
}

// anonymousFunction parses @(x, y) body. The body does not see enclosing
// subscripts.
func (p *parser) anonymousFunction() *Node {
	at := p.advance()
	p.advance()
	params := newNode(NodeInput, at)
	for !p.at(lexer.RPAREN) {
		switch {
		case p.at(lexer.COMMA):
			p.advance()
		case p.at(lexer.NOT):
			params.add(newNode(NodeNot, p.advance()))
		default:
			id, ok := p.expect(lexer.ID, "anonymous function parameters")
			if !ok {
				return nil
			}
			params.add(newNode(NodeID, id))
		}
	}
	p.advance()

	restore := p.index.Suspend()
	defer restore()
	body := p.expression()
	if body == nil {
		return nil
	}
	return newNode(NodeAnonymousFunction, at, params, body)
}

// array parses [ ] and { } literals into rows of elements. Rows split at ;
// and line ends, elements at commas and, here only, at blanks.
func (p *parser) array(kind NodeKind, closer lexer.TokenType, op BalanceOperator, context string) *Node {
	open := p.advance()
	p.balance.Enter(op)
	defer p.balance.Exit(op)

	rows := newNode(NodeVCat, open)
	var row *Node
	separated := true
	for {
		tok := p.la(1)
		switch tok.Type {
		case closer:
			p.advance()
			rows.add(row)
			return newNode(kind, open, rows)
		case lexer.SEMI, lexer.EOL:
			p.advance()
			rows.add(row)
			row = nil
			separated = true
		case lexer.COMMA:
			p.advance()
			separated = true
		case lexer.EOF:
			p.errorExpected(context, closer)
			return nil
		default:
			if !separated && !p.commaFollowsOrSpacesPrecede() {
				p.errorUnexpected(context)
				return nil
			}
			elem := p.expression()
			if elem == nil {
				return nil
			}
			if row == nil {
				row = newNode(NodeHCat, tok)
			}
			row.add(elem)
			separated = false
		}
	}
}
