package parser

import (
	"strings"

	"github.com/aledsdavies/mrecognizer/core/invariant"
	"github.com/aledsdavies/mrecognizer/runtime/lexer"
)

// block parses statements until one of terminators (or EOF) is next. It
// returns the statements and a spelling hint for a missing end.
func (p *parser) block(context string, terminators ...lexer.TokenType) ([]*Node, string) {
	var stmts []*Node
	hint := ""
	for {
		p.skipSeparators()
		if p.at(lexer.EOF) || p.atAny(terminators...) {
			return stmts, hint
		}

		before := p.stream.Mark()
		stmt := p.statement()
		if p.recovering {
			p.synchronize()
		}
		invariant.Invariant(p.halted || p.at(lexer.EOF) || p.stream.Mark() > before,
			"no progress in %s at %s", context, describe(p.la(1)))

		if stmt == nil {
			continue
		}
		stmts = append(stmts, stmt)
		if h := strayKeywordHint(stmt); h != "" {
			hint = h
		}
	}
}

// strayKeywordHint suggests a keyword for a statement that is nothing but an
// identifier resembling one, such as edn.
func strayKeywordHint(stmt *Node) string {
	if stmt.Kind != NodeAction || len(stmt.Children) == 0 {
		return ""
	}
	v := stmt.Children[0]
	if v.Kind != NodeVar || len(v.Children) != 1 {
		return ""
	}
	word := v.Children[0].Text
	if len(word) < 3 {
		return ""
	}
	return didYouMean(word, blockClosers)
}

func (p *parser) statement() *Node {
	tok := p.la(1)
	switch tok.Type {
	case lexer.IF:
		return p.ifStatement()
	case lexer.FOR:
		return p.forStatement(NodeFor, "for loop")
	case lexer.PARFOR:
		return p.forStatement(NodeParfor, "parfor loop")
	case lexer.WHILE:
		return p.whileStatement()
	case lexer.SWITCH:
		return p.switchStatement()
	case lexer.TRY:
		return p.tryStatement()
	case lexer.SPMD:
		return p.spmdStatement()
	case lexer.BREAK:
		return p.jump(NodeBreak)
	case lexer.CONTINUE:
		return p.jump(NodeContinue)
	case lexer.RETURN:
		return p.jump(NodeReturn)
	case lexer.GLOBAL:
		return p.declaration(NodeGlobal)
	case lexer.PERSISTENT:
		return p.declaration(NodePersistent)
	case lexer.FUNCTION:
		if p.functionsHaveEnd && p.inFunction {
			fn := p.function()
			if fn == nil {
				return nil
			}
			return newNode(NodeNestedFunction, tok, fn)
		}
		p.errorUnexpected("statement")
		return nil
	case lexer.EXCLAMATION:
		p.advance()
		bang := newNode(NodeExclamation, tok)
		if p.statementEnd() == nil {
			return nil
		}
		return bang
	case lexer.COMMAND:
		return p.command()
	case lexer.ID:
		if p.commandSyntaxFollows() {
			p.logger.Debug("command syntax", "word", tok.Text,
				"line", tok.Position.Line, "column", tok.Position.Column)
			p.detector.Mark()
			p.halt(OutcomeCommandRetry)
			return nil
		}
	case lexer.LSQUARE:
		if p.storageFollows() {
			return p.storageAssignment()
		}
	}
	return p.expressionStatement()
}

// commandSyntaxFollows decides at a statement's first identifier whether it
// is a command word. A word alone on its line is an expression.
func (p *parser) commandSyntaxFollows() bool {
	if p.signature.IsActive() {
		return false
	}
	switch p.la(2).Type {
	case lexer.EOL, lexer.SEMI, lexer.COMMA, lexer.EOF:
		return false
	}
	return p.detector.IsEnabled()
}

// statementEnd consumes the terminator and returns Print or NoPrint. A
// block keyword may close a statement without a separator: if x, y end.
func (p *parser) statementEnd() *Node {
	tok := p.la(1)
	switch tok.Type {
	case lexer.SEMI:
		p.advance()
		return newNode(NodeNoPrint, tok)
	case lexer.COMMA, lexer.EOL:
		p.advance()
		return newNode(NodePrint, tok)
	case lexer.EOF, lexer.END, lexer.ELSE, lexer.ELSEIF, lexer.CASE, lexer.OTHERWISE, lexer.CATCH:
		return newNode(NodePrint, tok)
	}
	p.errorExpected("statement", lexer.COMMA, lexer.SEMI, lexer.EOL)
	return nil
}

// expressionStatement parses expr or target = expr.
func (p *parser) expressionStatement() *Node {
	start := p.la(1)
	expr := p.expression()
	if expr == nil {
		return nil
	}

	if p.at(lexer.ASSIGN) {
		if expr.Kind != NodeVar {
			p.errorUnexpected("assignment to " + expr.Kind.String())
			return nil
		}
		p.advance()
		value := p.expression()
		if value == nil {
			return nil
		}
		end := p.statementEnd()
		if end == nil {
			return nil
		}
		return newNode(NodeAssign, start, expr, value, end)
	}

	end := p.statementEnd()
	if end == nil {
		return nil
	}
	return newNode(NodeAction, start, expr, end)
}

// command parses a marked command statement. hold on becomes the same
// tree as hold('on').
func (p *parser) command() *Node {
	word := p.advance()
	v := newNode(NodeVar, word, newNode(NodeID, word))
	if p.at(lexer.CMDARG) {
		args := newNode(NodeParenthesis, p.la(1))
		for p.at(lexer.CMDARG) {
			arg := p.advance()
			s := newNode(NodeString, arg)
			s.Text = quoteCommandArgument(arg.Text)
			args.add(s)
		}
		v.add(args)
	}
	end := p.statementEnd()
	if end == nil {
		return nil
	}
	return newNode(NodeAction, word, v, end)
}

// quoteCommandArgument turns a command word into a string literal. Quoted
// sections of the word lose their quotes; the result is requoted whole.
//
//	on        -> 'on'
//	'a b'c    -> 'a bc'
//	'it''s'   -> 'it''s'
func quoteCommandArgument(word string) string {
	var value strings.Builder
	inQuote := false
	runes := []rune(word)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'' && inQuote && i+1 < len(runes) && runes[i+1] == '\'':
			value.WriteRune('\'')
			i++
		case r == '\'':
			inQuote = !inQuote
		default:
			value.WriteRune(r)
		}
	}
	return "'" + strings.ReplaceAll(value.String(), "'", "''") + "'"
}

// storageFollows scans ahead: does the [ ... ] at LT(1) close on this line
// and precede =?
func (p *parser) storageFollows() bool {
	depth := 0
	for k := 1; ; k++ {
		switch p.la(k).Type {
		case lexer.LSQUARE, lexer.LPAREN, lexer.LCURLY:
			depth++
		case lexer.RSQUARE, lexer.RPAREN, lexer.RCURLY:
			depth--
			if depth == 0 {
				return p.la(k+1).Type == lexer.ASSIGN
			}
		case lexer.EOL, lexer.SEMI, lexer.EOF:
			return false
		}
	}
}

// storageAssignment parses [a, b] = expr.
func (p *parser) storageAssignment() *Node {
	start := p.la(1)
	targets := p.storageList()
	if targets == nil {
		return nil
	}
	if _, ok := p.expect(lexer.ASSIGN, "assignment"); !ok {
		return nil
	}
	value := p.expression()
	if value == nil {
		return nil
	}
	end := p.statementEnd()
	if end == nil {
		return nil
	}
	return newNode(NodeAssign, start, targets, value, end)
}

func (p *parser) storageList() *Node {
	open := p.advance()
	p.balance.Enter(StorageSquareBrace)
	defer p.balance.Exit(StorageSquareBrace)

	storage := newNode(NodeStorage, open)
	separated := true
	for !p.at(lexer.RSQUARE) {
		switch {
		case p.at(lexer.COMMA):
			p.advance()
			separated = true
			continue
		case !separated && !p.commaFollowsOrSpacesPrecede():
			p.errorUnexpected("assignment targets")
			return nil
		case p.at(lexer.NOT):
			storage.add(newNode(NodeNot, p.advance()))
		case p.at(lexer.ID):
			target := p.variable()
			if target == nil {
				return nil
			}
			storage.add(target)
		default:
			p.errorExpected("assignment targets", lexer.ID)
			return nil
		}
		separated = false
	}
	p.advance()
	return storage
}

func (p *parser) ifStatement() *Node {
	const context = "if statement"
	kw := p.advance()
	stmt := newNode(NodeIfElse, kw)

	cond := p.expression()
	if cond == nil {
		return nil
	}
	body, hint := p.block(context, lexer.ELSEIF, lexer.ELSE, lexer.END)
	branch := newNode(NodeIf, kw, cond)
	branch.add(body...)
	stmt.add(branch)

	for p.at(lexer.ELSEIF) {
		tok := p.advance()
		cond := p.expression()
		if cond == nil {
			return nil
		}
		body, h := p.block(context, lexer.ELSEIF, lexer.ELSE, lexer.END)
		branch := newNode(NodeElseIf, tok, cond)
		branch.add(body...)
		stmt.add(branch)
		hint = firstNonEmpty(h, hint)
	}

	if p.at(lexer.ELSE) {
		tok := p.advance()
		body, h := p.block(context, lexer.END)
		branch := newNode(NodeElse, tok)
		branch.add(body...)
		stmt.add(branch)
		hint = firstNonEmpty(h, hint)
	}

	p.expectEnd(context, hint)
	return stmt
}

// forStatement parses for i = range and the parenthesized for (i = range).
func (p *parser) forStatement(kind NodeKind, context string) *Node {
	kw := p.advance()
	stmt := newNode(kind, kw)

	header := func() bool {
		id, ok := p.expect(lexer.ID, context)
		if !ok {
			return false
		}
		if _, ok := p.expect(lexer.ASSIGN, context); !ok {
			return false
		}
		values := p.expression()
		if values == nil {
			return false
		}
		stmt.add(newNode(NodeID, id), values)
		return true
	}

	if p.at(lexer.LPAREN) {
		p.advance()
		p.balance.Enter(BalanceParenthesis)
		ok := header()
		p.balance.Exit(BalanceParenthesis)
		if !ok {
			return nil
		}
		if _, ok := p.expect(lexer.RPAREN, context); !ok {
			return nil
		}
	} else if !header() {
		return nil
	}

	body, hint := p.block(context, lexer.END)
	stmt.add(body...)
	p.expectEnd(context, hint)
	return stmt
}

func (p *parser) whileStatement() *Node {
	const context = "while loop"
	kw := p.advance()
	cond := p.expression()
	if cond == nil {
		return nil
	}
	stmt := newNode(NodeWhile, kw, cond)
	body, hint := p.block(context, lexer.END)
	stmt.add(body...)
	p.expectEnd(context, hint)
	return stmt
}

func (p *parser) spmdStatement() *Node {
	const context = "spmd block"
	kw := p.advance()
	stmt := newNode(NodeSpmd, kw)
	body, hint := p.block(context, lexer.END)
	stmt.add(body...)
	p.expectEnd(context, hint)
	return stmt
}

func (p *parser) switchStatement() *Node {
	const context = "switch statement"
	kw := p.advance()
	subject := p.expression()
	if subject == nil {
		return nil
	}
	stmt := newNode(NodeSwitchCase, kw, newNode(NodeSwitch, kw, subject))

	hint := ""
	p.skipSeparators()
	for p.at(lexer.CASE) {
		tok := p.advance()
		value := p.expression()
		if value == nil {
			return nil
		}
		body, h := p.block(context, lexer.CASE, lexer.OTHERWISE, lexer.END)
		c := newNode(NodeCase, tok, value)
		c.add(body...)
		stmt.add(c)
		hint = firstNonEmpty(h, hint)
	}

	if p.at(lexer.OTHERWISE) {
		tok := p.advance()
		body, h := p.block(context, lexer.END)
		o := newNode(NodeOtherwise, tok)
		o.add(body...)
		stmt.add(o)
		hint = firstNonEmpty(h, hint)
	}

	p.expectEnd(context, hint)
	return stmt
}

// tryStatement parses try/catch. An identifier that ends the catch line
// names the caught exception: catch err.
func (p *parser) tryStatement() *Node {
	const context = "try statement"
	kw := p.advance()
	stmt := newNode(NodeTryCatch, kw)

	body, hint := p.block(context, lexer.CATCH, lexer.END)
	try := newNode(NodeTry, kw)
	try.add(body...)
	stmt.add(try)

	if p.at(lexer.CATCH) {
		tok := p.advance()
		c := newNode(NodeCatch, tok)
		if p.at(lexer.ID) {
			switch p.la(2).Type {
			case lexer.EOL, lexer.SEMI, lexer.COMMA, lexer.EOF:
				c.add(newNode(NodeID, p.advance()))
			}
		}
		body, h := p.block(context, lexer.END)
		c.add(body...)
		stmt.add(c)
		hint = firstNonEmpty(h, hint)
	}

	p.expectEnd(context, hint)
	return stmt
}

// jump parses break, continue and return.
func (p *parser) jump(kind NodeKind) *Node {
	stmt := newNode(kind, p.advance())
	if p.statementEnd() == nil {
		return nil
	}
	return stmt
}

// declaration parses global and persistent name lists.
func (p *parser) declaration(kind NodeKind) *Node {
	stmt := newNode(kind, p.advance())
	for p.at(lexer.ID) {
		stmt.add(newNode(NodeID, p.advance()))
	}
	if len(stmt.Children) == 0 {
		p.errorExpected(strings.ToLower(kind.String())+" declaration", lexer.ID)
		return nil
	}
	if p.statementEnd() == nil {
		return nil
	}
	return stmt
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
