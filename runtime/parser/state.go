package parser

import (
	"fmt"

	"github.com/aledsdavies/mrecognizer/core/invariant"
	"github.com/aledsdavies/mrecognizer/runtime/lexer"
)

// The grammar consults three independent stack machines at fixed decision
// points. None of them survives an attempt: every parse builds fresh ones.

// BalanceOperator names the bracket the parser is currently inside.
type BalanceOperator int

const (
	BalanceNone BalanceOperator = iota
	CreationSquareBrace
	CreationCurlyBrace
	StorageSquareBrace
	IndexCurlyBrace
	BalanceParenthesis
)

func (o BalanceOperator) String() string {
	names := []string{
		"None",
		"CreationSquareBrace",
		"CreationCurlyBrace",
		"StorageSquareBrace",
		"IndexCurlyBrace",
		"Parenthesis",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return fmt.Sprintf("BalanceOperator(%d)", int(o))
}

// Adjacency answers whitespace questions about a token by its raw index.
// *lexer.Stream implements it.
type Adjacency interface {
	OffChannelLeftIn(i int, ch lexer.Channel) ([]lexer.Token, bool)
	OffChannelRightIn(i int, ch lexer.Channel) ([]lexer.Token, bool)
}

// Balance decides whether whitespace separates elements. It does inside
// array and cell literals and storage targets, and nowhere else.
type Balance struct {
	stack []BalanceOperator
	view  Adjacency
}

func NewBalance(view Adjacency) *Balance {
	return &Balance{stack: make([]BalanceOperator, 0, 8), view: view}
}

// Enter pushes op when the parser opens the matching bracket.
func (b *Balance) Enter(op BalanceOperator) {
	invariant.Precondition(op != BalanceNone, "cannot enter balance None")
	b.stack = append(b.stack, op)
}

// Exit pops op. Popping anything but the top is a contract violation.
func (b *Balance) Exit(op BalanceOperator) {
	invariant.Precondition(len(b.stack) > 0, "balance exit %s on empty stack", op)
	top := b.stack[len(b.stack)-1]
	invariant.Precondition(top == op, "balance exit %s does not match top %s", op, top)
	b.stack = b.stack[:len(b.stack)-1]
}

// Top returns the innermost operator, BalanceNone when empty.
func (b *Balance) Top() BalanceOperator {
	if len(b.stack) == 0 {
		return BalanceNone
	}
	return b.stack[len(b.stack)-1]
}

func (b *Balance) Depth() int {
	return len(b.stack)
}

// TopIsCreationOrStore reports whether whitespace is significant here.
func (b *Balance) TopIsCreationOrStore() bool {
	switch b.Top() {
	case CreationSquareBrace, CreationCurlyBrace, StorageSquareBrace:
		return true
	}
	return false
}

// SpacesPrecedeButNotFollow reports whether tok has blanks on its left and
// none on its right inside a literal: the boundary in [a -b].
func (b *Balance) SpacesPrecedeButNotFollow(tok lexer.Token) bool {
	if !b.TopIsCreationOrStore() {
		return false
	}
	_, left := b.view.OffChannelLeftIn(tok.Index, lexer.Spaces)
	_, right := b.view.OffChannelRightIn(tok.Index, lexer.Spaces)
	return left && !right
}

// SpacesPrecede reports whether tok has blanks on its left inside a literal.
func (b *Balance) SpacesPrecede(tok lexer.Token) bool {
	if !b.TopIsCreationOrStore() {
		return false
	}
	_, left := b.view.OffChannelLeftIn(tok.Index, lexer.Spaces)
	return left
}

// ChainOperator is one link of a postfix chain such as a(1).b{2}.
type ChainOperator int

const (
	ChainNone ChainOperator = iota
	ChainStart
	ChainParenthesis
	ChainCurlyBrace
	ChainDotName
	ChainDotExpression
	ChainAtBase
)

func (o ChainOperator) String() string {
	names := []string{
		"None",
		"Start",
		"Parenthesis",
		"CurlyBrace",
		"DotName",
		"DotExpression",
		"AtBase",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return fmt.Sprintf("ChainOperator(%d)", int(o))
}

// chainTransitions lists, for each link, the links it may follow.
var chainTransitions = map[ChainOperator][]ChainOperator{
	ChainParenthesis:   {ChainStart, ChainCurlyBrace, ChainDotName, ChainDotExpression, ChainAtBase},
	ChainCurlyBrace:    {ChainStart, ChainParenthesis, ChainCurlyBrace, ChainDotName, ChainDotExpression},
	ChainDotName:       {ChainStart, ChainParenthesis, ChainCurlyBrace, ChainDotName, ChainDotExpression},
	ChainDotExpression: {ChainStart, ChainParenthesis, ChainCurlyBrace, ChainDotName, ChainDotExpression},
	ChainAtBase:        {ChainStart, ChainDotName},
}

// Chain decides which postfix operator may extend the current chain.
// Chains nest: an argument list may hold chains of its own.
type Chain struct {
	stack []ChainOperator
}

func NewChain() *Chain {
	return &Chain{stack: make([]ChainOperator, 0, 16)}
}

// Begin opens a chain.
func (c *Chain) Begin() {
	c.stack = append(c.stack, ChainStart)
}

// End pops everything up to and including the nearest Start.
func (c *Chain) End() {
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if top == ChainStart {
			return
		}
	}
	invariant.Unreachable("chain end without begin")
}

func (c *Chain) top() ChainOperator {
	if len(c.stack) == 0 {
		return ChainNone
	}
	return c.stack[len(c.stack)-1]
}

func (c *Chain) Depth() int {
	return len(c.stack)
}

// MayAdd reports whether op may follow the current link.
func (c *Chain) MayAdd(op ChainOperator) bool {
	top := c.top()
	for _, allowed := range chainTransitions[op] {
		if allowed == top {
			return true
		}
	}
	return false
}

func (c *Chain) MayAddParenthesis() bool   { return c.MayAdd(ChainParenthesis) }
func (c *Chain) MayAddCurlyBrace() bool    { return c.MayAdd(ChainCurlyBrace) }
func (c *Chain) MayAddDotName() bool       { return c.MayAdd(ChainDotName) }
func (c *Chain) MayAddDotExpression() bool { return c.MayAdd(ChainDotExpression) }
func (c *Chain) MayAddAtBase() bool        { return c.MayAdd(ChainAtBase) }

// Added records that op extended the chain.
func (c *Chain) Added(op ChainOperator) {
	invariant.Precondition(op > ChainStart, "cannot add %s to a chain", op)
	invariant.Precondition(len(c.stack) > 0, "chain link %s added outside a chain", op)
	c.stack = append(c.stack, op)
}

// IndexOperator names the subscript the parser is currently inside.
type IndexOperator int

const (
	IndexNone IndexOperator = iota
	IndexParen
	IndexCurly
)

func (o IndexOperator) String() string {
	switch o {
	case IndexNone:
		return "None"
	case IndexParen:
		return "Parenthesis"
	case IndexCurly:
		return "CurlyBrace"
	default:
		return fmt.Sprintf("IndexOperator(%d)", int(o))
	}
}

// Index tracks subscript nesting; end and a bare : are values only inside.
type Index struct {
	stack []IndexOperator
}

func NewIndex() *Index {
	return &Index{stack: make([]IndexOperator, 0, 8)}
}

func (x *Index) Enter(op IndexOperator) {
	invariant.Precondition(op != IndexNone, "cannot enter index None")
	x.stack = append(x.stack, op)
}

func (x *Index) Exit(op IndexOperator) {
	invariant.Precondition(len(x.stack) > 0, "index exit %s on empty stack", op)
	top := x.stack[len(x.stack)-1]
	invariant.Precondition(top == op, "index exit %s does not match top %s", op, top)
	x.stack = x.stack[:len(x.stack)-1]
}

// IsActive reports whether the parser is inside any subscript.
func (x *Index) IsActive() bool {
	return len(x.stack) > 0
}

// Suspend hides the enclosing subscripts until the returned function runs.
// Anonymous function bodies use it: end inside @() x(end) belongs to x only.
func (x *Index) Suspend() (restore func()) {
	saved := x.stack
	x.stack = make([]IndexOperator, 0, 4)
	return func() {
		invariant.Invariant(len(x.stack) == 0, "index stack unbalanced across suspension")
		x.stack = saved
	}
}

// MethodSignature flags a signature-only method declaration in a methods
// block. Command syntax is never considered while it is set.
type MethodSignature struct {
	active bool
}

func (m *MethodSignature) Enter() {
	invariant.Precondition(!m.active, "method signature already active")
	m.active = true
}

func (m *MethodSignature) Exit() {
	invariant.Precondition(m.active, "method signature not active")
	m.active = false
}

func (m *MethodSignature) IsActive() bool {
	return m.active
}
