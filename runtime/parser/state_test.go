package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/mrecognizer/core/invariant"
	"github.com/aledsdavies/mrecognizer/runtime/lexer"
)

// streamFor lexes source and returns its stream and Default-channel tokens.
func streamFor(t *testing.T, source string) (*lexer.Stream, []lexer.Token) {
	t.Helper()
	lex := lexer.New(source, nil)
	tokens := lex.Tokenize()
	require.Empty(t, lex.Errors())
	var defaults []lexer.Token
	for _, tok := range tokens {
		if tok.Channel == lexer.Default {
			defaults = append(defaults, tok)
		}
	}
	return lexer.NewStream(tokens), defaults
}

// firstOf returns the first token of type typ.
func firstOf(t *testing.T, tokens []lexer.Token, typ lexer.TokenType) lexer.Token {
	t.Helper()
	for _, tok := range tokens {
		if tok.Type == typ {
			return tok
		}
	}
	t.Fatalf("no %s token", typ)
	return lexer.Token{}
}

func assertViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a contract violation")
		_, ok := invariant.AsViolation(r)
		assert.True(t, ok, "panic value %v is not a violation", r)
	}()
	fn()
}

func TestBalanceStack(t *testing.T) {
	stream, _ := streamFor(t, "x")
	b := NewBalance(stream)

	assert.Equal(t, BalanceNone, b.Top())
	assert.False(t, b.TopIsCreationOrStore())

	b.Enter(CreationSquareBrace)
	b.Enter(BalanceParenthesis)
	assert.Equal(t, 2, b.Depth())
	assert.Equal(t, BalanceParenthesis, b.Top())
	assert.False(t, b.TopIsCreationOrStore())

	b.Exit(BalanceParenthesis)
	assert.True(t, b.TopIsCreationOrStore())

	assertViolation(t, func() { b.Exit(CreationCurlyBrace) })
	b.Exit(CreationSquareBrace)
	assertViolation(t, func() { b.Exit(CreationSquareBrace) })
	assertViolation(t, func() { b.Enter(BalanceNone) })
}

func TestBalanceCreationOrStore(t *testing.T) {
	tests := []struct {
		op   BalanceOperator
		want bool
	}{
		{CreationSquareBrace, true},
		{CreationCurlyBrace, true},
		{StorageSquareBrace, true},
		{IndexCurlyBrace, false},
		{BalanceParenthesis, false},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			b := NewBalance(nil)
			b.Enter(tt.op)
			assert.Equal(t, tt.want, b.TopIsCreationOrStore())
		})
	}
}

func TestBalanceWhitespacePredicates(t *testing.T) {
	tests := []struct {
		source        string
		op            lexer.TokenType
		precedeNotFol bool
		precede       bool
	}{
		{"[a -b]", lexer.MINUS, true, true},
		{"[a - b]", lexer.MINUS, false, true},
		{"[a-b]", lexer.MINUS, false, false},
		{"[a- b]", lexer.MINUS, false, false},
		{"[f (1)]", lexer.LPAREN, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			stream, tokens := streamFor(t, tt.source)
			tok := firstOf(t, tokens, tt.op)

			b := NewBalance(stream)
			b.Enter(CreationSquareBrace)
			assert.Equal(t, tt.precedeNotFol, b.SpacesPrecedeButNotFollow(tok))
			assert.Equal(t, tt.precede, b.SpacesPrecede(tok))

			b.Enter(BalanceParenthesis)
			assert.False(t, b.SpacesPrecedeButNotFollow(tok), "whitespace is insignificant inside parentheses")
			assert.False(t, b.SpacesPrecede(tok))
		})
	}
}

func TestChainTransitions(t *testing.T) {
	links := []ChainOperator{ChainParenthesis, ChainCurlyBrace, ChainDotName, ChainDotExpression, ChainAtBase}
	allowed := map[ChainOperator]map[ChainOperator]bool{
		ChainStart:         {ChainParenthesis: true, ChainCurlyBrace: true, ChainDotName: true, ChainDotExpression: true, ChainAtBase: true},
		ChainParenthesis:   {ChainCurlyBrace: true, ChainDotName: true, ChainDotExpression: true},
		ChainCurlyBrace:    {ChainParenthesis: true, ChainCurlyBrace: true, ChainDotName: true, ChainDotExpression: true},
		ChainDotName:       {ChainParenthesis: true, ChainCurlyBrace: true, ChainDotName: true, ChainDotExpression: true, ChainAtBase: true},
		ChainDotExpression: {ChainParenthesis: true, ChainCurlyBrace: true, ChainDotName: true, ChainDotExpression: true},
		ChainAtBase:        {ChainParenthesis: true},
	}

	for top, next := range allowed {
		for _, link := range links {
			t.Run(top.String()+"->"+link.String(), func(t *testing.T) {
				c := NewChain()
				c.Begin()
				if top != ChainStart {
					c.Added(top)
				}
				assert.Equal(t, next[link], c.MayAdd(link))
			})
		}
	}
}

func TestChainScript(t *testing.T) {
	c := NewChain()
	// a(1){2}.b
	c.Begin()
	require.True(t, c.MayAddParenthesis())
	c.Added(ChainParenthesis)
	assert.False(t, c.MayAddParenthesis())
	require.True(t, c.MayAddCurlyBrace())
	c.Added(ChainCurlyBrace)

	// a nested chain inside the braces starts fresh
	c.Begin()
	assert.True(t, c.MayAddParenthesis())
	c.Added(ChainParenthesis)
	c.End()

	assert.True(t, c.MayAddDotName())
	c.Added(ChainDotName)
	assert.True(t, c.MayAddAtBase())
	c.End()
	assert.Equal(t, 0, c.Depth())

	assertViolation(t, func() { c.End() })
	assertViolation(t, func() { c.Added(ChainParenthesis) })
}

func TestIndex(t *testing.T) {
	x := NewIndex()
	assert.False(t, x.IsActive())

	x.Enter(IndexParen)
	x.Enter(IndexCurly)
	assert.True(t, x.IsActive())

	restore := x.Suspend()
	assert.False(t, x.IsActive())
	x.Enter(IndexParen)
	assert.True(t, x.IsActive())
	x.Exit(IndexParen)
	restore()
	assert.True(t, x.IsActive())

	assertViolation(t, func() { x.Exit(IndexParen) })
	x.Exit(IndexCurly)
	x.Exit(IndexParen)
	assert.False(t, x.IsActive())
}

func TestMethodSignature(t *testing.T) {
	var m MethodSignature
	assert.False(t, m.IsActive())
	m.Enter()
	assert.True(t, m.IsActive())
	assertViolation(t, m.Enter)
	m.Exit()
	assert.False(t, m.IsActive())
	assertViolation(t, m.Exit)
}
