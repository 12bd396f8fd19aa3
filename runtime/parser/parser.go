package parser

import (
	"context"
	"log/slog"
	"time"

	"github.com/aledsdavies/mrecognizer/core/invariant"
	"github.com/aledsdavies/mrecognizer/runtime/lexer"
)

// Parse runs one recognition attempt over source: lex with the offsets in
// marker, then parse the default-channel tokens into a concrete tree.
//
// An attempt that finds command syntax at an unmarked identifier adds that
// identifier's offset to marker and ends with OutcomeCommandRetry; the caller
// is expected to parse again with the grown marker.
func Parse(source string, marker *lexer.CommandMarker, opts ...ParserOpt) *ParseTree {
	invariant.NotNil(marker, "marker")
	config := defaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	var telemetry *ParseTelemetry
	var startTotal time.Time
	if config.telemetry >= TelemetryBasic {
		telemetry = &ParseTelemetry{}
		if config.telemetry >= TelemetryTiming {
			startTotal = time.Now()
		}
	}

	var startLex time.Time
	if config.telemetry >= TelemetryTiming {
		startLex = time.Now()
	}

	lex := lexer.New(source, marker,
		lexer.WithLogger(config.logger),
		lexer.WithStopOnFirstError(config.stopOnFirstError))
	tokens := lex.Tokenize()

	if config.telemetry >= TelemetryBasic {
		telemetry.TokenCount = len(tokens)
		if config.telemetry >= TelemetryTiming {
			telemetry.LexTime = time.Since(startLex)
		}
	}

	stream := lexer.NewStream(tokens)
	p := &parser{
		stream:    stream,
		marker:    marker,
		balance:   NewBalance(stream),
		chain:     NewChain(),
		index:     NewIndex(),
		signature: &MethodSignature{},
		detector:  NewCommandDetector(stream, marker),
		config:    config,
		logger:    config.logger,
	}

	for _, err := range lex.Errors() {
		p.errors = append(p.errors, ParseError{
			Type:     ErrorLexer,
			Position: err.Position,
			Message:  err.Message,
		})
	}
	if len(p.errors) > 0 && config.stopOnFirstError {
		p.halt(OutcomeStop)
	}

	var startParse time.Time
	if config.telemetry >= TelemetryTiming {
		startParse = time.Now()
	}

	var root *Node
	if !p.halted {
		root = p.file()
	}

	outcome := p.outcome
	if !p.halted {
		outcome = OutcomeSuccess
		if len(p.errors) > 0 {
			outcome = OutcomeError
		}
	}
	if outcome != OutcomeSuccess {
		root = nil
	}

	if config.telemetry >= TelemetryBasic {
		telemetry.NodeCount = countNodes(root)
		telemetry.ErrorCount = len(p.errors)
		if config.telemetry >= TelemetryTiming {
			telemetry.ParseTime = time.Since(startParse)
			telemetry.TotalTime = time.Since(startTotal)
		}
	}

	p.logger.Debug("parse attempt",
		"outcome", outcome,
		"tokens", len(tokens),
		"errors", len(p.errors),
		"markers", marker.Len())

	return &ParseTree{
		Source:    source,
		Tokens:    tokens,
		Root:      root,
		Errors:    p.errors,
		Outcome:   outcome,
		Telemetry: telemetry,
	}
}

// ParseString parses source with a fresh marker; for tests and one-off use.
// Command syntax therefore always ends in OutcomeCommandRetry.
func ParseString(source string, opts ...ParserOpt) *ParseTree {
	return Parse(source, lexer.NewCommandMarker(), opts...)
}

// parser is the state of one attempt. Every stack is local to the attempt.
type parser struct {
	stream    *lexer.Stream
	marker    *lexer.CommandMarker
	balance   *Balance
	chain     *Chain
	index     *Index
	signature *MethodSignature
	detector  *CommandDetector

	functionsHaveEnd bool
	inFunction       bool

	errors     []ParseError
	halted     bool // no further tokens are seen once set
	recovering bool // an error was recorded; resynchronize at the next statement boundary
	outcome    Outcome

	config *ParserConfig
	logger *slog.Logger
}

// halt unwinds the attempt: from here on la reports EOF so every loop ends.
func (p *parser) halt(outcome Outcome) {
	if p.halted {
		return
	}
	p.halted = true
	p.outcome = outcome
}

// la returns the k-th default-channel token ahead, or EOF once halted.
func (p *parser) la(k int) lexer.Token {
	if p.halted {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.stream.LT(k)
}

func (p *parser) at(typ lexer.TokenType) bool {
	return p.la(1).Type == typ
}

func (p *parser) atAny(types ...lexer.TokenType) bool {
	t := p.la(1).Type
	for _, typ := range types {
		if t == typ {
			return true
		}
	}
	return false
}

// advance consumes LT(1) and returns it.
func (p *parser) advance() lexer.Token {
	tok := p.la(1)
	if !p.halted {
		p.stream.Consume()
	}
	return tok
}

// expect consumes a token of type typ or records an error.
func (p *parser) expect(typ lexer.TokenType, context string) (lexer.Token, bool) {
	if p.at(typ) {
		return p.advance(), true
	}
	p.errorExpected(context, typ)
	return p.la(1), false
}

// errorExpected reports a missing token.
func (p *parser) errorExpected(context string, expected ...lexer.TokenType) {
	got := p.la(1)
	p.fail(ParseError{
		Type:     ErrorParser,
		Position: got.Position,
		Message:  "missing " + expectedList(expected) + " at " + describe(got),
		Context:  context,
		Expected: expected,
		Got:      got.Type,
	})
}

// errorUnexpected reports LT(1) as out of place.
func (p *parser) errorUnexpected(context string) {
	got := p.la(1)
	p.fail(ParseError{
		Type:     ErrorParser,
		Position: got.Position,
		Message:  "unexpected " + describe(got),
		Context:  context,
		Got:      got.Type,
	})
}

// fail records err. With stop-on-first-error the attempt halts; otherwise
// errors are muted until the statement loop resynchronizes.
func (p *parser) fail(err ParseError) {
	if p.halted || p.recovering {
		return
	}
	p.errors = append(p.errors, err)
	if p.logger.Enabled(context.Background(), slog.LevelDebug) {
		p.logger.Debug("parse error", "error", err.Error(),
			"line", err.Position.Line, "column", err.Position.Column)
	}
	if p.config.stopOnFirstError {
		p.halt(OutcomeStop)
		return
	}
	p.recovering = true
}

// synchronize skips to just past the next statement boundary.
func (p *parser) synchronize() {
	for !p.atAny(lexer.EOL, lexer.SEMI, lexer.COMMA, lexer.EOF) {
		p.advance()
	}
	if !p.at(lexer.EOF) {
		p.advance()
	}
	p.recovering = false
}

// describe renders a token for messages: 'end', end of line.
func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF, lexer.EOL:
		return tokenName(tok.Type)
	}
	if tok.Text == "" {
		return tokenName(tok.Type)
	}
	return "'" + tok.Text + "'"
}

func countNodes(n *Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += countNodes(c)
	}
	return count
}
