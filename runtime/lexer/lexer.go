package lexer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aledsdavies/mrecognizer/core/invariant"
	"github.com/aledsdavies/mrecognizer/core/logging"
)

// LexerOpt represents a lexer configuration option
type LexerOpt func(*LexerConfig)

// LexerConfig holds lexer configuration
type LexerConfig struct {
	logger           *slog.Logger
	stopOnFirstError bool
}

// WithLogger sets the debug logger
func WithLogger(logger *slog.Logger) LexerOpt {
	return func(c *LexerConfig) {
		c.logger = logger
	}
}

// WithStopOnFirstError stops lexing at the first lexical error (default true)
func WithStopOnFirstError(stop bool) LexerOpt {
	return func(c *LexerConfig) {
		c.stopOnFirstError = stop
	}
}

// Error is a lexical recognition failure.
type Error struct {
	Position Position
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// Lexer converts MATLAB source into tokens on three channels.
//
// The whole input is tokenized up front. Command syntax is not decided here:
// the parser marks offsets in a CommandMarker and the next attempt's lexer
// reclassifies the identifiers found at those offsets.
type Lexer struct {
	input    []rune
	position int // offset of the current character
	line     int
	column   int

	mode   Mode
	marker *CommandMarker

	tokens     []Token
	meaningful []int // indices into tokens of every non-Skipped token
	errors     []Error

	stopOnFirstError bool
	logger           *slog.Logger
}

// New creates a lexer over input. marker may be nil when no command offsets
// are known yet.
func New(input string, marker *CommandMarker, opts ...LexerOpt) *Lexer {
	config := &LexerConfig{stopOnFirstError: true}
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = logging.FromEnv()
	}

	return &Lexer{
		input:            []rune(input),
		line:             1,
		column:           1,
		mode:             ModeDefault,
		marker:           marker,
		stopOnFirstError: config.stopOnFirstError,
		logger:           config.logger,
	}
}

// Tokenize lexes the whole input. The returned slice always ends with EOF.
// When stop-on-first-error is set, lexing ends at the first error.
func (l *Lexer) Tokenize() []Token {
	debug := l.logger.Enabled(context.Background(), slog.LevelDebug)
	for {
		tok, ok := l.lexToken()
		if !ok {
			if l.stopOnFirstError {
				break
			}
			continue
		}
		l.emit(tok)
		if debug {
			l.logger.Debug("token", "type", tok.Type, "text", tok.Text,
				"channel", tok.Channel, "line", tok.Position.Line, "column", tok.Position.Column)
		}
		if tok.Type == EOF {
			return l.tokens
		}
	}
	l.emit(Token{Type: EOF, Channel: Default, Position: l.pos()})
	return l.tokens
}

// Errors returns the lexical errors found so far.
func (l *Lexer) Errors() []Error {
	return l.errors
}

// Mode returns the current lexer mode.
func (l *Lexer) Mode() Mode {
	return l.mode
}

func (l *Lexer) emit(tok Token) {
	tok.Index = len(l.tokens)
	l.tokens = append(l.tokens, tok)
	if tok.Meaningful() {
		l.meaningful = append(l.meaningful, tok.Index)
	}
}

func (l *Lexer) pos() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.position}
}

// errorf records a lexical error at start and skips the offending character.
func (l *Lexer) errorf(start Position, format string, args ...interface{}) (Token, bool) {
	l.errors = append(l.errors, Error{Position: start, Message: fmt.Sprintf(format, args...)})
	if l.position == start.Offset && l.position < len(l.input) {
		l.advance()
	}
	return Token{}, false
}

// charAt returns the character at offset or 0 outside the input.
func (l *Lexer) charAt(offset int) rune {
	if offset < 0 || offset >= len(l.input) {
		return 0
	}
	return l.input[offset]
}

func (l *Lexer) cur() rune       { return l.charAt(l.position) }
func (l *Lexer) peek(n int) rune { return l.charAt(l.position + n) }
func (l *Lexer) atEOF() bool     { return l.position >= len(l.input) }

// advance consumes one character, tracking line and column.
func (l *Lexer) advance() {
	invariant.Precondition(l.position < len(l.input), "advance past end of input")
	ch := l.input[l.position]
	l.position++
	switch {
	case ch == '\n':
		l.line++
		l.column = 1
	case ch == '\r' && l.cur() != '\n':
		l.line++
		l.column = 1
	default:
		l.column++
	}
}

func (l *Lexer) text(start Position) string {
	return string(l.input[start.Offset:l.position])
}

func (l *Lexer) token(typ TokenType, channel Channel, start Position) (Token, bool) {
	return Token{Type: typ, Text: l.text(start), Channel: channel, Position: start}, true
}

// lexToken produces the next token; ok is false after a lexical error.
func (l *Lexer) lexToken() (Token, bool) {
	start := l.pos()
	if l.atEOF() {
		return Token{Type: EOF, Channel: Default, Position: start}, true
	}

	ch := l.cur()
	switch {
	case ch == ' ' || ch == '\t':
		for c := l.cur(); c == ' ' || c == '\t'; c = l.cur() {
			l.advance()
		}
		return l.token(SPACE, Spaces, start)
	case isLineTerminator(ch):
		l.lexLineTerminator()
		if l.mode == ModeCommand {
			l.setMode(ModeDefault)
		}
		return l.token(EOL, Default, start)
	case ch == '%':
		return l.lexComment(start)
	}

	if l.mode == ModeCommand {
		return l.lexCommandArgument(start)
	}

	switch {
	case ch == '.' && l.threeDotsFollow():
		return l.lexEllipsis(start)
	case isIdentStartRune(ch):
		return l.lexIdentifier(start)
	case isDigitRune(ch), ch == '.' && isDigitRune(l.peek(1)):
		return l.lexNumber(start)
	case ch == '\'':
		if l.transposeIsEnabled() {
			l.advance()
			return l.token(CTRANS, Default, start)
		}
		return l.lexString(start, '\'')
	case ch == '"':
		return l.lexString(start, '"')
	case ch == '!':
		return l.lexExclamation(start)
	}

	return l.lexOperator(start)
}

func (l *Lexer) lexLineTerminator() {
	if l.cur() == '\r' && l.peek(1) == '\n' {
		l.advance()
	}
	l.advance()
}

func (l *Lexer) setMode(mode Mode) {
	if l.mode != mode {
		l.logger.Debug("lexer mode", "from", l.mode, "to", mode, "line", l.line)
	}
	l.mode = mode
}

// lexComment reads a line comment or, when %{ stands alone on its line, a
// nestable block comment.
func (l *Lexer) lexComment(start Position) (Token, bool) {
	if l.peek(1) == '{' && l.spacesPrecedeInLine() && l.blankUntilLineEnd(l.position+2) {
		return l.lexBlockComment(start)
	}
	l.skipToLineEnd()
	return l.token(COMMENT, Skipped, start)
}

func (l *Lexer) lexBlockComment(start Position) (Token, bool) {
	depth := 0
	for !l.atEOF() {
		if l.position == start.Offset || l.lineStartPrecedes() {
			for c := l.cur(); c == ' ' || c == '\t'; c = l.cur() {
				l.advance()
			}
			if l.cur() == '%' && l.blankUntilLineEnd(l.position+2) {
				switch l.peek(1) {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						l.advance()
						l.advance()
						return l.token(BLOCKCOMMENT, Skipped, start)
					}
				}
			}
		}
		if !l.atEOF() {
			l.advance()
		}
	}
	// An unterminated block comment runs to the end of the file
	return l.token(BLOCKCOMMENT, Skipped, start)
}

// lexEllipsis reads a continuation: the dots, the rest of the line and its
// terminator.
func (l *Lexer) lexEllipsis(start Position) (Token, bool) {
	l.skipToLineEnd()
	if !l.atEOF() {
		l.lexLineTerminator()
	}
	return l.token(ELLIPSIS, Spaces, start)
}

func (l *Lexer) skipToLineEnd() {
	for !l.atEOF() && !isLineTerminator(l.cur()) {
		l.advance()
	}
}

func (l *Lexer) lexIdentifier(start Position) (Token, bool) {
	for isIdentPartRune(l.cur()) {
		l.advance()
	}
	text := l.text(start)

	typ := ID
	if kw, ok := Keywords[text]; ok {
		typ = kw
	} else if l.marker.Contains(start.Offset) {
		typ = COMMAND
		l.setMode(ModeCommand)
	}
	return Token{Type: typ, Text: text, Channel: Default, Position: start}, true
}

// lexNumber reads REAL and IMAGINARY literals: 1, 1.5, .5, 1e3, 2.5e-3i.
func (l *Lexer) lexNumber(start Position) (Token, bool) {
	l.skipDigits()
	if l.cur() == '.' && !l.threeDotsFollow() && !isElementwiseSuffix(l.peek(1)) {
		l.advance()
		l.skipDigits()
	}

	if c := l.cur(); c == 'e' || c == 'E' || c == 'd' || c == 'D' {
		next := l.peek(1)
		if isDigitRune(next) || ((next == '+' || next == '-') && isDigitRune(l.peek(2))) {
			l.advance()
			if next == '+' || next == '-' {
				l.advance()
			}
			l.skipDigits()
		}
	}

	typ := REAL
	if c := l.cur(); (c == 'i' || c == 'j' || c == 'I' || c == 'J') && !isIdentPartRune(l.peek(1)) {
		l.advance()
		typ = IMAGINARY
	}
	if isIdentStartRune(l.cur()) {
		return l.errorf(start, "malformed number %q", l.text(start)+string(l.cur()))
	}
	return l.token(typ, Default, start)
}

func (l *Lexer) skipDigits() {
	for isDigitRune(l.cur()) {
		l.advance()
	}
}

// lexString reads a quoted string; a doubled quote is an escaped quote.
func (l *Lexer) lexString(start Position, quote rune) (Token, bool) {
	l.advance()
	for {
		switch c := l.cur(); {
		case l.atEOF() || isLineTerminator(c):
			return l.errorf(start, "unterminated string literal")
		case c == quote && l.peek(1) == quote:
			l.advance()
			l.advance()
		case c == quote:
			l.advance()
			return l.token(STRING, Default, start)
		default:
			l.advance()
		}
	}
}

// lexExclamation reads a shell escape when ! opens the line and a lone
// EXCLAMATION otherwise.
func (l *Lexer) lexExclamation(start Position) (Token, bool) {
	if l.spacesPrecedeInLine() {
		l.skipToLineEnd()
		return l.token(EXCLAMATION, Default, start)
	}
	l.advance()
	if l.cur() == '=' {
		l.advance()
		return l.token(NOTEQ, Default, start)
	}
	return l.token(EXCLAMATION, Default, start)
}

// lexCommandArgument reads one command-syntax word. Quoted sections keep
// blanks, commas and semicolons.
func (l *Lexer) lexCommandArgument(start Position) (Token, bool) {
	switch l.cur() {
	case ',':
		l.advance()
		l.setMode(ModeDefault)
		return l.token(COMMA, Default, start)
	case ';':
		l.advance()
		l.setMode(ModeDefault)
		return l.token(SEMI, Default, start)
	}

	for !l.atEOF() {
		c := l.cur()
		if c == ' ' || c == '\t' || c == ',' || c == ';' || c == '%' || isLineTerminator(c) {
			break
		}
		if c != '\'' {
			l.advance()
			continue
		}
		quoteStart := l.pos()
		l.advance()
		for {
			q := l.cur()
			if l.atEOF() || isLineTerminator(q) {
				return l.errorf(quoteStart, "unterminated quoted command argument")
			}
			l.advance()
			if q == '\'' {
				if l.cur() != '\'' {
					break
				}
				l.advance()
			}
		}
	}
	return l.token(CMDARG, Default, start)
}

// lexOperator reads punctuation and operator tokens.
func (l *Lexer) lexOperator(start Position) (Token, bool) {
	ch := l.cur()
	next := l.peek(1)

	if ch == '.' {
		if typ, ok := dotOperators[next]; ok {
			l.advance()
			l.advance()
			return l.token(typ, Default, start)
		}
		l.advance()
		return l.token(DOT, Default, start)
	}

	if pair, ok := doubleOperators[ch]; ok && next == pair.second {
		l.advance()
		l.advance()
		return l.token(pair.typ, Default, start)
	}

	if ch < 128 {
		if typ := singleCharTokens[ch]; typ != ILLEGAL {
			l.advance()
			return l.token(typ, Default, start)
		}
	}
	return l.errorf(start, "no viable alternative at character %q", ch)
}
