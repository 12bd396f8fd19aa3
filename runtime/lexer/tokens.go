package lexer

import "fmt"

// TokenType represents lexical tokens of the MATLAB language
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Layout
	EOL          // \n, \r\n or \r - statement boundary
	SPACE        // blanks and tabs
	ELLIPSIS     // ... plus the rest of its line - line continuation
	COMMENT      // % to end of line
	BLOCKCOMMENT // %{ ... %} on lines of their own

	// Keywords
	BREAK
	CASE
	CATCH
	CLASSDEF
	CONTINUE
	ELSE
	ELSEIF
	END
	FOR
	FUNCTION
	GLOBAL
	IF
	OTHERWISE
	PARFOR
	PERSISTENT
	RETURN
	SPMD
	SWITCH
	TRY
	WHILE

	// Identifiers and literals
	ID        // name
	COMMAND   // name starting command syntax (marked offset)
	CMDARG    // command-syntax word
	REAL      // 1, 1.5, .5, 1e3
	IMAGINARY // 2i, 1.5e3j
	STRING    // 'text' with '' escapes

	// Arithmetic operators
	PLUS   // +
	MINUS  // -
	MTIMES // *
	TIMES  // .*
	MRDIV  // /
	RDIV   // ./
	MLDIV  // \
	LDIV   // .\
	MPOW   // ^
	POW    // .^

	// Relational and logical operators
	EQ       // ==
	NOTEQ    // ~=
	LT       // <
	LTEQ     // <=
	GT       // >
	GTEQ     // >=
	AND      // &
	SHORTAND // &&
	OR       // |
	SHORTOR  // ||
	NOT      // ~

	// Postfix operators
	CTRANS // ' conjugate transpose
	TRANS  // .' transpose

	// Structure
	ASSIGN      // =
	AT          // @
	QUESTION    // ?
	COLON       // :
	EXCLAMATION // ! shell escape
	DOT         // .
	COMMA       // ,
	SEMI        // ;
	LPAREN      // (
	RPAREN      // )
	LSQUARE     // [
	RSQUARE     // ]
	LCURLY      // {
	RCURLY      // }

	tokenTypeCount
)

var tokenNames = [...]string{
	EOF:          "EOF",
	ILLEGAL:      "ILLEGAL",
	EOL:          "EOL",
	SPACE:        "SPACE",
	ELLIPSIS:     "ELLIPSIS",
	COMMENT:      "COMMENT",
	BLOCKCOMMENT: "BLOCKCOMMENT",
	BREAK:        "BREAK",
	CASE:         "CASE",
	CATCH:        "CATCH",
	CLASSDEF:     "CLASSDEF",
	CONTINUE:     "CONTINUE",
	ELSE:         "ELSE",
	ELSEIF:       "ELSEIF",
	END:          "END",
	FOR:          "FOR",
	FUNCTION:     "FUNCTION",
	GLOBAL:       "GLOBAL",
	IF:           "IF",
	OTHERWISE:    "OTHERWISE",
	PARFOR:       "PARFOR",
	PERSISTENT:   "PERSISTENT",
	RETURN:       "RETURN",
	SPMD:         "SPMD",
	SWITCH:       "SWITCH",
	TRY:          "TRY",
	WHILE:        "WHILE",
	ID:           "ID",
	COMMAND:      "COMMAND",
	CMDARG:       "CMDARG",
	REAL:         "REAL",
	IMAGINARY:    "IMAGINARY",
	STRING:       "STRING",
	PLUS:         "PLUS",
	MINUS:        "MINUS",
	MTIMES:       "MTIMES",
	TIMES:        "TIMES",
	MRDIV:        "MRDIV",
	RDIV:         "RDIV",
	MLDIV:        "MLDIV",
	LDIV:         "LDIV",
	MPOW:         "MPOW",
	POW:          "POW",
	EQ:           "EQ",
	NOTEQ:        "NOTEQ",
	LT:           "LT",
	LTEQ:         "LTEQ",
	GT:           "GT",
	GTEQ:         "GTEQ",
	AND:          "AND",
	SHORTAND:     "SHORTAND",
	OR:           "OR",
	SHORTOR:      "SHORTOR",
	NOT:          "NOT",
	CTRANS:       "CTRANS",
	TRANS:        "TRANS",
	ASSIGN:       "ASSIGN",
	AT:           "AT",
	QUESTION:     "QUESTION",
	COLON:        "COLON",
	EXCLAMATION:  "EXCLAMATION",
	DOT:          "DOT",
	COMMA:        "COMMA",
	SEMI:         "SEMI",
	LPAREN:       "LPAREN",
	RPAREN:       "RPAREN",
	LSQUARE:      "LSQUARE",
	RSQUARE:      "RSQUARE",
	LCURLY:       "LCURLY",
	RCURLY:       "RCURLY",
}

// String returns the token type name
func (t TokenType) String() string {
	if t >= 0 && t < tokenTypeCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsKeyword reports whether t is one of the reserved words
func (t TokenType) IsKeyword() bool {
	return t >= BREAK && t <= WHILE
}

// Keywords maps the reserved words to their token types
var Keywords = map[string]TokenType{
	"break":      BREAK,
	"case":       CASE,
	"catch":      CATCH,
	"classdef":   CLASSDEF,
	"continue":   CONTINUE,
	"else":       ELSE,
	"elseif":     ELSEIF,
	"end":        END,
	"for":        FOR,
	"function":   FUNCTION,
	"global":     GLOBAL,
	"if":         IF,
	"otherwise":  OTHERWISE,
	"parfor":     PARFOR,
	"persistent": PERSISTENT,
	"return":     RETURN,
	"spmd":       SPMD,
	"switch":     SWITCH,
	"try":        TRY,
	"while":      WHILE,
}

// Channel partitions tokens for lookahead queries
type Channel int

const (
	Default Channel = iota // seen by the grammar
	Spaces                 // whitespace and continuations, queryable for adjacency
	Skipped                // comments, never meaningful
)

func (c Channel) String() string {
	switch c {
	case Default:
		return "Default"
	case Spaces:
		return "Spaces"
	case Skipped:
		return "Skipped"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// Mode is the lexer's classification mode
type Mode int

const (
	ModeDefault Mode = iota // ordinary language tokens
	ModeCommand             // command-syntax words until the end of the statement
)

func (m Mode) String() string {
	if m == ModeCommand {
		return "Command"
	}
	return "Default"
}

// Position represents a position in the source code
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, counted in characters
	Offset int // 0-based character offset
}

// Token represents a lexical token. Tokens are immutable once emitted.
type Token struct {
	Type     TokenType
	Text     string
	Channel  Channel
	Position Position
	Index    int // sequence index in the token stream
}

// Meaningful reports whether the token is not on the Skipped channel
func (t Token) Meaningful() bool {
	return t.Channel != Skipped
}

// CharPositionInLine returns the 0-based character position of the token in its line
func (t Token) CharPositionInLine() int {
	return t.Position.Column - 1
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Text, t.Position.Line, t.Position.Column)
}
