package lexer

// ASCII character lookup tables. Identifiers are ASCII-only; characters
// outside the table are never identifier or digit characters.
//
//	if ch < 128 && isLetter[ch] { ... }
var (
	isLetter         [128]bool // a-z, A-Z
	isDigit          [128]bool // 0-9
	isIdentStart     [128]bool // letter
	isIdentPart      [128]bool // letter, digit or _
	singleCharTokens [128]TokenType
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = isLetter[i]
		isIdentPart[i] = isLetter[i] || isDigit[i] || ch == '_'
		singleCharTokens[i] = ILLEGAL
	}

	singleCharTokens['+'] = PLUS
	singleCharTokens['-'] = MINUS
	singleCharTokens['*'] = MTIMES
	singleCharTokens['/'] = MRDIV
	singleCharTokens['\\'] = MLDIV
	singleCharTokens['^'] = MPOW
	singleCharTokens['='] = ASSIGN
	singleCharTokens['~'] = NOT
	singleCharTokens['<'] = LT
	singleCharTokens['>'] = GT
	singleCharTokens['&'] = AND
	singleCharTokens['|'] = OR
	singleCharTokens['@'] = AT
	singleCharTokens['?'] = QUESTION
	singleCharTokens[':'] = COLON
	singleCharTokens[','] = COMMA
	singleCharTokens[';'] = SEMI
	singleCharTokens['('] = LPAREN
	singleCharTokens[')'] = RPAREN
	singleCharTokens['['] = LSQUARE
	singleCharTokens[']'] = RSQUARE
	singleCharTokens['{'] = LCURLY
	singleCharTokens['}'] = RCURLY
}

// doubleOperators maps the first character of a two-character operator to
// its second character and token type.
var doubleOperators = map[rune]struct {
	second rune
	typ    TokenType
}{
	'=': {'=', EQ},
	'~': {'=', NOTEQ},
	'<': {'=', LTEQ},
	'>': {'=', GTEQ},
	'&': {'&', SHORTAND},
	'|': {'|', SHORTOR},
}

// dotOperators maps the character after '.' to the element-wise operator.
var dotOperators = map[rune]TokenType{
	'*':  TIMES,
	'/':  RDIV,
	'\\': LDIV,
	'^':  POW,
	'\'': TRANS,
}

func isIdentStartRune(ch rune) bool { return ch >= 0 && ch < 128 && isIdentStart[ch] }
func isIdentPartRune(ch rune) bool  { return ch >= 0 && ch < 128 && isIdentPart[ch] }
func isDigitRune(ch rune) bool      { return ch >= 0 && ch < 128 && isDigit[ch] }

func isLineTerminator(ch rune) bool {
	return ch == '\n' || ch == '\r'
}

// isElementwiseSuffix reports whether a '.' followed by ch belongs to an
// operator rather than to a number.
func isElementwiseSuffix(ch rune) bool {
	_, ok := dotOperators[ch]
	return ok
}
