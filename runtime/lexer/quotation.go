package lexer

// transposeIsEnabled decides whether a ' at the current position is the
// transpose operator (true) or opens a string (false). It looks only at the
// meaningful tokens emitted so far.
func (l *Lexer) transposeIsEnabled() bool {
	n := len(l.meaningful)
	if n == 0 {
		return false
	}

	// The last meaningful token must itself be on the Default channel:
	// any blank between it and the quote starts a string.
	last := l.tokens[l.meaningful[n-1]]
	if last.Channel != Default {
		return false
	}

	switch last.Type {
	case RSQUARE, RCURLY, CTRANS, TRANS, REAL, IMAGINARY, ID:
		return true
	case RPAREN:
		return l.parenthesisAllowsTranspose(n - 1)
	}

	if last.Type.IsKeyword() {
		prev, ok := l.lastDefaultBefore(n - 1)
		return ok && prev.Type == DOT
	}
	return false
}

// parenthesisAllowsTranspose walks back from the closing parenthesis at
// meaningful index i to its opener. The parameter list of an anonymous
// function (@(x)) is not a value and cannot be transposed.
func (l *Lexer) parenthesisAllowsTranspose(i int) bool {
	closing := 0
	for ; i >= 0; i-- {
		switch l.tokens[l.meaningful[i]].Type {
		case RPAREN, RSQUARE, RCURLY:
			closing++
		case LPAREN, LSQUARE, LCURLY:
			closing--
		}
		if closing == 0 {
			prev, ok := l.lastDefaultBefore(i)
			return !ok || prev.Type != AT
		}
	}
	return true
}

// lastDefaultBefore returns the nearest Default-channel token preceding
// meaningful index i.
func (l *Lexer) lastDefaultBefore(i int) (Token, bool) {
	for j := i - 1; j >= 0; j-- {
		if tok := l.tokens[l.meaningful[j]]; tok.Channel == Default {
			return tok, true
		}
	}
	return Token{}, false
}
