package lexer

// Layout predicates. None of them consumes input.

// lineStartPrecedes reports whether the character before the current
// position is a line terminator or the start of the input.
func (l *Lexer) lineStartPrecedes() bool {
	return l.position == 0 || isLineTerminator(l.charAt(l.position-1))
}

// lineEndFollows reports whether offset holds a line terminator or lies at
// the end of the input.
func (l *Lexer) lineEndFollows(offset int) bool {
	return offset >= len(l.input) || isLineTerminator(l.charAt(offset))
}

// spacesPrecedeInLine reports whether only blanks separate the current
// position from the start of its line. The start of the input counts as a
// line start.
func (l *Lexer) spacesPrecedeInLine() bool {
	for i := l.position - 1; i >= 0; i-- {
		switch ch := l.input[i]; {
		case isLineTerminator(ch):
			return true
		case ch != ' ' && ch != '\t':
			return false
		}
	}
	return true
}

// blankUntilLineEnd reports whether only blanks lie between offset and the
// end of its line.
func (l *Lexer) blankUntilLineEnd(offset int) bool {
	for ; !l.lineEndFollows(offset); offset++ {
		if ch := l.input[offset]; ch != ' ' && ch != '\t' {
			return false
		}
	}
	return true
}

// textFollows compares text with the input at the current position.
func (l *Lexer) textFollows(text string) bool {
	i := l.position
	for _, ch := range text {
		if l.charAt(i) != ch || i >= len(l.input) {
			return false
		}
		i++
	}
	return true
}

func (l *Lexer) threeDotsFollow() bool {
	return l.textFollows("...")
}
