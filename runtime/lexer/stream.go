package lexer

// Stream is the parser's view of a token sequence: lookahead over
// Default-channel tokens plus queries for the off-channel run next to any
// token.
type Stream struct {
	tokens   []Token
	defaults []int // raw indices of Default-channel tokens
	pos      int   // cursor into defaults
}

// NewStream wraps tokens, which must end with EOF.
func NewStream(tokens []Token) *Stream {
	s := &Stream{tokens: tokens}
	for i, tok := range tokens {
		if tok.Channel == Default {
			s.defaults = append(s.defaults, i)
		}
	}
	return s
}

// Tokens returns every token on every channel.
func (s *Stream) Tokens() []Token {
	return s.tokens
}

// LT returns the k-th Default-channel token ahead of the cursor (k >= 1)
// or behind it (k <= -1). Past either end it returns EOF.
func (s *Stream) LT(k int) Token {
	i := s.pos + k - 1
	if k < 0 {
		i = s.pos + k
	}
	if i < 0 || i >= len(s.defaults) {
		return s.eof()
	}
	return s.tokens[s.defaults[i]]
}

func (s *Stream) eof() Token {
	if n := len(s.tokens); n > 0 && s.tokens[n-1].Type == EOF {
		return s.tokens[n-1]
	}
	return Token{Type: EOF, Index: len(s.tokens)}
}

// Consume moves the cursor past LT(1). Consuming EOF is a no-op.
func (s *Stream) Consume() {
	if s.pos < len(s.defaults) && s.tokens[s.defaults[s.pos]].Type != EOF {
		s.pos++
	}
}

// Mark returns the cursor so that a speculative scan can Rewind to it.
func (s *Stream) Mark() int {
	return s.pos
}

// Rewind restores a cursor returned by Mark.
func (s *Stream) Rewind(mark int) {
	s.pos = mark
}

// OffChannelLeft returns the maximal run of non-Default tokens immediately
// left of raw index i. ok is false when no such run exists: the adjacent
// token is on the Default channel or i is at a stream boundary.
func (s *Stream) OffChannelLeft(i int) ([]Token, bool) {
	return s.offChannel(i, -1, nil)
}

// OffChannelRight is the right-hand counterpart of OffChannelLeft.
func (s *Stream) OffChannelRight(i int) ([]Token, bool) {
	return s.offChannel(i, 1, nil)
}

// OffChannelLeftIn is OffChannelLeft filtered to channel ch. The result may
// be empty with ok true: a run exists but holds nothing on ch.
func (s *Stream) OffChannelLeftIn(i int, ch Channel) ([]Token, bool) {
	return s.offChannel(i, -1, &ch)
}

// OffChannelRightIn is OffChannelRight filtered to channel ch.
func (s *Stream) OffChannelRightIn(i int, ch Channel) ([]Token, bool) {
	return s.offChannel(i, 1, &ch)
}

func (s *Stream) offChannel(i, step int, only *Channel) ([]Token, bool) {
	if i < 0 || i >= len(s.tokens) {
		return nil, false
	}

	var run []Token
	for j := i + step; j >= 0 && j < len(s.tokens) && s.tokens[j].Channel != Default; j += step {
		run = append(run, s.tokens[j])
	}
	if len(run) == 0 {
		return nil, false
	}

	if step < 0 {
		for a, b := 0, len(run)-1; a < b; a, b = a+1, b-1 {
			run[a], run[b] = run[b], run[a]
		}
	}
	if only == nil {
		return run, true
	}

	filtered := make([]Token, 0, len(run))
	for _, tok := range run {
		if tok.Channel == *only {
			filtered = append(filtered, tok)
		}
	}
	return filtered, true
}
