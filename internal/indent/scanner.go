package indent

// Scanner is a forward-only cursor over a window of a string.
// The zero value is an empty scanner.
type Scanner struct {
	text string
	off  int
	end  int
}

// NewScanner creates a scanner over all of text.
func NewScanner(text string) *Scanner {
	return &Scanner{text: text, end: len(text)}
}

// NewScannerRange creates a scanner over text[start:end].
// Bounds are clamped to the text.
func NewScannerRange(text string, start, end int) *Scanner {
	end = clamp(end, 0, len(text))
	start = clamp(start, 0, end)
	return &Scanner{text: text, off: start, end: end}
}

// Offset returns the current position in the underlying text.
func (s *Scanner) Offset() int {
	return s.off
}

// HasNext reports whether there is a character before the window end.
func (s *Scanner) HasNext() bool {
	return s.off < s.end
}

// Next returns the current character and advances.
// Callers must check HasNext first.
func (s *Scanner) Next() byte {
	c := s.text[s.off]
	s.off++
	return c
}

// Match advances past the current character if it equals c.
func (s *Scanner) Match(c byte) bool {
	if s.HasNext() && s.text[s.off] == c {
		s.off++
		return true
	}
	return false
}

// MatchExcept advances past the current character if there is one and it
// is not c. It returns false at end of input.
func (s *Scanner) MatchExcept(c byte) bool {
	if s.HasNext() && s.text[s.off] != c {
		s.off++
		return true
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
