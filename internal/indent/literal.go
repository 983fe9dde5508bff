package indent

// skipQuoted consumes a literal body up to and including close. The scanner
// must be positioned just past the opening quote. Consumption stops at the
// end of the line when the literal is unterminated, and an escaped newline
// is left in place.
func skipQuoted(s *Scanner, close byte) {
	for {
		if s.Match('\\') {
			s.MatchExcept('\n')
		} else if s.Match(close) {
			return
		} else if !s.MatchExcept('\n') {
			return
		}
	}
}

// skipLineComment consumes everything up to, but not including, the next
// newline.
func skipLineComment(s *Scanner) {
	for s.MatchExcept('\n') {
	}
}
