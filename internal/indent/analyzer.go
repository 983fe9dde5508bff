package indent

// Indentation policy, in spaces.
const (
	// NestingUnit is added for each unclosed bracket level.
	NestingUnit = 4

	// ContinuationUnit is added when a line continues an expression.
	ContinuationUnit = 8
)

// RequiredIndent returns the indent for the line following the text
// remaining in s. It replays every line from the scanner's position and
// consumes the scanner.
func RequiredIndent(s *Scanner) int {
	indent := 0
	wasInCode := false

	for s.HasNext() {
		thisIndent := leadingSpaces(s)

		startsOpen := false
		inCode := false
		open := 0
		if s.Match(')') || s.Match(']') {
			startsOpen = true
			open--
			inCode = true
		} else if s.Match('}') {
			startsOpen = true
			open--
		}

		for s.HasNext() && !s.Match('\n') {
			switch {
			case s.Match('(') || s.Match('[') || s.Match('{'):
				open++
				inCode = true
			case s.Match(')') || s.Match(']'):
				open--
				inCode = true
			case s.Match('}'):
				open--
				inCode = false
			case s.Match('/'):
				switch {
				case s.Match('*'):
					// Block comments are not tracked.
				case s.Match('/'):
					skipLineComment(s)
				default:
					inCode = true
				}
			case s.Match('"'):
				skipQuoted(s, '"')
				inCode = true
			case s.Match('\''):
				skipQuoted(s, '\'')
				inCode = true
			case s.Match(';') || s.Match(','):
				// Separators inside brackets, as in for (;;) or argument
				// lists, do not end the statement.
				inCode = open != 0
			default:
				s.Next()
				inCode = true
			}
		}

		switch {
		case open > 0 || (open == 0 && startsOpen):
			indent = thisIndent + NestingUnit
			wasInCode = false
		case inCode == wasInCode:
			indent = thisIndent
		case inCode:
			indent = thisIndent + ContinuationUnit
			wasInCode = true
		default:
			indent = thisIndent - ContinuationUnit
			wasInCode = false
		}
	}

	return Normalize(indent)
}

// leadingSpaces consumes the leading spaces of the next line and returns
// their count. Lines holding nothing but spaces are skipped. When only such
// lines remain, the empty tail after them is the line counted.
func leadingSpaces(s *Scanner) int {
	for {
		n := 0
		for s.Match(' ') {
			n++
		}
		if !s.Match('\n') {
			return n
		}
	}
}

// Normalize clamps n at zero and rounds it to the nearest multiple of
// NestingUnit, rounding halves up.
func Normalize(n int) int {
	if n < 0 {
		n = 0
	}
	return (n + NestingUnit/2) / NestingUnit * NestingUnit
}
