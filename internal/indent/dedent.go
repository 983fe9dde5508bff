package indent

// IsCloser reports whether c is a closing bracket that triggers a dedent.
func IsCloser(c byte) bool {
	return c == '}' || c == ')' || c == ']'
}

// NewlineIndent returns the number of spaces to insert after a newline
// typed at offset. Only text[:offset] is examined. The offset is clamped
// to the text.
func NewlineIndent(text string, offset int) int {
	offset = clamp(offset, 0, len(text))
	return RequiredIndent(NewScannerRange(text, 0, offset))
}

// CloseDedent returns the number of bytes immediately before offset to
// delete before inserting the closing bracket close. It is zero unless
// only spaces separate offset from the newline ending the previous line,
// so nothing is removed on the first line. It is zero for any close that
// is not a closing bracket.
func CloseDedent(text string, offset int, close byte) int {
	if !IsCloser(close) {
		return 0
	}
	offset = clamp(offset, 0, len(text))

	lineStart, ok := lineStartBefore(text, offset)
	if !ok {
		return 0
	}

	target := RequiredIndent(NewScannerRange(text, 0, lineStart)) - NestingUnit
	if target < 0 {
		target = 0
	}

	actual := offset - (lineStart + 1)
	if remove := actual - target; remove > 0 {
		return remove
	}
	return 0
}

// lineStartBefore scans back from offset over spaces. It returns the
// position of the newline that ends the previous line. ok is false when
// another character or the start of the text is reached first.
func lineStartBefore(text string, offset int) (pos int, ok bool) {
	i := offset - 1
	for i >= 0 && text[i] == ' ' {
		i--
	}
	if i >= 0 && text[i] == '\n' {
		return i, true
	}
	return 0, false
}
