package replay

import (
	"context"
	"fmt"
	"strings"
)

// Diagnostic reports a line whose indentation differs from the engine's.
type Diagnostic struct {
	File string
	Line int // 1-based
	Got  int // columns of existing indentation
	Want int // columns the engine produces
}

// String formats the diagnostic as "file:line: indent got N, want M".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: indent got %d, want %d", d.File, d.Line, d.Got, d.Want)
}

// Check reindents src and reports every non-blank line whose leading
// whitespace width differs from the result. name is copied into each
// diagnostic.
func (t *Typist) Check(name, src string) ([]Diagnostic, error) {
	return t.CheckContext(context.Background(), name, src)
}

// CheckContext is Check with cancellation.
func (t *Typist) CheckContext(ctx context.Context, name, src string) ([]Diagnostic, error) {
	want, err := t.ReindentContext(ctx, src)
	if err != nil {
		return nil, err
	}

	gotLines := splitLines(src)
	wantLines := splitLines(want)

	var diags []Diagnostic
	for i, line := range gotLines {
		if strings.TrimSpace(line) == "" || i >= len(wantLines) {
			continue
		}
		got := t.width(line)
		w := t.width(wantLines[i])
		if got != w {
			diags = append(diags, Diagnostic{File: name, Line: i + 1, Got: got, Want: w})
		}
	}
	return diags, nil
}

// width measures leading whitespace in columns. Tabs advance to the next
// tab stop.
func (t *Typist) width(line string) int {
	col := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			col++
		case '\t':
			col += t.tabWidth - col%t.tabWidth
		default:
			return col
		}
	}
	return col
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
