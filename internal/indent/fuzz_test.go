package indent

import (
	"strings"
	"testing"
)

var fuzzSeeds = []string{
	"",
	"if (x) {\n",
	"if (x) {\n    foo();\n}",
	"foo(); // {\n",
	"x = \"}{\";\n",
	"s = \"unterminated\n",
	"/* { */\n",
	"\\\\\"'\n",
	")))\n\n\n   ",
	"int x = a +\n        b;\n",
	"日本語 { \"é\"\n",
}

func FuzzNewlineIndent(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s, len(s))
	}

	f.Fuzz(func(t *testing.T, text string, offset int) {
		got := NewlineIndent(text, offset)
		if got < 0 {
			t.Errorf("NewlineIndent(%q, %d) = %d, want non-negative", text, offset, got)
		}
		if got%NestingUnit != 0 {
			t.Errorf("NewlineIndent(%q, %d) = %d, want multiple of %d", text, offset, got, NestingUnit)
		}
	})
}

func FuzzCloseDedent(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s, len(s), byte('}'))
		f.Add(s+"      ", len(s)+6, byte(')'))
	}

	f.Fuzz(func(t *testing.T, text string, offset int, close byte) {
		got := CloseDedent(text, offset, close)
		if got < 0 {
			t.Fatalf("CloseDedent(%q, %d, %q) = %d, want non-negative", text, offset, close, got)
		}
		offset = clamp(offset, 0, len(text))
		if got > offset {
			t.Fatalf("CloseDedent removes %d bytes before offset %d", got, offset)
		}
		if removed := text[offset-got : offset]; strings.Trim(removed, " ") != "" {
			t.Errorf("CloseDedent would remove %q, want only spaces", removed)
		}
	})
}
