// Package indent computes auto-indentation for newlines and typed closing
// brackets in brace-delimited source code.
//
// The package handles:
//
//   - Required indent for a new line, from the text before the cursor
//   - Dedent when `}`, `)` or `]` is typed at the start of a line
//   - Bracket nesting, string and character literals, line comments
//   - Continuation lines (wrapped expressions) with an 8-space indent
//
// Every computation rescans the text from the start of the buffer. Nothing
// is cached between calls, so a result depends only on the prefix passed in.
// The input may be malformed or mid-edit; unbalanced brackets and
// unterminated literals degrade to plain characters and never cause a panic.
//
// Block comments are not recognized. A `/*` pair is consumed without
// changing state and the comment body is scanned as code.
//
// Basic usage:
//
//	text := "if (x) {\n"
//	n := indent.NewlineIndent(text, len(text)) // 4
//
//	text = "if (x) {\n    foo();\n    "
//	remove := indent.CloseDedent(text, len(text), '}') // 4
package indent
