// Package engine provides the host document that applies auto-indentation
// while text is typed.
//
// The engine package owns the text buffer and turns the decisions of the
// indent package into edits:
//
//   - Newline inserts a newline followed by the required indentation
//   - TypeClose removes surplus indentation before a closing bracket
//   - Insert and Delete apply plain edits
//   - Undo and Redo reverse and reapply edits, one keystroke at a time
//
// # Line Endings
//
// Text is held with LF line endings. NewFromReader detects CRLF input,
// normalizes it, and WriteTo restores the detected ending on output.
//
// # Thread Safety
//
// All Engine operations are thread-safe. Reads take a shared lock and
// edits take an exclusive one. Indentation is computed under the lock from
// a copy of the text before the caret.
//
// # Basic Usage
//
//	e := engine.New()
//
//	caret, _ := e.Insert(0, "if (x) {")
//	caret, _ = e.Newline(caret)      // "if (x) {\n    "
//	caret, _ = e.Insert(caret, "y();")
//	caret, _ = e.Newline(caret)      // "...y();\n    "
//	caret, _ = e.TypeClose(caret, '}') // "...y();\n}"
//
//	e.Undo() // removes the brace and restores the four spaces
package engine
