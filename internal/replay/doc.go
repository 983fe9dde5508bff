// Package replay retypes source text through the auto-indenting engine.
//
// A Typist feeds a file to an engine.Engine line by line, the way a user
// would type it: leading whitespace is dropped, every line break goes
// through Engine.Newline and a line that starts with a closing bracket goes
// through Engine.TypeClose. The text that results is the file as the editor
// would have indented it.
//
// Reindent returns that text. Check compares it with the original and
// reports every line whose indentation differs.
//
// Leading whitespace inside multi-line string literals and block comments
// is rewritten like any other line.
package replay
