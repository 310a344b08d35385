// Package engine implements the line buffer that lotr scripts operate on.
//
// An [Engine] holds an ordered sequence of lines, a cursor naming the current
// line, and the end of a trailing range. The range always starts at the
// cursor, so moving the cursor also moves the start of the range.
//
//	lines:    a  b  c  d  e
//	index:    0  1  2  3  4
//	cursor:      ^
//	range:       [b  c  d)    RangeEnd() == 4
//
// Navigation methods move the cursor, range methods move only the range end,
// and edit methods insert, remove, or rewrite lines while repairing both
// indexes. Every method reports success as a boolean and leaves the engine
// unchanged on failure, which is what lets scripts compose operations with
// short-circuiting sequences and alternatives.
//
// # Patterns
//
// A [Pattern] uses RE2 syntax. Line tests (Match, selectors, Rewrite) require
// the whole line to match; substitutions search within the line. A
// successful line test records its capture groups, which later feed
// templates.
//
// # Templates
//
// A [Template] is a format string with positional placeholders:
//
//	e := engine.New([]string{"key=value"})
//	e.Rewrite(engine.MustCompile(`(\w+)=(\w+)`), "{2}: {1}")
//	// e.Lines() == []string{"value: key"}
//
// Single quotes escape literal text ('{' renders a brace, '' a quote).
package engine
