package engine

import (
	"slices"
)

// Engine is the mutable state of one script execution: a sequence of lines,
// a cursor, the end of the selected range, and the capture groups of the most
// recent successful match.
//
// The following constraints hold before and after every method call:
//
//	0 <= Cursor() <= RangeEnd() <= Len()
//	Len() == 0 implies Cursor() == RangeEnd() == 0
//
// The range is the half-open interval [Cursor(), RangeEnd()).
//
// Operations report success with a boolean and leave the state unchanged when
// they fail. An Engine is not safe for concurrent use.
type Engine struct {
	lines    []string
	cursor   int
	rangeEnd int
	groups   []string
}

// New returns an Engine over a copy of lines with the cursor on the first
// line and the range covering the whole buffer.
func New(lines []string) *Engine {
	e := &Engine{lines: slices.Clone(lines)}
	e.rangeEnd = len(e.lines)

	return e
}

// Clone returns an independent copy of e, including its capture groups.
func (e *Engine) Clone() *Engine {
	return &Engine{
		lines:    slices.Clone(e.lines),
		cursor:   e.cursor,
		rangeEnd: e.rangeEnd,
		groups:   slices.Clone(e.groups),
	}
}

// Lines returns a copy of the current line sequence.
func (e *Engine) Lines() []string {
	return append(make([]string, 0, len(e.lines)), e.lines...)
}

// Len returns the number of lines in the buffer.
func (e *Engine) Len() int { return len(e.lines) }

// Cursor returns the index of the current line.
func (e *Engine) Cursor() int { return e.cursor }

// RangeEnd returns the index one past the last line in range.
func (e *Engine) RangeEnd() int { return e.rangeEnd }

// RangeLen returns the number of lines in range, including the current line.
func (e *Engine) RangeLen() int { return e.rangeEnd - e.cursor }

// RangeEmpty reports whether the range contains no lines.
func (e *Engine) RangeEmpty() bool { return e.cursor == e.rangeEnd }

// Line returns the current line. It fails if the range is empty.
func (e *Engine) Line() (string, bool) {
	if e.RangeEmpty() {
		return "", false
	}

	return e.lines[e.cursor], true
}

// LineAt returns the line at absolute index i, regardless of the range.
func (e *Engine) LineAt(i int) (string, bool) {
	if i < 0 || i >= len(e.lines) {
		return "", false
	}

	return e.lines[i], true
}

// Groups returns a copy of the capture groups from the most recent successful
// match, or nil if nothing has matched yet.
func (e *Engine) Groups() []string { return slices.Clone(e.groups) }

// Group returns capture group n from the most recent successful match.
func (e *Engine) Group(n int) (string, bool) {
	if n < 0 || n >= len(e.groups) {
		return "", false
	}

	return e.groups[n], true
}

// Render formats the template source using the most recent capture groups
// as positional arguments.
func (e *Engine) Render(template string) (string, error) {
	return Format(template, e.groups...)
}

// capture records groups if a selector produced any.
func (e *Engine) capture(groups []string) {
	if groups != nil {
		e.groups = groups
	}
}

// Test reports whether the current line satisfies sel, recording any capture
// groups sel produces. It fails if the range is empty.
func (e *Engine) Test(sel Selector) bool {
	line, ok := e.Line()
	if !ok {
		return false
	}

	groups, ok := sel(line)
	if ok {
		e.capture(groups)
	}

	return ok
}

// IsEmpty reports whether the current line has zero length.
func (e *Engine) IsEmpty() bool { return e.Test(LineEmpty()) }

// Equals reports whether the current line equals s.
func (e *Engine) Equals(s string) bool { return e.Test(LineEquals(s)) }

// StartsWith reports whether the current line begins with prefix.
func (e *Engine) StartsWith(prefix string) bool {
	return e.Test(LineStartsWith(prefix))
}

// EndsWith reports whether the current line ends with suffix.
func (e *Engine) EndsWith(suffix string) bool {
	return e.Test(LineEndsWith(suffix))
}

// Contains reports whether the current line contains substr.
func (e *Engine) Contains(substr string) bool {
	return e.Test(LineContains(substr))
}

// Match reports whether the whole current line matches p. On success the
// capture groups are replaced; on failure they are left untouched.
func (e *Engine) Match(p *Pattern) bool { return e.Test(LineMatches(p)) }

// MatchAt is like [Engine.Match] but tests the line at absolute index i
// without moving the cursor.
func (e *Engine) MatchAt(p *Pattern, i int) bool {
	line, ok := e.LineAt(i)
	if !ok {
		return false
	}

	groups := p.Match(line)
	e.capture(groups)

	return groups != nil
}
