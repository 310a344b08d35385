package engine

import (
	"slices"
	"strings"
)

// InsertBefore inserts s ahead of the current line. The cursor and the end
// of the range shift so they keep referring to the same lines.
func (e *Engine) InsertBefore(s string) bool {
	e.lines = slices.Insert(e.lines, e.cursor, s)
	e.cursor++
	e.rangeEnd++

	return true
}

// InsertAfter inserts s after the current line and makes it current.
// It fails if the range is empty.
func (e *Engine) InsertAfter(s string) bool {
	if e.RangeEmpty() {
		return false
	}

	e.cursor++
	e.lines = slices.Insert(e.lines, e.cursor, s)
	e.rangeEnd++

	return true
}

// Append inserts s at the end of the range and extends the range over it.
func (e *Engine) Append(s string) bool {
	e.lines = slices.Insert(e.lines, e.rangeEnd, s)
	e.rangeEnd++

	return true
}

// Remove deletes the current line; the following line becomes current.
// It fails if the range is empty.
func (e *Engine) Remove() bool {
	if e.RangeEmpty() {
		return false
	}

	e.lines = slices.Delete(e.lines, e.cursor, e.cursor+1)
	e.rangeEnd--

	return true
}

// RemoveRange deletes every line in the range. It always succeeds.
func (e *Engine) RemoveRange() bool {
	e.lines = slices.Delete(e.lines, e.cursor, e.rangeEnd)
	e.rangeEnd = e.cursor

	return true
}

// Replace overwrites the current line with s. It fails only if no line
// exists at the cursor.
func (e *Engine) Replace(s string) bool {
	if e.cursor >= len(e.lines) {
		return false
	}

	e.lines[e.cursor] = s

	return true
}

// Catenate joins the n lines that follow the current line onto it and
// removes them. All n lines must lie within the range.
func (e *Engine) Catenate(n int) bool {
	if n < 0 || n >= e.rangeEnd-e.cursor {
		return false
	}

	var b strings.Builder

	b.WriteString(e.lines[e.cursor])

	for range n {
		b.WriteString(e.deleteAt(e.cursor + 1))
	}

	e.lines[e.cursor] = b.String()

	return true
}

// deleteAt removes line n and repairs the cursor and range end so that they
// keep referring to the same lines.
func (e *Engine) deleteAt(n int) string {
	line := e.lines[n]
	e.lines = slices.Delete(e.lines, n, n+1)

	if n < e.cursor {
		e.cursor--
	}

	if n < e.rangeEnd {
		e.rangeEnd--
	}

	return line
}

// InsertFormat renders template against the capture groups and inserts the
// result before the current line.
func (e *Engine) InsertFormat(template string) bool {
	s, err := e.Render(template)

	return err == nil && e.InsertBefore(s)
}

// InsertAfterFormat renders template and inserts the result after the
// current line.
func (e *Engine) InsertAfterFormat(template string) bool {
	if e.RangeEmpty() {
		return false
	}

	s, err := e.Render(template)

	return err == nil && e.InsertAfter(s)
}

// AppendFormat renders template and appends the result to the range.
func (e *Engine) AppendFormat(template string) bool {
	s, err := e.Render(template)

	return err == nil && e.Append(s)
}

// ReplaceFormat renders template and replaces the current line with it.
func (e *Engine) ReplaceFormat(template string) bool {
	if e.cursor >= len(e.lines) {
		return false
	}

	s, err := e.Render(template)

	return err == nil && e.Replace(s)
}

// Rewrite matches the current line against p and, on success, replaces the
// line with template rendered against the new capture groups.
func (e *Engine) Rewrite(p *Pattern, template string) bool {
	return e.Match(p) && e.ReplaceFormat(template)
}

// InsertRewrite matches the current line against p and, on success, inserts
// the rendered template before it.
func (e *Engine) InsertRewrite(p *Pattern, template string) bool {
	return e.Match(p) && e.InsertFormat(template)
}

// InsertAfterRewrite matches the current line against p and, on success,
// inserts the rendered template after it.
func (e *Engine) InsertAfterRewrite(p *Pattern, template string) bool {
	return e.Match(p) && e.InsertAfterFormat(template)
}

// AppendRewrite matches the current line against p and, on success, appends
// the rendered template to the range.
func (e *Engine) AppendRewrite(p *Pattern, template string) bool {
	return e.Match(p) && e.AppendFormat(template)
}
