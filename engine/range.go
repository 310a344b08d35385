package engine

// Reset moves the cursor to the first line and extends the range over the
// whole buffer.
func (e *Engine) Reset() bool {
	e.cursor = 0
	e.rangeEnd = len(e.lines)

	return true
}

// ClearRange extends the range to the end of the buffer.
func (e *Engine) ClearRange() bool {
	e.rangeEnd = len(e.lines)

	return true
}

// SetRangeEnd sets the end of the range to absolute index i.
// It fails if i precedes the cursor or lies past the end of the buffer.
func (e *Engine) SetRangeEnd(i int) bool {
	if i < e.cursor || i > len(e.lines) {
		return false
	}

	e.rangeEnd = i

	return true
}

// SetRange makes the range exactly n lines long.
func (e *Engine) SetRange(n int) bool { return e.SetRangeEnd(e.cursor + n) }

// AdjustRange grows (or, with a negative delta, shrinks) the range.
func (e *Engine) AdjustRange(delta int) bool {
	return e.SetRangeEnd(e.rangeEnd + delta)
}

// SetRangeTo ends the range at the first line after the cursor that
// satisfies sel. The matching line itself is excluded from the range.
// The scan runs to the end of the buffer, not the end of the current range.
func (e *Engine) SetRangeTo(sel Selector) bool {
	for i := e.cursor + 1; i < len(e.lines); i++ {
		if groups, ok := sel(e.lines[i]); ok {
			e.capture(groups)
			e.rangeEnd = i

			return true
		}
	}

	return false
}
