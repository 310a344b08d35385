package engine

// Next moves the cursor to the following line within the range.
func (e *Engine) Next() bool { return e.NextN(1) }

// NextN moves the cursor forward n lines. It succeeds only if the target
// line lies within the range.
func (e *Engine) NextN(n int) bool {
	i := e.cursor + n
	if i < 0 || i >= e.rangeEnd {
		return false
	}

	e.cursor = i

	return true
}

// NextTo moves the cursor to the first line after it, and before the end of
// the range, that satisfies sel.
func (e *Engine) NextTo(sel Selector) bool {
	for i := e.cursor + 1; i < e.rangeEnd; i++ {
		if groups, ok := sel(e.lines[i]); ok {
			e.capture(groups)
			e.cursor = i

			return true
		}
	}

	return false
}

// Prev moves the cursor to the preceding line.
func (e *Engine) Prev() bool { return e.PrevN(1) }

// PrevN moves the cursor back n lines. The target must be a line of the
// buffer that lies before the end of the range.
func (e *Engine) PrevN(n int) bool {
	i := e.cursor - n
	if i < 0 || i >= e.rangeEnd {
		return false
	}

	e.cursor = i

	return true
}

// PrevTo moves the cursor to the nearest line before it that satisfies sel.
// The scan runs to the start of the buffer and ignores the range.
func (e *Engine) PrevTo(sel Selector) bool {
	for i := e.cursor - 1; i >= 0; i-- {
		if groups, ok := sel(e.lines[i]); ok {
			e.capture(groups)
			e.cursor = i

			return true
		}
	}

	return false
}

// SetCursor moves the cursor to absolute index i, which may equal the end
// of the range but not exceed it.
func (e *Engine) SetCursor(i int) bool {
	if i < 0 || i > e.rangeEnd {
		return false
	}

	e.cursor = i

	return true
}
