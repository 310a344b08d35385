package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds   = errors.New("index out of range")
	ErrEditDeclined  = errors.New("decline edit")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrMissingFile   = errors.New("missing file name")
	ErrTimeout       = errors.New("script timed out")
)
