package lang

// Result is the outcome of executing a command.
type Result uint8

const (
	// Failed means the command did not apply. Sequences stop here and
	// alternatives move on.
	Failed Result = iota
	// Passed means the command applied.
	Passed
	// Aborted means execution must stop immediately. It propagates through
	// every enclosing command.
	Aborted
)

// String returns the lower-case name of the result.
func (r Result) String() string {
	switch r {
	case Failed:
		return "failed"
	case Passed:
		return "passed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Ok reports whether r is [Passed].
func (r Result) Ok() bool { return r == Passed }

func resultOf(ok bool) Result {
	if ok {
		return Passed
	}

	return Failed
}
