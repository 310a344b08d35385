package profile

import "slices"

// Tag is the build tag that enables profiling. It also names the default
// profile output directory.
const Tag = "pprof"

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty Mode disables profiling.
	Mode string
	// Path is the directory receiving profile output.
	Path string
	// Quiet suppresses the profiler's own start/stop messages.
	Quiet bool
}

// Enabled reports whether p would start a profiler in this build.
func (p Profiler) Enabled() bool {
	return p.Mode != "" && slices.Contains(Modes(), p.Mode)
}

// Start starts the profiler described by p.
//
// The returned Stopper is a no-op when profiling is disabled, when the binary
// was built without the pprof tag, or when Mode is not recognized.
func (p Profiler) Start() Stopper {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
