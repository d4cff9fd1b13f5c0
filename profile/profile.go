package profile

// Stopper stops a running profiler and flushes its output.
type Stopper interface {
	Stop()
}

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Path is the directory receiving profile files. The working directory
	// is used if empty.
	Path string
	// Quiet suppresses the profiler's own log messages.
	Quiet bool
}

// Start begins profiling and returns a [Stopper] that ends it.
//
// If the binary was built without the pprof tag or p.Mode is not a supported
// mode, Start returns a no-op. Both Start and Stop are always safely callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether p would start a real profiler.
func (p Profiler) Enabled() bool {
	for _, m := range Modes() {
		if m == p.Mode {
			return true
		}
	}

	return false
}

type ignore struct{}

func (ignore) Stop() {}
