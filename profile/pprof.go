//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"
)

// Modes returns the sorted list of supported profiling modes.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(mode))
	},
)

var mode = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// option appends pkg/profile settings derived from a Profiler.
type option func(Profiler, []func(*profile.Profile)) []func(*profile.Profile)

func withMode(p Profiler, opts []func(*profile.Profile)) []func(*profile.Profile) {
	if fn, ok := mode[p.Mode]; ok {
		opts = append(opts, fn)
	}

	return opts
}

func withPath(p Profiler, opts []func(*profile.Profile)) []func(*profile.Profile) {
	if p.Path != "" {
		opts = append(opts, profile.ProfilePath(p.Path))
	}

	return opts
}

func withQuiet(p Profiler, opts []func(*profile.Profile)) []func(*profile.Profile) {
	if p.Quiet {
		opts = append(opts, profile.Quiet)
	}

	return opts
}

func start(p Profiler) Stopper {
	if _, ok := mode[p.Mode]; !ok {
		return ignore{}
	}

	var opts []func(*profile.Profile)

	for _, fn := range []option{withMode, withPath, withQuiet} {
		opts = fn(p, opts)
	}

	// Without NoShutdownHook pkg/profile calls os.Exit on SIGINT, which would
	// bypass the interpreter's own cancellation.
	opts = append(opts, profile.NoShutdownHook)

	return profile.Start(opts...)
}
