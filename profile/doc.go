// Package profile provides optional runtime profiling for the dash
// interpreter.
//
// Profiling integrates [github.com/pkg/profile] and is compiled in only when
// building with the "pprof" tag:
//
//	go build -tags pprof .
//
// Without the tag, [Profiler.Start] returns a no-op and [Modes] is empty, so
// callers never need their own build constraints.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     block (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/dash", Quiet: true}
//	defer p.Start().Stop()
//
// Profiles are written to Path as <mode>.pprof and analyzed with
// "go tool pprof". From the command line:
//
//	dash --pprof-mode=cpu run fib.dash
//	go tool pprof -http=: ~/.cache/dash/pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
