// Package profile provides optional runtime profiling for the mson command.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o mson .
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
//
// # Modes
//
//   - allocs:    all memory allocations
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock time
//   - cpu:       CPU time
//   - goroutine: live goroutines
//   - heap:      live heap allocations
//   - mem:       general memory
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// # Usage
//
//	s := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}.Start()
//	defer s.Stop()
//
// The command exposes the same through flags:
//
//	mson --pprof-mode=cpu export mson:steve
//	mson --pprof-mode=heap --pprof-dir=./profiles mesh mson:steve
//
// Profiles land in the directory as <mode>.pprof (trace.out for traces),
// ready for go tool pprof:
//
//	go tool pprof -http=: ./mson /tmp/profiles/cpu.pprof
//
// The tagged build also registers the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
