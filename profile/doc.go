// Package profile wraps [github.com/pkg/profile] behind a build tag.
//
// Built with -tags pprof, [Profiler.Start] writes the selected profile to
// a directory and the package registers the net/http/pprof handlers.
// Without the tag every mode is rejected, [Modes] is empty and Start returns
// a no-op, so callers need no build constraints of their own.
//
//	p := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}
//	defer p.Start().Stop()
//
// The profile files are read with go tool pprof:
//
//	go build -tags pprof -o fsexpr .
//	./fsexpr --pprof-mode=cpu eval 'Math.max(1, 2)'
//	go tool pprof -http=: fsexpr ~/.cache/fsexpr/pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
