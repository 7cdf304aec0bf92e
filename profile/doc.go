// Package profile wraps [github.com/pkg/profile] so the formula command can
// record runtime profiles of the evaluator.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o formula .
//	formula --pprof-mode=cpu --pprof-dir=/tmp/prof eval 'SQRT(2)^2'
//
// Without the tag, [Enabled] reports false, [Modes] is empty and
// [Profiler.Start] does nothing. The returned [Stopper] is always safe to
// call.
//
// Inspect the result with the pprof tool:
//
//	go tool pprof -http=: /tmp/prof/cpu.pprof
package profile
