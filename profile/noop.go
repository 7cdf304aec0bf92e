//go:build !pprof

package profile

// Enabled reports whether profiling support was compiled in.
func Enabled() bool { return false }

// Modes returns the sorted names of the supported profile kinds, which is
// empty without the pprof build tag.
func Modes() []string { return nil }

func start(Profiler) Stopper { return ignore{} }
