//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// profilers maps each selectable mode to the pkg/profile setting that
// activates it. The quiet entry is not a mode of its own: it suppresses
// the profiler's stderr output and never appears in [Modes].
var profilers = map[string]func(*profile.Profile){
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
	"quiet":     profile.Quiet,
}

// Modes returns the profiling modes selectable from the constgen
// command line when built with the pprof tag.
var Modes = sync.OnceValue(
	func() []string {
		m := maps.Clone(profilers)
		delete(m, "quiet")

		return slices.Sorted(maps.Keys(m))
	},
)

// settings accumulates the pkg/profile arguments for one run.
type settings struct {
	funcs []func(*profile.Profile)
}

func start(mode, dir string, quiet bool) interface{ Stop() } {
	s := configure(withMode(mode))

	if len(s.funcs) == 0 {
		return noop{}
	}

	return profile.Start(
		s.merge(withDir(dir), withQuiet(quiet)).funcs...,
	)
}

func withMode(m string) Option {
	return func(s settings) settings {
		if fn, ok := profilers[m]; ok {
			s.funcs = append(s.funcs, fn)
		}

		return s
	}
}

func withDir(d string) Option {
	return func(s settings) settings {
		if d != "" {
			s.funcs = append(s.funcs, profile.ProfilePath(d))
		}

		return s
	}
}

func withQuiet(v bool) Option {
	return func(s settings) settings {
		if v {
			s.funcs = append(s.funcs, profile.Quiet)
		}

		return s
	}
}
