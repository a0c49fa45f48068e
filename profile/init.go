package profile

// Config yields the profiler parameters: the profiling mode, the output
// directory for profile data, and whether the profiler announces itself
// on stderr.
type Config func() (mode, dir string, quiet bool)

// Disabled is the base configuration: no mode is selected, so Start
// does nothing until options set one.
func Disabled() (mode, dir string, quiet bool) { return "", "", false }

// Start launches the configured profiler and returns a handle that
// stops it. Without the pprof build tag, or with no mode selected, the
// handle is a no-op. Stop is always safe to call.
func (c Config) Start() interface{ Stop() } {
	mode, dir, quiet := c()

	if mode == "" {
		return noop{}
	}

	return start(mode, dir, quiet)
}

// WithMode selects the profiling mode.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		_, dir, quiet := c()

		return func() (string, string, bool) {
			return mode, dir, quiet
		}
	}
}

// WithPath selects the directory profile data is written to.
func WithPath(dir string) func(Config) Config {
	return func(c Config) Config {
		mode, _, quiet := c()

		return func() (string, string, bool) {
			return mode, dir, quiet
		}
	}
}

// WithQuiet suppresses the profiler's stderr announcement.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		mode, dir, _ := c()

		return func() (string, string, bool) {
			return mode, dir, quiet
		}
	}
}

// noop satisfies the Stop contract while profiling is inactive.
type noop struct{}

func (noop) Stop() {}
