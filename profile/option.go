//go:build pprof

package profile

// Option adds one pkg/profile setting to the set passed to its Start.
type Option func(settings) settings

// merge applies options to an existing settings set.
func (s settings) merge(opts ...Option) settings {
	for _, opt := range opts {
		s = opt(s)
	}

	return s
}

// configure folds options over an empty settings set.
func configure(opts ...Option) settings {
	var s settings

	return s.merge(opts...)
}
