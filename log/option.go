package log

// Option transforms a logger configuration, returning the updated copy.
type Option func(config) config

// Options combines several options into one.
func Options(opts ...Option) Option {
	return func(cfg config) config {
		return apply(cfg, opts...)
	}
}

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}
