package calc

import (
	"github.com/endarthur/spinifex-sub001/lang"
	"github.com/endarthur/spinifex-sub001/log"
	"github.com/endarthur/spinifex-sub001/raster"
)

// Option applies a configuration option to a calculator call.
type Option func(config) config

// ProgressFunc receives (done, total) chunk counts as the pixel loop
// advances. It is called from worker goroutines and must be safe for
// concurrent use.
type ProgressFunc func(done, total int)

type config struct {
	name       string
	primary    string
	nodata     float64
	nodataSet  bool
	stretchMin float64
	stretchMax float64
	stretchSet bool
	workers    int
	progress   ProgressFunc
	store      *raster.Store
	cache      *lang.Cache
	strict     bool
	logger     log.Logger
}

func makeConfig(opts ...Option) config {
	cfg := config{
		name:    "calc",
		workers: defaultWorkers(),
		logger:  log.Default(),
	}

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	if cfg.workers < 1 {
		cfg.workers = 1
	}

	return cfg
}

// parse resolves the expression source through the configured cache,
// if any.
func (c config) parse(src string) (lang.Node, error) {
	switch {
	case c.cache != nil && c.strict:
		return c.cache.ParseStrict(src)
	case c.cache != nil:
		return c.cache.Parse(src)
	case c.strict:
		return lang.ParseStrict(src)
	default:
		return lang.Parse(src)
	}
}

// governingNodata picks the sentinel for the whole call: an explicit
// override wins, then the primary input, then the first input name in
// sorted order.
func (c config) governingNodata(inputs map[string]*raster.Dataset) float64 {
	if c.nodataSet {
		return c.nodata
	}

	if c.primary != "" {
		if d, ok := inputs[c.primary]; ok {
			return d.Nodata
		}
	}

	names := sortedNames(inputs)

	return inputs[names[0]].Nodata
}

// WithName sets the name of the output layer. Defaults to "calc".
func WithName(name string) Option {
	return func(c config) config {
		c.name = name

		return c
	}
}

// WithPrimary names the input whose nodata value governs the call when
// no explicit nodata is set.
func WithPrimary(name string) Option {
	return func(c config) config {
		c.primary = name

		return c
	}
}

// WithNodata overrides the governing nodata sentinel for the call and
// the output dataset.
func WithNodata(nodata float64) Option {
	return func(c config) config {
		c.nodata = nodata
		c.nodataSet = true

		return c
	}
}

// WithStretch pins the output's visualization stretch bounds instead
// of scanning the computed values.
func WithStretch(min, max float64) Option {
	return func(c config) config {
		c.stretchMin = min
		c.stretchMax = max
		c.stretchSet = true

		return c
	}
}

// WithWorkers sets the pixel-loop worker count. Non-positive values
// keep the default of GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c config) config {
		if n > 0 {
			c.workers = n
		}

		return c
	}
}

// WithProgress installs a chunk-granularity progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c config) config {
		c.progress = fn

		return c
	}
}

// WithStore registers the output dataset with a layer store on
// success.
func WithStore(store *raster.Store) Option {
	return func(c config) config {
		c.store = store

		return c
	}
}

// WithCache parses the expression through a shared parse cache.
func WithCache(cache *lang.Cache) Option {
	return func(c config) config {
		c.cache = cache

		return c
	}
}

// WithStrict tokenizes the expression strictly, rejecting characters
// outside the language instead of dropping them.
func WithStrict(strict bool) Option {
	return func(c config) config {
		c.strict = strict

		return c
	}
}

// WithLogger routes calculator diagnostics to the given logger.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}
