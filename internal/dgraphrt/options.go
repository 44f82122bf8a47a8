package dgraphrt

// Options configures the runtime.
//
// Defaults:
// - MaxConcurrentLoads: 8
type Options struct {
	// MaxConcurrentLoads bounds the root loads of one batch running at once.
	MaxConcurrentLoads int
}

type Option func(*Options)

func defaultOptions() *Options { return &Options{MaxConcurrentLoads: 8} }

func WithMaxConcurrentLoads(n int) Option { return func(o *Options) { o.MaxConcurrentLoads = n } }
