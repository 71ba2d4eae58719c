package resource

import (
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
)

// ResourceLoaderOption configures a ResourceLoader during construction.
type ResourceLoaderOption func(*resourceLoader)

// WithEngine sets the GPU engine uploads go through.
//
// Parameters:
//   - engine: the engine to upload buffers and textures with
//
// Returns:
//   - ResourceLoaderOption: the option to apply
func WithEngine(engine renderer.Engine) ResourceLoaderOption {
	return func(l *resourceLoader) {
		l.engine = engine
	}
}

// WithResolver sets the resolver used for external resource URIs. Without
// one, assets that reference external files fail to load.
//
// Parameters:
//   - resolver: the URI resolver
//
// Returns:
//   - ResourceLoaderOption: the option to apply
func WithResolver(resolver Resolver) ResourceLoaderOption {
	return func(l *resourceLoader) {
		l.resolver = resolver
	}
}

// WithWorkers sets the worker count for asynchronous texture decoding.
// Values below 1 are ignored.
//
// Parameters:
//   - workers: number of decode workers
//
// Returns:
//   - ResourceLoaderOption: the option to apply
func WithWorkers(workers int) ResourceLoaderOption {
	return func(l *resourceLoader) {
		if workers > 0 {
			l.workers = workers
		}
	}
}

// NewResourceLoader builds a ResourceLoader. An engine is required for any
// load to succeed; the resolver is optional for fully embedded assets.
//
// Parameters:
//   - opts: configuration options
//
// Returns:
//   - ResourceLoader: the configured loader
func NewResourceLoader(opts ...ResourceLoaderOption) ResourceLoader {
	l := &resourceLoader{
		workers: 4,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
