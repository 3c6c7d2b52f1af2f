package assets

import (
	"net/http"

	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/renderer/texture"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRenderer is an option builder that sets the Renderer used for GPU
// texture uploads. Without one the loader still fetches, decodes, and caches
// CPU-side handles, which is how the state and cache logic is tested.
//
// Parameters:
//   - r: the renderer instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the renderer option to a loader
func WithRenderer(r renderer.Renderer) LoaderBuilderOption {
	return func(l *loader) {
		l.r = r
	}
}

// WithHTTPClient is an option builder that sets the HTTP client used for
// network fetches. The default client carries no timeout; loads are bounded
// by caller contexts instead.
//
// Parameters:
//   - client: the HTTP client to fetch with
//
// Returns:
//   - LoaderBuilderOption: a function that applies the client option to a loader
func WithHTTPClient(client *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		l.httpClient = client
	}
}

// WithAnisotropy is an option builder that sets the anisotropic filtering cap
// applied to every loaded texture. Defaults to DefaultAnisotropy, minimum 1.
//
// Parameters:
//   - level: the maximum anisotropy level
//
// Returns:
//   - LoaderBuilderOption: a function that applies the anisotropy option to a loader
func WithAnisotropy(level uint16) LoaderBuilderOption {
	return func(l *loader) {
		if level < 1 {
			level = 1
		}
		l.anisotropy = level
	}
}

// WithMipWorkers is an option builder that sets the number of worker
// goroutines used for parallel mip level generation. Defaults to
// runtime.NumCPU()-1, minimum 1.
//
// Parameters:
//   - n: the number of mip workers
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count option to a loader
func WithMipWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n < 1 {
			n = 1
		}
		l.mipWorkers = n
	}
}

// WithOptimizedFormatDisabled is an option builder that disables the
// optimized-format URL rewrite. When set to true, the construction-time
// decoder probe is skipped and every texture loads from its original URL.
//
// Parameters:
//   - disabled: true to skip the optimized-format attempt
//
// Returns:
//   - LoaderBuilderOption: a function that applies the format option to a loader
func WithOptimizedFormatDisabled(disabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.optimizedDisabled = disabled
	}
}

// WithTexture is an option builder that pre-populates the texture cache.
//
// Parameters:
//   - url: the cache key for the texture
//   - tex: the texture handle to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture option to a loader
func WithTexture(url string, tex texture.Texture) LoaderBuilderOption {
	return func(l *loader) {
		l.textureCache[url] = tex
	}
}
