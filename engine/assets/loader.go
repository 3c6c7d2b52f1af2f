package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/renderer/material"
	"github.com/Carmen-Shannon/orrery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/orrery/engine/renderer/texture"

	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/sync/singleflight"
)

// FetcherType identifies the resource fetching backend to use.
type FetcherType int

const (
	// FetcherTypeHTTP selects the fetcher that resolves http(s) URLs over the
	// network and treats every other URL as a local file path.
	FetcherTypeHTTP FetcherType = iota
)

// DefaultAnisotropy is the anisotropic filtering cap applied to every loaded
// texture unless overridden with WithAnisotropy.
const DefaultAnisotropy uint16 = 4

// ErrDisposed is returned by Loader operations invoked after Dispose.
var ErrDisposed = errors.New("asset loader is disposed")

// MaterialConfig enumerates every recognized input for building a composite
// material. Zero values mean unset and receive defaults in a single merge
// step when the material is built: the color defaults to opaque white,
// roughness to fully rough, an emissive kind defaults its intensity to 1, and
// an empty pipeline key is derived from the kind and transparency.
type MaterialConfig struct {
	// Kind selects the shading model (standard, basic, emissive).
	Kind material.MaterialKind
	// Color is the RGBA base color; the alpha channel is the opacity.
	Color [4]float32
	// Emissive is the emissive RGB color.
	Emissive [3]float32
	// EmissiveIntensity scales the emissive term.
	EmissiveIntensity float32
	// Roughness is the surface roughness in [0, 1].
	Roughness float32
	// Metalness is the surface metalness in [0, 1].
	Metalness float32
	// Transparent enables alpha blending.
	Transparent bool
	// NoDepthWrite disables depth-buffer writes. Translucent atmosphere and
	// glow shells set this so the bodies behind them stay visible.
	NoDepthWrite bool
	// DoubleSided disables backface culling. Ring planes set this.
	DoubleSided bool
	// PipelineKey overrides the render pipeline the material draws with.
	PipelineKey string

	// TextureURL is the albedo map URL; empty means base color only.
	TextureURL string
	// NormalURL is the normal map URL.
	NormalURL string
	// RoughnessURL is the roughness map URL.
	RoughnessURL string
	// SpecularURL is the specular map URL.
	SpecularURL string
	// EmissiveURL is the emissive map URL.
	EmissiveURL string
}

// withDefaults returns a copy of the config with the default-merge applied.
func (c MaterialConfig) withDefaults() MaterialConfig {
	if c.Color == ([4]float32{}) {
		c.Color = [4]float32{1, 1, 1, 1}
	}
	if c.Roughness == 0 {
		c.Roughness = 1
	}
	if c.EmissiveIntensity == 0 && c.Kind == material.KindEmissive {
		c.EmissiveIntensity = 1
	}
	if c.PipelineKey == "" {
		switch {
		case c.Kind == material.KindStandard:
			c.PipelineKey = pipeline.KeyBody
		case c.Transparent:
			c.PipelineKey = pipeline.KeyUnlitBlend
		default:
			c.PipelineKey = pipeline.KeyUnlit
		}
	}
	return c
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	r renderer.Renderer

	textureCache  map[string]texture.Texture
	materialCache map[string]material.Material

	// flight de-duplicates concurrent loads of one URL: every caller waiting
	// on the same key receives the identical texture handle from one fetch.
	flight singleflight.Group

	fetcher    fetcher
	httpClient *http.Client

	// optimizedExt is the extension of the preferred texture format, chosen
	// once at construction from the decoder capability probe. Empty disables
	// the rewrite and every texture loads from its original URL.
	optimizedExt      string
	optimizedDisabled bool

	// mipPool manages a bounded set of reusable goroutines for parallel mip
	// level generation. Workers persist across loads, avoiding per-texture
	// goroutine spawn/teardown overhead.
	mipPool    worker.DynamicWorkerPool
	mipWorkers int

	anisotropy uint16

	loadedCount atomic.Int64
	totalCount  atomic.Int64

	disposed bool

	fallbackOnce     sync.Once
	fallbackAlbedo   texture.Texture
	fallbackNormal   texture.Texture
	fallbackEmissive texture.Texture
}

// Loader defines the public-facing interface for fetching, decoding, and
// caching textures, and for building the composite materials bodies render
// with. Textures and materials are cached process-wide and shared by
// reference; the loader owns them and releases them on Dispose. Fetches run
// on the caller's goroutine so the render loop stays unblocked by running
// loads on its own goroutines and hot-swapping when they settle.
type Loader interface {
	// PreloadTexture fetches, decodes, and uploads the texture at the given
	// URL, caching the result. Concurrent calls for one URL share a single
	// underlying fetch and resolve to the identical texture handle. When an
	// optimized format is available the URL is first tried rewritten to that
	// format's extension, falling back to the original URL; both failing is
	// an error and nothing is cached, so a later call retries from scratch.
	// Every returned texture carries a full mip chain, clamp-to-edge
	// addressing, trilinear filtering, and capped anisotropy.
	//
	// The context of the call that initiates the fetch governs it; concurrent
	// callers for the same URL share its outcome.
	//
	// Parameters:
	//   - ctx: the context governing the fetch
	//   - url: the texture URL or file path
	//
	// Returns:
	//   - texture.Texture: the cached texture handle
	//   - error: error if both the optimized and original forms fail to load
	PreloadTexture(ctx context.Context, url string) (texture.Texture, error)

	// GetTexture retrieves the texture for a URL, loading it if it is not
	// cached. Failures are logged and return nil rather than an error; a
	// failed URL is never cached, so a later call retries.
	//
	// Parameters:
	//   - url: the texture URL or file path
	//
	// Returns:
	//   - texture.Texture: the texture handle, or nil if the load failed
	GetTexture(url string) texture.Texture

	// Material builds the composite material for an id and caches it, waiting
	// for all referenced texture sub-loads to settle first. A failed sub-load
	// leaves its texture slot nil and the base color carries the body; only
	// disposal fails the call. Repeated calls with the same id return the
	// cached instance regardless of config.
	//
	// Parameters:
	//   - id: the cache key for the material
	//   - cfg: the material configuration; zero values receive defaults
	//
	// Returns:
	//   - material.Material: the cached composite material
	//   - error: ErrDisposed if the loader has been disposed
	Material(id string, cfg MaterialConfig) (material.Material, error)

	// FallbackAlbedo retrieves the shared 1x1 opaque white texture used to
	// fill albedo, roughness, and specular bindings that have no map of
	// their own.
	//
	// Returns:
	//   - texture.Texture: the white fallback texture
	FallbackAlbedo() texture.Texture

	// FallbackNormal retrieves the shared 1x1 flat normal texture used to
	// fill normal map bindings that have no map of their own.
	//
	// Returns:
	//   - texture.Texture: the flat-normal fallback texture
	FallbackNormal() texture.Texture

	// FallbackEmissive retrieves the shared 1x1 black texture used to fill
	// emissive bindings that have no map of their own.
	//
	// Returns:
	//   - texture.Texture: the black fallback texture
	FallbackEmissive() texture.Texture

	// OptimizedFormatEnabled reports whether the construction-time decoder
	// probe found an optimized format, enabling the URL rewrite.
	//
	// Returns:
	//   - bool: true if optimized-format URLs are tried first
	OptimizedFormatEnabled() bool

	// Progress reports aggregate load progress. A load counts toward total
	// when its fetch starts and toward loaded when it settles, successfully
	// or not, so loaded always reaches total. Cache hits touch neither.
	//
	// Returns:
	//   - loaded: the number of settled loads
	//   - total: the number of started loads
	Progress() (loaded, total int)

	// TextureCount retrieves the number of cached textures.
	//
	// Returns:
	//   - int: the texture cache size
	TextureCount() int

	// MaterialCount retrieves the number of cached materials.
	//
	// Returns:
	//   - int: the material cache size
	MaterialCount() int

	// EstimatedTextureBytes estimates the memory held by cached textures as
	// the sum of width*height*4 per texture. This is an approximation: mip
	// levels and GPU padding are not counted.
	//
	// Returns:
	//   - uint64: the estimated byte total
	EstimatedTextureBytes() uint64

	// Dispose releases every cached texture and fallback, clears the caches,
	// and zeroes the progress counters. In-flight loads are not cancelled;
	// their results are released and dropped when they settle. Safe to call
	// more than once; all other methods fail or no-op afterwards.
	Dispose()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified fetcher type and
// options applied. Decoder capability for the optimized texture format is
// probed once here; see OptimizedFormatEnabled.
//
// Parameters:
//   - fetcherType: the type of resource fetcher to use (e.g., FetcherTypeHTTP)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided fetcher and options
func NewLoader(fetcherType FetcherType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:            sync.RWMutex{},
		textureCache:  make(map[string]texture.Texture),
		materialCache: make(map[string]material.Material),
		anisotropy:    DefaultAnisotropy,
		mipWorkers:    max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(l)
	}

	// Initialize the fetcher after options so WithHTTPClient can override the default client.
	switch fetcherType {
	case FetcherTypeHTTP:
		l.fetcher = newHTTPFetcher(l.httpClient)
	}

	// Probe decoder capability once. Rewriting URLs toward a format nothing
	// can decode would turn every load into a guaranteed first-attempt miss.
	if !l.optimizedDisabled {
		l.optimizedExt = probeOptimizedFormat()
	}

	// Initialize the mip pool after options so WithMipWorkers can override the default.
	l.mipPool = worker.NewDynamicWorkerPool(l.mipWorkers, 64, 1*time.Second)

	return l
}

func (l *loader) PreloadTexture(ctx context.Context, url string) (texture.Texture, error) {
	return l.load(ctx, url, false)
}

func (l *loader) GetTexture(url string) texture.Texture {
	tex, err := l.load(context.Background(), url, false)
	if err != nil {
		log.Printf("[Assets] texture %s unavailable: %v", url, err)
		return nil
	}
	return tex
}

func (l *loader) Material(id string, cfg MaterialConfig) (material.Material, error) {
	l.mu.RLock()
	if l.disposed {
		l.mu.RUnlock()
		return nil, ErrDisposed
	}
	if cached, ok := l.materialCache[id]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	cfg = cfg.withDefaults()

	// Resolve every referenced texture before constructing. Sub-loads run
	// concurrently and are shared with any in-flight PreloadTexture calls
	// for the same URLs; data maps load as linear so they are not
	// gamma-decoded on sampling.
	var albedo, normal, roughness, specular, emissive texture.Texture
	var wg sync.WaitGroup
	subLoad := func(url string, linear bool, dst *texture.Texture) {
		if url == "" {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			tex, err := l.load(context.Background(), url, linear)
			if err != nil {
				log.Printf("[Assets] material %s: texture %s unavailable, using base color: %v", id, url, err)
				return
			}
			*dst = tex
		}()
	}
	subLoad(cfg.TextureURL, false, &albedo)
	subLoad(cfg.NormalURL, true, &normal)
	subLoad(cfg.RoughnessURL, true, &roughness)
	subLoad(cfg.SpecularURL, true, &specular)
	subLoad(cfg.EmissiveURL, false, &emissive)
	wg.Wait()

	mat := material.NewMaterial(cfg.Kind,
		material.WithName(id),
		material.WithColor(cfg.Color),
		material.WithEmissive(cfg.Emissive, cfg.EmissiveIntensity),
		material.WithRoughness(cfg.Roughness),
		material.WithMetalness(cfg.Metalness),
		material.WithTransparent(cfg.Transparent),
		material.WithDepthWrite(!cfg.NoDepthWrite),
		material.WithDoubleSided(cfg.DoubleSided),
		material.WithPipelineKey(cfg.PipelineKey),
		material.WithAlbedoTexture(albedo),
		material.WithNormalTexture(normal),
		material.WithRoughnessTexture(roughness),
		material.WithSpecularTexture(specular),
		material.WithEmissiveTexture(emissive),
	)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disposed {
		return nil, ErrDisposed
	}
	if existing, ok := l.materialCache[id]; ok {
		// A concurrent call for the same id finished first; its instance is
		// the cached one.
		return existing, nil
	}
	l.materialCache[id] = mat
	return mat, nil
}

func (l *loader) FallbackAlbedo() texture.Texture {
	l.ensureFallbacks()
	return l.fallbackAlbedo
}

func (l *loader) FallbackNormal() texture.Texture {
	l.ensureFallbacks()
	return l.fallbackNormal
}

func (l *loader) FallbackEmissive() texture.Texture {
	l.ensureFallbacks()
	return l.fallbackEmissive
}

func (l *loader) OptimizedFormatEnabled() bool {
	return l.optimizedExt != ""
}

func (l *loader) Progress() (loaded, total int) {
	return int(l.loadedCount.Load()), int(l.totalCount.Load())
}

func (l *loader) TextureCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.textureCache)
}

func (l *loader) MaterialCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.materialCache)
}

func (l *loader) EstimatedTextureBytes() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total uint64
	for _, tex := range l.textureCache {
		total += uint64(tex.Width()) * uint64(tex.Height()) * 4
	}
	return total
}

func (l *loader) Dispose() {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return
	}
	l.disposed = true

	textures := l.textureCache
	l.textureCache = make(map[string]texture.Texture)
	l.materialCache = make(map[string]material.Material)

	fallbacks := []texture.Texture{l.fallbackAlbedo, l.fallbackNormal, l.fallbackEmissive}
	l.fallbackAlbedo, l.fallbackNormal, l.fallbackEmissive = nil, nil, nil
	l.mu.Unlock()

	for _, tex := range textures {
		tex.Release()
	}
	for _, tex := range fallbacks {
		if tex != nil {
			tex.Release()
		}
	}

	l.loadedCount.Store(0)
	l.totalCount.Store(0)
}

// load resolves a texture through the cache, de-duplicating concurrent
// requests for the same URL through the flight group. A URL's color space is
// fixed by whichever load reaches it first; material sub-loads pass linear
// for data maps.
func (l *loader) load(ctx context.Context, url string, linear bool) (texture.Texture, error) {
	if url == "" {
		return nil, fmt.Errorf("texture url is empty")
	}

	l.mu.RLock()
	if l.disposed {
		l.mu.RUnlock()
		return nil, ErrDisposed
	}
	if cached, ok := l.textureCache[url]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	v, err, _ := l.flight.Do(url, func() (any, error) {
		// A just-completed flight may have cached this URL between the
		// caller's cache check and this execution.
		l.mu.RLock()
		if cached, ok := l.textureCache[url]; ok {
			l.mu.RUnlock()
			return cached, nil
		}
		l.mu.RUnlock()

		l.totalCount.Add(1)
		defer l.loadedCount.Add(1)

		tex, err := l.fetchAndUpload(ctx, url, linear)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		if l.disposed {
			l.mu.Unlock()
			tex.Release()
			return nil, ErrDisposed
		}
		l.textureCache[url] = tex
		l.mu.Unlock()
		return tex, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(texture.Texture), nil
}

// fetchAndUpload fetches and decodes the image behind url, preferring the
// optimized-format variant, generates the mip chain, and uploads the result.
// Loaders without a renderer cache CPU-side handles so cache behavior is
// identical in headless use.
func (l *loader) fetchAndUpload(ctx context.Context, url string, linear bool) (texture.Texture, error) {
	var rgba *image.RGBA

	if optimized := l.optimizedVariant(url); optimized != "" {
		img, err := l.fetchDecode(ctx, optimized)
		if err != nil {
			log.Printf("[Assets] optimized variant %s unavailable, falling back to %s: %v", optimized, url, err)
		} else {
			rgba = img
		}
	}

	if rgba == nil {
		img, err := l.fetchDecode(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to load texture %s: %w", url, err)
		}
		rgba = img
	}

	bounds := rgba.Bounds()
	stagingData := common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Mips:   l.generateMipChain(rgba),
		Linear: linear,
	}

	if l.r == nil {
		byteSize := uint64(len(stagingData.Pixels))
		for _, mip := range stagingData.Mips {
			byteSize += uint64(len(mip))
		}
		return texture.NewTexture(
			texture.WithLabel(url),
			texture.WithSize(stagingData.Width, stagingData.Height),
			texture.WithMipLevelCount(stagingData.MipLevelCount()),
			texture.WithByteSize(byteSize),
		), nil
	}

	return l.r.InitTexture(url, stagingData, l.samplerData())
}

// fetchDecode fetches the resource at url and decodes it to RGBA pixels.
func (l *loader) fetchDecode(ctx context.Context, url string) (*image.RGBA, error) {
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	rgba, err := decodeRGBA(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return rgba, nil
}

// samplerData returns the engine's texture sampling policy: clamp-to-edge
// addressing, trilinear filtering across the mip chain, and capped anisotropy.
func (l *loader) samplerData() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: l.anisotropy,
	}
}

// ensureFallbacks lazily creates the shared 1x1 fallback textures. Materials
// bind these into texture slots that have no map so bind groups stay complete.
func (l *loader) ensureFallbacks() {
	l.fallbackOnce.Do(func() {
		l.mu.RLock()
		disposed := l.disposed
		l.mu.RUnlock()
		if disposed {
			return
		}

		// White is a no-op multiply for color and parameter maps.
		l.fallbackAlbedo = l.buildFallback("fallback_albedo", [4]byte{255, 255, 255, 255}, false)
		// Flat tangent-space normal pointing straight up: (0.5, 0.5, 1.0).
		l.fallbackNormal = l.buildFallback("fallback_normal", [4]byte{128, 128, 255, 255}, true)
		// Black contributes no emission.
		l.fallbackEmissive = l.buildFallback("fallback_emissive", [4]byte{0, 0, 0, 255}, false)
	})
}

// buildFallback creates a single-pixel texture, or a CPU-side handle when no
// renderer is configured.
func (l *loader) buildFallback(label string, pixel [4]byte, linear bool) texture.Texture {
	stagingData := common.TextureStagingData{
		Pixels: pixel[:],
		Width:  1,
		Height: 1,
		Linear: linear,
	}

	if l.r == nil {
		return texture.NewTexture(
			texture.WithLabel(label),
			texture.WithSize(1, 1),
			texture.WithMipLevelCount(1),
			texture.WithByteSize(uint64(len(stagingData.Pixels))),
		)
	}

	tex, err := l.r.InitTexture(label, stagingData, l.samplerData())
	if err != nil {
		log.Printf("[Assets] failed to create %s: %v", label, err)
		return nil
	}
	return tex
}
