package assets

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/orrery/engine/renderer/material"
	"github.com/Carmen-Shannon/orrery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/orrery/engine/renderer/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textureServer serves canned image bytes and counts requests per path.
type textureServer struct {
	mu        sync.Mutex
	responses map[string][]byte
	hits      map[string]int
	srv       *httptest.Server
}

func newTextureServer(t *testing.T) *textureServer {
	t.Helper()
	ts := &textureServer{
		responses: make(map[string][]byte),
		hits:      make(map[string]int),
	}
	ts.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.hits[r.URL.Path]++
		body, ok := ts.responses[r.URL.Path]
		ts.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *textureServer) serve(path string, body []byte) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.responses[path] = body
}

func (ts *textureServer) hitCount(path string) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.hits[path]
}

func (ts *textureServer) url(path string) string {
	return ts.srv.URL + path
}

// encodePNG renders a solid-color png for use as a texture fixture.
func encodePNG(t *testing.T, width, height int, c color.RGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidRGBA(width, height, c)))
	return buf.Bytes()
}

func TestPreloadTextureDeduplicatesConcurrentRequests(t *testing.T) {
	ts := newTextureServer(t)
	ts.serve("/earth.png", encodePNG(t, 4, 4, color.RGBA{R: 30, G: 60, B: 200, A: 255}))

	l := NewLoader(FetcherTypeHTTP)
	t.Cleanup(l.Dispose)

	url := ts.url("/earth.png")
	const callers = 8
	results := make([]texture.Texture, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			tex, err := l.PreloadTexture(context.Background(), url)
			assert.NoError(t, err)
			results[idx] = tex
		}(i)
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for i := 1; i < callers; i++ {
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 1, ts.hitCount("/earth.png"))
	assert.Equal(t, 1, l.TextureCount())

	loaded, total := l.Progress()
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 1, total)
}

func TestPreloadTexturePrefersOptimizedVariant(t *testing.T) {
	ts := newTextureServer(t)
	// The variant is decoded by content, not extension, so serving png bytes
	// at the webp path keeps the fixture self-contained.
	ts.serve("/earth.webp", encodePNG(t, 4, 2, color.RGBA{R: 10, G: 120, B: 40, A: 255}))
	ts.serve("/earth.png", encodePNG(t, 4, 2, color.RGBA{R: 10, G: 120, B: 40, A: 255}))

	l := NewLoader(FetcherTypeHTTP)
	t.Cleanup(l.Dispose)

	tex, err := l.PreloadTexture(context.Background(), ts.url("/earth.png"))
	require.NoError(t, err)
	require.NotNil(t, tex)

	assert.Equal(t, uint32(4), tex.Width())
	assert.Equal(t, uint32(2), tex.Height())
	assert.Equal(t, uint32(3), tex.MipLevelCount())
	assert.Equal(t, 1, ts.hitCount("/earth.webp"))
	assert.Equal(t, 0, ts.hitCount("/earth.png"))

	// The cache key is the requested URL, not the optimized variant.
	assert.Same(t, tex, l.GetTexture(ts.url("/earth.png")))
}

func TestPreloadTextureFallsBackToOriginal(t *testing.T) {
	ts := newTextureServer(t)
	ts.serve("/mars.png", encodePNG(t, 2, 2, color.RGBA{R: 180, G: 90, B: 30, A: 255}))

	l := NewLoader(FetcherTypeHTTP)
	t.Cleanup(l.Dispose)

	tex, err := l.PreloadTexture(context.Background(), ts.url("/mars.png"))
	require.NoError(t, err)
	require.NotNil(t, tex)

	assert.Equal(t, 1, ts.hitCount("/mars.webp"))
	assert.Equal(t, 1, ts.hitCount("/mars.png"))
}

func TestOptimizedFormatDisabledSkipsRewrite(t *testing.T) {
	ts := newTextureServer(t)
	ts.serve("/earth.png", encodePNG(t, 2, 2, color.RGBA{R: 60, G: 60, B: 60, A: 255}))
	ts.serve("/earth.webp", encodePNG(t, 2, 2, color.RGBA{R: 60, G: 60, B: 60, A: 255}))

	l := NewLoader(FetcherTypeHTTP, WithOptimizedFormatDisabled(true))
	t.Cleanup(l.Dispose)

	assert.False(t, l.OptimizedFormatEnabled())

	_, err := l.PreloadTexture(context.Background(), ts.url("/earth.png"))
	require.NoError(t, err)
	assert.Equal(t, 0, ts.hitCount("/earth.webp"))
	assert.Equal(t, 1, ts.hitCount("/earth.png"))
}

func TestGetTextureFailureIsNotCached(t *testing.T) {
	ts := newTextureServer(t)

	l := NewLoader(FetcherTypeHTTP)
	t.Cleanup(l.Dispose)

	tex := l.GetTexture(ts.url("/venus.png"))
	assert.Nil(t, tex)
	assert.Equal(t, 0, l.TextureCount())

	loaded, total := l.Progress()
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 1, total)

	// The failure was not cached; serving the file makes a retry succeed.
	ts.serve("/venus.png", encodePNG(t, 2, 2, color.RGBA{R: 220, G: 200, B: 160, A: 255}))
	retry := l.GetTexture(ts.url("/venus.png"))
	require.NotNil(t, retry)
	assert.Equal(t, 1, l.TextureCount())
}

func TestPreloadTextureFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "luna.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 2, 2, color.RGBA{R: 140, G: 140, B: 140, A: 255}), 0o644))

	l := NewLoader(FetcherTypeHTTP)
	t.Cleanup(l.Dispose)

	tex, err := l.PreloadTexture(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, tex)
	assert.Equal(t, uint32(2), tex.Width())
	assert.Equal(t, uint32(2), tex.Height())
}

func TestEstimatedTextureBytes(t *testing.T) {
	ts := newTextureServer(t)
	ts.serve("/a.png", encodePNG(t, 4, 4, color.RGBA{A: 255}))
	ts.serve("/b.png", encodePNG(t, 2, 2, color.RGBA{A: 255}))

	l := NewLoader(FetcherTypeHTTP)
	t.Cleanup(l.Dispose)

	_, err := l.PreloadTexture(context.Background(), ts.url("/a.png"))
	require.NoError(t, err)
	_, err = l.PreloadTexture(context.Background(), ts.url("/b.png"))
	require.NoError(t, err)

	// Base level only: 4*4*4 + 2*2*4.
	assert.Equal(t, uint64(80), l.EstimatedTextureBytes())
}

func TestMaterialIsCachedByID(t *testing.T) {
	ts := newTextureServer(t)
	ts.serve("/earth.webp", encodePNG(t, 4, 4, color.RGBA{R: 20, G: 90, B: 200, A: 255}))

	l := NewLoader(FetcherTypeHTTP)
	t.Cleanup(l.Dispose)

	cfg := MaterialConfig{
		Kind:       material.KindStandard,
		Color:      [4]float32{0.2, 0.4, 0.8, 1},
		Roughness:  0.7,
		TextureURL: ts.url("/earth.png"),
		NormalURL:  ts.url("/missing_normal.png"),
	}
	mat, err := l.Material("earth", cfg)
	require.NoError(t, err)
	require.NotNil(t, mat)

	assert.Equal(t, material.KindStandard, mat.Kind())
	assert.Equal(t, pipeline.KeyBody, mat.PipelineKey())
	assert.NotNil(t, mat.AlbedoTexture())
	// The failed normal sub-load degrades to the base-color path.
	assert.Nil(t, mat.NormalTexture())

	again, err := l.Material("earth", MaterialConfig{Kind: material.KindBasic})
	require.NoError(t, err)
	assert.Same(t, mat, again)
	assert.Equal(t, 1, l.MaterialCount())
}

func TestMaterialDepthWriteAndTransparency(t *testing.T) {
	l := NewLoader(FetcherTypeHTTP)
	t.Cleanup(l.Dispose)

	mat, err := l.Material("atmosphere", MaterialConfig{
		Kind:         material.KindBasic,
		Color:        [4]float32{0.3, 0.5, 1, 0.25},
		Transparent:  true,
		NoDepthWrite: true,
	})
	require.NoError(t, err)

	assert.True(t, mat.Transparent())
	assert.False(t, mat.DepthWrite())
	assert.Equal(t, pipeline.KeyUnlitBlend, mat.PipelineKey())
	assert.InDelta(t, 0.25, float64(mat.Opacity()), 1e-6)
}

func TestMaterialConfigDefaults(t *testing.T) {
	white := [4]float32{1, 1, 1, 1}
	tests := []struct {
		name          string
		cfg           MaterialConfig
		wantColor     [4]float32
		wantRoughness float32
		wantIntensity float32
		wantKey       string
	}{
		{
			name:          "standard defaults",
			cfg:           MaterialConfig{Kind: material.KindStandard},
			wantColor:     white,
			wantRoughness: 1,
			wantKey:       pipeline.KeyBody,
		},
		{
			name:          "basic opaque",
			cfg:           MaterialConfig{Kind: material.KindBasic},
			wantColor:     white,
			wantRoughness: 1,
			wantKey:       pipeline.KeyUnlit,
		},
		{
			name:          "basic transparent",
			cfg:           MaterialConfig{Kind: material.KindBasic, Transparent: true},
			wantColor:     white,
			wantRoughness: 1,
			wantKey:       pipeline.KeyUnlitBlend,
		},
		{
			name:          "emissive intensity",
			cfg:           MaterialConfig{Kind: material.KindEmissive},
			wantColor:     white,
			wantRoughness: 1,
			wantIntensity: 1,
			wantKey:       pipeline.KeyUnlit,
		},
		{
			name: "explicit values kept",
			cfg: MaterialConfig{
				Kind:        material.KindStandard,
				Color:       [4]float32{1, 0, 0, 0.5},
				Roughness:   0.3,
				PipelineKey: "custom",
			},
			wantColor:     [4]float32{1, 0, 0, 0.5},
			wantRoughness: 0.3,
			wantKey:       "custom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.withDefaults()
			assert.Equal(t, tt.wantColor, got.Color)
			assert.Equal(t, tt.wantRoughness, got.Roughness)
			assert.Equal(t, tt.wantIntensity, got.EmissiveIntensity)
			assert.Equal(t, tt.wantKey, got.PipelineKey)
		})
	}
}

func TestFallbackTextures(t *testing.T) {
	l := NewLoader(FetcherTypeHTTP)
	t.Cleanup(l.Dispose)

	albedo := l.FallbackAlbedo()
	normal := l.FallbackNormal()
	emissive := l.FallbackEmissive()
	require.NotNil(t, albedo)
	require.NotNil(t, normal)
	require.NotNil(t, emissive)

	assert.Equal(t, "fallback_albedo", albedo.Label())
	assert.Equal(t, "fallback_normal", normal.Label())
	assert.Equal(t, "fallback_emissive", emissive.Label())
	assert.NotSame(t, albedo, normal)

	// Created once, stable across calls.
	assert.Same(t, albedo, l.FallbackAlbedo())
	assert.Same(t, emissive, l.FallbackEmissive())
}

func TestDisposeIdempotent(t *testing.T) {
	ts := newTextureServer(t)
	ts.serve("/earth.png", encodePNG(t, 2, 2, color.RGBA{R: 50, G: 50, B: 50, A: 255}))

	l := NewLoader(FetcherTypeHTTP)

	_, err := l.PreloadTexture(context.Background(), ts.url("/earth.png"))
	require.NoError(t, err)
	_, err = l.Material("earth", MaterialConfig{Kind: material.KindStandard})
	require.NoError(t, err)

	l.Dispose()
	l.Dispose()

	assert.Equal(t, 0, l.TextureCount())
	assert.Equal(t, 0, l.MaterialCount())
	assert.Zero(t, l.EstimatedTextureBytes())
	loaded, total := l.Progress()
	assert.Zero(t, loaded)
	assert.Zero(t, total)

	_, err = l.PreloadTexture(context.Background(), ts.url("/earth.png"))
	assert.ErrorIs(t, err, ErrDisposed)
	assert.Nil(t, l.GetTexture(ts.url("/earth.png")))
	_, err = l.Material("earth", MaterialConfig{})
	assert.ErrorIs(t, err, ErrDisposed)
}

func TestLoaderBuilderOptions(t *testing.T) {
	pre := texture.NewTexture(texture.WithLabel("seeded"), texture.WithSize(1, 1))
	li := NewLoader(FetcherTypeHTTP,
		WithOptimizedFormatDisabled(true),
		WithAnisotropy(0),
		WithMipWorkers(0),
		WithTexture("seed://stars", pre),
	)
	t.Cleanup(li.Dispose)

	assert.False(t, li.OptimizedFormatEnabled())
	assert.Equal(t, 1, li.TextureCount())
	assert.Same(t, pre, li.GetTexture("seed://stars"))

	l := li.(*loader)
	assert.Equal(t, uint16(1), l.anisotropy)
	assert.Equal(t, 1, l.mipWorkers)
}
