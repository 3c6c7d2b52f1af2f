package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeOptimizedFormat(t *testing.T) {
	// The webp decoder is linked into this package, so the probe finds it.
	assert.Equal(t, ".webp", probeOptimizedFormat())
}

func TestRewriteExtension(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"jpg", "textures/earth.jpg", "textures/earth.webp"},
		{"jpeg", "textures/earth.jpeg", "textures/earth.webp"},
		{"png nested", "https://cdn.example.com/v2/mars.png", "https://cdn.example.com/v2/mars.webp"},
		{"uppercase", "textures/EARTH.PNG", "textures/EARTH.webp"},
		{"already optimized", "textures/earth.webp", "textures/earth.webp"},
		{"no extension", "textures/earth", "textures/earth"},
		{"unknown extension", "textures/earth.tga", "textures/earth.tga"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteExtension(tt.url, ".webp"))
		})
	}
}

func TestOptimizedVariant(t *testing.T) {
	l := &loader{optimizedExt: ".webp"}
	assert.Equal(t, "a/earth.webp", l.optimizedVariant("a/earth.png"))
	assert.Empty(t, l.optimizedVariant("a/earth.webp"))
	assert.Empty(t, l.optimizedVariant("a/earth"))

	disabled := &loader{}
	assert.Empty(t, disabled.optimizedVariant("a/earth.png"))
}
