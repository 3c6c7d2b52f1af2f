package body

import (
	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/orrery/catalog"
	"github.com/Carmen-Shannon/orrery/common"
)

const (
	// ringTextureWidth is the texel count of the radial banding strip.
	ringTextureWidth = 256

	// defaultRingOpacity and defaultRingDensity fill in descriptors that
	// leave those fields unset.
	defaultRingOpacity = 0.8
	defaultRingDensity = 18

	// ringEdgeFade is the fraction of the strip faded to transparent at the
	// inner and outer rims.
	ringEdgeFade = 0.06
)

// defaultRingColor is the sandy tone used when a descriptor has no color.
var defaultRingColor = [4]float32{0.76, 0.69, 0.57, 1}

// buildRingPixels generates the RGBA strip for a ring descriptor: the
// descriptor color across the full width under an alpha profile of layered
// sinusoidal bands, a carved major division, and faded rims. The output is
// deterministic for a given descriptor.
//
// Parameters:
//   - rd: the ring descriptor to rasterize
//
// Returns:
//   - []byte: RGBA pixel data, ringTextureWidth texels by one row
func buildRingPixels(rd catalog.RingDescriptor) []byte {
	color := catalog.ColorOrDefault(rd.Color, defaultRingColor)
	opacity := rd.Opacity
	if opacity <= 0 {
		opacity = defaultRingOpacity
	}
	density := rd.Density
	if density <= 0 {
		density = defaultRingDensity
	}

	r := byte(common.Clamp(color[0], 0, 1) * 255)
	g := byte(common.Clamp(color[1], 0, 1) * 255)
	b := byte(common.Clamp(color[2], 0, 1) * 255)

	pixels := make([]byte, ringTextureWidth*4)
	for x := range ringTextureWidth {
		t := float32(x) / float32(ringTextureWidth-1)

		// Two detuned harmonics make the banding read as irregular without
		// any randomness.
		band := 0.55 + 0.45*math32.Sin(t*density*2*math32.Pi+1.7*math32.Sin(t*5.3))
		band *= 0.75 + 0.25*math32.Sin(t*density*0.37*2*math32.Pi+0.9)

		// The major division sits about two thirds of the way out.
		if t > 0.62 && t < 0.68 {
			band *= 0.12
		}

		alpha := opacity * common.Clamp(band, 0, 1) * rimFade(t)

		pixels[x*4+0] = r
		pixels[x*4+1] = g
		pixels[x*4+2] = b
		pixels[x*4+3] = byte(common.Clamp(alpha, 0, 1) * 255)
	}
	return pixels
}

// rimFade ramps alpha from zero at both rims of the strip so the ring
// dissolves instead of ending on a hard circle.
func rimFade(t float32) float32 {
	switch {
	case t < ringEdgeFade:
		return t / ringEdgeFade
	case t > 1-ringEdgeFade:
		return (1 - t) / ringEdgeFade
	default:
		return 1
	}
}
