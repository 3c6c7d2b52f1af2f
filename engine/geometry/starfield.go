package geometry

import (
	"math/rand"

	"github.com/Carmen-Shannon/orrery/common"
	"github.com/chewxy/math32"
)

// Star is the CPU-side description of one background star. The twinkle fields
// drive per-frame brightness recomputation; only the resulting StarInstance
// records are uploaded to the GPU.
type Star struct {
	Position     [3]float32 // world-space position on the shell
	Size         float32    // billboard half-extent scale
	Color        [3]float32 // RGB color class
	BaseAlpha    float32    // alpha before twinkle modulation
	TwinklePhase float32    // per-star phase offset in radians
	TwinkleSpeed float32    // per-star angular frequency in radians per second
}

// Star color classes. Most stars are white; a smaller share lean blue or warm
// yellow, which reads as realistic variation without per-star spectra.
var starColorClasses = [3][3]float32{
	{1.0, 1.0, 1.0},
	{0.78, 0.86, 1.0},
	{1.0, 0.93, 0.78},
}

// BuildStarfield generates a deterministic shell of stars surrounding the scene.
// Positions are uniformly distributed over directions and uniformly distributed
// in radius between minRadius and maxRadius, far enough out that camera motion
// inside the system never reaches them. The same seed always produces the same
// field.
//
// Parameters:
//   - count: number of stars to generate (negative counts produce an empty slice)
//   - minRadius: inner shell radius in world units
//   - maxRadius: outer shell radius in world units
//   - seed: seed for the deterministic random sequence
//
// Returns:
//   - []Star: the generated stars
func BuildStarfield(count int, minRadius, maxRadius float32, seed int64) []Star {
	if count < 0 {
		count = 0
	}
	if maxRadius < minRadius {
		minRadius, maxRadius = maxRadius, minRadius
	}

	rng := rand.New(rand.NewSource(seed))
	stars := make([]Star, count)

	for i := range stars {
		// Uniform direction: cos(theta) uniform in [-1, 1], azimuth uniform in [0, 2pi).
		cosTheta := rng.Float32()*2 - 1
		sinTheta := math32.Sqrt(1 - cosTheta*cosTheta)
		azimuth := rng.Float32() * 2 * math32.Pi

		radius := minRadius + rng.Float32()*(maxRadius-minRadius)

		dir := [3]float32{
			sinTheta * math32.Cos(azimuth),
			cosTheta,
			sinTheta * math32.Sin(azimuth),
		}

		colorRoll := rng.Float32()
		var color [3]float32
		switch {
		case colorRoll < 0.60:
			color = starColorClasses[0]
		case colorRoll < 0.85:
			color = starColorClasses[1]
		default:
			color = starColorClasses[2]
		}

		stars[i] = Star{
			Position:     common.Scale3(dir, radius),
			Size:         0.5 + rng.Float32()*1.5,
			Color:        color,
			BaseAlpha:    0.4 + rng.Float32()*0.6,
			TwinklePhase: rng.Float32() * 2 * math32.Pi,
			TwinkleSpeed: 0.5 + rng.Float32()*2.0,
		}
	}

	return stars
}
