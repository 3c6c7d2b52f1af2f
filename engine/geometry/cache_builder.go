package geometry

// CacheBuilderOption is a functional option for configuring a Cache.
type CacheBuilderOption func(*cache)

// WithBaseRadius sets the radius of the cached unit spheres. Bodies scale
// this base mesh through their model matrix, so it normally stays at 1.
//
// Parameters:
//   - radius: sphere radius in model units
//
// Returns:
//   - CacheBuilderOption: functional option to set the base radius
func WithBaseRadius(radius float32) CacheBuilderOption {
	return func(c *cache) {
		if radius > 0 {
			c.baseRadius = radius
		}
	}
}

// WithRingSegments sets the angular subdivision count used for ring meshes.
//
// Parameters:
//   - segments: angular subdivisions (minimum 3)
//
// Returns:
//   - CacheBuilderOption: functional option to set ring segment count
func WithRingSegments(segments int) CacheBuilderOption {
	return func(c *cache) {
		if segments >= 3 {
			c.ringSegments = segments
		}
	}
}
