package common

// EaseInOutCubic maps a linear progress value t in [0, 1] onto a cubic
// ease-in-out curve: slow start, fast middle, slow settle. Values outside
// [0, 1] are clamped so transition code can feed raw elapsed/duration ratios.
//
// Parameters:
//   - t: linear progress, typically elapsed/duration
//
// Returns:
//   - float32: eased progress in [0, 1]
func EaseInOutCubic(t float32) float32 {
	t = Clamp(t, 0, 1)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
