package perf

// ManagerBuilderOption is a functional option for configuring a Manager during construction.
type ManagerBuilderOption func(*manager)

// WithDistanceThresholds sets the camera distances in world units where
// detail steps down one tier. A body closer than medium renders at TierHigh;
// thresholds must ascend or tier selection is undefined.
//
// Parameters:
//   - medium: the distance where TierMedium takes over
//   - low: the distance where TierLow takes over
//   - veryLow: the distance where TierVeryLow takes over
//
// Returns:
//   - ManagerBuilderOption: functional option to set the tier thresholds
func WithDistanceThresholds(medium, low, veryLow float32) ManagerBuilderOption {
	return func(m *manager) {
		m.mediumDistance = medium
		m.lowDistance = low
		m.veryLowDistance = veryLow
	}
}
