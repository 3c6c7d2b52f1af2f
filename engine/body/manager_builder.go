package body

import (
	"github.com/Carmen-Shannon/orrery/engine/geometry"
)

// ManagerBuilderOption is a functional option for configuring a Manager during construction.
type ManagerBuilderOption func(*manager)

// WithDefaultTier sets the detail tier newly created bodies start at before
// any LOD evaluation adjusts them.
//
// Parameters:
//   - tier: the starting detail tier
//
// Returns:
//   - ManagerBuilderOption: functional option to set the default tier
func WithDefaultTier(tier geometry.Tier) ManagerBuilderOption {
	return func(m *manager) {
		m.defaultTier = tier
	}
}

// WithOrbitVerticalAmplitude sets the height of the orbital bob in world
// units. Zero flattens every orbit onto the ecliptic plane.
//
// Parameters:
//   - amplitude: the vertical oscillation amplitude
//
// Returns:
//   - ManagerBuilderOption: functional option to set the orbit bob amplitude
func WithOrbitVerticalAmplitude(amplitude float32) ManagerBuilderOption {
	return func(m *manager) {
		m.verticalAmplitude = amplitude
	}
}

// WithRotationSpeed overrides the axial spin for one body id, taking
// precedence over the named spin table. Negative speeds spin retrograde.
//
// Parameters:
//   - id: the record id the speed applies to
//   - radiansPerSecond: the spin rate
//
// Returns:
//   - ManagerBuilderOption: functional option to override a body's spin
func WithRotationSpeed(id string, radiansPerSecond float32) ManagerBuilderOption {
	return func(m *manager) {
		m.rotationOverride[id] = radiansPerSecond
	}
}
