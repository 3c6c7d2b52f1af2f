package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// settle advances the controller until the active transition finishes.
func settle(t *testing.T, ctrl CameraController) {
	t.Helper()
	for i := 0; i < 50 && ctrl.Transitioning(); i++ {
		ctrl.Update(0.1)
	}
	require.False(t, ctrl.Transitioning(), "transition did not finish")
}

func TestNewCameraControllerDefaults(t *testing.T) {
	ctrl := NewCameraController()

	assert.InDelta(t, 250.0, ctrl.Radius(), 1e-6)
	assert.InDelta(t, 0.0, ctrl.Azimuth(), 1e-6)
	assert.InDelta(t, math32.Pi/6, ctrl.Elevation(), 1e-6)
	assert.InDelta(t, 20.0, ctrl.MinRadius(), 1e-6)
	assert.InDelta(t, 2000.0, ctrl.MaxRadius(), 1e-6)
	assert.InDelta(t, 0.1, ctrl.Damping(), 1e-6)
	assert.True(t, ctrl.ControlsEnabled())
	assert.False(t, ctrl.Transitioning())

	// azimuth 0, elevation pi/6 puts the camera on the +Z side above the
	// horizontal plane.
	x, y, z := ctrl.Position()
	assert.InDelta(t, 0.0, x, 1e-3)
	assert.InDelta(t, 125.0, y, 1e-3)
	assert.InDelta(t, 250.0*math32.Cos(math32.Pi/6), z, 1e-3)

	t.Run("options override defaults", func(t *testing.T) {
		custom := NewCameraController(
			WithRadius(80),
			WithAzimuth(1.0),
			WithElevation(0.3),
			WithTarget(4, 5, 6),
			WithDamping(0.25),
		)
		assert.InDelta(t, 80.0, custom.Radius(), 1e-6)
		assert.InDelta(t, 1.0, custom.Azimuth(), 1e-6)
		assert.InDelta(t, 0.3, custom.Elevation(), 1e-6)
		assert.InDelta(t, 0.25, custom.Damping(), 1e-6)
		tx, ty, tz := custom.Target()
		assert.InDelta(t, 4.0, tx, 1e-6)
		assert.InDelta(t, 5.0, ty, 1e-6)
		assert.InDelta(t, 6.0, tz, 1e-6)
	})
}

func TestOrbitAndZoomClamping(t *testing.T) {
	ctrl := NewCameraController(WithRadius(100))

	ctrl.SetElevation(10)
	assert.InDelta(t, ctrl.MaxElevation(), ctrl.Elevation(), 1e-6)
	ctrl.SetElevation(-10)
	assert.InDelta(t, ctrl.MinElevation(), ctrl.Elevation(), 1e-6)

	// zoomSpeed 15 turns delta 100 into a 1500 unit radius change, far past
	// both bounds.
	ctrl.Zoom(100)
	assert.InDelta(t, ctrl.MinRadius(), ctrl.Radius(), 1e-6)
	ctrl.Zoom(-200)
	assert.InDelta(t, ctrl.MaxRadius(), ctrl.Radius(), 1e-6)
}

func TestPanPreservesOrbitOffset(t *testing.T) {
	ctrl := NewCameraController()
	radius := ctrl.Radius()

	// At azimuth 0 the camera sits on +Z, so its right axis is +X.
	ctrl.PanRight(10)

	tx, ty, tz := ctrl.Target()
	assert.InDelta(t, 10.0, tx, 1e-3)
	assert.InDelta(t, 0.0, ty, 1e-3)
	assert.InDelta(t, 0.0, tz, 1e-3)
	assert.InDelta(t, radius, ctrl.Radius(), 1e-3)

	px, _, _ := ctrl.Position()
	assert.InDelta(t, 10.0, px, 1e-3)
}

func TestSetPositionDoesNotResyncOrbit(t *testing.T) {
	ctrl := NewCameraController()
	radius := ctrl.Radius()

	ctrl.SetPosition(9, 9, 9)
	x, y, z := ctrl.Position()
	assert.InDelta(t, 9.0, x, 1e-6)
	assert.InDelta(t, 9.0, y, 1e-6)
	assert.InDelta(t, 9.0, z, 1e-6)
	assert.InDelta(t, radius, ctrl.Radius(), 1e-6)

	// The next orbit call snaps the position back onto the orbit sphere.
	ctrl.OrbitRight()
	x, y, z = ctrl.Position()
	d := math32.Sqrt(x*x + y*y + z*z)
	assert.InDelta(t, radius, d, 1e-3)
}

func TestDragGlidesTowardPointer(t *testing.T) {
	ctrl := NewCameraController(WithDamping(0.5))

	// Dragging 100px left swings the camera right by 100 * sensitivity.
	ctrl.Drag(-100, 0)
	assert.InDelta(t, 0.0, ctrl.Azimuth(), 1e-6)

	// One 60Hz frame at damping 0.5 applies half the pending rotation.
	ctrl.Update(1.0 / 60.0)
	assert.InDelta(t, 0.25, ctrl.Azimuth(), 1e-3)
	ctrl.Update(1.0 / 60.0)
	assert.InDelta(t, 0.375, ctrl.Azimuth(), 1e-3)

	// The glide converges on the full drag angle and then stops.
	for range 200 {
		ctrl.Update(1.0 / 60.0)
	}
	assert.InDelta(t, 0.5, ctrl.Azimuth(), 1e-3)
	settled := ctrl.Azimuth()
	ctrl.Update(1.0 / 60.0)
	assert.Equal(t, settled, ctrl.Azimuth())

	t.Run("elevation clamps during glide", func(t *testing.T) {
		c := NewCameraController(WithDamping(1.0))
		c.Drag(0, 10000)
		c.Update(1.0 / 60.0)
		assert.InDelta(t, c.MaxElevation(), c.Elevation(), 1e-6)
	})

	t.Run("non-positive dt is ignored", func(t *testing.T) {
		c := NewCameraController()
		c.Drag(-100, 0)
		c.Update(0)
		c.Update(-1)
		assert.InDelta(t, 0.0, c.Azimuth(), 1e-6)
	})
}

func TestZoomInTransition(t *testing.T) {
	ctrl := NewCameraController(WithRadius(100))

	require.True(t, ctrl.ZoomIn())
	assert.True(t, ctrl.Transitioning())

	// Concurrent animations are rejected, not queued.
	assert.False(t, ctrl.ZoomIn())
	assert.False(t, ctrl.ZoomOut())
	assert.False(t, ctrl.ResetView())
	assert.False(t, ctrl.FocusOn(1, 2, 3, 50))

	// Halfway through the cubic ease the radius sits at the midpoint.
	ctrl.Update(0.175)
	assert.True(t, ctrl.Transitioning())
	assert.InDelta(t, 87.5, ctrl.Radius(), 0.5)

	ctrl.Update(0.3)
	assert.False(t, ctrl.Transitioning())
	assert.InDelta(t, 75.0, ctrl.Radius(), 0.01)

	tx, ty, tz := ctrl.Target()
	assert.InDelta(t, 0.0, tx, 1e-3)
	assert.InDelta(t, 0.0, ty, 1e-3)
	assert.InDelta(t, 0.0, tz, 1e-3)

	require.True(t, ctrl.ZoomOut())
	settle(t, ctrl)
	assert.InDelta(t, 97.5, ctrl.Radius(), 0.1)

	t.Run("zoom in clamps at min radius", func(t *testing.T) {
		c := NewCameraController(WithRadius(25), WithRadiusBounds(20, 2000))
		require.True(t, c.ZoomIn())
		settle(t, c)
		assert.InDelta(t, 20.0, c.Radius(), 0.01)
	})
}

func TestUserInputRejectedDuringTransition(t *testing.T) {
	ctrl := NewCameraController(WithRadius(100))
	require.True(t, ctrl.ZoomIn())

	ctrl.OrbitRight()
	ctrl.Drag(1000, 0)
	ctrl.Zoom(5)
	ctrl.PanRight(10)

	settle(t, ctrl)

	// None of the rejected input leaked into the final pose, and the drag
	// left no pending rotation behind.
	assert.InDelta(t, 75.0, ctrl.Radius(), 0.01)
	assert.InDelta(t, 0.0, ctrl.Azimuth(), 1e-3)
	tx, _, tz := ctrl.Target()
	assert.InDelta(t, 0.0, tx, 1e-3)
	assert.InDelta(t, 0.0, tz, 1e-3)

	for range 10 {
		ctrl.Update(1.0 / 60.0)
	}
	assert.InDelta(t, 0.0, ctrl.Azimuth(), 1e-3)
}

func TestResetViewReturnsHome(t *testing.T) {
	ctrl := NewCameraController(
		WithRadius(300),
		WithAzimuth(1.2),
		WithElevation(0.4),
		WithTarget(5, 0, -3),
	)

	ctrl.SetRadius(500)
	ctrl.SetAzimuth(2.0)
	ctrl.SetTarget(50, 10, 50)

	require.True(t, ctrl.ResetView())
	settle(t, ctrl)

	assert.InDelta(t, 300.0, ctrl.Radius(), 0.01)
	assert.InDelta(t, 1.2, ctrl.Azimuth(), 1e-3)
	assert.InDelta(t, 0.4, ctrl.Elevation(), 1e-3)
	tx, ty, tz := ctrl.Target()
	assert.InDelta(t, 5.0, tx, 1e-3)
	assert.InDelta(t, 0.0, ty, 1e-3)
	assert.InDelta(t, -3.0, tz, 1e-3)
}

func TestFocusOnMovesTarget(t *testing.T) {
	ctrl := NewCameraController()

	require.True(t, ctrl.FocusOn(40, 0, -20, 60))
	settle(t, ctrl)

	tx, ty, tz := ctrl.Target()
	assert.InDelta(t, 40.0, tx, 1e-3)
	assert.InDelta(t, 0.0, ty, 1e-3)
	assert.InDelta(t, -20.0, tz, 1e-3)
	assert.InDelta(t, 60.0, ctrl.Radius(), 0.01)

	// The approach keeps the viewing direction the camera already had.
	assert.InDelta(t, 0.0, ctrl.Azimuth(), 1e-3)
	assert.InDelta(t, math32.Pi/6, ctrl.Elevation(), 1e-3)

	t.Run("distance clamps to radius bounds", func(t *testing.T) {
		c := NewCameraController()
		require.True(t, c.FocusOn(0, 0, 0, 5))
		settle(t, c)
		assert.InDelta(t, c.MinRadius(), c.Radius(), 0.01)
	})
}

func TestEnableControlsGatesUserInput(t *testing.T) {
	ctrl := NewCameraController()
	ctrl.EnableControls(false)
	assert.False(t, ctrl.ControlsEnabled())

	ctrl.OrbitRight()
	ctrl.Drag(-100, 0)
	ctrl.Update(1.0 / 60.0)
	ctrl.Zoom(1)
	ctrl.PanRight(10)

	assert.InDelta(t, 0.0, ctrl.Azimuth(), 1e-6)
	assert.InDelta(t, 250.0, ctrl.Radius(), 1e-6)
	tx, _, _ := ctrl.Target()
	assert.InDelta(t, 0.0, tx, 1e-6)

	// Programmatic animation still works while direct controls are off.
	require.True(t, ctrl.ZoomIn())
	settle(t, ctrl)
	assert.InDelta(t, 187.5, ctrl.Radius(), 0.1)

	ctrl.EnableControls(true)
	ctrl.OrbitRight()
	assert.InDelta(t, ctrl.OrbitSpeed(), ctrl.Azimuth(), 1e-6)
}
