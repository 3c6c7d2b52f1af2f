package camera

// CameraController defines the union interface for camera control systems.
// Controllers own positional state (position, target). Camera reads from controller
// and computes view/projection matrices. Embeds orbit, planar, and animated
// controls so a single controller instance drives direct input, damped drag,
// and eased transitions together.
type CameraController interface {
	orbitCameraController
	planarCameraController
	animatedCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target). User input: ignored while
	// controls are disabled or a transition is in flight.
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)
}

// orbitCameraController defines orbit-specific control methods.
// Provides third-person orbit controls using spherical coordinates (radius, azimuth, elevation)
// relative to the target/pivot point. The stepped Orbit methods are user
// input: they are ignored while controls are disabled or a transition is in
// flight. The setters are programmatic and always apply.
type orbitCameraController interface {
	// OrbitLeft rotates the camera left around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the camera right around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the camera upward by one orbit speed step, clamped to max elevation.
	OrbitUp()

	// OrbitDown tilts the camera downward by one orbit speed step, clamped to min elevation.
	OrbitDown()

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// MinRadius returns the minimum allowed orbit radius.
	//
	// Returns:
	//   - float32: minimum zoom distance
	MinRadius() float32

	// MaxRadius returns the maximum allowed orbit radius.
	//
	// Returns:
	//   - float32: maximum zoom distance
	MaxRadius() float32

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the horizontal angle directly and recomputes position.
	//
	// Parameters:
	//   - azimuth: new horizontal angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the vertical angle directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - elevation: new vertical angle in radians
	SetElevation(elevation float32)

	// MinElevation returns the minimum allowed elevation angle.
	//
	// Returns:
	//   - float32: minimum elevation in radians
	MinElevation() float32

	// MaxElevation returns the maximum allowed elevation angle.
	//
	// Returns:
	//   - float32: maximum elevation in radians
	MaxElevation() float32

	// OrbitSpeed returns the keyboard orbit speed in radians per step.
	//
	// Returns:
	//   - float32: radians per orbit call
	OrbitSpeed() float32

	// MouseSensitivity returns the mouse drag sensitivity multiplier.
	//
	// Returns:
	//   - float32: multiplier for mouse movement
	MouseSensitivity() float32

	// ZoomSpeed returns the zoom speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for zoom input
	ZoomSpeed() float32
}

// planarCameraController defines planar translation control methods.
// Provides first-person-style panning along the camera's local axes without
// changing orbit angles. Panning shifts both position and target by the same
// offset, preserving the orbit relationship. Pan methods are user input:
// they are ignored while controls are disabled or a transition is in flight.
type planarCameraController interface {
	// PanRight translates the camera along its local right axis.
	// Positive delta moves right, negative moves left.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanRight(delta float32)

	// PanUp translates the camera along its local up axis.
	// Positive delta moves up, negative moves down.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanUp(delta float32)

	// PanForward translates the camera along its local forward axis (dolly).
	// Positive delta moves toward the target, negative moves away.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanForward(delta float32)

	// PanSpeed returns the pan speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for pan input
	PanSpeed() float32
}

// animatedCameraController defines damped drag input and eased pose
// transitions. At most one transition is in flight at a time; every starter
// rejects while one is active and reports whether it began. Update must be
// called once per frame to advance both systems.
type animatedCameraController interface {
	// Drag feeds a pointer drag in pixels into the damped orbit. The
	// rotation is not applied immediately: Update consumes it over the
	// following frames with exponential smoothing so the view glides instead
	// of snapping. User input: ignored while controls are disabled or a
	// transition is in flight.
	//
	// Parameters:
	//   - dx: horizontal drag in pixels, positive rightward
	//   - dy: vertical drag in pixels, positive downward
	Drag(dx, dy float32)

	// Update advances damped drag rotation and any active transition by dt
	// seconds. Call once per frame; non-positive deltas are ignored.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous update
	Update(dt float32)

	// ZoomIn starts an eased transition that scales the orbit radius by the
	// fixed zoom-in factor, clamped to the radius bounds.
	//
	// Returns:
	//   - bool: true when the transition started, false while one is active
	ZoomIn() bool

	// ZoomOut starts an eased transition that scales the orbit radius by the
	// fixed zoom-out factor, clamped to the radius bounds.
	//
	// Returns:
	//   - bool: true when the transition started, false while one is active
	ZoomOut() bool

	// ResetView starts an eased transition back to the home pose captured at
	// construction.
	//
	// Returns:
	//   - bool: true when the transition started, false while one is active
	ResetView() bool

	// FocusOn starts an eased transition that moves the look-at point to the
	// given world position and the camera to an offset along the current
	// view direction at the given distance, clamped to the radius bounds.
	//
	// Parameters:
	//   - x, y, z: world-space focus position
	//   - distance: desired camera distance from the focus position
	//
	// Returns:
	//   - bool: true when the transition started, false while one is active
	FocusOn(x, y, z, distance float32) bool

	// Transitioning reports whether a pose transition is in flight.
	//
	// Returns:
	//   - bool: true while a transition is active
	Transitioning() bool

	// EnableControls gates user input: drag, scroll zoom, stepped orbit, and
	// pan. Programmatic transitions and setters always apply.
	//
	// Parameters:
	//   - enabled: true to accept user input
	EnableControls(enabled bool)

	// ControlsEnabled reports whether user input is accepted.
	//
	// Returns:
	//   - bool: true when user input is accepted
	ControlsEnabled() bool

	// Damping returns the fraction of pending drag rotation consumed per
	// reference frame.
	//
	// Returns:
	//   - float32: the damping factor in (0, 1]
	Damping() float32
}
