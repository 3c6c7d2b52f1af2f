package camera

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/orrery/common"
)

const (
	// zoomInFactor and zoomOutFactor scale the orbit radius per zoom step.
	zoomInFactor  float32 = 0.75
	zoomOutFactor float32 = 1.3

	// zoomDuration, resetDuration, and focusDuration are transition lengths
	// in seconds.
	zoomDuration  float32 = 0.35
	resetDuration float32 = 0.9
	focusDuration float32 = 0.75

	// defaultDamping is the fraction of pending drag rotation consumed per
	// 60Hz reference frame.
	defaultDamping float32 = 0.1

	// pendingEpsilon is the drag remainder below which the glide snaps to
	// rest instead of decaying forever.
	pendingEpsilon float32 = 1e-5
)

// cameraTransition is one in-flight eased pose change. At most one exists at
// a time; every starter rejects while it is active.
type cameraTransition struct {
	startPosition [3]float32
	endPosition   [3]float32
	startTarget   [3]float32
	endTarget     [3]float32
	elapsed       float32
	duration      float32
}

// cameraControllerImpl is the single implementation of CameraController.
// Supports orbit, planar, and animated controls simultaneously. Orbit methods
// modify spherical coordinates and recompute position; planar methods
// translate both position and target along local camera axes, preserving the
// orbit relationship; drag input and transitions are advanced by Update once
// per frame.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position [3]float32
	target   [3]float32

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	// Orbit speed settings
	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32

	// Planar speed
	panSpeed float32

	// Damped drag rotation not yet applied to azimuth/elevation.
	damping          float32
	pendingAzimuth   float32
	pendingElevation float32

	// Home pose captured at construction, restored by ResetView.
	homeRadius    float32
	homeAzimuth   float32
	homeElevation float32
	homeTarget    [3]float32

	controlsEnabled bool
	transition      *cameraTransition
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller with sensible defaults.
// The returned controller supports orbit, planar, and animated controls
// simultaneously; the pose configured through options becomes the home pose
// ResetView returns to.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:     &sync.Mutex{},
		target: [3]float32{0, 0, 0},

		radius:    250.0,
		azimuth:   0.0,
		elevation: math32.Pi / 6,

		minRadius:    20.0,
		maxRadius:    2000.0,
		minElevation: 0.05,
		maxElevation: math32.Pi/2 - 0.1,

		orbitSpeed:       0.03,
		mouseSensitivity: 0.005,
		zoomSpeed:        15.0,

		panSpeed: 1.0,

		damping:         defaultDamping,
		controlsEnabled: true,
	}

	for _, option := range options {
		option(cc)
	}

	cc.updatePosition()

	cc.homeRadius = cc.radius
	cc.homeAzimuth = cc.azimuth
	cc.homeElevation = cc.elevation
	cc.homeTarget = cc.target

	return cc
}

// --- internal helpers ---

// sphericalPosition computes the camera position for a spherical pose around
// a target.
func sphericalPosition(target [3]float32, radius, azimuth, elevation float32) [3]float32 {
	cosElev := math32.Cos(elevation)
	return [3]float32{
		target[0] + radius*cosElev*math32.Sin(azimuth),
		target[1] + radius*math32.Sin(elevation),
		target[2] + radius*cosElev*math32.Cos(azimuth),
	}
}

// updatePosition recomputes the camera position from spherical coordinates.
// Must be called whenever radius, azimuth, elevation, or target changes.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cc.position = sphericalPosition(cc.target, cc.radius, cc.azimuth, cc.elevation)
}

// syncSpherical derives radius, azimuth, and elevation from the current
// position and target so orbit controls resume seamlessly after a transition
// moved the pose directly. Caller must hold the mutex.
func (cc *cameraControllerImpl) syncSpherical() {
	dx := cc.position[0] - cc.target[0]
	dy := cc.position[1] - cc.target[1]
	dz := cc.position[2] - cc.target[2]
	r := math32.Sqrt(dx*dx + dy*dy + dz*dz)
	if r < 1e-6 {
		return
	}
	cc.radius = r
	cc.azimuth = math32.Atan2(dx, dz)
	cc.elevation = math32.Asin(common.Clamp(dy/r, -1, 1))
}

// inputAllowed reports whether user input applies: controls enabled and no
// transition in flight. Caller must hold the mutex.
func (cc *cameraControllerImpl) inputAllowed() bool {
	return cc.controlsEnabled && cc.transition == nil
}

// beginTransition records the current pose as the start and arms the
// transition. Any inertial drag remainder is dropped so it cannot fight the
// interpolation. Caller must hold the mutex.
func (cc *cameraControllerImpl) beginTransition(endPosition, endTarget [3]float32, duration float32) {
	cc.transition = &cameraTransition{
		startPosition: cc.position,
		endPosition:   endPosition,
		startTarget:   cc.target,
		endTarget:     endTarget,
		duration:      duration,
	}
	cc.pendingAzimuth = 0
	cc.pendingElevation = 0
}

// advanceTransition steps the active transition, interpolating position and
// target along the eased curve and clearing the transition at completion.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) advanceTransition(dt float32) {
	tr := cc.transition
	tr.elapsed += dt
	if tr.elapsed >= tr.duration {
		cc.position = tr.endPosition
		cc.target = tr.endTarget
		cc.transition = nil
	} else {
		e := common.EaseInOutCubic(tr.elapsed / tr.duration)
		cc.position = common.Lerp3(tr.startPosition, tr.endPosition, e)
		cc.target = common.Lerp3(tr.startTarget, tr.endTarget, e)
	}
	cc.syncSpherical()
}

// localAxes computes the camera's local coordinate axes consistent with the LookAt matrix.
// Returns right (rx,ry,rz), up (ux,uy,uz), and forward (fx,fy,fz) vectors.
// If position and target coincide, all returned components are zero.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (rx, ry, rz, ux, uy, uz, fx, fy, fz float32) {
	// backward = normalize(position - target), matching LookAt's z-axis
	bx := cc.position[0] - cc.target[0]
	by := cc.position[1] - cc.target[1]
	bz := cc.position[2] - cc.target[2]
	bLen := math32.Sqrt(bx*bx + by*by + bz*bz)
	if bLen < 1e-8 {
		return
	}
	bx /= bLen
	by /= bLen
	bz /= bLen

	// right = normalize(cross(worldUp, backward)) where worldUp = (0, 1, 0)
	// cross((0,1,0), (bx,by,bz)) = (1*bz - 0*by, 0*bx - 0*bz, 0*by - 1*bx) = (bz, 0, -bx)
	rx = bz
	rz = -bx
	rLen := math32.Sqrt(rx*rx + rz*rz)
	if rLen < 1e-8 {
		return
	}
	rx /= rLen
	rz /= rLen

	// up = cross(backward, right), matching LookAt's y-axis
	ux = by*rz - bz*ry
	uy = bz*rx - bx*rz
	uz = bx*ry - by*rx

	// forward = -backward
	fx = -bx
	fy = -by
	fz = -bz
	return
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position[0] = x
	cc.position[1] = y
	cc.position[2] = z
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target[0] = x
	cc.target[1] = y
	cc.target[2] = z
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.inputAllowed() {
		return
	}
	cc.radius -= delta * cc.zoomSpeed
	if cc.radius < cc.minRadius {
		cc.radius = cc.minRadius
	}
	if cc.radius > cc.maxRadius {
		cc.radius = cc.maxRadius
	}
	cc.updatePosition()
}

// --- orbitCameraController implementation ---

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.inputAllowed() {
		return
	}
	cc.azimuth -= cc.orbitSpeed
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.inputAllowed() {
		return
	}
	cc.azimuth += cc.orbitSpeed
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.inputAllowed() {
		return
	}
	cc.elevation += cc.orbitSpeed
	if cc.elevation > cc.maxElevation {
		cc.elevation = cc.maxElevation
	}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.inputAllowed() {
		return
	}
	cc.elevation -= cc.orbitSpeed
	if cc.elevation < cc.minElevation {
		cc.elevation = cc.minElevation
	}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = radius
	if cc.radius < cc.minRadius {
		cc.radius = cc.minRadius
	}
	if cc.radius > cc.maxRadius {
		cc.radius = cc.maxRadius
	}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = elevation
	if cc.elevation < cc.minElevation {
		cc.elevation = cc.minElevation
	}
	if cc.elevation > cc.maxElevation {
		cc.elevation = cc.maxElevation
	}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation
}

func (cc *cameraControllerImpl) MaxElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxElevation
}

func (cc *cameraControllerImpl) OrbitSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.orbitSpeed
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.inputAllowed() {
		return
	}

	rx, _, rz, _, _, _, _, _, _ := cc.localAxes()
	offset := delta * cc.panSpeed

	cc.target[0] += rx * offset
	cc.target[1] += 0 // ry is always 0 for right vector with worldUp=(0,1,0)
	cc.target[2] += rz * offset
	cc.position[0] += rx * offset
	cc.position[1] += 0
	cc.position[2] += rz * offset
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.inputAllowed() {
		return
	}

	_, _, _, ux, uy, uz, _, _, _ := cc.localAxes()
	offset := delta * cc.panSpeed

	cc.target[0] += ux * offset
	cc.target[1] += uy * offset
	cc.target[2] += uz * offset
	cc.position[0] += ux * offset
	cc.position[1] += uy * offset
	cc.position[2] += uz * offset
}

func (cc *cameraControllerImpl) PanForward(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.inputAllowed() {
		return
	}

	_, _, _, _, _, _, fx, fy, fz := cc.localAxes()
	offset := delta * cc.panSpeed

	cc.target[0] += fx * offset
	cc.target[1] += fy * offset
	cc.target[2] += fz * offset
	cc.position[0] += fx * offset
	cc.position[1] += fy * offset
	cc.position[2] += fz * offset
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

// --- animatedCameraController implementation ---

func (cc *cameraControllerImpl) Drag(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.inputAllowed() {
		return
	}
	// Grab-the-scene convention: a rightward drag swings the camera left
	// around the target, a downward drag lifts it over the top.
	cc.pendingAzimuth -= dx * cc.mouseSensitivity
	cc.pendingElevation += dy * cc.mouseSensitivity
}

func (cc *cameraControllerImpl) Update(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if dt <= 0 {
		return
	}
	if cc.transition != nil {
		cc.advanceTransition(dt)
		return
	}
	if cc.pendingAzimuth == 0 && cc.pendingElevation == 0 {
		return
	}

	// Consume the damping fraction of the pending rotation, rescaled from
	// the 60Hz reference frame to the actual dt.
	consume := 1 - math32.Pow(1-cc.damping, dt*60)
	cc.azimuth += cc.pendingAzimuth * consume
	cc.elevation = common.Clamp(cc.elevation+cc.pendingElevation*consume, cc.minElevation, cc.maxElevation)
	cc.pendingAzimuth *= 1 - consume
	cc.pendingElevation *= 1 - consume
	if math32.Abs(cc.pendingAzimuth) < pendingEpsilon {
		cc.pendingAzimuth = 0
	}
	if math32.Abs(cc.pendingElevation) < pendingEpsilon {
		cc.pendingElevation = 0
	}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) ZoomIn() bool {
	return cc.startZoom(zoomInFactor)
}

func (cc *cameraControllerImpl) ZoomOut() bool {
	return cc.startZoom(zoomOutFactor)
}

func (cc *cameraControllerImpl) startZoom(factor float32) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.transition != nil {
		return false
	}
	radius := common.Clamp(cc.radius*factor, cc.minRadius, cc.maxRadius)
	end := sphericalPosition(cc.target, radius, cc.azimuth, cc.elevation)
	cc.beginTransition(end, cc.target, zoomDuration)
	return true
}

func (cc *cameraControllerImpl) ResetView() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.transition != nil {
		return false
	}
	end := sphericalPosition(cc.homeTarget, cc.homeRadius, cc.homeAzimuth, cc.homeElevation)
	cc.beginTransition(end, cc.homeTarget, resetDuration)
	return true
}

func (cc *cameraControllerImpl) FocusOn(x, y, z, distance float32) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.transition != nil {
		return false
	}
	target := [3]float32{x, y, z}
	radius := common.Clamp(distance, cc.minRadius, cc.maxRadius)
	end := sphericalPosition(target, radius, cc.azimuth, cc.elevation)
	cc.beginTransition(end, target, focusDuration)
	return true
}

func (cc *cameraControllerImpl) Transitioning() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.transition != nil
}

func (cc *cameraControllerImpl) EnableControls(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.controlsEnabled = enabled
}

func (cc *cameraControllerImpl) ControlsEnabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.controlsEnabled
}

func (cc *cameraControllerImpl) Damping() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.damping
}
