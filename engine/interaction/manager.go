// Package interaction resolves pointer input against the scene. Window
// callbacks record the latest pointer position and clicks; once per frame the
// render loop calls Resolve, which casts a ray from the camera through the
// pointer and maps the nearest body hit to hover highlight, cursor shape,
// and selection callbacks.
package interaction

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/orrery/catalog"
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/camera"
)

type manager struct {
	mu *sync.Mutex

	bodies body.Manager
	cam    camera.Camera

	width  int
	height int

	pointerX   float64
	pointerY   float64
	hasPointer bool

	clickX       float64
	clickY       float64
	clickPending bool

	hoveredID string

	onHover  func(rec *catalog.Record)
	onSelect func(rec catalog.Record)
	onCursor func(pointing bool)

	disposed bool
}

// Manager defines the interface for pointer picking and hover/selection
// state.
// Input arrives from window callbacks at event rate; Resolve applies it on
// the render goroutine, so body and camera state is only read between
// frames.
type Manager interface {
	// PointerMoved records the latest pointer position in window
	// coordinates. Only the most recent position is kept; intermediate
	// motion between frames is not replayed.
	//
	// Parameters:
	//   - x: pointer X in pixels from the left edge
	//   - y: pointer Y in pixels from the top edge
	PointerMoved(x, y float64)

	// PointerPressed records a click at the given window coordinates. The
	// click is resolved by the next Resolve call; at most one click is kept
	// per frame.
	//
	// Parameters:
	//   - x: click X in pixels from the left edge
	//   - y: click Y in pixels from the top edge
	PointerPressed(x, y float64)

	// SetViewport sets the window size used to convert pointer positions to
	// normalized device coordinates. Resolve does nothing until a non-zero
	// viewport is set.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	SetViewport(width, height int)

	// Resolve casts the pick ray for the recorded pointer state and applies
	// the outcome: a hover change re-targets the highlight and fires the
	// hover and cursor callbacks, a pending click selects the hit body and
	// fires the select callback. Called once per frame by the render loop.
	Resolve()

	// HoveredBody retrieves the id of the body currently under the pointer.
	//
	// Returns:
	//   - string: the hovered body id, or "" when the pointer is over empty
	//     space
	HoveredBody() string

	// Dispose detaches the manager. Further input is ignored and Resolve
	// becomes a no-op. Dispose is idempotent.
	Dispose()

	// Disposed reports whether Dispose has been called.
	//
	// Returns:
	//   - bool: true if the manager is disposed
	Disposed() bool
}

var _ Manager = &manager{}

// NewManager creates a new interaction Manager. It panics if bodies or cam
// is nil.
//
// Parameters:
//   - bodies: the body manager picked bodies are resolved and highlighted
//     through
//   - cam: the camera the pick ray is cast from
//   - options: functional options to configure the manager
//
// Returns:
//   - Manager: the newly created manager
func NewManager(bodies body.Manager, cam camera.Camera, options ...ManagerBuilderOption) Manager {
	if bodies == nil {
		panic("interaction: NewManager requires a non-nil body Manager")
	}
	if cam == nil {
		panic("interaction: NewManager requires a non-nil Camera")
	}

	m := &manager{
		mu:     &sync.Mutex{},
		bodies: bodies,
		cam:    cam,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *manager) PointerMoved(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.pointerX = x
	m.pointerY = y
	m.hasPointer = true
}

func (m *manager) PointerPressed(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.clickX = x
	m.clickY = y
	m.clickPending = true
}

func (m *manager) SetViewport(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.width = width
	m.height = height
}

func (m *manager) Resolve() {
	m.mu.Lock()
	if m.disposed || m.width == 0 || m.height == 0 {
		m.clickPending = false
		m.mu.Unlock()
		return
	}
	width, height := m.width, m.height
	hasPointer := m.hasPointer
	px, py := m.pointerX, m.pointerY
	click := m.clickPending
	cx, cy := m.clickX, m.clickY
	m.clickPending = false
	m.mu.Unlock()

	if hasPointer {
		m.resolveHover(px, py, width, height)
	}
	if click {
		m.resolveClick(cx, cy, width, height)
	}
}

func (m *manager) HoveredBody() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hoveredID
}

func (m *manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.disposed = true
	m.hoveredID = ""
	m.hasPointer = false
	m.clickPending = false
}

func (m *manager) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

// resolveHover re-runs the pick for the latest pointer position and applies
// highlight, cursor, and hover callbacks when the hit changes.
func (m *manager) resolveHover(px, py float64, width, height int) {
	id, rec := m.pick(px, py, width, height)

	m.mu.Lock()
	changed := id != m.hoveredID
	m.hoveredID = id
	onHover := m.onHover
	onCursor := m.onCursor
	m.mu.Unlock()
	if !changed {
		return
	}

	m.bodies.HighlightBody(id)
	if onCursor != nil {
		onCursor(id != "")
	}
	if onHover != nil {
		if id == "" {
			onHover(nil)
		} else {
			hit := rec
			onHover(&hit)
		}
	}
}

// resolveClick re-runs the pick for the click position. Clicks over empty
// space leave the selection untouched.
func (m *manager) resolveClick(px, py float64, width, height int) {
	id, rec := m.pick(px, py, width, height)
	if id == "" {
		return
	}

	m.bodies.Select(id)

	m.mu.Lock()
	onSelect := m.onSelect
	m.mu.Unlock()
	if onSelect != nil {
		onSelect(rec)
	}
}

// pick returns the nearest body whose primary sphere the pointer ray hits.
// Glow, ring, and atmosphere shells never participate.
func (m *manager) pick(px, py float64, width, height int) (string, catalog.Record) {
	ray, ok := m.rayThrough(px, py, width, height)
	if !ok {
		return "", catalog.Record{}
	}

	var (
		hitID  string
		hitRec catalog.Record
	)
	hitT := float32(math32.MaxFloat32)
	for _, b := range m.bodies.Bodies() {
		x, y, z := b.Position()
		t, hit := ray.IntersectSphere([3]float32{x, y, z}, b.BoundingRadius())
		if !hit || t >= hitT {
			continue
		}
		hitT = t
		hitID = b.ID()
		hitRec = b.Record()
	}
	return hitID, hitRec
}

// rayThrough builds the world-space pick ray through a window coordinate.
// The direction spans the camera basis scaled by the perspective frustum:
// dir = right*x*tanHalfFov*aspect + up*y*tanHalfFov + forward.
func (m *manager) rayThrough(px, py float64, width, height int) (common.Ray, bool) {
	ctrl := m.cam.Controller()
	if ctrl == nil {
		return common.Ray{}, false
	}

	ox, oy, oz := ctrl.Position()
	tx, ty, tz := ctrl.Target()
	origin := [3]float32{ox, oy, oz}
	look := common.Sub3([3]float32{tx, ty, tz}, origin)
	if common.Length3(look) < 1e-6 {
		return common.Ray{}, false
	}
	forward := common.Normalize3(look)

	ux, uy, uz := m.cam.Up()
	right := common.Cross3(forward, [3]float32{ux, uy, uz})
	if common.Length3(right) < 1e-6 {
		return common.Ray{}, false
	}
	right = common.Normalize3(right)
	up := common.Cross3(right, forward)

	ndcX := float32(2*px/float64(width) - 1)
	ndcY := float32(1 - 2*py/float64(height))

	tanHalf := math32.Tan(m.cam.Fov() / 2)
	dir := common.Add3(
		common.Add3(
			common.Scale3(right, ndcX*tanHalf*m.cam.Aspect()),
			common.Scale3(up, ndcY*tanHalf),
		),
		forward,
	)
	return common.Ray{Origin: origin, Dir: common.Normalize3(dir)}, true
}
