// Package perf keeps rendering cost proportional to camera distance: it
// re-selects each body's geometry detail tier once per frame and aggregates
// cache statistics for render-stats reporting. The manager owns an explicit
// id-keyed registry of LOD objects; nothing here is process-global.
package perf

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/orrery/catalog"
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/assets"
	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/geometry"
)

// ErrDisposed is returned by Manager operations invoked after Dispose.
var ErrDisposed = errors.New("perf manager is disposed")

const (
	// defaultMediumDistance, defaultLowDistance, and defaultVeryLowDistance
	// are the camera distances in world units where detail steps down one
	// tier. A body closer than the medium threshold renders at TierHigh.
	defaultMediumDistance  float32 = 50
	defaultLowDistance     float32 = 150
	defaultVeryLowDistance float32 = 300
)

// lodTiers is every detail tier a LOD object binds, lowest to highest.
var lodTiers = [4]geometry.Tier{
	geometry.TierVeryLow,
	geometry.TierLow,
	geometry.TierMedium,
	geometry.TierHigh,
}

// lodObject is the implementation of the LODObject interface.
type lodObject struct {
	id         string
	meshes     map[geometry.Tier]*geometry.Mesh
	activeTier geometry.Tier
}

// LODObject tracks the discrete detail state of one body: the mesh bound to
// each tier and whichever tier the last distance evaluation activated. The
// owning Manager mutates it only during UpdateLOD; accessors are meant to be
// called from the frame loop.
type LODObject interface {
	// BodyID retrieves the id of the body the object tracks.
	//
	// Returns:
	//   - string: the record id
	BodyID() string

	// ActiveTier retrieves the tier the last distance evaluation selected.
	//
	// Returns:
	//   - geometry.Tier: the active detail tier
	ActiveTier() geometry.Tier

	// Mesh retrieves the mesh bound to a detail tier.
	//
	// Parameters:
	//   - tier: the detail tier
	//
	// Returns:
	//   - *geometry.Mesh: the bound mesh, or nil for an unbound tier
	Mesh(tier geometry.Tier) *geometry.Mesh
}

var _ LODObject = &lodObject{}

func (o *lodObject) BodyID() string {
	return o.id
}

func (o *lodObject) ActiveTier() geometry.Tier {
	return o.activeTier
}

func (o *lodObject) Mesh(tier geometry.Tier) *geometry.Mesh {
	return o.meshes[tier]
}

// Stats is a point-in-time snapshot of cached resource counts and estimated
// sizes. Byte figures are approximations: summed vertex and index bytes for
// geometry, width*height*4 per texture, with no GPU padding or mip levels
// counted.
type Stats struct {
	// GeometryCount is the number of cached sphere and ring meshes.
	GeometryCount int

	// GeometryBytes is the summed attribute byte length of cached meshes.
	GeometryBytes int

	// TextureCount is the number of cached textures.
	TextureCount int

	// TextureBytes is the estimated memory held by cached textures.
	TextureBytes uint64

	// LODObjectCount is the number of registered LOD objects.
	LODObjectCount int
}

// manager is the implementation of the Manager interface.
type manager struct {
	mu *sync.RWMutex

	bodies body.Manager
	cache  geometry.Cache
	loader assets.Loader

	objects map[string]*lodObject
	// order preserves insertion order so per-frame evaluation is
	// deterministic.
	order []string

	mediumDistance  float32
	lowDistance     float32
	veryLowDistance float32

	disposed bool
}

// Manager drives distance-based level of detail. Each registered body carries
// a LOD object binding the four tier meshes; once per frame UpdateLOD measures
// camera distance and swaps the body to the matching tier through the body
// manager. All methods are safe for concurrent use.
type Manager interface {
	// CreateLODObject registers distance-based detail switching for a body.
	// The mesh map must bind exactly the four detail tiers; the body must
	// already be registered with the body manager. The object starts at the
	// body's current tier so the first UpdateLOD only swaps on a real change.
	//
	// Parameters:
	//   - rec: the catalog record of the tracked body
	//   - meshesByTier: the mesh bound to each of the four tiers
	//
	// Returns:
	//   - LODObject: the registered object
	//   - error: ErrDisposed after Dispose, or a validation error for a
	//     missing body, duplicate id, or incomplete tier map
	CreateLODObject(rec catalog.Record, meshesByTier map[geometry.Tier]*geometry.Mesh) (LODObject, error)

	// LODObject retrieves the object tracking a body id.
	//
	// Parameters:
	//   - id: the record id
	//
	// Returns:
	//   - LODObject: the object, or nil when the id is not registered
	LODObject(id string) LODObject

	// LODObjects retrieves every registered object in creation order.
	//
	// Returns:
	//   - []LODObject: a copy of the registry
	LODObjects() []LODObject

	// Count retrieves the number of registered LOD objects.
	//
	// Returns:
	//   - int: the registry size
	Count() int

	// UpdateLOD re-evaluates every object against the camera position and
	// swaps bodies whose distance crossed a threshold to the matching tier.
	// The active tier is the one whose threshold is the greatest at or below
	// the camera distance. Objects whose body has been removed are skipped.
	// Call once per frame, before animations.
	//
	// Parameters:
	//   - camX: the camera x position
	//   - camY: the camera y position
	//   - camZ: the camera z position
	UpdateLOD(camX, camY, camZ float32)

	// RemoveLODObject unregisters the object tracking a body id.
	//
	// Parameters:
	//   - id: the record id
	//
	// Returns:
	//   - bool: true when an object was removed
	RemoveLODObject(id string) bool

	// Clear unregisters every LOD object, for body-set replacement. The
	// manager stays usable.
	Clear()

	// Stats reports cached geometry and texture counts, their estimated
	// byte sizes, and the LOD object count. After Dispose every field is
	// zero.
	//
	// Returns:
	//   - Stats: the snapshot
	Stats() Stats

	// Dispose clears the registry and detaches from the body manager and
	// caches; it does not dispose them. Safe to call repeatedly.
	Dispose()

	// Disposed reports whether Dispose has been called.
	//
	// Returns:
	//   - bool: true once disposed
	Disposed() bool
}

var _ Manager = &manager{}

// NewManager creates a performance manager bound to the body manager it swaps
// tiers through and the caches it reports statistics for.
//
// Parameters:
//   - bodies: the body manager tier swaps apply through
//   - cache: the shared geometry cache
//   - loader: the asset loader whose texture cache feeds Stats
//   - options: variadic list of ManagerBuilderOption functions to configure the Manager
//
// Returns:
//   - Manager: a new Manager instance
func NewManager(bodies body.Manager, cache geometry.Cache, loader assets.Loader, options ...ManagerBuilderOption) Manager {
	if bodies == nil {
		panic("perf: NewManager requires a non-nil body Manager")
	}
	if cache == nil {
		panic("perf: NewManager requires a non-nil Cache")
	}
	if loader == nil {
		panic("perf: NewManager requires a non-nil Loader")
	}

	m := &manager{
		mu:              &sync.RWMutex{},
		bodies:          bodies,
		cache:           cache,
		loader:          loader,
		objects:         make(map[string]*lodObject),
		mediumDistance:  defaultMediumDistance,
		lowDistance:     defaultLowDistance,
		veryLowDistance: defaultVeryLowDistance,
	}

	for _, option := range options {
		option(m)
	}

	return m
}

func (m *manager) CreateLODObject(rec catalog.Record, meshesByTier map[geometry.Tier]*geometry.Mesh) (LODObject, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("lod object requires a body id")
	}
	if len(meshesByTier) != len(lodTiers) {
		return nil, fmt.Errorf("lod object for %q requires exactly %d tier meshes, got %d", rec.ID, len(lodTiers), len(meshesByTier))
	}
	meshes := make(map[geometry.Tier]*geometry.Mesh, len(lodTiers))
	for _, tier := range lodTiers {
		mesh := meshesByTier[tier]
		if mesh == nil {
			return nil, fmt.Errorf("lod object for %q is missing the %s tier mesh", rec.ID, tier)
		}
		meshes[tier] = mesh
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return nil, ErrDisposed
	}
	if _, exists := m.objects[rec.ID]; exists {
		return nil, fmt.Errorf("lod object for %q already exists", rec.ID)
	}
	b := m.bodies.Body(rec.ID)
	if b == nil {
		return nil, fmt.Errorf("lod object for %q has no registered body", rec.ID)
	}

	obj := &lodObject{
		id:         rec.ID,
		meshes:     meshes,
		activeTier: b.DetailTier(),
	}
	m.objects[rec.ID] = obj
	m.order = append(m.order, rec.ID)

	return obj, nil
}

func (m *manager) LODObject(id string) LODObject {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if obj, ok := m.objects[id]; ok {
		return obj
	}
	return nil
}

func (m *manager) LODObjects() []LODObject {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]LODObject, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.objects[id])
	}
	return out
}

func (m *manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func (m *manager) UpdateLOD(camX, camY, camZ float32) {
	cam := [3]float32{camX, camY, camZ}

	type tierSwap struct {
		id   string
		tier geometry.Tier
	}
	var swaps []tierSwap

	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	for _, id := range m.order {
		obj := m.objects[id]
		b := m.bodies.Body(id)
		if b == nil {
			continue
		}
		px, py, pz := b.Position()
		tier := m.tierForDistance(common.Distance3(cam, [3]float32{px, py, pz}))
		if tier == obj.activeTier {
			continue
		}
		obj.activeTier = tier
		swaps = append(swaps, tierSwap{id: id, tier: tier})
	}
	m.mu.Unlock()

	// Mesh swaps run outside the registry lock; the body manager serializes
	// its own state.
	for _, s := range swaps {
		m.bodies.SetBodyTier(s.id, s.tier)
	}
}

func (m *manager) RemoveLODObject(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[id]; !ok {
		return false
	}
	delete(m.objects, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

func (m *manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.objects)
	m.order = m.order[:0]
}

func (m *manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.disposed {
		return Stats{}
	}
	return Stats{
		GeometryCount:  m.cache.Count(),
		GeometryBytes:  m.cache.ByteSize(),
		TextureCount:   m.loader.TextureCount(),
		TextureBytes:   m.loader.EstimatedTextureBytes(),
		LODObjectCount: len(m.objects),
	}
}

func (m *manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return
	}
	clear(m.objects)
	m.order = nil
	m.disposed = true
}

func (m *manager) Disposed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.disposed
}

// tierForDistance selects the tier whose threshold is the greatest at or
// below the camera distance.
func (m *manager) tierForDistance(d float32) geometry.Tier {
	switch {
	case d >= m.veryLowDistance:
		return geometry.TierVeryLow
	case d >= m.lowDistance:
		return geometry.TierLow
	case d >= m.mediumDistance:
		return geometry.TierMedium
	default:
		return geometry.TierHigh
	}
}
