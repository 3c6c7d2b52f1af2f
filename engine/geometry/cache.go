package geometry

import (
	"fmt"
	"log"
	"sync"
)

// Category identifies the body class a geometry is requested for. Stars and
// gas giants bias one detail tier up, moons one tier down, so large or
// prominent bodies keep silhouette quality while small satellites stay cheap.
type Category string

const (
	CategoryStar     Category = "star"
	CategoryGasGiant Category = "gas-giant"
	CategoryPlanet   Category = "planet"
	CategoryMoon     Category = "moon"
)

// Tier is a discrete level-of-detail step for sphere tessellation.
type Tier int

const (
	// TierVeryLow is an 8×8 sphere used beyond the far LOD threshold.
	TierVeryLow Tier = iota
	// TierLow is a 16×16 sphere.
	TierLow
	// TierMedium is a 32×32 sphere.
	TierMedium
	// TierHigh is a 64×64 sphere used close to the camera.
	TierHigh
)

// Segments returns the ring/segment count for the tier.
func (t Tier) Segments() int {
	switch t {
	case TierVeryLow:
		return 8
	case TierLow:
		return 16
	case TierMedium:
		return 32
	case TierHigh:
		return 64
	default:
		return 8
	}
}

// String returns a stable name for cache keys and logs.
func (t Tier) String() string {
	switch t {
	case TierVeryLow:
		return "very-low"
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Biased shifts the tier by the category's detail bias, clamped to the valid
// tier range.
func (c Category) Biased(t Tier) Tier {
	switch c {
	case CategoryStar, CategoryGasGiant:
		t++
	case CategoryMoon:
		t--
	}
	if t < TierVeryLow {
		return TierVeryLow
	}
	if t > TierHigh {
		return TierHigh
	}
	return t
}

// cache is the implementation of the Cache interface.
type cache struct {
	mu sync.RWMutex

	baseRadius   float32
	ringSegments int

	spheres map[int]*Mesh    // keyed by resolved segment count
	rings   map[string]*Mesh // keyed by inner:outer radius pair

	disposed bool
}

// Cache pre-builds and memoizes the sphere geometries for every detail tier
// plus on-demand ring geometries. Returned meshes are shared instances;
// callers must treat them as immutable. All methods are safe for concurrent
// use and become no-ops after Dispose.
type Cache interface {
	// Geometry returns the shared unit sphere for a body category at the
	// given detail tier. An absent key logs a warning and falls back to the
	// lowest tier rather than failing.
	//
	// Parameters:
	//   - category: body class, which biases the effective tier
	//   - tier: requested level-of-detail tier
	//
	// Returns:
	//   - *Mesh: the cached sphere mesh, or nil only after Dispose
	Geometry(category Category, tier Tier) *Mesh

	// Ring returns the shared annulus mesh for the given radius pair,
	// building and caching it on first request.
	//
	// Parameters:
	//   - innerRadius: inner edge in world units
	//   - outerRadius: outer edge in world units
	//
	// Returns:
	//   - *Mesh: the cached ring mesh, or nil only after Dispose
	Ring(innerRadius, outerRadius float32) *Mesh

	// Count returns the number of cached meshes.
	//
	// Returns:
	//   - int: cached sphere + ring mesh count
	Count() int

	// ByteSize returns the summed attribute byte length across all cached
	// meshes. This is an estimate for statistics, not measured GPU memory.
	//
	// Returns:
	//   - int: estimated bytes
	ByteSize() int

	// Dispose clears every cached mesh and zeroes the counters. Safe to call
	// repeatedly.
	Dispose()
}

var _ Cache = &cache{}

// NewCache creates a geometry cache and pre-populates the sphere tiers.
//
// Parameters:
//   - options: a variadic list of CacheBuilderOption functions to configure the Cache
//
// Returns:
//   - Cache: a new instance of Cache with all sphere tiers built
func NewCache(options ...CacheBuilderOption) Cache {
	c := &cache{
		baseRadius:   1.0,
		ringSegments: 96,
		spheres:      make(map[int]*Mesh),
		rings:        make(map[string]*Mesh),
	}

	for _, option := range options {
		option(c)
	}

	for _, tier := range []Tier{TierVeryLow, TierLow, TierMedium, TierHigh} {
		segs := tier.Segments()
		c.spheres[segs] = BuildSphere(c.baseRadius, segs, segs)
	}

	return c
}

func (c *cache) Geometry(category Category, tier Tier) *Mesh {
	segs := category.Biased(tier).Segments()

	c.mu.RLock()
	defer c.mu.RUnlock()

	if m, ok := c.spheres[segs]; ok {
		return m
	}

	log.Printf("geometry: no cached sphere for %s/%s (%d segments), falling back to lowest tier",
		category, tier, segs)
	return c.spheres[TierVeryLow.Segments()]
}

func (c *cache) Ring(innerRadius, outerRadius float32) *Mesh {
	key := fmt.Sprintf("%g:%g", innerRadius, outerRadius)

	c.mu.RLock()
	if m, ok := c.rings[key]; ok {
		c.mu.RUnlock()
		return m
	}
	disposed := c.disposed
	c.mu.RUnlock()

	if disposed {
		log.Printf("geometry: ring %s requested after dispose", key)
		return nil
	}

	m := BuildRing(innerRadius, outerRadius, c.ringSegments)

	c.mu.Lock()
	c.rings[key] = m
	c.mu.Unlock()

	return m
}

func (c *cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.spheres) + len(c.rings)
}

func (c *cache) ByteSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, m := range c.spheres {
		total += m.ByteSize()
	}
	for _, m := range c.rings {
		total += m.ByteSize()
	}
	return total
}

func (c *cache) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.spheres)
	clear(c.rings)
	c.disposed = true
}
