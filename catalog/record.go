// package catalog defines the celestial body description records consumed by
// the engine, their validation rules, and loaders for TOML catalog files.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// BodyType enumerates the supported celestial body categories.
type BodyType string

const (
	TypeStar   BodyType = "star"
	TypePlanet BodyType = "planet"
	TypeMoon   BodyType = "moon"
)

// Valid reports whether the body type is one of the enumerated values.
func (t BodyType) Valid() bool {
	switch t {
	case TypeStar, TypePlanet, TypeMoon:
		return true
	}
	return false
}

// KeyFacts is the descriptive fact block attached to a record. The engine
// treats it as opaque; it is carried through to selection callbacks for the
// host UI.
type KeyFacts struct {
	Diameter      string   `toml:"diameter,omitempty"`
	Distance      string   `toml:"distance,omitempty"`
	OrbitalPeriod string   `toml:"orbital_period,omitempty"`
	Composition   []string `toml:"composition,omitempty"`
	Temperature   string   `toml:"temperature,omitempty"`
	Moons         int      `toml:"moons,omitempty"`
}

// MaterialDescriptor describes how a body's surface should be shaded.
// Optional numeric fields are pointers so that an explicit zero survives the
// default merge.
type MaterialDescriptor struct {
	// Color is the base albedo as a hex string, e.g. "#2E86AB".
	Color string `toml:"color"`
	// Emissive is an optional self-illumination color (stars, lava worlds).
	Emissive string `toml:"emissive,omitempty"`
	// EmissiveIntensity scales the emissive contribution. Zero means default.
	EmissiveIntensity float32 `toml:"emissive_intensity,omitempty"`

	TextureURL   string `toml:"texture,omitempty"`
	NormalURL    string `toml:"normal_map,omitempty"`
	RoughnessURL string `toml:"roughness_map,omitempty"`
	SpecularURL  string `toml:"specular_map,omitempty"`
	EmissiveURL  string `toml:"emissive_map,omitempty"`

	Roughness   *float32 `toml:"roughness,omitempty"`
	Metalness   *float32 `toml:"metalness,omitempty"`
	Opacity     *float32 `toml:"opacity,omitempty"`
	Transparent bool     `toml:"transparent,omitempty"`

	// Atmosphere, when set, adds a translucent shell of this color around
	// the body.
	Atmosphere string `toml:"atmosphere,omitempty"`
}

// RingDescriptor describes a procedural ring system around a body.
type RingDescriptor struct {
	InnerRadius float32 `toml:"inner_radius"`
	OuterRadius float32 `toml:"outer_radius"`
	Color       string  `toml:"color"`
	Opacity     float32 `toml:"opacity,omitempty"`
	// Density controls the radial banding frequency of the generated ring
	// texture; higher values produce more gaps.
	Density float32 `toml:"density,omitempty"`
}

// Record is one immutable celestial body description. Records come from the
// built-in catalog, a TOML file, or the embedding application; the engine
// never mutates them.
type Record struct {
	ID          string     `toml:"id"`
	Name        string     `toml:"name"`
	Type        BodyType   `toml:"type"`
	Description string     `toml:"description,omitempty"`
	Facts       KeyFacts   `toml:"facts,omitempty"`
	Images      []string   `toml:"images,omitempty"`
	Position    [3]float32 `toml:"position,omitempty"`
	// Scale is the uniform world-space radius of the body. Must be > 0.
	Scale    float32            `toml:"scale"`
	Material MaterialDescriptor `toml:"material"`
	// OrbitRadius and OrbitSpeed drive circular orbital motion; a body moves
	// only when both are non-zero.
	OrbitRadius float32         `toml:"orbit_radius,omitempty"`
	OrbitSpeed  float32         `toml:"orbit_speed,omitempty"`
	Ring        *RingDescriptor `toml:"ring,omitempty"`
}

// Orbits reports whether the record describes orbital motion.
func (r *Record) Orbits() bool {
	return r.OrbitRadius != 0 && r.OrbitSpeed != 0
}

// Validate checks a record set against the catalog invariants: unique
// non-empty IDs, positive scales, enumerated types, exactly one star, and
// well-formed ring bounds.
//
// Parameters:
//   - records: the candidate body set
//
// Returns:
//   - error: nil when the set is valid, otherwise the first violation found
func Validate(records []Record) error {
	if len(records) == 0 {
		return fmt.Errorf("catalog: empty body set")
	}

	seen := make(map[string]struct{}, len(records))
	stars := 0
	for i := range records {
		r := &records[i]
		if r.ID == "" {
			return fmt.Errorf("catalog: record %d (%q) has no id", i, r.Name)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("catalog: duplicate id %q", r.ID)
		}
		seen[r.ID] = struct{}{}

		if !r.Type.Valid() {
			return fmt.Errorf("catalog: record %q has invalid type %q", r.ID, r.Type)
		}
		if r.Type == TypeStar {
			stars++
		}
		if r.Scale <= 0 {
			return fmt.Errorf("catalog: record %q has non-positive scale %g", r.ID, r.Scale)
		}
		if r.Ring != nil && r.Ring.InnerRadius >= r.Ring.OuterRadius {
			return fmt.Errorf("catalog: record %q ring inner radius %g >= outer radius %g",
				r.ID, r.Ring.InnerRadius, r.Ring.OuterRadius)
		}
		if r.Material.Color != "" {
			if _, err := ParseColor(r.Material.Color); err != nil {
				return fmt.Errorf("catalog: record %q: %w", r.ID, err)
			}
		}
	}

	if stars != 1 {
		return fmt.Errorf("catalog: body set must contain exactly one star, found %d", stars)
	}
	return nil
}

// ParseColor converts a "#RRGGBB" (or "RRGGBB") hex string into normalized
// RGBA components with alpha 1.
//
// Parameters:
//   - s: hex color string
//
// Returns:
//   - [4]float32: color components in [0, 1]
//   - error: non-nil when the string is not a 6-digit hex color
func ParseColor(s string) ([4]float32, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return [4]float32{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return [4]float32{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return [4]float32{
		float32(v>>16&0xFF) / 255.0,
		float32(v>>8&0xFF) / 255.0,
		float32(v&0xFF) / 255.0,
		1.0,
	}, nil
}

// ColorOrDefault parses s, falling back to def when s is empty or invalid.
func ColorOrDefault(s string, def [4]float32) [4]float32 {
	if s == "" {
		return def
	}
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}
