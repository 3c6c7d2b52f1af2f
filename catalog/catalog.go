package catalog

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// File is the on-disk shape of a catalog: a list of [[bodies]] tables.
type File struct {
	Bodies []Record `toml:"bodies"`
}

// Load reads and validates a TOML catalog file.
//
// Parameters:
//   - path: path to the catalog file
//
// Returns:
//   - []Record: the validated body set
//   - error: read, parse, or validation failure
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if err := Validate(f.Bodies); err != nil {
		return nil, err
	}
	return f.Bodies, nil
}

func fptr(v float32) *float32 { return &v }

// DefaultSolarSystem returns the built-in body set: the Sun and the eight
// planets with visualization-scaled sizes and orbits. Radii, distances, and
// periods in the fact blocks are real values; scene-space scales and orbital
// speeds are compressed so the whole system fits one view.
func DefaultSolarSystem() []Record {
	return []Record{
		{
			ID:          "sun",
			Name:        "Sun",
			Type:        TypeStar,
			Description: "The star at the center of the solar system, a near-perfect sphere of hot plasma.",
			Facts: KeyFacts{
				Diameter:      "1,392,000 km",
				Distance:      "0 AU",
				OrbitalPeriod: "—",
				Composition:   []string{"hydrogen", "helium"},
				Temperature:   "5,500 °C (surface)",
			},
			Position: [3]float32{0, 0, 0},
			Scale:    3.0,
			Material: MaterialDescriptor{
				Color:             "#FDB813",
				Emissive:          "#FDB813",
				EmissiveIntensity: 1.0,
			},
		},
		{
			ID:          "mercury",
			Name:        "Mercury",
			Type:        TypePlanet,
			Description: "The smallest planet and the closest to the Sun, with no atmosphere to retain heat.",
			Facts: KeyFacts{
				Diameter:      "4,879 km",
				Distance:      "0.39 AU",
				OrbitalPeriod: "88 days",
				Composition:   []string{"rock", "iron"},
				Temperature:   "-180 to 430 °C",
			},
			Scale:       0.38,
			Material:    MaterialDescriptor{Color: "#B5B5B5", Roughness: fptr(0.9)},
			OrbitRadius: 5,
			OrbitSpeed:  0.048,
		},
		{
			ID:          "venus",
			Name:        "Venus",
			Type:        TypePlanet,
			Description: "The hottest planet, wrapped in a dense carbon-dioxide atmosphere. It rotates backwards.",
			Facts: KeyFacts{
				Diameter:      "12,104 km",
				Distance:      "0.72 AU",
				OrbitalPeriod: "225 days",
				Composition:   []string{"rock", "carbon dioxide atmosphere"},
				Temperature:   "465 °C",
			},
			Scale: 0.72,
			Material: MaterialDescriptor{
				Color:      "#E8CDA2",
				Roughness:  fptr(0.8),
				Atmosphere: "#E8C468",
			},
			OrbitRadius: 6.5,
			OrbitSpeed:  0.038,
		},
		{
			ID:          "earth",
			Name:        "Earth",
			Type:        TypePlanet,
			Description: "The only known world to support life, with liquid water across most of its surface.",
			Facts: KeyFacts{
				Diameter:      "12,742 km",
				Distance:      "1.00 AU",
				OrbitalPeriod: "365 days",
				Composition:   []string{"rock", "water", "nitrogen-oxygen atmosphere"},
				Temperature:   "15 °C (average)",
				Moons:         1,
			},
			Scale: 0.75,
			Material: MaterialDescriptor{
				Color:      "#2E86AB",
				Roughness:  fptr(0.6),
				Atmosphere: "#88CCFF",
			},
			OrbitRadius: 8,
			OrbitSpeed:  0.03,
		},
		{
			ID:          "mars",
			Name:        "Mars",
			Type:        TypePlanet,
			Description: "The red planet, home to Olympus Mons, the tallest volcano in the solar system.",
			Facts: KeyFacts{
				Diameter:      "6,779 km",
				Distance:      "1.52 AU",
				OrbitalPeriod: "687 days",
				Composition:   []string{"rock", "iron oxide dust"},
				Temperature:   "-60 °C (average)",
				Moons:         2,
			},
			Scale:       0.55,
			Material:    MaterialDescriptor{Color: "#C1440E", Roughness: fptr(0.9)},
			OrbitRadius: 11,
			OrbitSpeed:  0.024,
		},
		{
			ID:          "jupiter",
			Name:        "Jupiter",
			Type:        TypePlanet,
			Description: "The largest planet. Its Great Red Spot is a storm that has raged for centuries.",
			Facts: KeyFacts{
				Diameter:      "139,822 km",
				Distance:      "5.20 AU",
				OrbitalPeriod: "11.9 years",
				Composition:   []string{"hydrogen", "helium"},
				Temperature:   "-110 °C (cloud tops)",
				Moons:         95,
			},
			Scale:       1.9,
			Material:    MaterialDescriptor{Color: "#C88B3A", Roughness: fptr(0.5)},
			OrbitRadius: 16,
			OrbitSpeed:  0.013,
		},
		{
			ID:          "saturn",
			Name:        "Saturn",
			Type:        TypePlanet,
			Description: "Famous for its ring system of ice and rock. Its density is lower than water.",
			Facts: KeyFacts{
				Diameter:      "116,464 km",
				Distance:      "9.58 AU",
				OrbitalPeriod: "29.5 years",
				Composition:   []string{"hydrogen", "helium", "ice rings"},
				Temperature:   "-140 °C (cloud tops)",
				Moons:         146,
			},
			Scale:       1.65,
			Material:    MaterialDescriptor{Color: "#E4D191", Roughness: fptr(0.5)},
			OrbitRadius: 21,
			OrbitSpeed:  0.0095,
			Ring: &RingDescriptor{
				InnerRadius: 2.1,
				OuterRadius: 3.8,
				Color:       "#D8C79A",
				Opacity:     0.8,
				Density:     24,
			},
		},
		{
			ID:          "uranus",
			Name:        "Uranus",
			Type:        TypePlanet,
			Description: "An ice giant tipped on its side; its rotation axis is tilted 98 degrees.",
			Facts: KeyFacts{
				Diameter:      "50,724 km",
				Distance:      "19.2 AU",
				OrbitalPeriod: "84 years",
				Composition:   []string{"water ice", "methane", "ammonia"},
				Temperature:   "-195 °C",
				Moons:         27,
			},
			Scale:       1.15,
			Material:    MaterialDescriptor{Color: "#7DE8E8", Roughness: fptr(0.4)},
			OrbitRadius: 26,
			OrbitSpeed:  0.0065,
		},
		{
			ID:          "neptune",
			Name:        "Neptune",
			Type:        TypePlanet,
			Description: "The most distant planet, with the fastest winds in the solar system.",
			Facts: KeyFacts{
				Diameter:      "49,244 km",
				Distance:      "30.0 AU",
				OrbitalPeriod: "165 years",
				Composition:   []string{"water ice", "methane", "hydrogen"},
				Temperature:   "-200 °C",
				Moons:         16,
			},
			Scale:       1.1,
			Material:    MaterialDescriptor{Color: "#3F54BA", Roughness: fptr(0.4)},
			OrbitRadius: 30,
			OrbitSpeed:  0.005,
		},
	}
}
