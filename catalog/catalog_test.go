package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSolarSystemIsValid(t *testing.T) {
	records := DefaultSolarSystem()
	require.NoError(t, Validate(records))

	stars := 0
	byID := make(map[string]*Record)
	for i := range records {
		if records[i].Type == TypeStar {
			stars++
		}
		byID[records[i].ID] = &records[i]
	}
	assert.Equal(t, 1, stars)

	// Anchor values other subsystems rely on.
	earth := byID["earth"]
	require.NotNil(t, earth)
	assert.InDelta(t, 8.0, earth.OrbitRadius, 1e-6)
	assert.InDelta(t, 0.03, earth.OrbitSpeed, 1e-6)
	assert.True(t, earth.Orbits())

	sun := byID["sun"]
	require.NotNil(t, sun)
	assert.False(t, sun.Orbits())
	assert.NotEmpty(t, sun.Material.Emissive)

	saturn := byID["saturn"]
	require.NotNil(t, saturn)
	require.NotNil(t, saturn.Ring)
	assert.Less(t, saturn.Ring.InnerRadius, saturn.Ring.OuterRadius)
}

func TestValidateRejections(t *testing.T) {
	base := func() []Record {
		return []Record{
			{ID: "sun", Name: "Sun", Type: TypeStar, Scale: 3},
			{ID: "earth", Name: "Earth", Type: TypePlanet, Scale: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func([]Record) []Record
		wantErr string
	}{
		{
			name:    "empty set",
			mutate:  func([]Record) []Record { return nil },
			wantErr: "empty body set",
		},
		{
			name: "duplicate id",
			mutate: func(r []Record) []Record {
				r[1].ID = "sun"
				return r
			},
			wantErr: "duplicate id",
		},
		{
			name: "missing id",
			mutate: func(r []Record) []Record {
				r[1].ID = ""
				return r
			},
			wantErr: "has no id",
		},
		{
			name: "invalid type",
			mutate: func(r []Record) []Record {
				r[1].Type = "asteroid"
				return r
			},
			wantErr: "invalid type",
		},
		{
			name: "zero scale",
			mutate: func(r []Record) []Record {
				r[1].Scale = 0
				return r
			},
			wantErr: "non-positive scale",
		},
		{
			name: "two stars",
			mutate: func(r []Record) []Record {
				r[1].Type = TypeStar
				return r
			},
			wantErr: "exactly one star",
		},
		{
			name: "no star",
			mutate: func(r []Record) []Record {
				r[0].Type = TypePlanet
				return r
			},
			wantErr: "exactly one star",
		},
		{
			name: "inverted ring bounds",
			mutate: func(r []Record) []Record {
				r[1].Ring = &RingDescriptor{InnerRadius: 4, OuterRadius: 2}
				return r
			},
			wantErr: "ring inner radius",
		},
		{
			name: "bad color",
			mutate: func(r []Record) []Record {
				r[1].Material.Color = "#XYZ123"
				return r
			},
			wantErr: "invalid hex color",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.mutate(base()))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    [4]float32
		wantErr bool
	}{
		{name: "with hash", in: "#FF0000", want: [4]float32{1, 0, 0, 1}},
		{name: "without hash", in: "00FF00", want: [4]float32{0, 1, 0, 1}},
		{name: "mixed", in: "#2E86AB", want: [4]float32{46.0 / 255, 134.0 / 255, 171.0 / 255, 1}},
		{name: "too short", in: "#FFF", wantErr: true},
		{name: "not hex", in: "#GGHHII", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-6)
			}
		})
	}
}

func TestColorOrDefault(t *testing.T) {
	def := [4]float32{0.5, 0.5, 0.5, 1}
	assert.Equal(t, def, ColorOrDefault("", def))
	assert.Equal(t, def, ColorOrDefault("not-a-color", def))
	assert.Equal(t, [4]float32{1, 1, 1, 1}, ColorOrDefault("#FFFFFF", def))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.toml")

	content := `
[[bodies]]
id = "proxima"
name = "Proxima Centauri"
type = "star"
scale = 2.5
position = [0.0, 0.0, 0.0]

[bodies.material]
color = "#FF6644"
emissive = "#FF6644"

[[bodies]]
id = "proxima-b"
name = "Proxima b"
type = "planet"
scale = 0.8
orbit_radius = 6.0
orbit_speed = 0.04

[bodies.material]
color = "#AA8866"
roughness = 0.75
atmosphere = "#CCAA88"

[bodies.ring]
inner_radius = 1.5
outer_radius = 2.5
color = "#998877"
opacity = 0.6
density = 12.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "proxima", records[0].ID)
	assert.Equal(t, TypeStar, records[0].Type)

	b := records[1]
	assert.Equal(t, TypePlanet, b.Type)
	assert.InDelta(t, 6.0, b.OrbitRadius, 1e-6)
	require.NotNil(t, b.Material.Roughness)
	assert.InDelta(t, 0.75, *b.Material.Roughness, 1e-6)
	require.NotNil(t, b.Ring)
	assert.InDelta(t, 2.5, b.Ring.OuterRadius, 1e-6)
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.toml"))
		require.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("[[bodies]\nid="), 0o644))
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("fails validation", func(t *testing.T) {
		path := filepath.Join(dir, "nostar.toml")
		content := `
[[bodies]]
id = "lonely"
name = "Lonely"
type = "planet"
scale = 1.0
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one star")
	})
}
