package shader

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/orrery/engine/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessExpandsIncludes(t *testing.T) {
	pp := NewPreProcessor()

	src := "//@orrery:include camera\n@group(0) @binding(0) var<uniform> camera: CameraUniform;"
	out, err := pp.Process(src)
	require.NoError(t, err)

	assert.Contains(t, out, "struct CameraUniform")
	assert.Contains(t, out, "view_proj: mat4x4<f32>")
	assert.NotContains(t, out, "@orrery:")
}

func TestProcessExpandsConsts(t *testing.T) {
	pp := NewPreProcessor()

	out, err := pp.Process("//@orrery:const max_lights")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("const MAX_LIGHTS: u32 = %du;", light.MaxGPULights), out)
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown include key", "//@orrery:include nebula"},
		{"unknown const key", "//@orrery:const max_moons"},
		{"unknown annotation type", "//@orrery:provider 0 0 camera"},
		{"empty annotation", "//@orrery: "},
		{"include missing argument", "//@orrery:include"},
	}
	pp := NewPreProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pp.Process(tt.src)
			assert.Error(t, err)
		})
	}
}

func TestProcessLeavesPlainSourceUntouched(t *testing.T) {
	pp := NewPreProcessor()

	src := "@vertex\nfn vs_main() -> @builtin(position) vec4<f32> {\n    return vec4<f32>(0.0);\n}"
	out, err := pp.Process(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestNewShaderBody(t *testing.T) {
	s := NewShader("body", BodySource)

	assert.Equal(t, "body", s.Key())
	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())

	require.NotNil(t, s.Module())
	assert.Equal(t, "body", s.Module().Label)
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)

	// Every annotation resolved and every bound struct present.
	assert.NotContains(t, s.Source(), "@orrery:")
	for _, structName := range []string{
		"struct CameraUniform", "struct NodeData", "struct MaterialParams",
		"struct Light", "struct LightHeader", "struct VertexInput",
	} {
		assert.Contains(t, s.Source(), structName)
	}
	assert.Contains(t, s.Source(), fmt.Sprintf("const MAX_LIGHTS: u32 = %du;", light.MaxGPULights))
}

func TestNewShaderUnlit(t *testing.T) {
	s := NewShader("unlit", UnlitSource)

	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())
	assert.Contains(t, s.Source(), "struct MaterialParams")
	assert.NotContains(t, s.Source(), "@orrery:")
}

func TestNewShaderStarfield(t *testing.T) {
	s := NewShader("starfield", StarfieldSource)

	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())
	assert.Contains(t, s.Source(), "struct StarInstance")
	assert.Contains(t, s.Source(), "struct CameraUniform")
}

func TestNewShaderPanicsOnMissingEntryPoint(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("broken", "fn helper() {}")
	})
}

func TestNewShaderPanicsOnBadAnnotation(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("broken", "//@orrery:include warp_field")
	})
}

func TestParseEntryPoint(t *testing.T) {
	src := strings.Join([]string{
		"@vertex",
		"fn my_vertex(in: VertexInput) -> VertexOutput {",
		"}",
		"@fragment",
		"fn my_fragment(in: VertexOutput) -> @location(0) vec4<f32> {",
		"}",
	}, "\n")

	assert.Equal(t, "my_vertex", parseEntryPoint(src, "@vertex"))
	assert.Equal(t, "my_fragment", parseEntryPoint(src, "@fragment"))
	assert.Equal(t, "", parseEntryPoint("fn nothing() {}", "@vertex"))
}
