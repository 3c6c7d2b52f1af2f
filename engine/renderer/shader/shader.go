package shader

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// BodySource is the raw WGSL source for the lit body pipeline (standard
// materials on planet and moon surfaces).
//
//go:embed assets/body.wgsl
var BodySource string

// UnlitSource is the raw WGSL source for the unlit pipeline (basic and
// emissive materials: stars, rings, atmosphere and glow shells, orbit lines).
//
//go:embed assets/unlit.wgsl
var UnlitSource string

// StarfieldSource is the raw WGSL source for the instanced starfield pipeline.
//
//go:embed assets/starfield.wgsl
var StarfieldSource string

// shaderImpl is the implementation of the Shader interface. It holds the
// processed source and the module descriptor used for pipeline creation.
type shaderImpl struct {
	key           string
	source        string
	vertexEntry   string
	fragmentEntry string
	module        *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a pre-processed WGSL shader module holding
// both a vertex and a fragment entry point. The raw sources are embedded in
// this package; NewShader runs the pre-processor over them and resolves the
// entry point names so pipeline creation never hard-codes them.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the processed WGSL source code with all annotations expanded.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the name of the @vertex entry function.
	//
	// Returns:
	//   - string: the vertex entry point name
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment entry function.
	//
	// Returns:
	//   - string: the fragment entry point name
	FragmentEntryPoint() string

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shaderImpl{}

// NewShader creates a new Shader from raw WGSL source. The source is run
// through the pre-processor and the entry point names are parsed from the
// result. Panics when the source is malformed; shaders are embedded assets,
// so a failure here is a build defect rather than a runtime condition.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and labels
//   - rawSource: the raw WGSL source containing @orrery: annotations
//
// Returns:
//   - Shader: a new Shader instance with the processed source
func NewShader(key string, rawSource string) Shader {
	pp := NewPreProcessor()
	processed, err := pp.Process(rawSource)
	if err != nil {
		panic(fmt.Sprintf("shader: failed to pre-process %q: %v", key, err))
	}

	vertexEntry := parseEntryPoint(processed, "@vertex")
	if vertexEntry == "" {
		panic(fmt.Sprintf("shader: %q has no @vertex entry point", key))
	}
	fragmentEntry := parseEntryPoint(processed, "@fragment")
	if fragmentEntry == "" {
		panic(fmt.Sprintf("shader: %q has no @fragment entry point", key))
	}

	return &shaderImpl{
		key:           key,
		source:        processed,
		vertexEntry:   vertexEntry,
		fragmentEntry: fragmentEntry,
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: processed,
			},
		},
	}
}

func (s *shaderImpl) Key() string {
	return s.key
}

func (s *shaderImpl) Source() string {
	return s.source
}

func (s *shaderImpl) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shaderImpl) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shaderImpl) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

// parseEntryPoint finds the function name declared immediately after the given
// stage attribute. Returns an empty string when the stage is absent.
func parseEntryPoint(source, stageAttr string) string {
	idx := strings.Index(source, stageAttr)
	if idx < 0 {
		return ""
	}
	rest := source[idx+len(stageAttr):]
	fnIdx := strings.Index(rest, "fn ")
	if fnIdx < 0 {
		return ""
	}
	rest = rest[fnIdx+len("fn "):]
	parenIdx := strings.IndexByte(rest, '(')
	if parenIdx < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:parenIdx])
}
