// pre_processor.go implements the orrery WGSL shader pre-processor. It scans
// shader source for @orrery: annotations and replaces them with WGSL text that
// is owned by the engine's Go GPU type packages, so a struct layout is defined
// once next to its Marshal method and injected into every shader that binds it.
//
// Two annotation forms exist:
//
//	//@orrery:include <struct_key>  — replaced with the embedded WGSL struct source
//	//@orrery:const <const_key>     — replaced with a generated WGSL const declaration
//
// Binding declarations themselves are hand-written in the shader sources; the
// pipeline layouts they must match are declared in Go by the renderer backend.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/Carmen-Shannon/orrery/engine/geometry"
	"github.com/Carmen-Shannon/orrery/engine/light"
	"github.com/Carmen-Shannon/orrery/engine/renderer/material"
)

// annotationPrefix is the marker that identifies an annotation within a WGSL
// comment line. Every annotation must appear on its own line beginning with
// "//" followed by this prefix.
const annotationPrefix = "@orrery:"

// registryEntry pairs a WGSL struct source string (embedded from a .wgsl asset
// file next to its Go GPU type) with the WGSL type name it defines.
type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by @orrery:include.
	Source string

	// Type is the WGSL type name the source defines (e.g. "CameraUniform", "Light").
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// structRegistry maps struct keys to their embedded WGSL source and type name.
	structRegistry map[string]registryEntry

	// constRegistry maps const keys to generated WGSL const declarations whose
	// values come from the Go-side constants they must agree with.
	constRegistry map[string]string
}

// PreProcessor processes raw WGSL shader source code containing @orrery:
// annotations, replacing them with struct sources and const declarations from
// the engine's GPU type packages.
type PreProcessor interface {
	// Process takes raw WGSL shader source code and replaces every @orrery:
	// annotation line with its corresponding WGSL output.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations
	//
	// Returns:
	//   - string: the processed WGSL shader source code
	//   - error: an error if any annotation is malformed or references an unknown key
	Process(source string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with all registered struct types
// and const declarations pre-populated from the engine's GPU type packages.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[string]registryEntry{
			"camera":          {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			"vertex":          {Source: geometry.GPUVertexSource, Type: "VertexInput"},
			"node_data":       {Source: geometry.GPUNodeDataSource, Type: "NodeData"},
			"light":           {Source: light.GPULightSource, Type: "Light"},
			"light_header":    {Source: light.GPULightHeaderSource, Type: "LightHeader"},
			"material_params": {Source: material.GPUMaterialParamsSource, Type: "MaterialParams"},
		},
		constRegistry: map[string]string{
			"max_lights": fmt.Sprintf("const MAX_LIGHTS: u32 = %du;", light.MaxGPULights),
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		_, after, ok := strings.Cut(trimmed, annotationPrefix)
		if !ok {
			out = append(out, line)
			continue
		}

		args := strings.Fields(after)
		if len(args) == 0 {
			return "", fmt.Errorf("line %d: empty @orrery annotation", i+1)
		}

		switch args[0] {
		case "include":
			if len(args) != 2 {
				return "", fmt.Errorf("line %d: @orrery include annotation requires exactly one argument", i+1)
			}
			entry, ok := p.structRegistry[args[1]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown struct key %q in @orrery include annotation", i+1, args[1])
			}
			out = append(out, entry.Source)
		case "const":
			if len(args) != 2 {
				return "", fmt.Errorf("line %d: @orrery const annotation requires exactly one argument", i+1)
			}
			decl, ok := p.constRegistry[args[1]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown const key %q in @orrery const annotation", i+1, args[1])
			}
			out = append(out, decl)
		default:
			return "", fmt.Errorf("line %d: unknown @orrery annotation type %q", i+1, args[0])
		}
	}
	return strings.Join(out, "\n"), nil
}
