package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/Carmen-Shannon/orrery/engine/geometry"
	"github.com/Carmen-Shannon/orrery/engine/light"
	"github.com/Carmen-Shannon/orrery/engine/renderer/material"
	"github.com/Carmen-Shannon/orrery/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// The bind group layouts below are the single source of truth for every render
// pipeline's resource interface. Each descriptor mirrors the group/binding
// declarations in the corresponding WGSL source, and MinBindingSize mirrors the
// Go-side GPU struct so InitBindGroup can create correctly sized buffers
// without any overrides. wgpu deduplicates structurally identical layouts, so
// a BindGroupProvider initialized from one of these descriptors is compatible
// with every pipeline that uses the same descriptor.

// CameraBindGroupLayoutDescriptor returns the layout for the camera uniform at group 0.
// Visible to both stages: the vertex stage consumes the view-projection matrix and the
// fragment stage consumes the camera position for specular lighting.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: a single uniform buffer entry at binding 0
func CameraBindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	u := camera.GPUCameraUniform{}
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(u.Size()),
				},
			},
		},
	}
}

// NodeBindGroupLayoutDescriptor returns the layout for the per-node model matrix at group 1.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: a single uniform buffer entry at binding 0
func NodeBindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	n := geometry.GPUNodeData{}
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Node Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(n.Size()),
				},
			},
		},
	}
}

// BodyMaterialBindGroupLayoutDescriptor returns the layout for the lit body material at
// group 2. Binding 0 holds the material parameter uniform; bindings 1 through 10 hold
// texture and sampler pairs in fixed order: albedo, normal, roughness, specular, emissive.
// Textures occupy the odd bindings and their samplers the following even bindings, matching
// the body fragment shader's declarations.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the eleven-entry lit material layout
func BodyMaterialBindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	p := material.GPUMaterialParams{}
	entries := []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64(p.Size()),
			},
		},
	}
	for binding := uint32(1); binding <= 9; binding += 2 {
		entries = append(entries, textureSamplerEntries(binding)...)
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Body Material Bind Group Layout",
		Entries: entries,
	}
}

// UnlitMaterialBindGroupLayoutDescriptor returns the layout for the unlit material at
// group 2. Binding 0 holds the material parameter uniform; bindings 1 and 2 hold the
// albedo texture and its sampler.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the three-entry unlit material layout
func UnlitMaterialBindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	p := material.GPUMaterialParams{}
	entries := []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64(p.Size()),
			},
		},
	}
	entries = append(entries, textureSamplerEntries(1)...)
	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Unlit Material Bind Group Layout",
		Entries: entries,
	}
}

// LightBindGroupLayoutDescriptor returns the layout for the scene light buffer at group 3.
// The buffer is a fixed-size uniform holding a light count header followed by MaxGPULights
// light records, matching the output of light.MarshalLightBuffer.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: a single uniform buffer entry at binding 0
func LightBindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	h := light.GPULightHeader{}
	l := light.GPULight{}
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Light Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(h.Size() + light.MaxGPULights*l.Size()),
				},
			},
		},
	}
}

// textureSamplerEntries builds a fragment-visible 2D float texture entry at the given
// binding and a filtering sampler entry at the next binding
func textureSamplerEntries(textureBinding uint32) []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    textureBinding,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    textureBinding + 1,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
	}
}

// bindGroupLayoutDescriptorsForKey returns the ordered bind group layout descriptors for
// the given pipeline key, indexed by group number
func bindGroupLayoutDescriptorsForKey(key string) ([]wgpu.BindGroupLayoutDescriptor, error) {
	switch key {
	case pipeline.KeyBody:
		return []wgpu.BindGroupLayoutDescriptor{
			CameraBindGroupLayoutDescriptor(),
			NodeBindGroupLayoutDescriptor(),
			BodyMaterialBindGroupLayoutDescriptor(),
			LightBindGroupLayoutDescriptor(),
		}, nil
	case pipeline.KeyUnlit, pipeline.KeyUnlitBlend, pipeline.KeyUnlitAdditive, pipeline.KeyUnlitBlendTwoSided:
		return []wgpu.BindGroupLayoutDescriptor{
			CameraBindGroupLayoutDescriptor(),
			NodeBindGroupLayoutDescriptor(),
			UnlitMaterialBindGroupLayoutDescriptor(),
		}, nil
	case pipeline.KeyStarfield:
		return []wgpu.BindGroupLayoutDescriptor{
			CameraBindGroupLayoutDescriptor(),
			NodeBindGroupLayoutDescriptor(),
		}, nil
	default:
		return nil, fmt.Errorf("no bind group layouts registered for pipeline key %q", key)
	}
}
