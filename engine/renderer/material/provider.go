package material

import (
	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/gltf"
)

// provider is the implementation of the Provider interface.
type provider struct {
	created int
}

// Provider turns source material definitions into configured material
// instances. It owns the UV remapping policy: each definition's
// texture-coordinate sets are squeezed into the renderer's supported sets
// before the instance is created.
type Provider interface {
	// CreateInstance builds a material instance from a source definition.
	// A nil definition produces the default material: white base color, fully
	// rough, with source set 0 mapped to the first renderer set.
	//
	// Parameters:
	//   - def: the source material definition, or nil for the default material
	//   - label: the instance name, used when the definition has no name
	//
	// Returns:
	//   - Instance: the configured instance
	CreateInstance(def *gltf.Material, label string) Instance

	// CreatedCount returns the number of instances this provider has built.
	//
	// Returns:
	//   - int: the number of created instances
	CreatedCount() int
}

var _ Provider = &provider{}

// NewProvider creates a material provider.
//
// Returns:
//   - Provider: the new provider
func NewProvider() Provider {
	return &provider{}
}

func (p *provider) CreateInstance(def *gltf.Material, label string) Instance {
	p.created++

	if def == nil {
		return NewInstance(
			WithName(label),
			WithUvMap(common.UvMap{common.Uv0}),
		)
	}

	name := common.Coalesce(def.Name, label)
	opts := []InstanceOption{
		WithName(name),
		WithUvMap(ComputeUvMap(def)),
		WithDoubleSided(def.DoubleSided),
	}

	if def.AlphaMode != "" {
		cutoff := float32(0.5)
		if def.AlphaCutoff != nil {
			cutoff = *def.AlphaCutoff
		}
		opts = append(opts, WithAlphaMode(def.AlphaMode, cutoff))
	}

	if def.EmissiveFactor != nil {
		opts = append(opts, WithEmissive(*def.EmissiveFactor))
	}

	if pbr := def.PbrMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			opts = append(opts, WithBaseColor(*pbr.BaseColorFactor))
		}
		metallic := float32(1.0)
		roughness := float32(1.0)
		if pbr.MetallicFactor != nil {
			metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			roughness = *pbr.RoughnessFactor
		}
		opts = append(opts, WithMetallicRoughness(metallic, roughness))
	}

	return NewInstance(opts...)
}

func (p *provider) CreatedCount() int {
	return p.created
}

// ComputeUvMap assigns renderer texture-coordinate sets to the source sets a
// material samples. Sets are assigned in order of first use across the
// material's texture slots; sets beyond the renderer's capacity stay unused.
// A nil definition gets the default material's mapping, source set 0 to the
// first renderer set.
//
// Parameters:
//   - def: the source material definition, or nil for the default material
//
// Returns:
//   - common.UvMap: the computed remapping
func ComputeUvMap(def *gltf.Material) common.UvMap {
	if def == nil {
		return common.UvMap{common.Uv0}
	}

	var uvMap common.UvMap
	nextSlot := common.Uv0

	assign := func(info *gltf.TextureInfo) {
		if info == nil {
			return
		}
		set := info.TexCoord
		if set < 0 || set >= common.MaxSourceUvSets {
			common.LogWarn("material %q samples out-of-range texcoord set %d", def.Name, set)
			return
		}
		if uvMap[set] != common.UvUnused {
			return
		}
		if int(nextSlot-common.Uv0) >= common.MaxUvSlots {
			common.LogWarn("material %q uses more than %d texcoord sets, set %d dropped", def.Name, common.MaxUvSlots, set)
			return
		}
		uvMap[set] = nextSlot
		nextSlot++
	}

	if pbr := def.PbrMetallicRoughness; pbr != nil {
		assign(pbr.BaseColorTexture)
		assign(pbr.MetallicRoughnessTexture)
	}
	if def.NormalTexture != nil {
		assign(&def.NormalTexture.TextureInfo)
	}
	if def.OcclusionTexture != nil {
		assign(&def.OcclusionTexture.TextureInfo)
	}
	assign(def.EmissiveTexture)

	return uvMap
}
