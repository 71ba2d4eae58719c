package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/gltf"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstanceDefaults(t *testing.T) {
	m := NewInstance(WithName("mat"))

	assert.Equal(t, "mat", m.Name())
	assert.Equal(t, [4]float32{1, 1, 1, 1}, m.BaseColor())
	assert.Equal(t, float32(1), m.Metallic())
	assert.Equal(t, float32(1), m.Roughness())
	assert.Equal(t, "OPAQUE", m.AlphaMode())
	assert.False(t, m.DoubleSided())

	_, bound := m.Texture(ParamBaseColor)
	assert.False(t, bound)
}

func TestInstanceTextureBinding(t *testing.T) {
	e := renderer.NewHeadlessEngine()
	tex, err := e.CreateTexture("base", common.TextureStagingData{
		Pixels: make([]byte, 4), Width: 1, Height: 1, SRGB: true,
	}, common.DefaultSampler())
	require.NoError(t, err)

	m := NewInstance(WithName("mat"))
	m.SetTexture(ParamBaseColor, tex)

	got, bound := m.Texture(ParamBaseColor)
	assert.True(t, bound)
	assert.Same(t, tex, got)

	all := m.BoundTextures()
	assert.Len(t, all, 1)
}

func TestProviderDefaultMaterial(t *testing.T) {
	p := NewProvider()

	m := p.CreateInstance(nil, "fallback")
	assert.Equal(t, "fallback", m.Name())
	assert.Equal(t, common.Uv0, m.UvMap()[0])
	assert.Equal(t, 1, p.CreatedCount())
}

func TestProviderFromDefinition(t *testing.T) {
	metallic := float32(0.25)
	roughness := float32(0.75)
	cutoff := float32(0.3)
	baseColor := [4]float32{1, 0, 0, 1}

	def := &gltf.Material{
		Name:        "paint",
		AlphaMode:   gltf.AlphaModeMask,
		AlphaCutoff: &cutoff,
		DoubleSided: true,
		PbrMetallicRoughness: &gltf.PbrMetallicRoughness{
			BaseColorFactor: &baseColor,
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
	}

	m := NewProvider().CreateInstance(def, "ignored")
	assert.Equal(t, "paint", m.Name())
	assert.Equal(t, baseColor, m.BaseColor())
	assert.Equal(t, metallic, m.Metallic())
	assert.Equal(t, roughness, m.Roughness())
	assert.Equal(t, gltf.AlphaModeMask, m.AlphaMode())
	assert.Equal(t, cutoff, m.AlphaCutoff())
	assert.True(t, m.DoubleSided())
}

func TestComputeUvMapOrderOfFirstUse(t *testing.T) {
	def := &gltf.Material{
		Name: "twosets",
		PbrMetallicRoughness: &gltf.PbrMetallicRoughness{
			BaseColorTexture:         &gltf.TextureInfo{Index: 0, TexCoord: 1},
			MetallicRoughnessTexture: &gltf.TextureInfo{Index: 1, TexCoord: 0},
		},
	}

	uvMap := ComputeUvMap(def)
	assert.Equal(t, common.Uv0, uvMap[1]) // first use wins the first slot
	assert.Equal(t, common.Uv1, uvMap[0])
}

func TestComputeUvMapDropsExcessSets(t *testing.T) {
	def := &gltf.Material{
		Name: "threesets",
		PbrMetallicRoughness: &gltf.PbrMetallicRoughness{
			BaseColorTexture:         &gltf.TextureInfo{Index: 0, TexCoord: 0},
			MetallicRoughnessTexture: &gltf.TextureInfo{Index: 1, TexCoord: 1},
		},
		EmissiveTexture: &gltf.TextureInfo{Index: 2, TexCoord: 2},
	}

	uvMap := ComputeUvMap(def)
	assert.Equal(t, common.Uv0, uvMap[0])
	assert.Equal(t, common.Uv1, uvMap[1])
	assert.Equal(t, common.UvUnused, uvMap[2])
}

func TestComputeUvMapSharedSet(t *testing.T) {
	def := &gltf.Material{
		Name: "shared",
		PbrMetallicRoughness: &gltf.PbrMetallicRoughness{
			BaseColorTexture:         &gltf.TextureInfo{Index: 0, TexCoord: 0},
			MetallicRoughnessTexture: &gltf.TextureInfo{Index: 1, TexCoord: 0},
		},
		NormalTexture: &gltf.NormalTextureInfo{TextureInfo: gltf.TextureInfo{Index: 2, TexCoord: 0}},
	}

	uvMap := ComputeUvMap(def)
	assert.Equal(t, common.Uv0, uvMap[0])
	assert.Equal(t, common.UvUnused, uvMap[1])
}

func TestComputeUvMapNilDefinition(t *testing.T) {
	uvMap := ComputeUvMap(nil)
	assert.Equal(t, common.UvMap{common.Uv0}, uvMap)

	// matches the default material the provider builds for nil definitions
	inst := NewProvider().CreateInstance(nil, "default")
	assert.Equal(t, uvMap, inst.UvMap())
}
