package loader

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/asset"
	"github.com/Carmen-Shannon/oxy-assets/engine/entity"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDocument builds a two-node scene sharing one triangle mesh: positions,
// uint16 indices and animation keyframe times packed in a data: URI buffer,
// a textured material, and an external image URI.
func testDocument(t *testing.T) []byte {
	t.Helper()

	buf := make([]byte, 56)
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}}
	for i, p := range positions {
		for c, v := range p {
			binary.LittleEndian.PutUint32(buf[i*12+c*4:], math.Float32bits(v))
		}
	}
	for i, idx := range []uint16{0, 1, 2} {
		binary.LittleEndian.PutUint16(buf[36+i*2:], idx)
	}
	for i, ts := range []float32{0, 1.25, 2.5} {
		binary.LittleEndian.PutUint32(buf[44+i*4:], math.Float32bits(ts))
	}
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf)

	doc := fmt.Sprintf(`{
		"asset": {"version": "2.0", "extras": {"author": "pipeline"}},
		"scene": 0,
		"scenes": [{"nodes": [0, 1]}],
		"nodes": [
			{"name": "WheelFront", "mesh": 0, "translation": [2, 0, 0], "extras": {"lod": 1}},
			{"name": "WheelRear", "mesh": 0}
		],
		"meshes": [{
			"name": "Wheel",
			"primitives": [{"attributes": {"POSITION": 0}, "indices": 1, "material": 0}],
			"extras": {"targetNames": ["open", "closed"]}
		}],
		"materials": [{
			"name": "Rubber",
			"pbrMetallicRoughness": {"baseColorTexture": {"index": 0}},
			"normalTexture": {"index": 0}
		}],
		"textures": [{"source": 0, "sampler": 0}],
		"samplers": [{"magFilter": 9728, "minFilter": 9986, "wrapS": 33071, "wrapT": 33648}],
		"images": [{"uri": "albedo.png"}],
		"animations": [{
			"name": "spin",
			"channels": [{"sampler": 0, "target": {"node": 0, "path": "rotation"}}],
			"samplers": [{"input": 2, "output": 2}]
		}],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 2, 0]},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
			{"bufferView": 2, "componentType": 5126, "count": 3, "type": "SCALAR", "max": [2.5]}
		],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": 36, "byteLength": 6},
			{"buffer": 0, "byteOffset": 44, "byteLength": 12}
		],
		"buffers": [{"byteLength": 56, "uri": "%s"}]
	}`, uri)
	return []byte(doc)
}

func newTestLoader() (AssetLoader, renderer.HeadlessEngine, entity.Manager) {
	eng := renderer.NewHeadlessEngine()
	em := entity.NewManager()
	l := NewAssetLoader(
		WithEngine(eng),
		WithEntityManager(em),
		WithNameManager(entity.NewNameManager()),
		WithTransformManager(entity.NewTransformManager()),
		WithMaterialProvider(material.NewProvider()),
	)
	return l, eng, em
}

func TestCreateAssetRequiresEngine(t *testing.T) {
	l := NewAssetLoader()
	_, err := l.CreateAsset(testDocument(t))
	assert.ErrorIs(t, err, ErrNoEngine)
}

func TestCreateAssetRejectsGarbage(t *testing.T) {
	l, _, _ := newTestLoader()
	_, err := l.CreateAsset([]byte("not gltf"))
	assert.Error(t, err)
}

func TestCreateAssetSharedMesh(t *testing.T) {
	l, _, _ := newTestLoader()
	a, err := l.CreateAsset(testDocument(t))
	require.NoError(t, err)

	// root + two mesh nodes
	assert.Len(t, a.Entities(), 3)
	assert.False(t, a.Root().IsNull())
	assert.False(t, a.IsInstanced())

	// one primitive translated once despite two referencing nodes:
	// indices + POSITION + generated NORMAL + generated TANGENT
	assert.Len(t, a.BufferSlots(), 4)
	assert.Len(t, a.MaterialInstances(), 1)

	var generated []int
	for _, slot := range a.BufferSlots() {
		if slot.Accessor < 0 {
			generated = append(generated, slot.Accessor)
		}
	}
	assert.ElementsMatch(t, []int{asset.AccessorGenerateNormals, asset.AccessorGenerateTangents}, generated)
}

func TestCreateAssetNamesAndExtras(t *testing.T) {
	l, _, _ := newTestLoader()
	a, err := l.CreateAsset(testDocument(t))
	require.NoError(t, err)

	front := a.FirstEntityByName("WheelFront")
	require.False(t, front.IsNull())

	out := make([]entity.Entity, 4)
	assert.Equal(t, 2, a.EntitiesByPrefix("Wheel", out))

	assert.JSONEq(t, `{"lod": 1}`, a.Extras(front))
	assert.JSONEq(t, `{"author": "pipeline"}`, a.AssetExtras())
	assert.Equal(t, []string{"open", "closed"}, a.MorphTargetNames(front))
}

func TestCreateAssetTextureSlots(t *testing.T) {
	l, _, _ := newTestLoader()
	a, err := l.CreateAsset(testDocument(t))
	require.NoError(t, err)

	slots := a.TextureSlots()
	require.Len(t, slots, 2)

	byParam := make(map[string]asset.TextureSlot, len(slots))
	for _, s := range slots {
		byParam[s.Parameter] = s
	}

	base, ok := byParam[material.ParamBaseColor]
	require.True(t, ok)
	assert.True(t, base.SRGB)
	assert.Equal(t, 0, base.Texture)
	assert.Equal(t, wgpu.AddressModeClampToEdge, base.Sampler.AddressModeU)
	assert.Equal(t, wgpu.AddressModeMirrorRepeat, base.Sampler.AddressModeV)
	assert.Equal(t, wgpu.FilterModeNearest, base.Sampler.MagFilter)
	assert.Equal(t, wgpu.FilterModeNearest, base.Sampler.MinFilter)
	assert.Equal(t, wgpu.MipmapFilterModeLinear, base.Sampler.MipmapFilter)

	normal, ok := byParam[material.ParamNormal]
	require.True(t, ok)
	assert.False(t, normal.SRGB)

	assert.Equal(t, []string{"albedo.png"}, a.ResourceURIs())
}

func TestCreateAssetBoundingBox(t *testing.T) {
	l, _, _ := newTestLoader()
	a, err := l.CreateAsset(testDocument(t))
	require.NoError(t, err)

	box := a.BoundingBox()
	require.False(t, box.IsEmpty())
	// two copies of the unit triangle, one translated by +2 on x
	assert.InDelta(t, 0, box.Min[0], 1e-5)
	assert.InDelta(t, 3, box.Max[0], 1e-5)
	assert.InDelta(t, 2, box.Max[1], 1e-5)
}

func TestCreateAssetRenderablesPopAfterTextures(t *testing.T) {
	l, eng, _ := newTestLoader()
	a, err := l.CreateAsset(testDocument(t))
	require.NoError(t, err)

	a.FinalizeDependencies()
	out := make([]entity.Entity, 4)
	assert.Equal(t, 0, a.PopRenderables(out), "material still waits on its texture")

	tex, err := eng.CreateTexture("albedo", common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
		SRGB:   true,
	}, a.TextureSlots()[0].Sampler)
	require.NoError(t, err)
	for _, slot := range a.TextureSlots() {
		a.BindTexture(slot, tex)
	}
	a.TakeOwnership(tex)
	a.MarkTextureReady(0)

	assert.Equal(t, 2, a.PopRenderables(out))
	assert.Equal(t, 0, a.PopRenderables(out))
}

func TestCreateAssetNoTexturesPopsAtFinalize(t *testing.T) {
	l, _, _ := newTestLoader()
	doc := []byte(`{
		"asset": {"version": "2.0"},
		"scenes": [{"nodes": [0]}],
		"nodes": [{"name": "Quad", "mesh": 0}],
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
		"accessors": [{"componentType": 5126, "count": 3, "type": "VEC3"}]
	}`)
	a, err := l.CreateAsset(doc)
	require.NoError(t, err)

	a.FinalizeDependencies()
	out := make([]entity.Entity, 2)
	assert.Equal(t, 1, a.PopRenderables(out))
	assert.Equal(t, a.FirstEntityByName("Quad"), out[0])
}

func TestCreateAssetToleratesDanglingIndices(t *testing.T) {
	// scene references a missing node, one node references a missing mesh,
	// and the material references a missing texture; all three are warned
	// about and skipped rather than failing translation
	l, _, _ := newTestLoader()
	doc := []byte(`{
		"asset": {"version": "2.0"},
		"scenes": [{"nodes": [0, 1, 9]}],
		"nodes": [
			{"name": "Body", "mesh": 0},
			{"name": "Ghost", "mesh": 7}
		],
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "material": 0}]}],
		"materials": [{"pbrMetallicRoughness": {"baseColorTexture": {"index": 4}}}],
		"accessors": [{"componentType": 5126, "count": 3, "type": "VEC3"}]
	}`)
	a, err := l.CreateAsset(doc)
	require.NoError(t, err)

	// root + both named nodes; the dangling scene reference adds nothing
	assert.Len(t, a.Entities(), 3)
	assert.False(t, a.FirstEntityByName("Ghost").IsNull())

	// the dangling texture reference leaves the material untextured
	assert.Empty(t, a.TextureSlots())

	a.FinalizeDependencies()
	out := make([]entity.Entity, 4)
	require.Equal(t, 1, a.PopRenderables(out))
	assert.Equal(t, a.FirstEntityByName("Body"), out[0])
}

func TestCreateAssetAnimator(t *testing.T) {
	l, _, _ := newTestLoader()
	a, err := l.CreateAsset(testDocument(t))
	require.NoError(t, err)

	anim := a.Animator()
	require.Equal(t, 1, anim.ClipCount())
	assert.Equal(t, "spin", anim.ClipName(0))
	assert.InDelta(t, 2.5, anim.ClipDuration(0), 1e-5)
	assert.Equal(t, []entity.Entity{a.FirstEntityByName("WheelFront")}, anim.TargetEntities(0))
}

func TestCreateInstancedAsset(t *testing.T) {
	l, _, _ := newTestLoader()
	a, err := l.CreateInstancedAsset(testDocument(t), []string{"car_0", "car_1"})
	require.NoError(t, err)

	assert.True(t, a.IsInstanced())
	instances := a.Instances()
	require.Len(t, instances, 2)

	assert.Equal(t, "car_0", instances[0].Name)
	assert.NotEqual(t, instances[0].Root, instances[1].Root)
	// instance root + two node entities each
	assert.Len(t, instances[0].Entities, 3)
	assert.Len(t, instances[1].Entities, 3)

	// geometry is shared: the slot count matches a non-instanced load
	assert.Len(t, a.BufferSlots(), 4)
	assert.Len(t, a.MaterialInstances(), 1)

	// both expansions answer name queries
	out := make([]entity.Entity, 8)
	assert.Equal(t, 4, a.EntitiesByPrefix("Wheel", out))
}

func TestCreateInstancedAssetNeedsNames(t *testing.T) {
	l, _, _ := newTestLoader()
	_, err := l.CreateInstancedAsset(testDocument(t), nil)
	assert.ErrorIs(t, err, ErrNoInstanceNames)
}
