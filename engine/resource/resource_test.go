package resource

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/asset"
	"github.com/Carmen-Shannon/oxy-assets/engine/entity"
	"github.com/Carmen-Shannon/oxy-assets/engine/loader"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// geometryBuffer packs one triangle (positions then uint16 indices) into a
// data: URI.
func geometryBuffer(t *testing.T) string {
	t.Helper()

	buf := make([]byte, 44)
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for i, p := range positions {
		for c, v := range p {
			binary.LittleEndian.PutUint32(buf[i*12+c*4:], math.Float32bits(v))
		}
	}
	for i, idx := range []uint16{0, 1, 2} {
		binary.LittleEndian.PutUint16(buf[36+i*2:], idx)
	}
	return "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf)
}

// texturedDocument references one external image consumed by both the base
// color and the normal map of a single material.
func texturedDocument(t *testing.T) []byte {
	t.Helper()
	doc := fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"scene": 0,
		"scenes": [{"nodes": [0]}],
		"nodes": [{"name": "Crate", "mesh": 0}],
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1, "material": 0}]}],
		"materials": [{
			"pbrMetallicRoughness": {"baseColorTexture": {"index": 0}},
			"normalTexture": {"index": 0}
		}],
		"textures": [{"source": 0}],
		"images": [{"uri": "albedo.png"}],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
		],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": 36, "byteLength": 6}
		],
		"buffers": [{"byteLength": 44, "uri": "%s"}]
	}`, geometryBuffer(t))
	return []byte(doc)
}

// embeddedDocument has no external references: the buffer and the image are
// both data: URIs.
func embeddedDocument(t *testing.T) []byte {
	t.Helper()
	imgURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
	doc := fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"scene": 0,
		"scenes": [{"nodes": [0]}],
		"nodes": [{"name": "Crate", "mesh": 0}],
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1, "material": 0}]}],
		"materials": [{"pbrMetallicRoughness": {"baseColorTexture": {"index": 0}}}],
		"textures": [{"source": 0}],
		"images": [{"uri": "%s"}],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
		],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": 36, "byteLength": 6}
		],
		"buffers": [{"byteLength": 44, "uri": "%s"}]
	}`, imgURI, geometryBuffer(t))
	return []byte(doc)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func buildAsset(t *testing.T, doc []byte) (asset.Asset, renderer.HeadlessEngine) {
	t.Helper()
	eng := renderer.NewHeadlessEngine()
	l := loader.NewAssetLoader(loader.WithEngine(eng))
	a, err := l.CreateAsset(doc)
	require.NoError(t, err)
	return a, eng
}

func assertUploaded(t *testing.T, a asset.Asset) {
	t.Helper()
	for _, slot := range a.BufferSlots() {
		switch {
		case slot.IndexBuffer != nil:
			assert.Equal(t, 3, slot.IndexBuffer.IndexCount)
			assert.Equal(t, uint64(12), slot.IndexBuffer.Size)
		case slot.Attribute == "POSITION":
			assert.Equal(t, uint64(36), slot.VertexBuffer.Size)
		case slot.Attribute == "NORMAL":
			assert.Equal(t, uint64(36), slot.VertexBuffer.Size)
		case slot.Attribute == "TANGENT":
			assert.Equal(t, uint64(48), slot.VertexBuffer.Size)
		default:
			t.Fatalf("unexpected slot %q", slot.Attribute)
		}
	}
}

func TestLoadResourcesRequiresEngine(t *testing.T) {
	a, _ := buildAsset(t, embeddedDocument(t))
	l := NewResourceLoader()
	assert.ErrorIs(t, l.LoadResources(a), ErrNoEngine)
}

func TestMapResolver(t *testing.T) {
	m := MapResolver{"a.bin": []byte{1, 2}}

	data, err := m.Resolve("a.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, data)

	_, err = m.Resolve("missing.bin")
	assert.ErrorIs(t, err, ErrUnresolvedURI)
}

func TestLoadResourcesExternalImage(t *testing.T) {
	a, eng := buildAsset(t, texturedDocument(t))
	l := NewResourceLoader(
		WithEngine(eng),
		WithResolver(MapResolver{"albedo.png": pngBytes(t)}),
	)
	require.NoError(t, l.LoadResources(a))
	assertUploaded(t, a)

	// two texture slots share one source texture
	require.Len(t, a.TextureSlots(), 2)
	_, _, textures := eng.LiveResourceCount()
	assert.Equal(t, 1, textures)

	out := make([]entity.Entity, 4)
	assert.Equal(t, 1, a.PopRenderables(out))
	assert.Equal(t, 0, a.PopRenderables(out))

	// the loader's own source reference is released on return
	assert.Equal(t, 1, a.Source().RefCount())
}

func TestLoadResourcesEmbeddedImage(t *testing.T) {
	a, eng := buildAsset(t, embeddedDocument(t))
	l := NewResourceLoader(WithEngine(eng))
	require.NoError(t, l.LoadResources(a))
	assertUploaded(t, a)

	_, _, textures := eng.LiveResourceCount()
	assert.Equal(t, 1, textures)

	out := make([]entity.Entity, 4)
	assert.Equal(t, 1, a.PopRenderables(out))
}

func TestLoadResourcesMissingResolver(t *testing.T) {
	a, eng := buildAsset(t, texturedDocument(t))
	l := NewResourceLoader(WithEngine(eng))
	assert.ErrorIs(t, l.LoadResources(a), ErrUnresolvedURI)
}

func TestLoadResourcesAfterReleasePanics(t *testing.T) {
	a, eng := buildAsset(t, embeddedDocument(t))
	a.ReleaseSourceData()

	l := NewResourceLoader(WithEngine(eng))
	assert.Panics(t, func() { _ = l.LoadResources(a) })
}

func TestLoadResourcesAsync(t *testing.T) {
	a, eng := buildAsset(t, texturedDocument(t))
	l := NewResourceLoader(
		WithEngine(eng),
		WithResolver(MapResolver{"albedo.png": pngBytes(t)}),
		WithWorkers(2),
	)
	require.NoError(t, l.LoadResourcesAsync(a))
	require.NoError(t, l.AsyncWait())
	assert.Equal(t, float32(1), l.AsyncProgress())
	assertUploaded(t, a)

	out := make([]entity.Entity, 4)
	assert.Equal(t, 1, a.PopRenderables(out))
	assert.Equal(t, 1, a.Source().RefCount())
}

func TestAsyncProgressIdle(t *testing.T) {
	l := NewResourceLoader(WithEngine(renderer.NewHeadlessEngine()))
	assert.Equal(t, float32(1), l.AsyncProgress())
	assert.NoError(t, l.AsyncWait())
}

// mixedDocument has two nodes: "Crate" draws with a textured material,
// "Floor" with an untextured one.
func mixedDocument(t *testing.T) []byte {
	t.Helper()
	imgURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
	doc := fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"scene": 0,
		"scenes": [{"nodes": [0, 1]}],
		"nodes": [
			{"name": "Crate", "mesh": 0},
			{"name": "Floor", "mesh": 1}
		],
		"meshes": [
			{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1, "material": 0}]},
			{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1, "material": 1}]}
		],
		"materials": [
			{"pbrMetallicRoughness": {"baseColorTexture": {"index": 0}}},
			{"pbrMetallicRoughness": {"baseColorFactor": [0.5, 0.5, 0.5, 1]}}
		],
		"textures": [{"source": 0}],
		"images": [{"uri": "%s"}],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
		],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": 36, "byteLength": 6}
		],
		"buffers": [{"byteLength": 44, "uri": "%s"}]
	}`, imgURI, geometryBuffer(t))
	return []byte(doc)
}

// gatedEngine blocks texture creation until the gate opens, simulating a slow
// decode/upload.
type gatedEngine struct {
	renderer.HeadlessEngine
	gate chan struct{}
}

func (e *gatedEngine) CreateTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (*renderer.Texture, error) {
	<-e.gate
	return e.HeadlessEngine.CreateTexture(label, staging, sampler)
}

func TestLoadResourcesAsyncActivatesIncrementally(t *testing.T) {
	eng := &gatedEngine{
		HeadlessEngine: renderer.NewHeadlessEngine(),
		gate:           make(chan struct{}),
	}
	l := loader.NewAssetLoader(loader.WithEngine(eng))
	a, err := l.CreateAsset(mixedDocument(t))
	require.NoError(t, err)

	floor := a.FirstEntityByName("Floor")
	crate := a.FirstEntityByName("Crate")
	require.False(t, floor.IsNull())
	require.False(t, crate.IsNull())

	rl := NewResourceLoader(WithEngine(eng), WithWorkers(1))
	require.NoError(t, rl.LoadResourcesAsync(a))

	// the untextured renderable must pop while the texture is still blocked
	out := make([]entity.Entity, 4)
	deadline := time.Now().Add(5 * time.Second)
	var early []entity.Entity
	for time.Now().Before(deadline) {
		if n := a.PopRenderables(out); n > 0 {
			early = append(early, out[:n]...)
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	require.Equal(t, []entity.Entity{floor}, early)

	close(eng.gate)
	require.NoError(t, rl.AsyncWait())
	require.Equal(t, 1, a.PopRenderables(out))
	assert.Equal(t, crate, out[0])
}
