package asset

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/entity"
	"github.com/Carmen-Shannon/oxy-assets/engine/gltf"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T) SourceAsset {
	t.Helper()
	p := gltf.NewParser()
	require.NoError(t, p.Parse([]byte(`{"asset": {"version": "2.0"}}`)))
	return NewSourceAsset(p)
}

func TestContainerNameQueries(t *testing.T) {
	em := entity.NewManager()
	nm := entity.NewNameManager()
	c := NewContainer(WithEntityManager(em), WithNameManager(nm))

	body := em.Create()
	front := em.Create()
	rear := em.Create()
	spare := em.Create()
	for _, e := range []entity.Entity{body, front, rear, spare} {
		c.AddEntity(e)
	}
	c.SetEntityName(body, "Body")
	c.SetEntityName(front, "WheelFront")
	c.SetEntityName(rear, "WheelRear")
	c.SetEntityName(spare, "WheelRear")

	assert.Equal(t, front, c.FirstEntityByName("WheelFront"))
	assert.Equal(t, entity.Null, c.FirstEntityByName("Windshield"))
	assert.Equal(t, "Body", c.Name(body))

	out := make([]entity.Entity, 4)
	n := c.EntitiesByName("WheelRear", out)
	require.Equal(t, 2, n)
	assert.ElementsMatch(t, []entity.Entity{rear, spare}, out[:n])

	n = c.EntitiesByPrefix("Wheel", out)
	require.Equal(t, 3, n)
	assert.ElementsMatch(t, []entity.Entity{front, rear, spare}, out[:n])

	n = c.EntitiesByPrefix("Body", out)
	require.Equal(t, 1, n)
	assert.Equal(t, body, out[0])

	assert.Equal(t, 0, c.EntitiesByPrefix("Engine", out))
}

func TestContainerPrefixQueryTruncates(t *testing.T) {
	em := entity.NewManager()
	c := NewContainer(WithEntityManager(em), WithNameManager(entity.NewNameManager()))
	for i := 0; i < 5; i++ {
		e := em.Create()
		c.AddEntity(e)
		c.SetEntityName(e, "Bone")
	}

	out := make([]entity.Entity, 2)
	assert.Equal(t, 2, c.EntitiesByPrefix("Bone", out))
}

func TestContainerExtras(t *testing.T) {
	em := entity.NewManager()
	c := NewContainer(WithEntityManager(em))

	e := em.Create()
	c.AddEntity(e)
	c.SetEntityExtras(e, `{"lod": 2}`)
	c.SetAssetExtras(`{"author": "pipeline"}`)

	assert.Equal(t, `{"lod": 2}`, c.Extras(e))
	assert.Equal(t, "", c.Extras(em.Create()), "unknown entity yields empty extras")
	assert.Equal(t, `{"author": "pipeline"}`, c.AssetExtras())
}

func TestContainerBindTextureAndPop(t *testing.T) {
	eng := renderer.NewHeadlessEngine()
	em := entity.NewManager()
	c := NewContainer(WithEngine(eng), WithEntityManager(em))

	mi := material.NewInstance(material.WithName("painted"))
	c.AddMaterialInstance(mi)

	e := em.Create()
	c.AddEntity(e)
	c.AddRenderable(e, mi)

	slot := TextureSlot{
		Texture:          0,
		MaterialInstance: mi,
		Parameter:        material.ParamBaseColor,
		SRGB:             true,
	}
	c.AddTextureSlot(slot)
	require.Len(t, c.TextureSlots(), 1)

	tex, err := eng.CreateTexture("painted baseColor", common.TextureStagingData{
		Pixels: make([]byte, 4),
		Width:  1,
		Height: 1,
		SRGB:   true,
	}, common.DefaultSampler())
	require.NoError(t, err)

	c.BindTexture(slot, tex)
	c.TakeOwnership(tex)
	c.FinalizeDependencies()

	bound, ok := mi.Texture(material.ParamBaseColor)
	require.True(t, ok)
	assert.Same(t, tex, bound)

	out := make([]entity.Entity, 1)
	assert.Equal(t, 0, c.PopRenderables(out), "texture not uploaded yet")

	c.MarkTextureReady(0)
	require.Equal(t, 1, c.PopRenderables(out))
	assert.Equal(t, e, out[0])
	assert.Equal(t, 0, c.PopRenderables(out), "entities pop at most once")
}

func TestContainerMaterialEntryCache(t *testing.T) {
	c := NewContainer()

	created := 0
	make1 := func() *MaterialEntry {
		created++
		return &MaterialEntry{Instance: material.NewInstance(), UvMap: common.UvMap{common.Uv0}}
	}

	first, hit := c.MaterialEntry(3, make1)
	require.False(t, hit)
	second, hit := c.MaterialEntry(3, make1)
	assert.True(t, hit)
	assert.Same(t, first, second)
	assert.Equal(t, 1, created)
}

func TestContainerPrimitiveCache(t *testing.T) {
	c := NewContainer()

	prims := []*Primitive{{Aabb: common.NewAabb()}}
	_, ok := c.CachedPrimitives(0)
	assert.False(t, ok)

	c.CachePrimitives(0, prims)
	got, ok := c.CachedPrimitives(0)
	require.True(t, ok)
	assert.Equal(t, prims, got)

	assert.Panics(t, func() { c.CachePrimitives(0, prims) })
}

func TestContainerReleaseSourceData(t *testing.T) {
	em := entity.NewManager()
	src := newTestSource(t)
	c := NewContainer(WithEntityManager(em), WithNameManager(entity.NewNameManager()), WithSource(src))

	e := em.Create()
	c.AddEntity(e)
	c.SetEntityName(e, "Root")
	c.AddBufferSlot(BufferSlot{Accessor: 0})
	c.AddTextureSlot(TextureSlot{Texture: 0})
	c.AddResourceURI("textures/albedo.png")
	box := common.NewAabb().Extend([3]float32{1, 1, 1}).Extend([3]float32{-1, -1, -1})
	c.SetBoundingBox(box)

	c.ReleaseSourceData()

	assert.Empty(t, c.BufferSlots())
	assert.Empty(t, c.TextureSlots())
	assert.Empty(t, c.ResourceURIs())
	assert.Nil(t, c.Source())
	assert.Equal(t, 0, src.RefCount())

	// scene queries survive the release
	assert.Equal(t, e, c.FirstEntityByName("Root"))
	assert.Len(t, c.Entities(), 1)
	assert.False(t, c.BoundingBox().IsEmpty())

	// a second release is a no-op
	c.ReleaseSourceData()

	// transient-state mutation after release is a programmer error
	assert.Panics(t, func() { c.AddBufferSlot(BufferSlot{}) })
	assert.Panics(t, func() { c.AddResourceURI("x") })
	assert.Panics(t, func() { c.CachedPrimitives(0) })
	assert.Panics(t, func() { c.MaterialEntry(0, nil) })
}

func TestContainersShareSourceAsset(t *testing.T) {
	src := newTestSource(t)
	a := NewContainer(WithSource(src))
	b := NewContainer(WithSource(src.Acquire()))
	assert.Equal(t, 2, src.RefCount())

	a.ReleaseSourceData()
	assert.Equal(t, 1, src.RefCount())

	// the surviving container still reaches the parsed document
	require.NotNil(t, b.Source())
	assert.NotNil(t, b.Source().Parser().Document())

	b.Destroy()
	assert.Equal(t, 0, src.RefCount())
}

func TestContainerDestroyReleasesResources(t *testing.T) {
	eng := renderer.NewHeadlessEngine()
	em := entity.NewManager()
	nm := entity.NewNameManager()
	src := newTestSource(t)
	c := NewContainer(WithEngine(eng), WithEntityManager(em), WithNameManager(nm), WithSource(src))

	vb, err := eng.CreateVertexBuffer("mesh verts", make([]byte, 48))
	require.NoError(t, err)
	ib, err := eng.CreateIndexBuffer("mesh indices", make([]byte, 12), 6)
	require.NoError(t, err)
	tex, err := eng.CreateTexture("albedo", common.TextureStagingData{
		Pixels: make([]byte, 4), Width: 1, Height: 1,
	}, common.DefaultSampler())
	require.NoError(t, err)

	c.AddVertexBuffer(vb)
	c.AddIndexBuffer(ib)
	c.TakeOwnership(tex)

	root := em.Create()
	child := em.Create()
	c.SetRoot(root)
	c.AddEntity(root)
	c.AddEntity(child)
	c.SetEntityName(child, "Prop")

	c.Destroy()

	vbs, ibs, texs := eng.LiveResourceCount()
	assert.Equal(t, 0, vbs)
	assert.Equal(t, 0, ibs)
	assert.Equal(t, 0, texs)
	assert.False(t, em.IsAlive(root))
	assert.False(t, em.IsAlive(child))
	_, named := nm.Name(child)
	assert.False(t, named)
	assert.Equal(t, 0, src.RefCount())

	// Destroy is idempotent
	c.Destroy()
}

func TestContainerInstances(t *testing.T) {
	em := entity.NewManager()
	c := NewContainer(WithEntityManager(em), WithInstanced())
	assert.True(t, c.IsInstanced())
	assert.Empty(t, c.Instances())

	plain := NewContainer()
	assert.False(t, plain.IsInstanced())

	inst := &Instance{
		Name:     "copy_0",
		Root:     em.Create(),
		Entities: []entity.Entity{em.Create()},
	}
	c.AddInstance(inst)
	require.Len(t, c.Instances(), 1)
	assert.Same(t, inst, c.Instances()[0])
}

func TestContainerAnimatorAfterReleasePanics(t *testing.T) {
	c := NewContainer(WithSource(newTestSource(t)))
	c.ReleaseSourceData()
	assert.Panics(t, func() { c.Animator() })
}

func TestSourceAssetRefCounting(t *testing.T) {
	src := newTestSource(t)
	assert.Equal(t, 1, src.RefCount())

	src.Acquire()
	assert.Equal(t, 2, src.RefCount())

	src.Release()
	assert.Equal(t, 1, src.RefCount())
	assert.NotNil(t, src.Parser(), "data survives while references remain")

	src.Release()
	assert.Equal(t, 0, src.RefCount())
	assert.Panics(t, func() { src.Acquire() })
	assert.Panics(t, func() { src.Release() })
}

func TestSourceAssetDecodedViewCache(t *testing.T) {
	src := newTestSource(t)

	calls := 0
	decode := func() ([]byte, error) {
		calls++
		return []byte{1, 2, 3}, nil
	}

	first, err := src.DecodedView(0, decode)
	require.NoError(t, err)
	second, err := src.DecodedView(0, decode)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "decode runs once per view")
}

func TestContainerFinalizeBeforeBindKeepsEntitiesPending(t *testing.T) {
	eng := renderer.NewHeadlessEngine()
	em := entity.NewManager()
	c := NewContainer(WithEngine(eng), WithEntityManager(em))

	mi := material.NewInstance(material.WithName("painted"))
	c.AddMaterialInstance(mi)

	textured := em.Create()
	c.AddEntity(textured)
	c.AddRenderable(textured, mi)

	plain := material.NewInstance(material.WithName("plain"))
	c.AddMaterialInstance(plain)
	untextured := em.Create()
	c.AddEntity(untextured)
	c.AddRenderable(untextured, plain)

	slot := TextureSlot{
		Texture:          0,
		MaterialInstance: mi,
		Parameter:        material.ParamBaseColor,
		SRGB:             true,
	}
	c.AddTextureSlot(slot)

	// an asynchronous collaborator may finalize before any slot is bound;
	// only the untextured entity may pop here
	c.FinalizeDependencies()
	out := make([]entity.Entity, 4)
	require.Equal(t, 1, c.PopRenderables(out))
	assert.Equal(t, untextured, out[0])

	tex, err := eng.CreateTexture("painted baseColor", common.TextureStagingData{
		Pixels: make([]byte, 4),
		Width:  1,
		Height: 1,
		SRGB:   true,
	}, common.DefaultSampler())
	require.NoError(t, err)

	c.BindTexture(slot, tex)
	c.TakeOwnership(tex)
	assert.Equal(t, 0, c.PopRenderables(out), "binding alone does not satisfy the edge")

	c.MarkTextureReady(0)
	require.Equal(t, 1, c.PopRenderables(out))
	assert.Equal(t, textured, out[0])
}
