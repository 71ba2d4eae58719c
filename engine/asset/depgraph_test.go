package asset

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-assets/engine/entity"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphReleasesEntitiesWhenTexturesReady(t *testing.T) {
	g := NewDependencyGraph()
	em := entity.NewManager()
	e1, e2 := em.Create(), em.Create()
	mi := material.NewInstance(material.WithName("shared"))

	g.AddRenderable(e1, mi)
	g.AddRenderable(e2, mi)
	g.AddTextureEdge(mi, material.ParamBaseColor, 0)
	g.AddTextureEdge(mi, material.ParamNormal, 1)
	g.Finalize()

	out := make([]entity.Entity, 4)
	assert.Equal(t, 0, g.PopRenderables(out))

	g.MarkReady(0)
	assert.Equal(t, 0, g.PopRenderables(out), "one texture still pending")

	g.MarkReady(1)
	n := g.PopRenderables(out)
	require.Equal(t, 2, n)
	assert.ElementsMatch(t, []entity.Entity{e1, e2}, out[:n])
}

func TestGraphEntityDeliveredExactlyOnce(t *testing.T) {
	g := NewDependencyGraph()
	em := entity.NewManager()
	e := em.Create()
	mi := material.NewInstance()

	g.AddRenderable(e, mi)
	g.AddTextureEdge(mi, material.ParamBaseColor, 7)
	g.Finalize()
	g.MarkReady(7)

	out := make([]entity.Entity, 2)
	require.Equal(t, 1, g.PopRenderables(out))
	assert.Equal(t, 0, g.PopRenderables(out))

	// a redundant ready signal must not requeue the entity
	g.MarkReady(7)
	assert.Equal(t, 0, g.PopRenderables(out))
}

func TestGraphZeroLengthPopIsNoOp(t *testing.T) {
	g := NewDependencyGraph()
	em := entity.NewManager()
	e := em.Create()
	mi := material.NewInstance()

	g.AddRenderable(e, mi)
	g.Finalize()

	assert.Equal(t, 0, g.PopRenderables(nil))
	assert.Equal(t, 0, g.PopRenderables([]entity.Entity{}))

	out := make([]entity.Entity, 1)
	require.Equal(t, 1, g.PopRenderables(out))
	assert.Equal(t, e, out[0])
}

func TestGraphTexturelessMaterialReadyAtFinalize(t *testing.T) {
	g := NewDependencyGraph()
	em := entity.NewManager()
	e1, e2 := em.Create(), em.Create()
	g.AddRenderable(e1, material.NewInstance())
	g.AddRenderable(e2, material.NewInstance())
	g.Finalize()

	out := make([]entity.Entity, 4)
	n := g.PopRenderables(out)
	require.Equal(t, 2, n)
	assert.Equal(t, []entity.Entity{e1, e2}, out[:n], "delivery follows registration order")
}

func TestGraphTextureReadyBeforeEdge(t *testing.T) {
	g := NewDependencyGraph()
	em := entity.NewManager()
	e := em.Create()
	mi := material.NewInstance()

	g.MarkReady(3)
	g.AddRenderable(e, mi)
	g.AddTextureEdge(mi, material.ParamBaseColor, 3)
	g.Finalize()

	out := make([]entity.Entity, 1)
	assert.Equal(t, 1, g.PopRenderables(out))
}

func TestGraphRebindReplacesEdge(t *testing.T) {
	g := NewDependencyGraph()
	em := entity.NewManager()
	e := em.Create()
	mi := material.NewInstance()

	g.AddRenderable(e, mi)
	g.AddTextureEdge(mi, material.ParamBaseColor, 0)
	g.AddTextureEdge(mi, material.ParamBaseColor, 5)
	g.Finalize()

	// readiness of the replaced texture must not satisfy the parameter
	g.MarkReady(0)
	out := make([]entity.Entity, 1)
	assert.Equal(t, 0, g.PopRenderables(out))

	g.MarkReady(5)
	assert.Equal(t, 1, g.PopRenderables(out))
}

func TestGraphLateFinalizeAdditions(t *testing.T) {
	g := NewDependencyGraph()
	em := entity.NewManager()
	e1, e2 := em.Create(), em.Create()

	g.AddRenderable(e1, material.NewInstance())
	g.Finalize()

	out := make([]entity.Entity, 2)
	require.Equal(t, 1, g.PopRenderables(out))
	assert.Equal(t, e1, out[0])

	g.AddRenderable(e2, material.NewInstance())
	g.Finalize()
	require.Equal(t, 1, g.PopRenderables(out))
	assert.Equal(t, e2, out[0])
}

func TestGraphClear(t *testing.T) {
	g := NewDependencyGraph()
	em := entity.NewManager()
	g.AddRenderable(em.Create(), material.NewInstance())
	g.Finalize()
	g.Clear()

	out := make([]entity.Entity, 1)
	assert.Equal(t, 0, g.PopRenderables(out))
	assert.Equal(t, 0, g.PendingCount())
}
