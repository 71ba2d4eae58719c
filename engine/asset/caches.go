package asset

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer/material"
)

// Primitive is one drawable geometry chunk backed by shared GPU buffers.
// Created once per distinct source mesh and shared by every scene node that
// references the mesh; the owning container destroys the buffers on teardown.
type Primitive struct {
	// Attributes maps vertex attribute semantics ("POSITION", "NORMAL",
	// "TEXCOORD_0", ...) to their GPU vertex buffer handles. Each attribute
	// gets its own buffer; the handles are empty until the resource-loading
	// stage uploads the accessor data.
	Attributes map[string]*renderer.VertexBuffer

	// Indices is the GPU index buffer handle, nil for non-indexed geometry.
	Indices *renderer.IndexBuffer

	// Material is the material instance the primitive draws with.
	Material material.Instance

	// Aabb is the object-space bounding box of the primitive.
	Aabb common.Aabb

	// UvMap maps the source texture-coordinate sets this primitive carries to
	// the renderer's supported sets.
	UvMap common.UvMap
}

// MaterialEntry pairs a created material instance with the UV remapping it
// was created for. Shared across all primitives referencing the material.
type MaterialEntry struct {
	// Instance is the material instance handle.
	Instance material.Instance

	// UvMap is the remapping the instance was created with.
	UvMap common.UvMap
}

// meshCache maps a source mesh index to the primitives already created for
// it. Keys are the stable indices assigned at parse time; two structurally
// identical meshes at different indices never share buffers.
type meshCache struct {
	entries map[int][]*Primitive
}

func newMeshCache() *meshCache {
	return &meshCache{entries: make(map[int][]*Primitive)}
}

// Lookup returns the cached primitives for a source mesh.
func (c *meshCache) Lookup(meshIndex int) ([]*Primitive, bool) {
	prims, ok := c.entries[meshIndex]
	return prims, ok
}

// Insert stores the primitives for a source mesh. Each mesh is inserted
// exactly once during translation; a second insert is programmer error.
func (c *meshCache) Insert(meshIndex int, prims []*Primitive) {
	if _, ok := c.entries[meshIndex]; ok {
		panic(fmt.Sprintf("asset: mesh %d already cached", meshIndex))
	}
	c.entries[meshIndex] = prims
}

// matInstanceCache maps a source material index to its material entry.
// Insertion is idempotent per key: a hit returns the cached entry with its
// original UvMap regardless of what remap the caller would have used.
type matInstanceCache struct {
	entries map[int]*MaterialEntry
}

func newMatInstanceCache() *matInstanceCache {
	return &matInstanceCache{entries: make(map[int]*MaterialEntry)}
}

// Lookup returns the cached entry for a source material.
func (c *matInstanceCache) Lookup(materialIndex int) (*MaterialEntry, bool) {
	entry, ok := c.entries[materialIndex]
	return entry, ok
}

// GetOrCreate returns the cached entry for a source material, creating it via
// the supplied constructor on a miss.
//
// Parameters:
//   - materialIndex: the stable source material index
//   - create: constructor invoked on a cache miss
//
// Returns:
//   - *MaterialEntry: the cached or newly created entry
//   - bool: true if the entry came from the cache
func (c *matInstanceCache) GetOrCreate(materialIndex int, create func() *MaterialEntry) (*MaterialEntry, bool) {
	if entry, ok := c.entries[materialIndex]; ok {
		return entry, true
	}
	entry := create()
	c.entries[materialIndex] = entry
	return entry, false
}
