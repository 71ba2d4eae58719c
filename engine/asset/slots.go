// Package asset contains the loaded-asset container and the bookkeeping that
// makes resource sharing and deferred activation work: slot descriptors for
// pending GPU bindings, the mesh and material caches keyed by stable source
// indices, the dependency graph that gates renderable activation on texture
// readiness, and the reference-counted source-data handle shared with
// asynchronous loaders.
package asset

import (
	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer/material"
)

// Sentinel accessor indices, used in BufferSlot.Accessor when the vertex data
// is not read from the source tree but generated by the resource loader.
const (
	// AccessorGenerateNormals asks the loader to generate flat normals.
	AccessorGenerateNormals = -2

	// AccessorGenerateTangents asks the loader to generate tangents.
	AccessorGenerateTangents = -3
)

// BufferSlot describes a pending binding between a source accessor and a GPU
// buffer. Slots are produced by the translation stage and consumed once by
// the resource-loading stage; after that they are discarded.
type BufferSlot struct {
	// Accessor is the source accessor index, or one of the generate sentinels.
	Accessor int

	// Attribute is the vertex attribute semantic ("POSITION", "NORMAL",
	// "TEXCOORD_0", ...), empty for index data.
	Attribute string

	// BufferIndex is the destination slot within the vertex buffer layout.
	BufferIndex int

	// PositionAccessor is the accessor of the primitive's POSITION attribute,
	// set when Accessor is a generate sentinel so the loader can derive data
	// from the geometry.
	PositionAccessor int

	// IndexAccessor is the accessor of the primitive's index data, or -1 for
	// non-indexed geometry. Set when Accessor is a generate sentinel.
	IndexAccessor int

	// VertexBuffer is the destination vertex buffer, nil for index slots.
	VertexBuffer *renderer.VertexBuffer

	// IndexBuffer is the destination index buffer, nil for vertex slots.
	IndexBuffer *renderer.IndexBuffer
}

// TextureSlot describes a pending binding between a source texture and a
// material-instance parameter. Produced during translation, realized by
// Asset.BindTexture once the texture has been decoded and uploaded.
type TextureSlot struct {
	// Texture is the source texture index.
	Texture int

	// MaterialInstance is the consumer of the texture.
	MaterialInstance material.Instance

	// Parameter is the material parameter name the texture binds to.
	Parameter string

	// Sampler carries the sampler configuration from the source sampler.
	Sampler common.SamplerStagingData

	// SRGB is true when the texture holds color data and must be sampled in
	// sRGB space (base color, emissive), false for data textures.
	SRGB bool
}
