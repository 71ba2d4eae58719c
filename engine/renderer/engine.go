// Package renderer owns the GPU resource lifetime for the asset pipeline:
// vertex and index buffer uploads, texture uploads, and their destruction.
// The Engine interface has a wgpu-backed implementation for real devices and
// a headless implementation for tests and server-side tooling.
package renderer

import (
	"github.com/Carmen-Shannon/oxy-assets/common"
)

// Engine creates and destroys GPU resources. Implementations are safe for
// concurrent use.
type Engine interface {
	// CreateVertexBuffer uploads vertex data and returns a handle to it.
	//
	// Parameters:
	//   - label: a debug label for the buffer
	//   - data: the raw vertex bytes to upload
	//
	// Returns:
	//   - *VertexBuffer: the handle to the uploaded buffer
	//   - error: error if creation fails
	CreateVertexBuffer(label string, data []byte) (*VertexBuffer, error)

	// CreateIndexBuffer uploads index data and returns a handle to it.
	//
	// Parameters:
	//   - label: a debug label for the buffer
	//   - data: the raw index bytes to upload
	//   - indexCount: the number of indices represented by data
	//
	// Returns:
	//   - *IndexBuffer: the handle to the uploaded buffer
	//   - error: error if creation fails
	CreateIndexBuffer(label string, data []byte, indexCount int) (*IndexBuffer, error)

	// NewVertexBuffer returns an empty vertex buffer handle with no GPU
	// allocation behind it. The handle becomes usable after a later
	// UploadVertexBuffer call.
	//
	// Parameters:
	//   - label: a debug label for the buffer
	//
	// Returns:
	//   - *VertexBuffer: the empty handle
	NewVertexBuffer(label string) *VertexBuffer

	// NewIndexBuffer returns an empty index buffer handle with no GPU
	// allocation behind it. The handle becomes usable after a later
	// UploadIndexBuffer call.
	//
	// Parameters:
	//   - label: a debug label for the buffer
	//
	// Returns:
	//   - *IndexBuffer: the empty handle
	NewIndexBuffer(label string) *IndexBuffer

	// UploadVertexBuffer allocates the GPU buffer behind an empty handle and
	// uploads the vertex data into it.
	//
	// Parameters:
	//   - buf: the handle created by NewVertexBuffer
	//   - data: the raw vertex bytes to upload
	//
	// Returns:
	//   - error: error if allocation or upload fails
	UploadVertexBuffer(buf *VertexBuffer, data []byte) error

	// UploadIndexBuffer allocates the GPU buffer behind an empty handle and
	// uploads the index data into it.
	//
	// Parameters:
	//   - buf: the handle created by NewIndexBuffer
	//   - data: the raw index bytes to upload
	//   - indexCount: the number of indices represented by data
	//
	// Returns:
	//   - error: error if allocation or upload fails
	UploadIndexBuffer(buf *IndexBuffer, data []byte, indexCount int) error

	// CreateTexture uploads RGBA pixel data and creates the view and sampler.
	//
	// Parameters:
	//   - label: a debug label for the texture
	//   - staging: the decoded pixel data and dimensions
	//   - sampler: the sampler configuration
	//
	// Returns:
	//   - *Texture: the handle to the uploaded texture
	//   - error: error if creation fails
	CreateTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (*Texture, error)

	// DestroyVertexBuffer releases a vertex buffer. Nil handles are ignored.
	//
	// Parameters:
	//   - buf: the handle to release
	DestroyVertexBuffer(buf *VertexBuffer)

	// DestroyIndexBuffer releases an index buffer. Nil handles are ignored.
	//
	// Parameters:
	//   - buf: the handle to release
	DestroyIndexBuffer(buf *IndexBuffer)

	// DestroyTexture releases a texture with its view and sampler.
	// Nil handles are ignored.
	//
	// Parameters:
	//   - tex: the handle to release
	DestroyTexture(tex *Texture)

	// Release destroys the engine's device resources. The engine must not be
	// used after Release.
	Release()
}
