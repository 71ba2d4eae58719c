package renderer

import "github.com/cogentcore/webgpu/wgpu"

// VertexBuffer is a handle to an uploaded vertex buffer.
type VertexBuffer struct {
	// Label identifies the buffer for debugging.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	buffer *wgpu.Buffer
}

// Buffer returns the underlying GPU buffer, or nil on engines without a device.
//
// Returns:
//   - *wgpu.Buffer: the GPU buffer or nil
func (b *VertexBuffer) Buffer() *wgpu.Buffer {
	return b.buffer
}

// IndexBuffer is a handle to an uploaded index buffer.
type IndexBuffer struct {
	// Label identifies the buffer for debugging.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// IndexCount is the number of indices in the buffer, used for draw calls.
	IndexCount int

	buffer *wgpu.Buffer
}

// Buffer returns the underlying GPU buffer, or nil on engines without a device.
//
// Returns:
//   - *wgpu.Buffer: the GPU buffer or nil
func (b *IndexBuffer) Buffer() *wgpu.Buffer {
	return b.buffer
}

// Texture is a handle to an uploaded texture with its view and sampler.
type Texture struct {
	// Label identifies the texture for debugging.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// SRGB indicates whether the texture was created with an sRGB format.
	SRGB bool

	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

// View returns the texture view, or nil on engines without a device.
//
// Returns:
//   - *wgpu.TextureView: the view or nil
func (t *Texture) View() *wgpu.TextureView {
	return t.view
}

// Sampler returns the sampler, or nil on engines without a device.
//
// Returns:
//   - *wgpu.Sampler: the sampler or nil
func (t *Texture) Sampler() *wgpu.Sampler {
	return t.sampler
}
