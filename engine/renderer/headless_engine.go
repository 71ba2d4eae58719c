package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/common"
)

// headlessEngine implements Engine without touching a GPU device. Handles it
// returns carry sizes and metadata but nil wgpu objects. It tracks live
// allocations so tests can assert that destruction is balanced.
type headlessEngine struct {
	mu sync.Mutex

	liveVertexBuffers map[*VertexBuffer]struct{}
	liveIndexBuffers  map[*IndexBuffer]struct{}
	liveTextures      map[*Texture]struct{}
	released          bool
}

// HeadlessEngine is an Engine without a GPU device that additionally exposes
// its live allocation counts, so callers can verify balanced destruction.
type HeadlessEngine interface {
	Engine

	// LiveResourceCount returns the number of allocations that have not been
	// destroyed, split by kind.
	//
	// Returns:
	//   - int: live vertex buffers
	//   - int: live index buffers
	//   - int: live textures
	LiveResourceCount() (int, int, int)
}

var _ HeadlessEngine = &headlessEngine{}

// NewHeadlessEngine creates an Engine that allocates tracking handles instead
// of GPU resources. Used in tests and in tooling that inspects assets without
// a device.
//
// Returns:
//   - HeadlessEngine: the new engine
func NewHeadlessEngine() HeadlessEngine {
	return &headlessEngine{
		liveVertexBuffers: make(map[*VertexBuffer]struct{}),
		liveIndexBuffers:  make(map[*IndexBuffer]struct{}),
		liveTextures:      make(map[*Texture]struct{}),
	}
}

func (e *headlessEngine) CreateVertexBuffer(label string, data []byte) (*VertexBuffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("vertex buffer %q: no data", label)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	buf := &VertexBuffer{
		Label: label,
		Size:  uint64(len(data)),
	}
	e.liveVertexBuffers[buf] = struct{}{}
	return buf, nil
}

func (e *headlessEngine) CreateIndexBuffer(label string, data []byte, indexCount int) (*IndexBuffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("index buffer %q: no data", label)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	buf := &IndexBuffer{
		Label:      label,
		Size:       uint64(len(data)),
		IndexCount: indexCount,
	}
	e.liveIndexBuffers[buf] = struct{}{}
	return buf, nil
}

func (e *headlessEngine) NewVertexBuffer(label string) *VertexBuffer {
	return &VertexBuffer{Label: label}
}

func (e *headlessEngine) NewIndexBuffer(label string) *IndexBuffer {
	return &IndexBuffer{Label: label}
}

func (e *headlessEngine) UploadVertexBuffer(buf *VertexBuffer, data []byte) error {
	if buf == nil {
		return fmt.Errorf("vertex buffer upload: nil handle")
	}
	if len(data) == 0 {
		return fmt.Errorf("vertex buffer %q: no data", buf.Label)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	buf.Size = uint64(len(data))
	e.liveVertexBuffers[buf] = struct{}{}
	return nil
}

func (e *headlessEngine) UploadIndexBuffer(buf *IndexBuffer, data []byte, indexCount int) error {
	if buf == nil {
		return fmt.Errorf("index buffer upload: nil handle")
	}
	if len(data) == 0 {
		return fmt.Errorf("index buffer %q: no data", buf.Label)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	buf.Size = uint64(len(data))
	buf.IndexCount = indexCount
	e.liveIndexBuffers[buf] = struct{}{}
	return nil
}

func (e *headlessEngine) CreateTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (*Texture, error) {
	if len(staging.Pixels) == 0 || staging.Width == 0 || staging.Height == 0 {
		return nil, fmt.Errorf("texture %q: empty staging data", label)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tex := &Texture{
		Label:  label,
		Width:  staging.Width,
		Height: staging.Height,
		SRGB:   staging.SRGB,
	}
	e.liveTextures[tex] = struct{}{}
	return tex, nil
}

func (e *headlessEngine) DestroyVertexBuffer(buf *VertexBuffer) {
	if buf == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.liveVertexBuffers, buf)
}

func (e *headlessEngine) DestroyIndexBuffer(buf *IndexBuffer) {
	if buf == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.liveIndexBuffers, buf)
}

func (e *headlessEngine) DestroyTexture(tex *Texture) {
	if tex == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.liveTextures, tex)
}

func (e *headlessEngine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.released = true
}

func (e *headlessEngine) LiveResourceCount() (int, int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.liveVertexBuffers), len(e.liveIndexBuffers), len(e.liveTextures)
}
