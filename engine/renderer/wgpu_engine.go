package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuEngine struct {
	mu sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceDescriptor    *wgpu.SurfaceDescriptor
	forceFallbackAdapter bool
}

var _ Engine = &wgpuEngine{}

// WGPUEngineOption is a functional option applied during construction via NewWGPUEngine.
type WGPUEngineOption func(*wgpuEngine)

// WithSurface makes the engine create a surface and use it to select a
// compatible adapter. Without it the engine runs off-screen, which is enough
// for resource uploads.
//
// Parameters:
//   - descriptor: the platform surface descriptor
//
// Returns:
//   - WGPUEngineOption: a function that applies the surface option to an engine
func WithSurface(descriptor *wgpu.SurfaceDescriptor) WGPUEngineOption {
	return func(e *wgpuEngine) {
		e.surfaceDescriptor = descriptor
	}
}

// WithForceSoftwareAdapter forces WGPU to use a CPU/software fallback adapter
// instead of hardware GPU acceleration. This requires a software Vulkan ICD to
// be installed on the system (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - WGPUEngineOption: a function that applies the adapter option to an engine
func WithForceSoftwareAdapter(force bool) WGPUEngineOption {
	return func(e *wgpuEngine) {
		e.forceFallbackAdapter = force
	}
}

// NewWGPUEngine creates an Engine backed by a wgpu device.
//
// Parameters:
//   - opts: optional configuration applied before device creation
//
// Returns:
//   - Engine: the new engine
//   - error: error if no adapter or device is available
func NewWGPUEngine(opts ...WGPUEngineOption) (Engine, error) {
	e := &wgpuEngine{
		instance: wgpu.CreateInstance(nil),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.surfaceDescriptor != nil {
		e.surface = e.instance.CreateSurface(e.surfaceDescriptor)
	}

	adapter, err := e.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: e.forceFallbackAdapter,
		CompatibleSurface:    e.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	e.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Asset Engine Device",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	e.device = device
	e.queue = device.GetQueue()

	common.LogDebug("wgpu engine created (fallback adapter: %t)", e.forceFallbackAdapter)
	return e, nil
}

// Device returns the underlying wgpu device for callers that render with the
// uploaded resources.
//
// Returns:
//   - *wgpu.Device: the device
func (e *wgpuEngine) Device() *wgpu.Device {
	return e.device
}

// Surface returns the surface created from the WithSurface descriptor, or nil
// when the engine runs off-screen.
//
// Returns:
//   - *wgpu.Surface: the surface or nil
func (e *wgpuEngine) Surface() *wgpu.Surface {
	return e.surface
}

func (e *wgpuEngine) CreateVertexBuffer(label string, data []byte) (*VertexBuffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(data) == 0 {
		return nil, fmt.Errorf("vertex buffer %q: no data", label)
	}

	buf, err := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " Vertex Buffer",
		Size:             uint64(len(data)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	e.queue.WriteBuffer(buf, 0, data)

	return &VertexBuffer{
		Label:  label,
		Size:   uint64(len(data)),
		buffer: buf,
	}, nil
}

func (e *wgpuEngine) CreateIndexBuffer(label string, data []byte, indexCount int) (*IndexBuffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(data) == 0 {
		return nil, fmt.Errorf("index buffer %q: no data", label)
	}

	buf, err := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " Index Buffer",
		Size:             uint64(len(data)),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	e.queue.WriteBuffer(buf, 0, data)

	return &IndexBuffer{
		Label:      label,
		Size:       uint64(len(data)),
		IndexCount: indexCount,
		buffer:     buf,
	}, nil
}

func (e *wgpuEngine) NewVertexBuffer(label string) *VertexBuffer {
	return &VertexBuffer{Label: label}
}

func (e *wgpuEngine) NewIndexBuffer(label string) *IndexBuffer {
	return &IndexBuffer{Label: label}
}

func (e *wgpuEngine) UploadVertexBuffer(buf *VertexBuffer, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if buf == nil {
		return fmt.Errorf("vertex buffer upload: nil handle")
	}
	if len(data) == 0 {
		return fmt.Errorf("vertex buffer %q: no data", buf.Label)
	}
	if buf.buffer != nil {
		buf.buffer.Release()
		buf.buffer = nil
	}

	b, err := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            buf.Label + " Vertex Buffer",
		Size:             uint64(len(data)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return err
	}
	e.queue.WriteBuffer(b, 0, data)

	buf.Size = uint64(len(data))
	buf.buffer = b
	return nil
}

func (e *wgpuEngine) UploadIndexBuffer(buf *IndexBuffer, data []byte, indexCount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if buf == nil {
		return fmt.Errorf("index buffer upload: nil handle")
	}
	if len(data) == 0 {
		return fmt.Errorf("index buffer %q: no data", buf.Label)
	}
	if buf.buffer != nil {
		buf.buffer.Release()
		buf.buffer = nil
	}

	b, err := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            buf.Label + " Index Buffer",
		Size:             uint64(len(data)),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return err
	}
	e.queue.WriteBuffer(b, 0, data)

	buf.Size = uint64(len(data))
	buf.IndexCount = indexCount
	buf.buffer = b
	return nil
}

func (e *wgpuEngine) CreateTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (*Texture, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(staging.Pixels) == 0 || staging.Width == 0 || staging.Height == 0 {
		return nil, fmt.Errorf("texture %q: empty staging data", label)
	}

	format := wgpu.TextureFormatRGBA8Unorm
	if staging.SRGB {
		format = wgpu.TextureFormatRGBA8UnormSrgb
	}

	tex, err := e.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	e.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	samp, err := e.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(sampler.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(sampler.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(sampler.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(sampler.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(sampler.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(sampler.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(sampler.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(sampler.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(sampler.MaxAnisotropy, 1),
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, err
	}

	return &Texture{
		Label:   label,
		Width:   staging.Width,
		Height:  staging.Height,
		SRGB:    staging.SRGB,
		texture: tex,
		view:    view,
		sampler: samp,
	}, nil
}

func (e *wgpuEngine) DestroyVertexBuffer(buf *VertexBuffer) {
	if buf == nil || buf.buffer == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	buf.buffer.Release()
	buf.buffer = nil
}

func (e *wgpuEngine) DestroyIndexBuffer(buf *IndexBuffer) {
	if buf == nil || buf.buffer == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	buf.buffer.Release()
	buf.buffer = nil
}

func (e *wgpuEngine) DestroyTexture(tex *Texture) {
	if tex == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if tex.sampler != nil {
		tex.sampler.Release()
		tex.sampler = nil
	}
	if tex.view != nil {
		tex.view.Release()
		tex.view = nil
	}
	if tex.texture != nil {
		tex.texture.Release()
		tex.texture = nil
	}
}

func (e *wgpuEngine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.device != nil {
		e.device.Release()
		e.device = nil
		e.queue = nil
	}
	if e.surface != nil {
		e.surface.Release()
		e.surface = nil
	}
	if e.adapter != nil {
		e.adapter.Release()
		e.adapter = nil
	}
	if e.instance != nil {
		e.instance.Release()
		e.instance = nil
	}
}
