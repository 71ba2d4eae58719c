// Package resource implements the resource-loading stage of the asset
// pipeline. A ResourceLoader consumes the pending buffer and texture slots of
// a translated asset container: it resolves external URIs through a caller
// supplied Resolver, uploads accessor data into the GPU buffer handles,
// decodes and uploads textures, and drives the container's dependency graph
// so renderables become poppable as their textures finish.
package resource

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/asset"
	"github.com/Carmen-Shannon/oxy-assets/engine/gltf"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
)

// poolIdleTimeout is how long decode workers linger before exiting.
const poolIdleTimeout = 1 * time.Second

var (
	// ErrNoEngine is returned when the loader was built without a GPU engine.
	ErrNoEngine = errors.New("resource: no engine configured")

	// ErrUnresolvedURI is returned when an external URI is needed but no
	// Resolver was configured or the resolver failed.
	ErrUnresolvedURI = errors.New("resource: unresolved external URI")

	// ErrLoadInFlight is returned when an asynchronous load is requested
	// while a previous one has not finished.
	ErrLoadInFlight = errors.New("resource: asynchronous load already in flight")
)

// Resolver turns external resource URIs into bytes. Implementations decide
// where the bytes come from; the pipeline itself performs no file I/O.
type Resolver interface {
	// Resolve returns the bytes behind a resource URI.
	//
	// Parameters:
	//   - uri: the URI exactly as it appears in the source asset
	//
	// Returns:
	//   - []byte: the resource bytes
	//   - error: error if the URI cannot be resolved
	Resolve(uri string) ([]byte, error)
}

// MapResolver resolves URIs from an in-memory map. Useful in tests and for
// callers that prefetch everything.
type MapResolver map[string][]byte

// Resolve returns the mapped bytes for a URI.
//
// Parameters:
//   - uri: the URI to look up
//
// Returns:
//   - []byte: the mapped bytes
//   - error: error when the URI is not in the map
func (m MapResolver) Resolve(uri string) ([]byte, error) {
	data, ok := m[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedURI, uri)
	}
	return data, nil
}

// ResourceLoader uploads the pending resources of translated assets.
type ResourceLoader interface {
	// LoadResources resolves, uploads and binds every pending resource of
	// the asset synchronously. On return the dependency graph is finalized
	// and all renderables are poppable.
	//
	// Parameters:
	//   - a: the translated asset
	//
	// Returns:
	//   - error: the first error encountered; uploads continue past
	//     individual texture failures
	LoadResources(a asset.Asset) error

	// LoadResourcesAsync resolves URIs and uploads buffers on a background
	// goroutine, then decodes and uploads textures on the worker pool.
	// Renderables with no texture dependencies become poppable as soon as
	// buffers are up; the rest pop incrementally as their textures finish.
	// Errors surface through AsyncWait. Only one asynchronous load may be in
	// flight per loader.
	//
	// Parameters:
	//   - a: the translated asset
	//
	// Returns:
	//   - error: error if the load could not be started
	LoadResourcesAsync(a asset.Asset) error

	// AsyncProgress reports the fraction of pending work items finished by
	// the in-flight asynchronous load, in [0, 1]. Returns 1 when nothing is
	// in flight.
	AsyncProgress() float32

	// AsyncWait blocks until the in-flight asynchronous load finishes.
	//
	// Returns:
	//   - error: the first error the load encountered
	AsyncWait() error
}

type resourceLoader struct {
	engine   renderer.Engine
	resolver Resolver
	workers  int

	mu       sync.Mutex
	pool     worker.DynamicWorkerPool
	inFlight bool
	done     chan struct{}
	loadErr  error

	progressDone  atomic.Int64
	progressTotal atomic.Int64
}

var _ ResourceLoader = &resourceLoader{}

func (l *resourceLoader) LoadResources(a asset.Asset) error {
	ld, err := l.begin(a)
	if err != nil {
		return err
	}
	defer ld.src.Release()

	if err := ld.resolveExternal(); err != nil {
		return err
	}
	firstErr := ld.uploadBuffers()

	textures := ld.collectTextures()
	for _, pt := range textures {
		if err := ld.realizeTexture(pt); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	ld.a.FinalizeDependencies()
	for _, pt := range textures {
		ld.a.MarkTextureReady(pt.index)
	}
	return firstErr
}

func (l *resourceLoader) LoadResourcesAsync(a asset.Asset) error {
	ld, err := l.begin(a)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if l.inFlight {
		l.mu.Unlock()
		ld.src.Release()
		return ErrLoadInFlight
	}
	l.inFlight = true
	l.done = make(chan struct{})
	l.loadErr = nil
	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 256, poolIdleTimeout)
	}
	l.mu.Unlock()

	textures := ld.collectTextures()
	l.progressDone.Store(0)
	l.progressTotal.Store(int64(len(ld.a.BufferSlots()) + len(textures)))

	go func() {
		if err := ld.resolveExternal(); err != nil {
			l.finishAsync(ld, err)
			return
		}
		firstErr := ld.uploadBuffersCounted(&l.progressDone)

		// Texture edges were registered when the slots were recorded, so
		// finalizing here releases texture-independent renderables right away.
		ld.a.FinalizeDependencies()

		var wg sync.WaitGroup
		var errMu sync.Mutex
		for i, pt := range textures {
			wg.Add(1)
			task := pt
			l.pool.SubmitTask(worker.Task{
				ID: i,
				Do: func() (any, error) {
					defer wg.Done()
					defer l.progressDone.Add(1)
					if err := ld.realizeTexture(task); err != nil {
						errMu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						errMu.Unlock()
					}
					// marked even on failure so consumers cannot wait forever
					ld.a.MarkTextureReady(task.index)
					return nil, nil
				},
			})
		}
		wg.Wait()
		l.finishAsync(ld, firstErr)
	}()
	return nil
}

func (l *resourceLoader) finishAsync(ld *load, err error) {
	ld.src.Release()
	l.progressDone.Store(l.progressTotal.Load())
	l.mu.Lock()
	l.loadErr = err
	l.inFlight = false
	done := l.done
	l.mu.Unlock()
	if done != nil {
		close(done)
	}
}

func (l *resourceLoader) AsyncProgress() float32 {
	total := l.progressTotal.Load()
	if total == 0 {
		return 1
	}
	p := float32(l.progressDone.Load()) / float32(total)
	if p > 1 {
		return 1
	}
	return p
}

func (l *resourceLoader) AsyncWait() error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		<-done
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadErr
}

// load carries the per-asset state of one resource-loading pass. It holds its
// own source reference so uploads survive container teardown.
type load struct {
	l      *resourceLoader
	a      asset.Asset
	src    asset.SourceAsset
	parser gltf.Parser
	doc    *gltf.Document

	// images maps external image URIs to their resolved bytes.
	images map[string][]byte
}

// pendingTexture groups the texture slots sharing one source texture index.
type pendingTexture struct {
	index int
	slots []asset.TextureSlot
}

func (l *resourceLoader) begin(a asset.Asset) (*load, error) {
	if l.engine == nil {
		return nil, ErrNoEngine
	}
	src := a.Source()
	if src == nil {
		panic("resource: load on asset whose source data was released")
	}
	src = src.Acquire()
	parser := src.Parser()
	return &load{
		l:      l,
		a:      a,
		src:    src,
		parser: parser,
		doc:    parser.Document(),
		images: make(map[string][]byte),
	}, nil
}

// resolveExternal fetches every external URI the asset listed: buffer URIs
// feed the parser, image URIs are kept for the texture stage.
func (ld *load) resolveExternal() error {
	uris := ld.a.ResourceURIs()
	if len(uris) == 0 {
		return nil
	}

	bufferIndex := make(map[string]int, len(ld.doc.Buffers))
	for i, buf := range ld.doc.Buffers {
		if buf.URI != "" && !strings.HasPrefix(buf.URI, "data:") {
			bufferIndex[buf.URI] = i
		}
	}
	imageURIs := make(map[string]bool, len(ld.doc.Images))
	for _, img := range ld.doc.Images {
		if img.URI != "" && !strings.HasPrefix(img.URI, "data:") {
			imageURIs[img.URI] = true
		}
	}

	for _, uri := range uris {
		if ld.l.resolver == nil {
			return fmt.Errorf("%w: %q (no resolver configured)", ErrUnresolvedURI, uri)
		}
		data, err := ld.l.resolver.Resolve(uri)
		if err != nil {
			return fmt.Errorf("failed to resolve %q: %w", uri, err)
		}
		if idx, ok := bufferIndex[uri]; ok {
			if err := ld.parser.ResolveBuffer(idx, data); err != nil {
				return fmt.Errorf("failed to attach buffer %q: %w", uri, err)
			}
		}
		if imageURIs[uri] {
			ld.images[uri] = data
		}
	}
	return nil
}

func (ld *load) uploadBuffers() error {
	var firstErr error
	for _, slot := range ld.a.BufferSlots() {
		if err := ld.uploadBufferSlot(slot); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (ld *load) uploadBuffersCounted(done *atomic.Int64) error {
	var firstErr error
	for _, slot := range ld.a.BufferSlots() {
		if err := ld.uploadBufferSlot(slot); err != nil && firstErr == nil {
			firstErr = err
		}
		done.Add(1)
	}
	return firstErr
}

func (ld *load) uploadBufferSlot(slot asset.BufferSlot) error {
	switch {
	case slot.Accessor == asset.AccessorGenerateNormals:
		return ld.uploadGeneratedNormals(slot)
	case slot.Accessor == asset.AccessorGenerateTangents:
		return ld.uploadGeneratedTangents(slot)
	case slot.IndexBuffer != nil:
		indices, err := ld.parser.ReadIndicesAccessor(slot.Accessor)
		if err != nil {
			return fmt.Errorf("failed to read indices: %w", err)
		}
		return ld.l.engine.UploadIndexBuffer(slot.IndexBuffer, common.SliceToBytes(indices), len(indices))
	case strings.HasPrefix(slot.Attribute, "TEXCOORD_"):
		// integer texcoords are normalized to float2 here so shaders see one
		// layout regardless of the source component type
		uvs, err := ld.parser.ReadUvAccessor(slot.Accessor)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", slot.Attribute, err)
		}
		return ld.l.engine.UploadVertexBuffer(slot.VertexBuffer, common.SliceToBytes(uvs))
	default:
		data, err := ld.parser.ReadAccessorData(slot.Accessor)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", slot.Attribute, err)
		}
		return ld.l.engine.UploadVertexBuffer(slot.VertexBuffer, data)
	}
}

// uploadGeneratedNormals computes smooth vertex normals from the primitive's
// positions and indices and uploads them into the slot's buffer.
func (ld *load) uploadGeneratedNormals(slot asset.BufferSlot) error {
	positions, err := ld.parser.ReadVec3Accessor(slot.PositionAccessor)
	if err != nil {
		return fmt.Errorf("failed to read positions for normal generation: %w", err)
	}
	indices, err := ld.readOrSynthesizeIndices(slot.IndexAccessor, len(positions))
	if err != nil {
		return err
	}

	normals := generateNormals(positions, indices)
	return ld.l.engine.UploadVertexBuffer(slot.VertexBuffer, common.SliceToBytes(normals))
}

// uploadGeneratedTangents fills the slot with a uniform +X tangent per
// vertex. Proper tangent-space generation needs UV gradients; this keeps the
// vertex layout complete for materials that expect the attribute.
func (ld *load) uploadGeneratedTangents(slot asset.BufferSlot) error {
	positions, err := ld.parser.ReadVec3Accessor(slot.PositionAccessor)
	if err != nil {
		return fmt.Errorf("failed to read positions for tangent generation: %w", err)
	}
	tangents := make([][4]float32, len(positions))
	for i := range tangents {
		tangents[i] = [4]float32{1, 0, 0, 1}
	}
	return ld.l.engine.UploadVertexBuffer(slot.VertexBuffer, common.SliceToBytes(tangents))
}

func (ld *load) readOrSynthesizeIndices(indexAccessor, vertexCount int) ([]uint32, error) {
	if indexAccessor >= 0 {
		indices, err := ld.parser.ReadIndicesAccessor(indexAccessor)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices for generation: %w", err)
		}
		return indices, nil
	}
	indices := make([]uint32, vertexCount)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return indices, nil
}

// collectTextures groups the asset's texture slots by source texture index so
// each texture is decoded and uploaded once no matter how many parameters
// consume it.
func (ld *load) collectTextures() []pendingTexture {
	byIndex := make(map[int]*pendingTexture)
	order := make([]*pendingTexture, 0)
	for _, slot := range ld.a.TextureSlots() {
		pt, ok := byIndex[slot.Texture]
		if !ok {
			pt = &pendingTexture{index: slot.Texture}
			byIndex[slot.Texture] = pt
			order = append(order, pt)
		}
		pt.slots = append(pt.slots, slot)
	}

	out := make([]pendingTexture, len(order))
	for i, pt := range order {
		out[i] = *pt
	}
	return out
}

// realizeTexture decodes one source texture, uploads it and binds it to every
// consuming slot. The first slot's SRGB flag and sampler win when consumers
// disagree.
func (ld *load) realizeTexture(pt pendingTexture) error {
	first := pt.slots[0]
	imported, err := ld.importTexture(pt.index)
	if err != nil {
		return err
	}

	pixels, width, height, err := imported.Decode()
	if err != nil {
		return fmt.Errorf("failed to decode texture %d: %w", pt.index, err)
	}

	tex, err := ld.l.engine.CreateTexture(imported.Name, common.TextureStagingData{
		Pixels: pixels,
		Width:  width,
		Height: height,
		SRGB:   first.SRGB,
	}, first.Sampler)
	if err != nil {
		return fmt.Errorf("failed to upload texture %d: %w", pt.index, err)
	}

	for _, slot := range pt.slots {
		ld.a.BindTexture(slot, tex)
	}
	ld.a.TakeOwnership(tex)
	return nil
}

// importTexture gathers the raw encoded bytes of a source texture from
// whichever of the three image storages the document uses: an embedded
// buffer view, a data: URI, or a resolved external URI.
func (ld *load) importTexture(textureIndex int) (*common.ImportedTexture, error) {
	if textureIndex < 0 || textureIndex >= len(ld.doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}
	tex := &ld.doc.Textures[textureIndex]
	if tex.Source == nil || *tex.Source < 0 || *tex.Source >= len(ld.doc.Images) {
		return nil, fmt.Errorf("texture %d has no image source", textureIndex)
	}
	img := &ld.doc.Images[*tex.Source]

	imported := &common.ImportedTexture{
		Name:     textureName(tex, textureIndex),
		MimeType: img.MimeType,
	}

	switch {
	case img.BufferView != nil:
		view := *img.BufferView
		data, err := ld.src.DecodedView(view, func() ([]byte, error) {
			return ld.parser.ReadBufferViewData(view)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read image buffer view %d: %w", view, err)
		}
		imported.Data = data
	case strings.HasPrefix(img.URI, "data:"):
		data, err := decodeDataURI(img.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data URI: %w", err)
		}
		imported.Data = data
	case img.URI != "":
		imported.URI = img.URI
		imported.Data = ld.images[img.URI]
		if len(imported.Data) == 0 {
			return nil, fmt.Errorf("%w: image %q", ErrUnresolvedURI, img.URI)
		}
	default:
		return nil, fmt.Errorf("image for texture %d has neither URI nor buffer view", textureIndex)
	}
	return imported, nil
}

func textureName(tex *gltf.Texture, textureIndex int) string {
	if tex.Name != "" {
		return tex.Name
	}
	return fmt.Sprintf("texture_%d", textureIndex)
}

// generateNormals accumulates area-weighted face normals per vertex and
// normalizes the result.
func generateNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	normals := make([][3]float32, len(positions))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		if int(a) >= len(positions) || int(b) >= len(positions) || int(c) >= len(positions) {
			continue
		}
		e1 := sub3(positions[b], positions[a])
		e2 := sub3(positions[c], positions[a])
		n := cross3(e1, e2)
		for _, v := range []uint32{a, b, c} {
			normals[v][0] += n[0]
			normals[v][1] += n[1]
			normals[v][2] += n[2]
		}
	}
	for i := range normals {
		normals[i] = normalize3(normals[i])
	}
	return normals
}

func sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize3(v [3]float32) [3]float32 {
	len2 := float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if len2 == 0 {
		return [3]float32{0, 0, 1}
	}
	inv := float32(1 / math.Sqrt(len2))
	return [3]float32{v[0] * inv, v[1] * inv, v[2] * inv}
}

// decodeDataURI extracts the base64 payload of a data: URI.
func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	if !strings.HasSuffix(uri[:comma], ";base64") {
		return nil, fmt.Errorf("unsupported data URI encoding")
	}
	return base64.StdEncoding.DecodeString(uri[comma+1:])
}
