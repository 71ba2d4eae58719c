package gltf

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Common errors returned by the parser
var (
	ErrInvalidVersion     = errors.New("invalid glTF version: must be 2.0")
	ErrInvalidGLBMagic    = errors.New("invalid GLB magic number")
	ErrInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	ErrMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	ErrInvalidBufferURI   = errors.New("invalid buffer URI")
	ErrBufferSizeMismatch = errors.New("buffer size mismatch")
	ErrBufferNotResolved  = errors.New("buffer data not resolved")
)

// parserImpl is the implementation of the Parser interface.
type parserImpl struct {
	document       *Document
	glbBinaryChunk []byte
}

// Parser defines the interface for parsing in-memory glTF/GLB content.
// It handles JSON deserialization, GLB chunk decoding, embedded buffer
// decoding, and typed accessor reads. Buffers that reference external URIs
// are not fetched; callers discover them through ResourceURIs and supply
// their content with ResolveBuffer.
type Parser interface {
	// Parse parses glTF JSON or GLB binary content.
	// The format is detected from the GLB magic number.
	//
	// Parameters:
	//   - data: glTF JSON or GLB bytes
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(data []byte) error

	// ParseReader parses a glTF document from a reader.
	// Use this when loading from embedded resources or network streams.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//
	// Returns:
	//   - error: error if parsing fails
	ParseReader(r io.Reader) error

	// Document returns the parsed glTF document.
	// Returns nil if Parse has not been called successfully.
	//
	// Returns:
	//   - *Document: the parsed document or nil
	Document() *Document

	// ResourceURIs returns the URIs of buffers and images whose content was
	// not embedded in the parsed data. Each appears once, in document order.
	//
	// Returns:
	//   - []string: external resource URIs, empty if fully self-contained
	ResourceURIs() []string

	// ResolveBuffer supplies the content of an external buffer.
	//
	// Parameters:
	//   - bufferIndex: the index of the buffer
	//   - data: the buffer content
	//
	// Returns:
	//   - error: error if the index is out of range or the data is too short
	ResolveBuffer(bufferIndex int, data []byte) error

	// ReadAccessorData reads raw tightly-packed bytes from an accessor,
	// de-interleaving strided buffer views.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []byte: the raw data
	//   - error: error if reading fails
	ReadAccessorData(accessorIndex int) ([]byte, error)

	// ReadBufferViewData reads the raw bytes of a buffer view.
	// Used for images embedded in the binary chunk.
	//
	// Parameters:
	//   - viewIndex: the index of the buffer view
	//
	// Returns:
	//   - []byte: the raw data
	//   - error: error if reading fails
	ReadBufferViewData(viewIndex int) ([]byte, error)

	// ReadVec2Accessor reads an accessor as vec2 float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][2]float32: the vec2 data
	//   - error: error if reading fails
	ReadVec2Accessor(accessorIndex int) ([][2]float32, error)

	// ReadVec3Accessor reads an accessor as vec3 float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][3]float32: the vec3 data
	//   - error: error if reading fails
	ReadVec3Accessor(accessorIndex int) ([][3]float32, error)

	// ReadVec4Accessor reads an accessor as vec4 float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][4]float32: the vec4 data
	//   - error: error if reading fails
	ReadVec4Accessor(accessorIndex int) ([][4]float32, error)

	// ReadScalarAccessor reads an accessor as scalar float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []float32: the scalar data
	//   - error: error if reading fails
	ReadScalarAccessor(accessorIndex int) ([]float32, error)

	// ReadMat4Accessor reads an accessor as mat4 float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][16]float32: the mat4 data
	//   - error: error if reading fails
	ReadMat4Accessor(accessorIndex int) ([][16]float32, error)

	// ReadIndicesAccessor reads an accessor as index data (uint32).
	// Handles UNSIGNED_BYTE, UNSIGNED_SHORT, and UNSIGNED_INT component types.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []uint32: the index data (converted to uint32)
	//   - error: error if reading fails
	ReadIndicesAccessor(accessorIndex int) ([]uint32, error)

	// ReadUvAccessor reads an accessor as vec2 texture coordinates.
	// Handles FLOAT plus normalized UNSIGNED_BYTE and UNSIGNED_SHORT.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][2]float32: the coordinates, converted to float
	//   - error: error if reading fails
	ReadUvAccessor(accessorIndex int) ([][2]float32, error)

	// ReadJointsAccessor reads an accessor as joint indices (vec4 uint).
	// Handles UNSIGNED_BYTE and UNSIGNED_SHORT component types.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][4]uint32: the joint indices (converted to uint32)
	//   - error: error if reading fails
	ReadJointsAccessor(accessorIndex int) ([][4]uint32, error)
}

var _ Parser = &parserImpl{}

// NewParser creates a new glTF parser instance.
//
// Returns:
//   - Parser: a new parser instance
func NewParser() Parser {
	return &parserImpl{}
}

func (p *parserImpl) Document() *Document {
	return p.document
}

func (p *parserImpl) Parse(data []byte) error {
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == glbMagic {
		return p.parseGLB(data)
	}
	return p.parseJSON(data)
}

func (p *parserImpl) ParseReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	return p.Parse(data)
}

// parseJSON parses a glTF JSON document.
func (p *parserImpl) parseJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}

	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return ErrInvalidVersion
	}

	if err := p.loadEmbeddedBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}

	p.document = &doc
	return nil
}

// parseGLB parses a GLB binary container.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func (p *parserImpl) parseGLB(data []byte) error {
	if len(data) < 12 {
		return errors.New("GLB file too small")
	}

	r := bytes.NewReader(data)

	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read GLB header: %w", err)
	}

	if header.Magic != glbMagic {
		return ErrInvalidGLBMagic
	}
	if header.Version != glbVersion {
		return ErrInvalidGLBVersion
	}

	var jsonData []byte
	var binData []byte

	for {
		var chunkHeader glbChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read chunk header: %w", err)
		}

		chunkData := make([]byte, chunkHeader.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return fmt.Errorf("failed to read chunk data: %w", err)
		}

		switch chunkHeader.ChunkType {
		case glbChunkJSON:
			jsonData = chunkData
		case glbChunkBIN:
			binData = chunkData
		}
	}

	if jsonData == nil {
		return ErrMissingJSONChunk
	}

	p.glbBinaryChunk = binData

	var doc Document
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}

	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return ErrInvalidVersion
	}

	if err := p.loadEmbeddedBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}

	p.document = &doc
	return nil
}

// loadEmbeddedBuffers fills in buffer data that is available without I/O: the
// GLB binary chunk and base64 data URIs. Buffers with external URIs are left
// unresolved for the caller.
func (p *parserImpl) loadEmbeddedBuffers(doc *Document) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		if buf.URI == "" {
			if i == 0 && p.glbBinaryChunk != nil {
				buf.Data = p.glbBinaryChunk
				if len(buf.Data) < buf.ByteLength {
					return fmt.Errorf("buffer %d: %w", i, ErrBufferSizeMismatch)
				}
				continue
			}
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		}

		if !strings.HasPrefix(buf.URI, "data:") {
			continue
		}

		data, err := decodeDataURI(buf.URI)
		if err != nil {
			return fmt.Errorf("buffer %d: %w", i, err)
		}
		buf.Data = data

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, ErrBufferSizeMismatch)
		}
	}

	return nil
}

func (p *parserImpl) ResourceURIs() []string {
	if p.document == nil {
		return nil
	}

	var uris []string
	seen := make(map[string]struct{})
	add := func(uri string) {
		if uri == "" || strings.HasPrefix(uri, "data:") {
			return
		}
		if _, ok := seen[uri]; ok {
			return
		}
		seen[uri] = struct{}{}
		uris = append(uris, uri)
	}

	for i := range p.document.Buffers {
		add(p.document.Buffers[i].URI)
	}
	for i := range p.document.Images {
		add(p.document.Images[i].URI)
	}

	return uris
}

func (p *parserImpl) ResolveBuffer(bufferIndex int, data []byte) error {
	if p.document == nil {
		return errors.New("no document loaded")
	}
	if bufferIndex < 0 || bufferIndex >= len(p.document.Buffers) {
		return fmt.Errorf("buffer index %d out of range", bufferIndex)
	}

	buf := &p.document.Buffers[bufferIndex]
	if len(data) < buf.ByteLength {
		return fmt.Errorf("buffer %d: %w", bufferIndex, ErrBufferSizeMismatch)
	}
	buf.Data = data
	return nil
}

// decodeDataURI decodes a base64 data URI.
// Format: data:[<mediatype>][;base64],<data>
func decodeDataURI(uri string) ([]byte, error) {
	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, ErrInvalidBufferURI
	}

	header := uri[5:commaIdx]
	dataStr := uri[commaIdx+1:]

	if !strings.Contains(header, "base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", header)
	}

	data, err := base64.StdEncoding.DecodeString(dataStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	return data, nil
}

// --- Accessor Data Reading ---

// accessor validates the index and returns the accessor record.
func (p *parserImpl) accessor(accessorIndex int) (*Accessor, error) {
	if p.document == nil {
		return nil, errors.New("no document loaded")
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	return &p.document.Accessors[accessorIndex], nil
}

func (p *parserImpl) ReadAccessorData(accessorIndex int) ([]byte, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}

	if acc.Sparse != nil {
		return nil, errors.New("sparse accessors not supported")
	}

	if acc.BufferView == nil {
		return nil, errors.New("accessor has no bufferView")
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, fmt.Errorf("accessor %d: bufferView index %d out of range", accessorIndex, *acc.BufferView)
	}

	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, fmt.Errorf("bufferView %d: buffer index %d out of range", *acc.BufferView, bv.Buffer)
	}
	buf := &p.document.Buffers[bv.Buffer]

	if buf.Data == nil {
		return nil, fmt.Errorf("buffer %d: %w", bv.Buffer, ErrBufferNotResolved)
	}

	componentSize := ComponentTypeSize(acc.ComponentType)
	componentCount := AccessorTypeComponentCount(acc.Type)
	elementSize := componentSize * componentCount
	if elementSize <= 0 {
		return nil, fmt.Errorf("accessor %d: unsupported type %s componentType %d", accessorIndex, acc.Type, acc.ComponentType)
	}

	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	bufferOffset := bv.ByteOffset + acc.ByteOffset
	if acc.Count < 0 || bufferOffset < 0 {
		return nil, fmt.Errorf("accessor %d: %w", accessorIndex, ErrBufferSizeMismatch)
	}
	if acc.Count > 0 && bufferOffset+(acc.Count-1)*stride+elementSize > len(buf.Data) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIndex, ErrBufferSizeMismatch)
	}

	result := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		srcOffset := bufferOffset + i*stride
		dstOffset := i * elementSize
		copy(result[dstOffset:dstOffset+elementSize], buf.Data[srcOffset:srcOffset+elementSize])
	}

	return result, nil
}

func (p *parserImpl) ReadBufferViewData(viewIndex int) ([]byte, error) {
	if p.document == nil {
		return nil, errors.New("no document loaded")
	}
	if viewIndex < 0 || viewIndex >= len(p.document.BufferViews) {
		return nil, fmt.Errorf("bufferView index %d out of range", viewIndex)
	}

	bv := &p.document.BufferViews[viewIndex]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, fmt.Errorf("bufferView %d: buffer index %d out of range", viewIndex, bv.Buffer)
	}
	buf := &p.document.Buffers[bv.Buffer]

	if buf.Data == nil {
		return nil, fmt.Errorf("buffer %d: %w", bv.Buffer, ErrBufferNotResolved)
	}
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset+bv.ByteLength > len(buf.Data) {
		return nil, fmt.Errorf("bufferView %d: %w", viewIndex, ErrBufferSizeMismatch)
	}

	return buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
}

func (p *parserImpl) ReadVec2Accessor(accessorIndex int) ([][2]float32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != AccessorTypeVec2 || acc.ComponentType != ComponentTypeFloat {
		return nil, fmt.Errorf("accessor is not VEC2 FLOAT: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([][2]float32, acc.Count)
	r := bytes.NewReader(data)
	for i := 0; i < acc.Count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &result[i]); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *parserImpl) ReadVec3Accessor(accessorIndex int) ([][3]float32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != AccessorTypeVec3 || acc.ComponentType != ComponentTypeFloat {
		return nil, fmt.Errorf("accessor is not VEC3 FLOAT: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([][3]float32, acc.Count)
	r := bytes.NewReader(data)
	for i := 0; i < acc.Count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &result[i]); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *parserImpl) ReadVec4Accessor(accessorIndex int) ([][4]float32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != AccessorTypeVec4 || acc.ComponentType != ComponentTypeFloat {
		return nil, fmt.Errorf("accessor is not VEC4 FLOAT: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([][4]float32, acc.Count)
	r := bytes.NewReader(data)
	for i := 0; i < acc.Count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &result[i]); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *parserImpl) ReadScalarAccessor(accessorIndex int) ([]float32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != AccessorTypeScalar || acc.ComponentType != ComponentTypeFloat {
		return nil, fmt.Errorf("accessor is not SCALAR FLOAT: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([]float32, acc.Count)
	r := bytes.NewReader(data)
	for i := 0; i < acc.Count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &result[i]); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *parserImpl) ReadMat4Accessor(accessorIndex int) ([][16]float32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != AccessorTypeMat4 || acc.ComponentType != ComponentTypeFloat {
		return nil, fmt.Errorf("accessor is not MAT4 FLOAT: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([][16]float32, acc.Count)
	r := bytes.NewReader(data)
	for i := 0; i < acc.Count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &result[i]); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *parserImpl) ReadIndicesAccessor(accessorIndex int) ([]uint32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != AccessorTypeScalar {
		return nil, fmt.Errorf("index accessor is not SCALAR: type=%s", acc.Type)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([]uint32, acc.Count)
	r := bytes.NewReader(data)

	switch acc.ComponentType {
	case ComponentTypeUnsignedByte:
		for i := 0; i < acc.Count; i++ {
			var v uint8
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = uint32(v)
		}
	case ComponentTypeUnsignedShort:
		for i := 0; i < acc.Count; i++ {
			var v uint16
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = uint32(v)
		}
	case ComponentTypeUnsignedInt:
		if err := binary.Read(r, binary.LittleEndian, &result); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported index component type: %d", acc.ComponentType)
	}

	return result, nil
}

func (p *parserImpl) ReadUvAccessor(accessorIndex int) ([][2]float32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != AccessorTypeVec2 {
		return nil, fmt.Errorf("texcoord accessor is not VEC2: type=%s", acc.Type)
	}

	if acc.ComponentType == ComponentTypeFloat {
		return p.ReadVec2Accessor(accessorIndex)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([][2]float32, acc.Count)
	r := bytes.NewReader(data)

	switch acc.ComponentType {
	case ComponentTypeUnsignedByte:
		for i := 0; i < acc.Count; i++ {
			var v [2]uint8
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = [2]float32{float32(v[0]) / 255, float32(v[1]) / 255}
		}
	case ComponentTypeUnsignedShort:
		for i := 0; i < acc.Count; i++ {
			var v [2]uint16
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = [2]float32{float32(v[0]) / 65535, float32(v[1]) / 65535}
		}
	default:
		return nil, fmt.Errorf("unsupported texcoord component type: %d", acc.ComponentType)
	}

	// Integer texcoords without the normalized flag are technically invalid;
	// exporters that emit them mean normalized, so treat them the same.
	return result, nil
}

func (p *parserImpl) ReadJointsAccessor(accessorIndex int) ([][4]uint32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != AccessorTypeVec4 {
		return nil, fmt.Errorf("joints accessor is not VEC4: type=%s", acc.Type)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([][4]uint32, acc.Count)
	r := bytes.NewReader(data)

	switch acc.ComponentType {
	case ComponentTypeUnsignedByte:
		for i := 0; i < acc.Count; i++ {
			var v [4]uint8
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = [4]uint32{uint32(v[0]), uint32(v[1]), uint32(v[2]), uint32(v[3])}
		}
	case ComponentTypeUnsignedShort:
		for i := 0; i < acc.Count; i++ {
			var v [4]uint16
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = [4]uint32{uint32(v[0]), uint32(v[1]), uint32(v[2]), uint32(v[3])}
		}
	default:
		return nil, fmt.Errorf("unsupported joints component type: %d", acc.ComponentType)
	}

	return result, nil
}

// --- Helper Functions ---

// ComponentTypeSize returns the byte size of a component type.
func ComponentTypeSize(componentType int) int {
	switch componentType {
	case ComponentTypeByte, ComponentTypeUnsignedByte:
		return 1
	case ComponentTypeShort, ComponentTypeUnsignedShort:
		return 2
	case ComponentTypeUnsignedInt, ComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// AccessorTypeComponentCount returns the number of components for an accessor type.
func AccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case AccessorTypeScalar:
		return 1
	case AccessorTypeVec2:
		return 2
	case AccessorTypeVec3:
		return 3
	case AccessorTypeVec4:
		return 4
	case AccessorTypeMat2:
		return 4
	case AccessorTypeMat3:
		return 9
	case AccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
