package asset

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/gltf"
)

// sourceAsset is the implementation of the SourceAsset interface.
type sourceAsset struct {
	refs atomic.Int32

	mu     sync.RWMutex
	parser gltf.Parser

	// decoded caches decompressed buffer-view bytes by view index, so
	// several primitives sharing a compressed view decode it once.
	decoded map[int][]byte
}

// SourceAsset is a reference-counted snapshot of the parsed source tree plus
// its embedded binary payload and a decompression cache. The asset container
// holds one reference; an asynchronous resource loader acquires its own, so
// buffer reads and GPU uploads stay valid after the container is destroyed.
// The parsed hierarchy is never mutated after construction, only read.
type SourceAsset interface {
	// Document returns the parsed source tree, or nil after the last
	// reference is released.
	//
	// Returns:
	//   - *gltf.Document: the source tree or nil
	Document() *gltf.Document

	// Parser returns the parser holding the source tree and its binary
	// payload, for typed accessor reads. Nil after the last release.
	//
	// Returns:
	//   - gltf.Parser: the parser or nil
	Parser() gltf.Parser

	// Acquire adds a reference. Every Acquire must be paired with a Release.
	//
	// Returns:
	//   - SourceAsset: the same handle, for chaining
	Acquire() SourceAsset

	// Release drops a reference. When the last reference is released the
	// parsed hierarchy and caches are freed; releasing a freed handle panics.
	Release()

	// DecodedView returns the cached decompressed bytes for a buffer view,
	// invoking decode on the first request and caching the result.
	//
	// Parameters:
	//   - viewIndex: the buffer view index
	//   - decode: the decompressor invoked on a cache miss
	//
	// Returns:
	//   - []byte: the decompressed bytes
	//   - error: error from decode on a miss
	DecodedView(viewIndex int, decode func() ([]byte, error)) ([]byte, error)

	// RefCount returns the current reference count.
	//
	// Returns:
	//   - int: the number of live references
	RefCount() int
}

var _ SourceAsset = &sourceAsset{}

// NewSourceAsset wraps a parsed source tree in a counted handle with one
// reference, owned by the caller.
//
// Parameters:
//   - parser: the parser holding the parsed document
//
// Returns:
//   - SourceAsset: the new handle
func NewSourceAsset(parser gltf.Parser) SourceAsset {
	s := &sourceAsset{
		parser:  parser,
		decoded: make(map[int][]byte),
	}
	s.refs.Store(1)
	return s
}

func (s *sourceAsset) Document() *gltf.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.parser == nil {
		return nil
	}
	return s.parser.Document()
}

func (s *sourceAsset) Parser() gltf.Parser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parser
}

func (s *sourceAsset) Acquire() SourceAsset {
	if s.refs.Add(1) <= 1 {
		s.refs.Add(-1)
		panic("asset: acquire on released source asset")
	}
	return s
}

func (s *sourceAsset) Release() {
	n := s.refs.Add(-1)
	if n < 0 {
		s.refs.Add(1)
		panic("asset: release on released source asset")
	}
	if n > 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.parser = nil
	s.decoded = nil
	common.LogDebug("source asset freed")
}

func (s *sourceAsset) DecodedView(viewIndex int, decode func() ([]byte, error)) ([]byte, error) {
	s.mu.RLock()
	if s.decoded == nil {
		s.mu.RUnlock()
		panic("asset: decoded view read on released source asset")
	}
	if data, ok := s.decoded[viewIndex]; ok {
		s.mu.RUnlock()
		return data, nil
	}
	s.mu.RUnlock()

	data, err := decode()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.decoded == nil {
		panic("asset: decoded view read on released source asset")
	}
	if cached, ok := s.decoded[viewIndex]; ok {
		return cached, nil
	}
	s.decoded[viewIndex] = data
	return data, nil
}

func (s *sourceAsset) RefCount() int {
	return int(s.refs.Load())
}
