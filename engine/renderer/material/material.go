// Package material provides material instances for loaded assets: the PBR
// surface parameters parsed from a source material, the texture parameter
// slots that get bound as textures finish loading, and the provider that
// caches instances by source material identity.
package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
)

// Texture parameter names used by the standard PBR material.
const (
	ParamBaseColor         = "baseColorMap"
	ParamNormal            = "normalMap"
	ParamMetallicRoughness = "metallicRoughnessMap"
	ParamOcclusion         = "occlusionMap"
	ParamEmissive          = "emissiveMap"
)

// instance is the implementation of the Instance interface.
type instance struct {
	mu sync.RWMutex

	name        string
	baseColor   [4]float32
	metallic    float32
	roughness   float32
	emissive    [3]float32
	alphaMode   string
	alphaCutoff float32
	doubleSided bool
	uvMap       common.UvMap

	textures map[string]*renderer.Texture
}

// Instance is a configured material ready to be attached to renderable
// entities. Surface factors are set at creation and read-only; texture
// parameters start unbound and are filled in as the resource loader finishes
// decoding and uploading each texture.
type Instance interface {
	// Name retrieves the material instance identifier.
	//
	// Returns:
	//   - string: the name of the instance
	Name() string

	// BaseColor retrieves the albedo RGBA factor.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// Metallic retrieves the metallic factor.
	// A value of 0.0 represents a dielectric surface, 1.0 a fully metallic surface.
	//
	// Returns:
	//   - float32: the metallic factor
	Metallic() float32

	// Roughness retrieves the roughness factor.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Emissive retrieves the emissive RGB factor.
	//
	// Returns:
	//   - [3]float32: the emissive color
	Emissive() [3]float32

	// AlphaMode retrieves the alpha rendering mode ("OPAQUE", "MASK" or "BLEND").
	//
	// Returns:
	//   - string: the alpha mode
	AlphaMode() string

	// AlphaCutoff retrieves the alpha cutoff used in MASK mode.
	//
	// Returns:
	//   - float32: the cutoff value
	AlphaCutoff() float32

	// DoubleSided reports whether back faces are rendered.
	//
	// Returns:
	//   - bool: true if double-sided
	DoubleSided() bool

	// UvMap retrieves the mapping from source texture-coordinate sets to the
	// renderer's supported sets, fixed at creation.
	//
	// Returns:
	//   - common.UvMap: the UV remapping
	UvMap() common.UvMap

	// SetTexture binds a texture to a named parameter, replacing any previous
	// binding for that parameter.
	//
	// Parameters:
	//   - param: the texture parameter name
	//   - tex: the texture to bind
	SetTexture(param string, tex *renderer.Texture)

	// Texture retrieves the texture bound to a parameter.
	//
	// Parameters:
	//   - param: the texture parameter name
	//
	// Returns:
	//   - *renderer.Texture: the bound texture, nil if unbound
	//   - bool: true if the parameter has a binding
	Texture(param string) (*renderer.Texture, bool)

	// BoundTextures returns a snapshot of all current texture bindings.
	//
	// Returns:
	//   - map[string]*renderer.Texture: parameter name to bound texture
	BoundTextures() map[string]*renderer.Texture
}

var _ Instance = &instance{}

// NewInstance creates a material Instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of InstanceOption functions to configure the instance
//
// Returns:
//   - Instance: a new material instance
func NewInstance(options ...InstanceOption) Instance {
	m := &instance{
		baseColor:   [4]float32{1, 1, 1, 1},
		metallic:    1.0,
		roughness:   1.0,
		alphaMode:   "OPAQUE",
		alphaCutoff: 0.5,
		textures:    make(map[string]*renderer.Texture),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *instance) Name() string {
	return m.name
}

func (m *instance) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *instance) Metallic() float32 {
	return m.metallic
}

func (m *instance) Roughness() float32 {
	return m.roughness
}

func (m *instance) Emissive() [3]float32 {
	return m.emissive
}

func (m *instance) AlphaMode() string {
	return m.alphaMode
}

func (m *instance) AlphaCutoff() float32 {
	return m.alphaCutoff
}

func (m *instance) DoubleSided() bool {
	return m.doubleSided
}

func (m *instance) UvMap() common.UvMap {
	return m.uvMap
}

func (m *instance) SetTexture(param string, tex *renderer.Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textures[param] = tex
}

func (m *instance) Texture(param string) (*renderer.Texture, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tex, ok := m.textures[param]
	return tex, ok
}

func (m *instance) BoundTextures() map[string]*renderer.Texture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*renderer.Texture, len(m.textures))
	for k, v := range m.textures {
		out[k] = v
	}
	return out
}
