package material

import "github.com/Carmen-Shannon/oxy-assets/common"

// InstanceOption is a functional option applied to a material instance during construction via NewInstance.
type InstanceOption func(*instance)

// WithName sets the instance identifier.
//
// Parameters:
//   - name: the name to assign
//
// Returns:
//   - InstanceOption: a function that applies the name option to an instance
func WithName(name string) InstanceOption {
	return func(m *instance) {
		m.name = name
	}
}

// WithBaseColor sets the albedo RGBA factor.
//
// Parameters:
//   - color: the base color as RGBA values
//
// Returns:
//   - InstanceOption: a function that applies the base color option to an instance
func WithBaseColor(color [4]float32) InstanceOption {
	return func(m *instance) {
		m.baseColor = color
	}
}

// WithMetallicRoughness sets the metallic and roughness factors.
//
// Parameters:
//   - metallic: the metallic factor
//   - roughness: the roughness factor
//
// Returns:
//   - InstanceOption: a function that applies the metallic-roughness option to an instance
func WithMetallicRoughness(metallic, roughness float32) InstanceOption {
	return func(m *instance) {
		m.metallic = metallic
		m.roughness = roughness
	}
}

// WithEmissive sets the emissive RGB factor.
//
// Parameters:
//   - emissive: the emissive color
//
// Returns:
//   - InstanceOption: a function that applies the emissive option to an instance
func WithEmissive(emissive [3]float32) InstanceOption {
	return func(m *instance) {
		m.emissive = emissive
	}
}

// WithAlphaMode sets the alpha rendering mode and cutoff.
//
// Parameters:
//   - mode: "OPAQUE", "MASK" or "BLEND"
//   - cutoff: the alpha cutoff used in MASK mode
//
// Returns:
//   - InstanceOption: a function that applies the alpha mode option to an instance
func WithAlphaMode(mode string, cutoff float32) InstanceOption {
	return func(m *instance) {
		m.alphaMode = mode
		m.alphaCutoff = cutoff
	}
}

// WithDoubleSided sets whether back faces are rendered.
//
// Parameters:
//   - doubleSided: true to render back faces
//
// Returns:
//   - InstanceOption: a function that applies the double-sided option to an instance
func WithDoubleSided(doubleSided bool) InstanceOption {
	return func(m *instance) {
		m.doubleSided = doubleSided
	}
}

// WithUvMap sets the mapping from source texture-coordinate sets to the
// renderer's supported sets.
//
// Parameters:
//   - uvMap: the UV remapping
//
// Returns:
//   - InstanceOption: a function that applies the UV map option to an instance
func WithUvMap(uvMap common.UvMap) InstanceOption {
	return func(m *instance) {
		m.uvMap = uvMap
	}
}
