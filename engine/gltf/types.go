// types.go contains glTF 2.0 spec data structures for JSON deserialization.
// These types map directly to the glTF 2.0 JSON schema.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package gltf

import "encoding/json"

// --- glTF Root Structure ---

// Document represents the root of a glTF JSON document.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-gltf
type Document struct {
	// Asset contains metadata about the glTF asset.
	Asset Asset `json:"asset"`

	// Scene is the index of the default scene.
	Scene *int `json:"scene,omitempty"`

	// Scenes is an array of scenes.
	Scenes []Scene `json:"scenes,omitempty"`

	// Nodes is an array of nodes (transform hierarchy).
	Nodes []Node `json:"nodes,omitempty"`

	// Meshes is an array of meshes.
	Meshes []Mesh `json:"meshes,omitempty"`

	// Accessors define how to interpret buffer data.
	Accessors []Accessor `json:"accessors,omitempty"`

	// BufferViews define portions of buffers.
	BufferViews []BufferView `json:"bufferViews,omitempty"`

	// Buffers are raw binary data containers.
	Buffers []Buffer `json:"buffers,omitempty"`

	// Materials is an array of materials.
	Materials []Material `json:"materials,omitempty"`

	// Textures is an array of textures.
	Textures []Texture `json:"textures,omitempty"`

	// Images is an array of images.
	Images []Image `json:"images,omitempty"`

	// Samplers define texture sampling parameters.
	Samplers []Sampler `json:"samplers,omitempty"`

	// Skins is an array of skins (skeletal animation binding).
	Skins []Skin `json:"skins,omitempty"`

	// Animations is an array of animations.
	Animations []Animation `json:"animations,omitempty"`

	// Cameras is an array of cameras.
	Cameras []Camera `json:"cameras,omitempty"`

	// Extensions holds root-level extension objects.
	Extensions *DocumentExtensions `json:"extensions,omitempty"`

	// ExtensionsUsed lists extensions used by this asset.
	ExtensionsUsed []string `json:"extensionsUsed,omitempty"`

	// ExtensionsRequired lists extensions required to load this asset.
	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`
}

// DocumentExtensions holds the root-level extensions the pipeline understands.
type DocumentExtensions struct {
	// LightsPunctual is the KHR_lights_punctual extension object.
	LightsPunctual *LightsPunctual `json:"KHR_lights_punctual,omitempty"`
}

// LightsPunctual is the root object of the KHR_lights_punctual extension.
// Reference: https://github.com/KhronosGroup/glTF/tree/main/extensions/2.0/Khronos/KHR_lights_punctual
type LightsPunctual struct {
	// Lights is the array of punctual light definitions.
	Lights []Light `json:"lights,omitempty"`
}

// Light is a punctual light definition from KHR_lights_punctual.
type Light struct {
	// Name is an optional name for this light.
	Name string `json:"name,omitempty"`

	// Type is the light type: "directional", "point" or "spot".
	Type string `json:"type"`

	// Color is the RGB light color (default white).
	Color *[3]float32 `json:"color,omitempty"`

	// Intensity in candela for point/spot lights, lux for directional.
	Intensity *float32 `json:"intensity,omitempty"`

	// Range is the distance cutoff (0 or absent means unlimited).
	Range *float32 `json:"range,omitempty"`
}

// --- Asset Metadata ---

// Asset contains metadata about the glTF asset.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-asset
type Asset struct {
	// Version is the glTF version (required, must be "2.0").
	Version string `json:"version"`

	// MinVersion is the minimum glTF version required.
	MinVersion string `json:"minVersion,omitempty"`

	// Generator is the tool that generated this asset.
	Generator string `json:"generator,omitempty"`

	// Copyright information.
	Copyright string `json:"copyright,omitempty"`

	// Extras is arbitrary application-specific JSON.
	Extras json.RawMessage `json:"extras,omitempty"`
}

// --- Scene Graph ---

// Scene is a set of visual objects to render.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-scene
type Scene struct {
	// Name is an optional name for this scene.
	Name string `json:"name,omitempty"`

	// Nodes are the indices of root nodes in this scene.
	Nodes []int `json:"nodes,omitempty"`
}

// Node is a node in the node hierarchy.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-node
type Node struct {
	// Name is an optional name for this node.
	Name string `json:"name,omitempty"`

	// Children are indices of child nodes.
	Children []int `json:"children,omitempty"`

	// Mesh is the index of the mesh in this node.
	Mesh *int `json:"mesh,omitempty"`

	// Skin is the index of the skin for this node (skeletal animation).
	Skin *int `json:"skin,omitempty"`

	// Camera is the index of the camera in this node.
	Camera *int `json:"camera,omitempty"`

	// Matrix is a 4x4 transformation matrix (column-major).
	Matrix *[16]float32 `json:"matrix,omitempty"`

	// Translation is the node's translation (x, y, z).
	Translation *[3]float32 `json:"translation,omitempty"`

	// Rotation is the node's rotation as a quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`

	// Scale is the node's scale (x, y, z).
	Scale *[3]float32 `json:"scale,omitempty"`

	// Weights are morph target weights (for blend shapes).
	Weights []float32 `json:"weights,omitempty"`

	// Extensions holds node-level extension objects.
	Extensions *NodeExtensions `json:"extensions,omitempty"`

	// Extras is arbitrary application-specific JSON.
	Extras json.RawMessage `json:"extras,omitempty"`
}

// NodeExtensions holds the node-level extensions the pipeline understands.
type NodeExtensions struct {
	// LightPunctual references a light from the root KHR_lights_punctual array.
	LightPunctual *NodeLightPunctual `json:"KHR_lights_punctual,omitempty"`
}

// NodeLightPunctual attaches a punctual light to a node.
type NodeLightPunctual struct {
	// Light is the index into the root lights array.
	Light int `json:"light"`
}

// --- Mesh Data ---

// Mesh is a set of primitives to be rendered.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-mesh
type Mesh struct {
	// Name is an optional name for this mesh.
	Name string `json:"name,omitempty"`

	// Primitives defines the geometry to render.
	Primitives []Primitive `json:"primitives"`

	// Weights are default morph target weights.
	Weights []float32 `json:"weights,omitempty"`

	// Extras is arbitrary application-specific JSON. Tools commonly put
	// morph target names here under a "targetNames" array.
	Extras json.RawMessage `json:"extras,omitempty"`
}

// Primitive defines geometry for rendering.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-mesh-primitive
type Primitive struct {
	// Attributes is a map of attribute semantic to accessor index.
	// Standard attributes: POSITION, NORMAL, TANGENT, TEXCOORD_0, COLOR_0, JOINTS_0, WEIGHTS_0
	Attributes map[string]int `json:"attributes"`

	// Indices is the accessor index for the index buffer.
	Indices *int `json:"indices,omitempty"`

	// Material is the material index.
	Material *int `json:"material,omitempty"`

	// Mode is the primitive topology.
	// 0=POINTS, 1=LINES, 2=LINE_LOOP, 3=LINE_STRIP, 4=TRIANGLES (default), 5=TRIANGLE_STRIP, 6=TRIANGLE_FAN
	Mode *int `json:"mode,omitempty"`

	// Targets are morph targets for this primitive.
	Targets []map[string]int `json:"targets,omitempty"`
}

// PrimitiveMode constants
const (
	PrimitiveModePoints        = 0
	PrimitiveModeLines         = 1
	PrimitiveModeLineLoop      = 2
	PrimitiveModeLineStrip     = 3
	PrimitiveModeTriangles     = 4
	PrimitiveModeTriangleStrip = 5
	PrimitiveModeTriangleFan   = 6
)

// --- Buffer Data ---

// Accessor defines how to interpret buffer data.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-accessor
type Accessor struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// BufferView is the index of the bufferView.
	BufferView *int `json:"bufferView,omitempty"`

	// ByteOffset is the offset within the bufferView.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ComponentType is the data type of components.
	// 5120=BYTE, 5121=UNSIGNED_BYTE, 5122=SHORT, 5123=UNSIGNED_SHORT, 5125=UNSIGNED_INT, 5126=FLOAT
	ComponentType int `json:"componentType"`

	// Normalized indicates if integer data should be normalized.
	Normalized bool `json:"normalized,omitempty"`

	// Count is the number of elements.
	Count int `json:"count"`

	// Type is the element type (SCALAR, VEC2, VEC3, VEC4, MAT2, MAT3, MAT4).
	Type string `json:"type"`

	// Max is the maximum value of each component.
	Max []float32 `json:"max,omitempty"`

	// Min is the minimum value of each component.
	Min []float32 `json:"min,omitempty"`

	// Sparse defines sparse storage of accessor values.
	Sparse *AccessorSparse `json:"sparse,omitempty"`
}

// ComponentType constants
const (
	ComponentTypeByte          = 5120
	ComponentTypeUnsignedByte  = 5121
	ComponentTypeShort         = 5122
	ComponentTypeUnsignedShort = 5123
	ComponentTypeUnsignedInt   = 5125
	ComponentTypeFloat         = 5126
)

// AccessorType constants
const (
	AccessorTypeScalar = "SCALAR"
	AccessorTypeVec2   = "VEC2"
	AccessorTypeVec3   = "VEC3"
	AccessorTypeVec4   = "VEC4"
	AccessorTypeMat2   = "MAT2"
	AccessorTypeMat3   = "MAT3"
	AccessorTypeMat4   = "MAT4"
)

// AccessorSparse defines sparse storage of accessor values.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-accessor-sparse
//
// NOTE: Only Count is retained for deserialization. The parser does not support
// sparse accessors and returns an error when Sparse is non-nil.
type AccessorSparse struct {
	// Count is the number of sparse entries.
	Count int `json:"count"`
}

// BufferView represents a subset of a buffer.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-bufferview
type BufferView struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// Buffer is the index of the buffer.
	Buffer int `json:"buffer"`

	// ByteOffset is the offset into the buffer.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ByteLength is the length of the bufferView.
	ByteLength int `json:"byteLength"`

	// ByteStride is the stride for interleaved data (optional).
	ByteStride *int `json:"byteStride,omitempty"`

	// Target is the intended GPU buffer type.
	// 34962=ARRAY_BUFFER, 34963=ELEMENT_ARRAY_BUFFER
	Target *int `json:"target,omitempty"`
}

// Buffer represents binary data.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-buffer
type Buffer struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// URI is the URI of the buffer data (can be data: URI or external file).
	URI string `json:"uri,omitempty"`

	// ByteLength is the length of the buffer.
	ByteLength int `json:"byteLength"`

	// Data holds the loaded binary data (not part of JSON, populated during
	// parsing for embedded buffers or by ResolveBuffer for external ones).
	Data []byte `json:"-"`
}

// --- Materials and Textures ---

// Material defines the material appearance of a primitive.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-material
type Material struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// PbrMetallicRoughness is the PBR metallic-roughness model.
	PbrMetallicRoughness *PbrMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`

	// NormalTexture is the normal map.
	NormalTexture *NormalTextureInfo `json:"normalTexture,omitempty"`

	// OcclusionTexture is the occlusion map.
	OcclusionTexture *OcclusionTextureInfo `json:"occlusionTexture,omitempty"`

	// EmissiveTexture is the emissive map.
	EmissiveTexture *TextureInfo `json:"emissiveTexture,omitempty"`

	// EmissiveFactor is the emissive color (RGB).
	EmissiveFactor *[3]float32 `json:"emissiveFactor,omitempty"`

	// AlphaMode is the alpha rendering mode.
	// "OPAQUE" (default), "MASK", "BLEND"
	AlphaMode string `json:"alphaMode,omitempty"`

	// AlphaCutoff is the alpha cutoff for MASK mode.
	AlphaCutoff *float32 `json:"alphaCutoff,omitempty"`

	// DoubleSided indicates if the material is double-sided.
	DoubleSided bool `json:"doubleSided,omitempty"`
}

// AlphaMode constants
const (
	AlphaModeOpaque = "OPAQUE"
	AlphaModeMask   = "MASK"
	AlphaModeBlend  = "BLEND"
)

// PbrMetallicRoughness is the metallic-roughness material model.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-material-pbrmetallicroughness
type PbrMetallicRoughness struct {
	// BaseColorFactor is the base color (RGBA).
	BaseColorFactor *[4]float32 `json:"baseColorFactor,omitempty"`

	// BaseColorTexture is the base color texture.
	BaseColorTexture *TextureInfo `json:"baseColorTexture,omitempty"`

	// MetallicFactor is the metalness (0.0 = dielectric, 1.0 = metal).
	MetallicFactor *float32 `json:"metallicFactor,omitempty"`

	// RoughnessFactor is the roughness (0.0 = smooth, 1.0 = rough).
	RoughnessFactor *float32 `json:"roughnessFactor,omitempty"`

	// MetallicRoughnessTexture contains metallic (B) and roughness (G) channels.
	MetallicRoughnessTexture *TextureInfo `json:"metallicRoughnessTexture,omitempty"`
}

// TextureInfo references a texture.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-textureinfo
type TextureInfo struct {
	// Index is the texture index.
	Index int `json:"index"`

	// TexCoord is the UV set to use (default 0).
	TexCoord int `json:"texCoord,omitempty"`
}

// NormalTextureInfo references a normal map.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-material-normaltextureinfo
type NormalTextureInfo struct {
	TextureInfo

	// Scale is the normal scale factor.
	Scale *float32 `json:"scale,omitempty"`
}

// OcclusionTextureInfo references an occlusion map.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-material-occlusiontextureinfo
type OcclusionTextureInfo struct {
	TextureInfo

	// Strength is the occlusion strength.
	Strength *float32 `json:"strength,omitempty"`
}

// Texture combines an image and a sampler.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-texture
type Texture struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// Sampler is the sampler index.
	Sampler *int `json:"sampler,omitempty"`

	// Source is the image index.
	Source *int `json:"source,omitempty"`
}

// Image is a texture image source.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-image
type Image struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// URI is the image URI (can be data: URI or external file).
	URI string `json:"uri,omitempty"`

	// MimeType is the MIME type when embedded in a bufferView.
	MimeType string `json:"mimeType,omitempty"`

	// BufferView is the index of the bufferView containing the image.
	BufferView *int `json:"bufferView,omitempty"`
}

// Sampler defines texture sampling parameters.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-sampler
type Sampler struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// MagFilter is the magnification filter.
	// 9728=NEAREST, 9729=LINEAR
	MagFilter *int `json:"magFilter,omitempty"`

	// MinFilter is the minification filter.
	// 9728=NEAREST, 9729=LINEAR, 9984-9987=mipmapped variants
	MinFilter *int `json:"minFilter,omitempty"`

	// WrapS is the U wrapping mode.
	// 33071=CLAMP_TO_EDGE, 33648=MIRRORED_REPEAT, 10497=REPEAT (default)
	WrapS *int `json:"wrapS,omitempty"`

	// WrapT is the V wrapping mode.
	WrapT *int `json:"wrapT,omitempty"`
}

// Sampler filter constants
const (
	FilterNearest              = 9728
	FilterLinear               = 9729
	FilterNearestMipmapNearest = 9984
	FilterLinearMipmapNearest  = 9985
	FilterNearestMipmapLinear  = 9986
	FilterLinearMipmapLinear   = 9987
)

// Sampler wrap constants
const (
	WrapClampToEdge    = 33071
	WrapMirroredRepeat = 33648
	WrapRepeat         = 10497
)

// --- Cameras ---

// Camera is a projection definition that nodes may reference.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-camera
type Camera struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// Type is "perspective" or "orthographic".
	Type string `json:"type"`

	// Perspective holds perspective projection parameters.
	Perspective *CameraPerspective `json:"perspective,omitempty"`

	// Orthographic holds orthographic projection parameters.
	Orthographic *CameraOrthographic `json:"orthographic,omitempty"`
}

// CameraPerspective holds perspective projection parameters.
type CameraPerspective struct {
	// AspectRatio is the viewport aspect ratio (optional).
	AspectRatio *float32 `json:"aspectRatio,omitempty"`

	// Yfov is the vertical field of view in radians.
	Yfov float32 `json:"yfov"`

	// Znear is the near clipping plane distance.
	Znear float32 `json:"znear"`

	// Zfar is the far clipping plane distance (optional, infinite if absent).
	Zfar *float32 `json:"zfar,omitempty"`
}

// CameraOrthographic holds orthographic projection parameters.
type CameraOrthographic struct {
	// Xmag is the horizontal magnification.
	Xmag float32 `json:"xmag"`

	// Ymag is the vertical magnification.
	Ymag float32 `json:"ymag"`

	// Znear is the near clipping plane distance.
	Znear float32 `json:"znear"`

	// Zfar is the far clipping plane distance.
	Zfar float32 `json:"zfar"`
}

// --- Skeletal Animation ---

// Skin defines how a mesh is deformed by a skeleton.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-skin
type Skin struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// InverseBindMatrices is the accessor index for the inverse bind matrices.
	InverseBindMatrices *int `json:"inverseBindMatrices,omitempty"`

	// Skeleton is the node index of the skeleton root (optional).
	Skeleton *int `json:"skeleton,omitempty"`

	// Joints are the node indices of the skeleton joints (bones).
	Joints []int `json:"joints"`
}

// Animation defines keyframe animation.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation
type Animation struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// Channels connect samplers to target nodes/properties.
	Channels []AnimChannel `json:"channels"`

	// Samplers define the keyframe data.
	Samplers []AnimSampler `json:"samplers"`
}

// AnimChannel connects a sampler to a target.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation-channel
type AnimChannel struct {
	// Sampler is the sampler index.
	Sampler int `json:"sampler"`

	// Target specifies what to animate.
	Target AnimTarget `json:"target"`
}

// AnimTarget specifies the animated property.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation-channel-target
type AnimTarget struct {
	// Node is the target node index.
	Node *int `json:"node,omitempty"`

	// Path is the animated property.
	// "translation", "rotation", "scale", "weights"
	Path string `json:"path"`
}

// AnimSampler defines animation keyframe data.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation-sampler
type AnimSampler struct {
	// Input is the accessor index for keyframe times.
	Input int `json:"input"`

	// Output is the accessor index for keyframe values.
	Output int `json:"output"`

	// Interpolation mode: "LINEAR" (default), "STEP", "CUBICSPLINE".
	Interpolation string `json:"interpolation,omitempty"`
}

// Animation interpolation constants
const (
	AnimInterpolationLinear      = "LINEAR"
	AnimInterpolationStep        = "STEP"
	AnimInterpolationCubicSpline = "CUBICSPLINE"
)

// Animation path constants
const (
	AnimPathTranslation = "translation"
	AnimPathRotation    = "rotation"
	AnimPathScale       = "scale"
	AnimPathWeights     = "weights"
)

// --- GLB Binary Format ---

// glbHeader is the header of a GLB file (12 bytes).
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
type glbHeader struct {
	Magic   uint32 // Must be 0x46546C67 ("glTF" in ASCII)
	Version uint32 // Must be 2
	Length  uint32 // Total file length
}

// glbChunkHeader is the header of a GLB chunk (8 bytes).
type glbChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32 // 0x4E4F534A for JSON, 0x004E4942 for BIN
}

// GLB magic number and chunk type constants
const (
	glbMagic     = 0x46546C67 // "glTF" in little-endian ASCII
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A // "JSON" in little-endian ASCII
	glbChunkBIN  = 0x004E4942 // "BIN\0" in little-endian ASCII
)
