// Package loader implements the translation stage of the asset pipeline. An
// AssetLoader walks a parsed glTF source tree exactly once and produces an
// asset container: entities in a transform hierarchy, GPU buffer handles with
// pending upload slots, material instances with pending texture slots, and
// the dependency edges that gate renderable activation. No pixel or vertex
// data is read here; that is the resource package's job.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/asset"
	"github.com/Carmen-Shannon/oxy-assets/engine/entity"
	"github.com/Carmen-Shannon/oxy-assets/engine/gltf"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoEngine is returned when the loader was built without a GPU engine.
	ErrNoEngine = errors.New("loader: no engine configured")

	// ErrNoInstanceNames is returned when instanced creation is requested
	// with an empty name list.
	ErrNoInstanceNames = errors.New("loader: instanced creation requires at least one instance name")
)

// AssetLoader turns glTF payloads into asset containers.
type AssetLoader interface {
	// CreateAsset parses a glTF payload (GLB or JSON) and translates it into
	// an asset container. The returned asset still needs its resources
	// loaded before renderables become poppable.
	//
	// Parameters:
	//   - data: the raw .glb or .gltf bytes
	//
	// Returns:
	//   - asset.Asset: the translated container
	//   - error: error if parsing or translation fails
	CreateAsset(data []byte) (asset.Asset, error)

	// CreateInstancedAsset parses a glTF payload and expands its node
	// hierarchy once per requested instance name. All instances share the
	// container's GPU buffers and material instances.
	//
	// Parameters:
	//   - data: the raw .glb or .gltf bytes
	//   - names: one name per instance to create
	//
	// Returns:
	//   - asset.Asset: the instanced container; expansions via Instances()
	//   - error: error if parsing or translation fails
	CreateInstancedAsset(data []byte, names []string) (asset.Asset, error)
}

type assetLoader struct {
	engine    renderer.Engine
	provider  material.Provider
	entityMgr entity.Manager
	nameMgr   entity.NameManager
	transform entity.TransformManager
}

var _ AssetLoader = &assetLoader{}

func (l *assetLoader) CreateAsset(data []byte) (asset.Asset, error) {
	t, err := l.beginTranslation(data, false)
	if err != nil {
		return nil, err
	}

	root := l.entityMgr.Create()
	t.c.AddEntity(root)
	t.c.SetRoot(root)

	for _, ni := range rootNodeIndices(t.doc) {
		t.translateNode(ni, root)
	}

	t.c.SetBoundingBox(t.box)
	return t.c, nil
}

func (l *assetLoader) CreateInstancedAsset(data []byte, names []string) (asset.Asset, error) {
	if len(names) == 0 {
		return nil, ErrNoInstanceNames
	}
	t, err := l.beginTranslation(data, true)
	if err != nil {
		return nil, err
	}

	root := l.entityMgr.Create()
	t.c.AddEntity(root)
	t.c.SetRoot(root)

	for i, name := range names {
		instRoot := l.entityMgr.Create()
		l.transform.SetParent(instRoot, root)
		if name != "" {
			t.c.SetEntityName(instRoot, name)
		}

		t.nodeMap = make(map[int]entity.Entity)
		t.recordNodes = i == 0
		t.instanceEntities = []entity.Entity{instRoot}

		for _, ni := range rootNodeIndices(t.doc) {
			t.translateNode(ni, instRoot)
		}

		t.c.AddInstance(&asset.Instance{
			Name:     name,
			Root:     instRoot,
			Entities: t.instanceEntities,
			Skins:    t.buildSkins(),
		})
	}

	t.c.SetBoundingBox(t.box)
	return t.c, nil
}

// translation carries the per-asset state of one translation pass.
type translation struct {
	l   *assetLoader
	doc *gltf.Document
	c   asset.Container
	box common.Aabb

	// nodeMap maps source node indices to the entities of the hierarchy
	// currently being expanded.
	nodeMap map[int]entity.Entity

	// recordNodes is true while expanding the hierarchy the animator should
	// see (the only hierarchy, or the first instance).
	recordNodes bool

	// instanceEntities collects the entities of the instance currently being
	// expanded; nil outside instanced creation.
	instanceEntities []entity.Entity
}

func (l *assetLoader) beginTranslation(data []byte, instanced bool) (*translation, error) {
	if l.engine == nil {
		return nil, ErrNoEngine
	}

	parser := gltf.NewParser()
	if err := parser.Parse(data); err != nil {
		return nil, fmt.Errorf("failed to parse asset: %w", err)
	}
	doc := parser.Document()

	opts := []asset.ContainerOption{
		asset.WithEngine(l.engine),
		asset.WithEntityManager(l.entityMgr),
		asset.WithNameManager(l.nameMgr),
		asset.WithSource(asset.NewSourceAsset(parser)),
	}
	if instanced {
		opts = append(opts, asset.WithInstanced())
	}
	c := asset.NewContainer(opts...)

	if len(doc.Asset.Extras) > 0 {
		c.SetAssetExtras(string(doc.Asset.Extras))
	}
	for _, uri := range parser.ResourceURIs() {
		c.AddResourceURI(uri)
	}

	return &translation{
		l:           l,
		doc:         doc,
		c:           c,
		box:         common.NewAabb(),
		nodeMap:     make(map[int]entity.Entity),
		recordNodes: true,
	}, nil
}

// addEntity registers a freshly created entity with whichever list owns it:
// the container directly, or the instance expansion in flight.
func (t *translation) addEntity(e entity.Entity) {
	if t.instanceEntities != nil {
		t.instanceEntities = append(t.instanceEntities, e)
		return
	}
	t.c.AddEntity(e)
}

func (t *translation) translateNode(nodeIndex int, parent entity.Entity) {
	if nodeIndex < 0 || nodeIndex >= len(t.doc.Nodes) {
		common.LogWarn("node index %d out of range, skipping", nodeIndex)
		return
	}
	node := &t.doc.Nodes[nodeIndex]

	e := t.l.entityMgr.Create()
	t.addEntity(e)
	t.nodeMap[nodeIndex] = e
	if t.recordNodes {
		t.c.SetNodeEntity(nodeIndex, e)
	}

	if node.Name != "" {
		t.c.SetEntityName(e, node.Name)
	}
	if len(node.Extras) > 0 {
		t.c.SetEntityExtras(e, string(node.Extras))
	}

	t.l.transform.SetParent(e, parent)
	t.l.transform.SetTransform(e, localMatrix(node))

	if node.Camera != nil {
		t.c.AddCameraEntity(e)
	}
	if node.Extensions != nil && node.Extensions.LightPunctual != nil {
		t.c.AddLightEntity(e)
	}
	if node.Mesh != nil {
		t.translateMesh(e, *node.Mesh)
	}

	for _, child := range node.Children {
		t.translateNode(child, e)
	}
}

func (t *translation) translateMesh(e entity.Entity, meshIndex int) {
	if meshIndex < 0 || meshIndex >= len(t.doc.Meshes) {
		common.LogWarn("mesh index %d out of range, skipping", meshIndex)
		return
	}
	mesh := &t.doc.Meshes[meshIndex]

	prims, cached := t.c.CachedPrimitives(meshIndex)
	if !cached {
		prims = make([]*asset.Primitive, 0, len(mesh.Primitives))
		for pi := range mesh.Primitives {
			prims = append(prims, t.translatePrimitive(meshIndex, pi))
		}
		t.c.CachePrimitives(meshIndex, prims)
	}

	world := t.l.transform.WorldTransform(e)
	for _, prim := range prims {
		t.c.AddRenderable(e, prim.Material)
		t.box = t.box.Union(common.TransformAabb(world[:], prim.Aabb))
	}

	if names := morphTargetNames(mesh.Extras); len(names) > 0 {
		t.c.SetMorphTargetNames(e, names)
	}
}

func (t *translation) translatePrimitive(meshIndex, primIndex int) *asset.Primitive {
	mesh := &t.doc.Meshes[meshIndex]
	src := &mesh.Primitives[primIndex]
	label := meshLabel(mesh, meshIndex)

	matIndex := -1
	if src.Material != nil {
		matIndex = *src.Material
	}
	entry := t.materialEntry(matIndex)

	prim := &asset.Primitive{
		Attributes: make(map[string]*renderer.VertexBuffer, len(src.Attributes)),
		Material:   entry.Instance,
		UvMap:      entry.UvMap,
		Aabb:       common.NewAabb(),
	}

	posAccessor := -1
	if pos, ok := src.Attributes["POSITION"]; ok {
		posAccessor = pos
		if acc := t.accessor(pos); acc != nil && len(acc.Min) >= 3 && len(acc.Max) >= 3 {
			prim.Aabb = prim.Aabb.Extend([3]float32{acc.Min[0], acc.Min[1], acc.Min[2]})
			prim.Aabb = prim.Aabb.Extend([3]float32{acc.Max[0], acc.Max[1], acc.Max[2]})
		}
	}

	indexAccessor := -1
	if src.Indices != nil {
		indexAccessor = *src.Indices
		ib := t.l.engine.NewIndexBuffer(fmt.Sprintf("%s.%d indices", label, primIndex))
		prim.Indices = ib
		t.c.AddIndexBuffer(ib)
		t.c.AddBufferSlot(asset.BufferSlot{
			Accessor:         indexAccessor,
			IndexBuffer:      ib,
			PositionAccessor: posAccessor,
			IndexAccessor:    indexAccessor,
		})
	}

	for slotIndex, sem := range sortedAttributes(src.Attributes) {
		vb := t.l.engine.NewVertexBuffer(fmt.Sprintf("%s.%d %s", label, primIndex, sem))
		prim.Attributes[sem] = vb
		t.c.AddVertexBuffer(vb)
		t.c.AddBufferSlot(asset.BufferSlot{
			Accessor:         src.Attributes[sem],
			Attribute:        sem,
			BufferIndex:      slotIndex,
			VertexBuffer:     vb,
			PositionAccessor: posAccessor,
			IndexAccessor:    indexAccessor,
		})
	}

	if _, ok := src.Attributes["NORMAL"]; !ok {
		t.addGeneratedSlot(prim, label, primIndex, "NORMAL", asset.AccessorGenerateNormals, posAccessor, indexAccessor)
	}
	if _, ok := src.Attributes["TANGENT"]; !ok && t.materialNeedsTangents(matIndex) {
		t.addGeneratedSlot(prim, label, primIndex, "TANGENT", asset.AccessorGenerateTangents, posAccessor, indexAccessor)
	}

	return prim
}

func (t *translation) addGeneratedSlot(prim *asset.Primitive, label string, primIndex int, sem string, sentinel, posAccessor, indexAccessor int) {
	vb := t.l.engine.NewVertexBuffer(fmt.Sprintf("%s.%d %s (generated)", label, primIndex, sem))
	prim.Attributes[sem] = vb
	t.c.AddVertexBuffer(vb)
	t.c.AddBufferSlot(asset.BufferSlot{
		Accessor:         sentinel,
		Attribute:        sem,
		BufferIndex:      len(prim.Attributes) - 1,
		VertexBuffer:     vb,
		PositionAccessor: posAccessor,
		IndexAccessor:    indexAccessor,
	})
}

// materialEntry fetches or creates the material entry for a source material
// index. On a cache miss it also records the material's pending texture
// slots; on a hit everything cached is reused as-is, including the UV map.
func (t *translation) materialEntry(matIndex int) *asset.MaterialEntry {
	def := t.materialDef(matIndex)

	entry, hit := t.c.MaterialEntry(matIndex, func() *asset.MaterialEntry {
		return &asset.MaterialEntry{
			Instance: t.l.provider.CreateInstance(def, materialLabel(def, matIndex)),
			UvMap:    material.ComputeUvMap(def),
		}
	})
	if hit {
		if remap := material.ComputeUvMap(def); remap != entry.UvMap {
			common.LogDebug("material %d cache hit keeps original uv map", matIndex)
		}
		return entry
	}

	t.c.AddMaterialInstance(entry.Instance)
	t.addTextureSlots(entry.Instance, def)
	return entry
}

// addTextureSlots records one pending texture binding per texture the
// material definition references.
func (t *translation) addTextureSlots(mi material.Instance, def *gltf.Material) {
	if def == nil {
		return
	}
	if pbr := def.PbrMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			t.addTextureSlot(mi, material.ParamBaseColor, pbr.BaseColorTexture.Index, true)
		}
		if pbr.MetallicRoughnessTexture != nil {
			t.addTextureSlot(mi, material.ParamMetallicRoughness, pbr.MetallicRoughnessTexture.Index, false)
		}
	}
	if def.NormalTexture != nil {
		t.addTextureSlot(mi, material.ParamNormal, def.NormalTexture.Index, false)
	}
	if def.OcclusionTexture != nil {
		t.addTextureSlot(mi, material.ParamOcclusion, def.OcclusionTexture.Index, false)
	}
	if def.EmissiveTexture != nil {
		t.addTextureSlot(mi, material.ParamEmissive, def.EmissiveTexture.Index, true)
	}
}

func (t *translation) addTextureSlot(mi material.Instance, param string, textureIndex int, srgb bool) {
	if textureIndex < 0 || textureIndex >= len(t.doc.Textures) {
		common.LogWarn("texture index %d out of range, skipping %s binding", textureIndex, param)
		return
	}
	t.c.AddTextureSlot(asset.TextureSlot{
		Texture:          textureIndex,
		MaterialInstance: mi,
		Parameter:        param,
		Sampler:          t.samplerStaging(textureIndex),
		SRGB:             srgb,
	})
}

// samplerStaging converts the source sampler of a texture to the renderer's
// staging form. Textures without a sampler get the defaults.
func (t *translation) samplerStaging(textureIndex int) common.SamplerStagingData {
	staging := common.DefaultSampler()
	tex := &t.doc.Textures[textureIndex]
	if tex.Sampler == nil || *tex.Sampler < 0 || *tex.Sampler >= len(t.doc.Samplers) {
		return staging
	}
	src := &t.doc.Samplers[*tex.Sampler]

	if src.WrapS != nil {
		staging.AddressModeU = wrapMode(*src.WrapS)
	}
	if src.WrapT != nil {
		staging.AddressModeV = wrapMode(*src.WrapT)
	}
	if src.MagFilter != nil {
		staging.MagFilter = magFilter(*src.MagFilter)
	}
	if src.MinFilter != nil {
		staging.MinFilter, staging.MipmapFilter = minFilter(*src.MinFilter)
	}
	return staging
}

// materialNeedsTangents reports whether the material definition carries a
// normal map, which requires tangent-space data on the geometry.
func (t *translation) materialNeedsTangents(matIndex int) bool {
	def := t.materialDef(matIndex)
	return def != nil && def.NormalTexture != nil
}

func (t *translation) materialDef(matIndex int) *gltf.Material {
	if matIndex < 0 || matIndex >= len(t.doc.Materials) {
		return nil
	}
	return &t.doc.Materials[matIndex]
}

func (t *translation) accessor(index int) *gltf.Accessor {
	if index < 0 || index >= len(t.doc.Accessors) {
		return nil
	}
	return &t.doc.Accessors[index]
}

// buildSkins maps the document's skins onto the entities of the hierarchy
// expansion recorded in nodeMap.
func (t *translation) buildSkins() []asset.Skin {
	if len(t.doc.Skins) == 0 {
		return nil
	}
	skins := make([]asset.Skin, 0, len(t.doc.Skins))
	for _, src := range t.doc.Skins {
		skin := asset.Skin{Name: src.Name, Joints: make([]entity.Entity, 0, len(src.Joints))}
		for _, joint := range src.Joints {
			if e, ok := t.nodeMap[joint]; ok {
				skin.Joints = append(skin.Joints, e)
			}
		}
		skins = append(skins, skin)
	}
	return skins
}

// rootNodeIndices returns the node indices the traversal starts from: the
// selected scene's roots, or every unparented node when the document has no
// scenes.
func rootNodeIndices(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	child := make(map[int]bool)
	for _, node := range doc.Nodes {
		for _, c := range node.Children {
			child[c] = true
		}
	}
	roots := make([]int, 0, len(doc.Nodes))
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// localMatrix returns a node's local transform, from its matrix when present
// or composed from its TRS properties.
func localMatrix(node *gltf.Node) [16]float32 {
	if node.Matrix != nil {
		return *node.Matrix
	}

	translate := [3]float32{0, 0, 0}
	rotate := [4]float32{0, 0, 0, 1}
	scale := [3]float32{1, 1, 1}
	if node.Translation != nil {
		translate = *node.Translation
	}
	if node.Rotation != nil {
		rotate = *node.Rotation
	}
	if node.Scale != nil {
		scale = *node.Scale
	}

	var out [16]float32
	common.ComposeTrs(out[:], translate, rotate, scale)
	return out
}

// morphTargetNames extracts the conventional "targetNames" array tools put in
// mesh extras.
func morphTargetNames(extras json.RawMessage) []string {
	if len(extras) == 0 {
		return nil
	}
	var payload struct {
		TargetNames []string `json:"targetNames"`
	}
	if err := json.Unmarshal(extras, &payload); err != nil {
		return nil
	}
	return payload.TargetNames
}

func sortedAttributes(attrs map[string]int) []string {
	names := make([]string, 0, len(attrs))
	for sem := range attrs {
		names = append(names, sem)
	}
	sort.Strings(names)
	return names
}

func meshLabel(mesh *gltf.Mesh, meshIndex int) string {
	if mesh.Name != "" {
		return mesh.Name
	}
	return fmt.Sprintf("mesh_%d", meshIndex)
}

func materialLabel(def *gltf.Material, matIndex int) string {
	if def == nil {
		return "default"
	}
	if def.Name != "" {
		return def.Name
	}
	return fmt.Sprintf("material_%d", matIndex)
}

// wrapMode maps a glTF wrap constant to a wgpu address mode.
func wrapMode(wrap int) wgpu.AddressMode {
	switch wrap {
	case gltf.WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltf.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}

// magFilter maps a glTF magnification filter to a wgpu filter mode.
func magFilter(filter int) wgpu.FilterMode {
	if filter == gltf.FilterNearest {
		return wgpu.FilterModeNearest
	}
	return wgpu.FilterModeLinear
}

// minFilter maps a glTF minification filter, which folds the mipmap filter
// into the same constant, to the two wgpu filter modes.
func minFilter(filter int) (wgpu.FilterMode, wgpu.MipmapFilterMode) {
	switch filter {
	case gltf.FilterNearest, gltf.FilterNearestMipmapNearest:
		return wgpu.FilterModeNearest, wgpu.MipmapFilterModeNearest
	case gltf.FilterNearestMipmapLinear:
		return wgpu.FilterModeNearest, wgpu.MipmapFilterModeLinear
	case gltf.FilterLinearMipmapNearest:
		return wgpu.FilterModeLinear, wgpu.MipmapFilterModeNearest
	default:
		return wgpu.FilterModeLinear, wgpu.MipmapFilterModeLinear
	}
}
