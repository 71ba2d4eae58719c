package asset

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/animator"
	"github.com/Carmen-Shannon/oxy-assets/engine/entity"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer/material"
)

// Asset is the read and lifecycle surface of a loaded asset container. It
// enumerates the entities, GPU resources and material instances produced by
// the translation stage, answers name and extras queries, and hands finished
// renderables to the caller as their dependencies become ready.
type Asset interface {
	// Root returns the entity at the top of the asset's hierarchy.
	Root() entity.Entity

	// Entities returns every entity owned by the asset, including light and
	// camera entities, in creation order. The returned slice is shared and
	// must not be mutated.
	Entities() []entity.Entity

	// LightEntities returns the subset of entities carrying light components.
	LightEntities() []entity.Entity

	// CameraEntities returns the subset of entities carrying camera components.
	CameraEntities() []entity.Entity

	// MaterialInstances returns every material instance created for the asset
	// in creation order.
	MaterialInstances() []material.Instance

	// BoundingBox returns the union of the transformed primitive bounds
	// computed during translation.
	BoundingBox() common.Aabb

	// Name returns the source name recorded for the entity.
	//
	// Parameters:
	//   - e: the entity to look up
	//
	// Returns:
	//   - string: the recorded name, empty when none was set
	Name(e entity.Entity) string

	// FirstEntityByName returns the first entity whose recorded name matches
	// exactly, or entity.Null when no entity carries the name.
	FirstEntityByName(name string) entity.Entity

	// EntitiesByName appends every entity whose recorded name matches exactly.
	//
	// Parameters:
	//   - name: the exact name to match
	//   - out: destination slice, filled up to its length
	//
	// Returns:
	//   - int: the number of entities written into out
	EntitiesByName(name string, out []entity.Entity) int

	// EntitiesByPrefix appends every entity whose recorded name starts with
	// the given prefix.
	//
	// Parameters:
	//   - prefix: the name prefix to match
	//   - out: destination slice, filled up to its length
	//
	// Returns:
	//   - int: the number of entities written into out
	EntitiesByPrefix(prefix string, out []entity.Entity) int

	// Extras returns the raw extras payload recorded for the entity, or the
	// empty string when the entity has none.
	Extras(e entity.Entity) string

	// AssetExtras returns the raw extras payload of the top-level asset
	// object, or the empty string.
	AssetExtras() string

	// MorphTargetNames returns the morph target names recorded for the
	// entity's mesh, or nil.
	MorphTargetNames(e entity.Entity) []string

	// ResourceURIs returns the external resource URIs the asset still needs
	// resolved. It is empty after ReleaseSourceData.
	ResourceURIs() []string

	// BufferSlots returns the pending buffer bindings recorded during
	// translation. It is empty after ReleaseSourceData.
	BufferSlots() []BufferSlot

	// TextureSlots returns the pending texture bindings recorded during
	// translation. It is empty after ReleaseSourceData.
	TextureSlots() []TextureSlot

	// Source returns the shared source-data handle, or nil once the
	// container's reference has been released.
	Source() SourceAsset

	// PopRenderables drains entities whose dependencies have become ready
	// since the previous call. Each entity is delivered exactly once across
	// the asset's lifetime.
	//
	// Parameters:
	//   - out: destination slice, filled up to its length; a zero-length
	//     slice drains nothing
	//
	// Returns:
	//   - int: the number of entities written into out
	PopRenderables(out []entity.Entity) int

	// BindTexture assigns a GPU texture to the material parameter named by
	// the slot and records the matching dependency edge so the consuming
	// renderables wait for MarkTextureReady.
	//
	// Parameters:
	//   - slot: the pending binding produced during translation
	//   - tex: the created GPU texture
	BindTexture(slot TextureSlot, tex *renderer.Texture)

	// MarkTextureReady signals that the texture's pixel data finished
	// uploading, releasing renderables that were only waiting on it.
	MarkTextureReady(texture int)

	// FinalizeDependencies seals the dependency graph after all texture
	// slots have been bound. Renderables without pending textures become
	// poppable immediately.
	FinalizeDependencies()

	// TakeOwnership transfers responsibility for destroying the texture to
	// the asset. Owned textures are released by Destroy.
	TakeOwnership(tex *renderer.Texture)

	// ReleaseSourceData drops the transient loading state, including the
	// slot lists, resource URIs, caches and the container's reference to the
	// shared source data. Entity, material and bounding-box queries remain
	// valid afterwards.
	ReleaseSourceData()

	// IsInstanced reports whether the asset was created through instanced
	// loading and shares its GPU resources with Instance expansions.
	IsInstanced() bool

	// Instances returns the instance expansions owned by the asset, in
	// creation order.
	Instances() []*Instance

	// Animator lazily constructs the asset's animation introspection facade.
	// It panics when called for the first time after ReleaseSourceData.
	Animator() animator.Animator

	// Wireframe lazily builds a line-list entity covering every triangle
	// primitive in the asset. It panics when called for the first time after
	// ReleaseSourceData.
	Wireframe() entity.Entity

	// Destroy releases the GPU resources the asset owns, destroys its
	// entities and drops any remaining source-data reference. It is
	// idempotent.
	Destroy()
}

// Container extends Asset with the mutators the translation and resource
// loading stages use to populate a container. Callers receive the narrower
// Asset view once loading completes.
type Container interface {
	Asset

	// SetRoot records the hierarchy root entity.
	SetRoot(e entity.Entity)

	// AddEntity appends an entity to the asset's ownership list.
	AddEntity(e entity.Entity)

	// AddLightEntity appends an entity to the light list. The entity must
	// also be registered through AddEntity.
	AddLightEntity(e entity.Entity)

	// AddCameraEntity appends an entity to the camera list. The entity must
	// also be registered through AddEntity.
	AddCameraEntity(e entity.Entity)

	// AddVertexBuffer registers an owned GPU vertex buffer for teardown.
	AddVertexBuffer(vb *renderer.VertexBuffer)

	// AddIndexBuffer registers an owned GPU index buffer for teardown.
	AddIndexBuffer(ib *renderer.IndexBuffer)

	// AddMaterialInstance appends a material instance to the asset's
	// ownership list.
	AddMaterialInstance(mi material.Instance)

	// AddRenderable registers a renderable entity and the material instance
	// it depends on with the dependency graph.
	AddRenderable(e entity.Entity, mi material.Instance)

	// AddBufferSlot records a pending buffer binding for the resource
	// loading stage.
	AddBufferSlot(slot BufferSlot)

	// AddTextureSlot records a pending texture binding for the resource
	// loading stage and registers the slot's dependency edge, so renderables
	// drawing with the slot's material wait on the texture from this point.
	AddTextureSlot(slot TextureSlot)

	// AddResourceURI records an external URI the resource loading stage must
	// resolve.
	AddResourceURI(uri string)

	// CachedPrimitives returns the primitives previously translated for the
	// source mesh index.
	CachedPrimitives(meshIndex int) ([]*Primitive, bool)

	// CachePrimitives records the primitives translated for the source mesh
	// index. It panics when the index was already cached.
	CachePrimitives(meshIndex int, prims []*Primitive)

	// MaterialEntry returns the cached entry for the source material index,
	// invoking create exactly once on first use.
	//
	// Returns:
	//   - *MaterialEntry: the cached or newly created entry
	//   - bool: true when the entry already existed
	MaterialEntry(materialIndex int, create func() *MaterialEntry) (*MaterialEntry, bool)

	// SetNodeEntity records the entity created for a source node index, used
	// by the lazily built animator.
	SetNodeEntity(nodeIndex int, e entity.Entity)

	// SetEntityName records the source name of an entity for name and prefix
	// queries.
	SetEntityName(e entity.Entity, name string)

	// SetEntityExtras records the raw extras payload of an entity.
	SetEntityExtras(e entity.Entity, extras string)

	// SetAssetExtras records the raw extras payload of the top-level asset.
	SetAssetExtras(extras string)

	// SetMorphTargetNames records the morph target names of an entity's mesh.
	SetMorphTargetNames(e entity.Entity, names []string)

	// SetBoundingBox records the union of the transformed primitive bounds.
	SetBoundingBox(box common.Aabb)

	// AddInstance appends an instance expansion and marks the container as
	// instanced.
	AddInstance(inst *Instance)
}

type nameEntry struct {
	name string
	ent  entity.Entity
}

type containerAsset struct {
	mu sync.Mutex

	engine      renderer.Engine
	entityMgr   entity.Manager
	nameMgr     entity.NameManager
	source      SourceAsset
	graph       DependencyGraph
	instanced   bool
	destroyed   bool
	srcReleased bool

	root           entity.Entity
	entities       []entity.Entity
	lightEntities  []entity.Entity
	cameraEntities []entity.Entity

	vertexBuffers []*renderer.VertexBuffer
	indexBuffers  []*renderer.IndexBuffer
	textures      []*renderer.Texture
	materials     []material.Instance

	boundingBox common.Aabb

	// transient loading state, dropped by ReleaseSourceData
	bufferSlots  []BufferSlot
	textureSlots []TextureSlot
	resourceURIs []string
	meshes       *meshCache
	matCache     *matInstanceCache
	nodeEntities map[int]entity.Entity

	nameIndex  []nameEntry
	nameSorted bool
	extras     map[entity.Entity]string
	assetXtras string
	morphNames map[entity.Entity][]string

	instances []*Instance

	anim      animator.Animator
	wireframe entity.Entity
}

var _ Container = &containerAsset{}

// ContainerOption mutates a container under construction.
type ContainerOption func(*containerAsset)

// WithEngine sets the GPU engine used to destroy owned resources.
func WithEngine(e renderer.Engine) ContainerOption {
	return func(c *containerAsset) {
		c.engine = e
	}
}

// WithEntityManager sets the manager that owns the asset's entities.
func WithEntityManager(m entity.Manager) ContainerOption {
	return func(c *containerAsset) {
		c.entityMgr = m
	}
}

// WithNameManager sets the shared name registry the asset records entity
// names in.
func WithNameManager(m entity.NameManager) ContainerOption {
	return func(c *containerAsset) {
		c.nameMgr = m
	}
}

// WithSource hands the container a reference to the shared source data. The
// container releases the reference in ReleaseSourceData or Destroy.
func WithSource(s SourceAsset) ContainerOption {
	return func(c *containerAsset) {
		c.source = s
	}
}

// WithInstanced marks the container as the owner of shared resources for
// instanced loading.
func WithInstanced() ContainerOption {
	return func(c *containerAsset) {
		c.instanced = true
	}
}

// NewContainer creates an empty asset container ready to be populated by the
// translation stage.
//
// Parameters:
//   - opts: optional configuration, see the With* options
//
// Returns:
//   - Container: the new container
func NewContainer(opts ...ContainerOption) Container {
	c := &containerAsset{
		graph:        NewDependencyGraph(),
		boundingBox:  common.NewAabb(),
		meshes:       newMeshCache(),
		matCache:     newMatInstanceCache(),
		nodeEntities: make(map[int]entity.Entity),
		extras:       make(map[entity.Entity]string),
		morphNames:   make(map[entity.Entity][]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *containerAsset) Root() entity.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

func (c *containerAsset) Entities() []entity.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entities
}

func (c *containerAsset) LightEntities() []entity.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lightEntities
}

func (c *containerAsset) CameraEntities() []entity.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cameraEntities
}

func (c *containerAsset) MaterialInstances() []material.Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.materials
}

func (c *containerAsset) BoundingBox() common.Aabb {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.boundingBox
}

func (c *containerAsset) Name(e entity.Entity) string {
	if c.nameMgr == nil {
		return ""
	}
	name, _ := c.nameMgr.Name(e)
	return name
}

func (c *containerAsset) FirstEntityByName(name string) entity.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortNamesLocked()
	i := sort.Search(len(c.nameIndex), func(i int) bool {
		return c.nameIndex[i].name >= name
	})
	if i < len(c.nameIndex) && c.nameIndex[i].name == name {
		return c.nameIndex[i].ent
	}
	return entity.Null
}

func (c *containerAsset) EntitiesByName(name string, out []entity.Entity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortNamesLocked()
	i := sort.Search(len(c.nameIndex), func(i int) bool {
		return c.nameIndex[i].name >= name
	})
	n := 0
	for ; i < len(c.nameIndex) && n < len(out); i++ {
		if c.nameIndex[i].name != name {
			break
		}
		out[n] = c.nameIndex[i].ent
		n++
	}
	return n
}

func (c *containerAsset) EntitiesByPrefix(prefix string, out []entity.Entity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortNamesLocked()
	i := sort.Search(len(c.nameIndex), func(i int) bool {
		return c.nameIndex[i].name >= prefix
	})
	n := 0
	for ; i < len(c.nameIndex) && n < len(out); i++ {
		if len(c.nameIndex[i].name) < len(prefix) || c.nameIndex[i].name[:len(prefix)] != prefix {
			break
		}
		out[n] = c.nameIndex[i].ent
		n++
	}
	return n
}

func (c *containerAsset) Extras(e entity.Entity) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extras[e]
}

func (c *containerAsset) AssetExtras() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assetXtras
}

func (c *containerAsset) MorphTargetNames(e entity.Entity) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.morphNames[e]
}

func (c *containerAsset) ResourceURIs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resourceURIs
}

func (c *containerAsset) BufferSlots() []BufferSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bufferSlots
}

func (c *containerAsset) TextureSlots() []TextureSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.textureSlots
}

func (c *containerAsset) Source() SourceAsset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

func (c *containerAsset) PopRenderables(out []entity.Entity) int {
	return c.graph.PopRenderables(out)
}

func (c *containerAsset) BindTexture(slot TextureSlot, tex *renderer.Texture) {
	if slot.MaterialInstance == nil {
		panic("asset: bind texture on slot without material instance")
	}
	slot.MaterialInstance.SetTexture(slot.Parameter, tex)
	c.graph.AddTextureEdge(slot.MaterialInstance, slot.Parameter, slot.Texture)
}

func (c *containerAsset) MarkTextureReady(texture int) {
	c.graph.MarkReady(texture)
}

func (c *containerAsset) FinalizeDependencies() {
	c.graph.Finalize()
}

func (c *containerAsset) TakeOwnership(tex *renderer.Texture) {
	if tex == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.textures = append(c.textures, tex)
}

func (c *containerAsset) ReleaseSourceData() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.srcReleased {
		return
	}
	c.srcReleased = true
	c.bufferSlots = nil
	c.textureSlots = nil
	c.resourceURIs = nil
	c.meshes = nil
	c.matCache = nil
	c.nodeEntities = nil
	if c.source != nil {
		c.source.Release()
		c.source = nil
	}
	common.LogDebug("asset source data released")
}

func (c *containerAsset) IsInstanced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instanced
}

func (c *containerAsset) Instances() []*Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instances
}

func (c *containerAsset) Animator() animator.Animator {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.anim != nil {
		return c.anim
	}
	if c.srcReleased || c.source == nil {
		panic("asset: animator requested after source data was released")
	}
	c.anim = animator.New(c.source.Parser(), c.nodeEntities)
	return c.anim
}

func (c *containerAsset) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true

	vbs := c.vertexBuffers
	ibs := c.indexBuffers
	texs := c.textures
	c.vertexBuffers = nil
	c.indexBuffers = nil
	c.textures = nil

	all := make([]entity.Entity, 0, len(c.entities)+1)
	all = append(all, c.entities...)
	if !c.wireframe.IsNull() {
		all = append(all, c.wireframe)
	}
	for _, inst := range c.instances {
		all = append(all, inst.Entities...)
	}
	c.entities = nil
	c.lightEntities = nil
	c.cameraEntities = nil
	c.materials = nil
	c.nameIndex = nil
	c.mu.Unlock()

	if c.engine != nil {
		for _, vb := range vbs {
			c.engine.DestroyVertexBuffer(vb)
		}
		for _, ib := range ibs {
			c.engine.DestroyIndexBuffer(ib)
		}
		for _, tex := range texs {
			c.engine.DestroyTexture(tex)
		}
	}
	c.graph.Clear()
	if c.nameMgr != nil {
		for _, e := range all {
			c.nameMgr.Remove(e)
		}
	}
	if c.entityMgr != nil {
		c.entityMgr.DestroyAll(all)
	}
	c.ReleaseSourceData()
}

func (c *containerAsset) SetRoot(e entity.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.root = e
}

func (c *containerAsset) AddEntity(e entity.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entities = append(c.entities, e)
}

func (c *containerAsset) AddLightEntity(e entity.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lightEntities = append(c.lightEntities, e)
}

func (c *containerAsset) AddCameraEntity(e entity.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cameraEntities = append(c.cameraEntities, e)
}

func (c *containerAsset) AddVertexBuffer(vb *renderer.VertexBuffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vertexBuffers = append(c.vertexBuffers, vb)
}

func (c *containerAsset) AddIndexBuffer(ib *renderer.IndexBuffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexBuffers = append(c.indexBuffers, ib)
}

func (c *containerAsset) AddMaterialInstance(mi material.Instance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.materials = append(c.materials, mi)
}

func (c *containerAsset) AddRenderable(e entity.Entity, mi material.Instance) {
	c.graph.AddRenderable(e, mi)
}

func (c *containerAsset) AddBufferSlot(slot BufferSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.srcReleased {
		panic("asset: buffer slot recorded after source data was released")
	}
	c.bufferSlots = append(c.bufferSlots, slot)
}

func (c *containerAsset) AddTextureSlot(slot TextureSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.srcReleased {
		panic("asset: texture slot recorded after source data was released")
	}
	c.textureSlots = append(c.textureSlots, slot)

	// The edge is registered now, while the texture is still pending, so
	// finalizing before every slot is bound cannot pop the consumer early.
	if slot.MaterialInstance != nil {
		c.graph.AddTextureEdge(slot.MaterialInstance, slot.Parameter, slot.Texture)
	}
}

func (c *containerAsset) AddResourceURI(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.srcReleased {
		panic("asset: resource URI recorded after source data was released")
	}
	c.resourceURIs = append(c.resourceURIs, uri)
}

func (c *containerAsset) CachedPrimitives(meshIndex int) ([]*Primitive, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.meshes == nil {
		panic(fmt.Sprintf("asset: mesh cache lookup for %d after source data was released", meshIndex))
	}
	return c.meshes.Lookup(meshIndex)
}

func (c *containerAsset) CachePrimitives(meshIndex int, prims []*Primitive) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.meshes == nil {
		panic(fmt.Sprintf("asset: mesh cache insert for %d after source data was released", meshIndex))
	}
	c.meshes.Insert(meshIndex, prims)
}

func (c *containerAsset) MaterialEntry(materialIndex int, create func() *MaterialEntry) (*MaterialEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.matCache == nil {
		panic(fmt.Sprintf("asset: material cache access for %d after source data was released", materialIndex))
	}
	return c.matCache.GetOrCreate(materialIndex, create)
}

func (c *containerAsset) SetNodeEntity(nodeIndex int, e entity.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nodeEntities == nil {
		panic("asset: node entity recorded after source data was released")
	}
	c.nodeEntities[nodeIndex] = e
}

func (c *containerAsset) SetEntityName(e entity.Entity, name string) {
	if name == "" {
		return
	}
	if c.nameMgr != nil {
		c.nameMgr.SetName(e, name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nameIndex = append(c.nameIndex, nameEntry{name: name, ent: e})
	c.nameSorted = false
}

func (c *containerAsset) SetEntityExtras(e entity.Entity, extras string) {
	if extras == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.extras[e] = extras
}

func (c *containerAsset) SetAssetExtras(extras string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assetXtras = extras
}

func (c *containerAsset) SetMorphTargetNames(e entity.Entity, names []string) {
	if len(names) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.morphNames[e] = names
}

func (c *containerAsset) SetBoundingBox(box common.Aabb) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boundingBox = box
}

func (c *containerAsset) AddInstance(inst *Instance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instanced = true
	c.instances = append(c.instances, inst)
}

// sortNamesLocked orders the name index before the first query after a
// mutation. Entities sharing a name keep their insertion order.
func (c *containerAsset) sortNamesLocked() {
	if c.nameSorted {
		return
	}
	sort.SliceStable(c.nameIndex, func(i, j int) bool {
		return c.nameIndex[i].name < c.nameIndex[j].name
	})
	c.nameSorted = true
}
