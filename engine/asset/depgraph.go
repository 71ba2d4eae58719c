package asset

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/engine/entity"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer/material"
)

// dependencyGraph is the implementation of the DependencyGraph interface.
type dependencyGraph struct {
	mu sync.Mutex

	materials map[material.Instance]*materialState
	entities  map[entity.Entity]*entityState

	// order preserves entity registration order so Finalize queues ready
	// entities deterministically.
	order []entity.Entity

	// textureConsumers maps a texture id to the material parameters waiting
	// on it.
	textureConsumers map[int]map[paramRef]struct{}

	// readyTextures records textures marked ready, including ones no edge
	// references yet.
	readyTextures map[int]struct{}

	readyQueue []entity.Entity
	finalized  bool
}

type paramRef struct {
	instance material.Instance
	param    string
}

type materialState struct {
	// pendingParams maps parameter names to the texture id they wait on.
	pendingParams map[string]int
	ready         bool
	consumers     []entity.Entity
}

type entityState struct {
	// materials is the set of material instances the entity draws with.
	materials map[material.Instance]struct{}

	// remaining is the number of materials not yet ready, valid once the
	// graph is finalized.
	remaining int
	pushed    bool
}

// DependencyGraph tracks which renderable entities are still waiting on
// texture uploads. Edges run texture → material parameter → entity; an entity
// becomes poppable exactly once, when every texture parameter of every
// material it draws with has been satisfied.
//
// The graph is filled during the translation pass and finalized once;
// MarkReady calls then arrive from the resource-loading collaborator as
// uploads complete, possibly from other goroutines. All methods are safe for
// concurrent use.
type DependencyGraph interface {
	// AddRenderable records that an entity draws with a material instance.
	// Safe to call repeatedly for the same pair.
	//
	// Parameters:
	//   - e: the renderable entity
	//   - mi: the material instance it draws with
	AddRenderable(e entity.Entity, mi material.Instance)

	// AddTextureEdge records that a material parameter depends on a texture.
	// Repeated calls for the same triple do not duplicate activation;
	// rebinding a parameter to a different texture replaces the edge.
	//
	// Parameters:
	//   - mi: the consuming material instance
	//   - param: the material parameter name
	//   - texture: the stable source texture index
	AddTextureEdge(mi material.Instance, param string, texture int)

	// MarkReady flips every edge fed by the texture to satisfied. Marking a
	// texture no edge references is recorded, not an error: edges added later
	// for that texture start satisfied.
	//
	// Parameters:
	//   - texture: the stable source texture index
	MarkReady(texture int)

	// Finalize computes the initial readiness of every registered renderable
	// and queues the ones with no unsatisfied edges. Call after translation
	// has added all edges; calling again re-evaluates entities added since.
	Finalize()

	// PopRenderables fills out with entities whose dependency set has become
	// satisfied since the last call, removing them from the pending set. Each
	// entity is reported exactly once per graph, in the order its readiness
	// was discovered. A zero-length out is a no-op.
	//
	// Parameters:
	//   - out: the destination slice, filled up to len(out)
	//
	// Returns:
	//   - int: the number of entities written
	PopRenderables(out []entity.Entity) int

	// PendingCount returns the number of registered renderables that are
	// neither queued nor popped yet.
	//
	// Returns:
	//   - int: the pending renderable count
	PendingCount() int

	// Clear drops all graph state. Used on container teardown so no edge
	// outlives the material instances it references.
	Clear()
}

var _ DependencyGraph = &dependencyGraph{}

// NewDependencyGraph creates an empty dependency graph.
//
// Returns:
//   - DependencyGraph: the new graph
func NewDependencyGraph() DependencyGraph {
	return &dependencyGraph{
		materials:        make(map[material.Instance]*materialState),
		entities:         make(map[entity.Entity]*entityState),
		textureConsumers: make(map[int]map[paramRef]struct{}),
		readyTextures:    make(map[int]struct{}),
	}
}

func (g *dependencyGraph) materialState(mi material.Instance) *materialState {
	st, ok := g.materials[mi]
	if !ok {
		st = &materialState{pendingParams: make(map[string]int)}
		g.materials[mi] = st
	}
	return st
}

func (g *dependencyGraph) AddRenderable(e entity.Entity, mi material.Instance) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, ok := g.entities[e]
	if !ok {
		st = &entityState{materials: make(map[material.Instance]struct{})}
		g.entities[e] = st
		g.order = append(g.order, e)
	}
	if _, ok := st.materials[mi]; ok {
		return
	}
	st.materials[mi] = struct{}{}

	ms := g.materialState(mi)
	ms.consumers = append(ms.consumers, e)
}

func (g *dependencyGraph) AddTextureEdge(mi material.Instance, param string, texture int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.materialState(mi)

	if prev, ok := ms.pendingParams[param]; ok {
		if prev == texture {
			return
		}
		// rebind: drop the old edge
		delete(g.textureConsumers[prev], paramRef{mi, param})
	}

	if _, ready := g.readyTextures[texture]; ready {
		delete(ms.pendingParams, param)
		if len(ms.pendingParams) == 0 && !ms.ready {
			ms.ready = true
			g.onMaterialReady(ms)
		}
		return
	}

	ms.pendingParams[param] = texture
	ms.ready = false

	consumers, ok := g.textureConsumers[texture]
	if !ok {
		consumers = make(map[paramRef]struct{})
		g.textureConsumers[texture] = consumers
	}
	consumers[paramRef{mi, param}] = struct{}{}
}

func (g *dependencyGraph) MarkReady(texture int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.readyTextures[texture] = struct{}{}

	for ref := range g.textureConsumers[texture] {
		ms := g.materials[ref.instance]
		delete(ms.pendingParams, ref.param)
		if len(ms.pendingParams) == 0 && !ms.ready {
			ms.ready = true
			g.onMaterialReady(ms)
		}
	}
	delete(g.textureConsumers, texture)
}

// onMaterialReady decrements the remaining count of every entity drawing
// with the material and queues the ones that hit zero. Before Finalize the
// counts have not been computed yet, so the transition is picked up there.
func (g *dependencyGraph) onMaterialReady(ms *materialState) {
	if !g.finalized {
		return
	}
	for _, e := range ms.consumers {
		es := g.entities[e]
		if es == nil || es.pushed {
			continue
		}
		es.remaining--
		if es.remaining <= 0 {
			es.pushed = true
			g.readyQueue = append(g.readyQueue, e)
		}
	}
}

func (g *dependencyGraph) Finalize() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.finalized = true

	for _, e := range g.order {
		es := g.entities[e]
		if es.pushed {
			continue
		}
		remaining := 0
		for mi := range es.materials {
			ms := g.materials[mi]
			if len(ms.pendingParams) > 0 {
				remaining++
			} else {
				ms.ready = true
			}
		}
		es.remaining = remaining
		if remaining == 0 {
			es.pushed = true
			g.readyQueue = append(g.readyQueue, e)
		}
	}
}

func (g *dependencyGraph) PopRenderables(out []entity.Entity) int {
	if len(out) == 0 {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	n := copy(out, g.readyQueue)
	g.readyQueue = g.readyQueue[n:]
	return n
}

func (g *dependencyGraph) PendingCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	pending := 0
	for _, es := range g.entities {
		if !es.pushed {
			pending++
		}
	}
	return pending
}

func (g *dependencyGraph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.materials = make(map[material.Instance]*materialState)
	g.entities = make(map[entity.Entity]*entityState)
	g.order = nil
	g.textureConsumers = make(map[int]map[paramRef]struct{})
	g.readyTextures = make(map[int]struct{})
	g.readyQueue = nil
	g.finalized = false
}
