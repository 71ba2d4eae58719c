// Package entity provides opaque entity handles and the managers that
// allocate, name and recycle them. Entities carry no data themselves;
// renderable geometry, transforms and names are attached by other systems
// keyed on the handle.
package entity

import (
	"sync"
)

// Entity is an opaque handle to an object in the scene. The zero value is
// never a live entity.
type Entity uint32

// Null is the invalid entity handle.
const Null Entity = 0

// IsNull reports whether the handle is the invalid entity.
//
// Returns:
//   - bool: true if the handle is Null
func (e Entity) IsNull() bool {
	return e == Null
}

type manager struct {
	mu    sync.Mutex
	next  Entity
	alive map[Entity]struct{}
	free  []Entity
}

// Manager allocates and recycles entity handles. Handles are unique among
// live entities; destroyed handles may be reissued.
type Manager interface {
	// Create allocates a new live entity.
	//
	// Returns:
	//   - Entity: the new handle
	Create() Entity

	// CreateMany allocates a batch of live entities.
	//
	// Parameters:
	//   - n: the number of entities to allocate
	//
	// Returns:
	//   - []Entity: the new handles
	CreateMany(n int) []Entity

	// IsAlive reports whether the handle refers to a live entity.
	//
	// Parameters:
	//   - e: the handle to check
	//
	// Returns:
	//   - bool: true if the entity is live
	IsAlive(e Entity) bool

	// Destroy releases a handle. Destroying a dead or null handle is a no-op.
	//
	// Parameters:
	//   - e: the handle to release
	Destroy(e Entity)

	// DestroyAll releases a batch of handles.
	//
	// Parameters:
	//   - entities: the handles to release
	DestroyAll(entities []Entity)
}

var _ Manager = &manager{}

// NewManager creates an empty entity manager.
//
// Returns:
//   - Manager: the new manager
func NewManager() Manager {
	return &manager{
		alive: make(map[Entity]struct{}),
	}
}

func (m *manager) Create() Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked()
}

func (m *manager) CreateMany(n int) []Entity {
	m.mu.Lock()
	defer m.mu.Unlock()

	entities := make([]Entity, n)
	for i := range entities {
		entities[i] = m.createLocked()
	}
	return entities
}

func (m *manager) createLocked() Entity {
	var e Entity
	if n := len(m.free); n > 0 {
		e = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		m.next++
		e = m.next
	}
	m.alive[e] = struct{}{}
	return e
}

func (m *manager) IsAlive(e Entity) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.alive[e]
	return ok
}

func (m *manager) Destroy(e Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyLocked(e)
}

func (m *manager) DestroyAll(entities []Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entities {
		m.destroyLocked(e)
	}
}

func (m *manager) destroyLocked(e Entity) {
	if _, ok := m.alive[e]; !ok {
		return
	}
	delete(m.alive, e)
	m.free = append(m.free, e)
}
