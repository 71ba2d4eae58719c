package entity

import "sync"

type nameManager struct {
	mu    sync.RWMutex
	names map[Entity]string
}

// NameManager attaches human-readable names to entities. Names are not
// required to be unique; several entities in one asset may share a name.
type NameManager interface {
	// SetName assigns a name to an entity, replacing any previous name.
	//
	// Parameters:
	//   - e: the entity to name
	//   - name: the name to assign
	SetName(e Entity, name string)

	// Name returns the name assigned to an entity.
	//
	// Parameters:
	//   - e: the entity to look up
	//
	// Returns:
	//   - string: the assigned name, empty if none
	//   - bool: true if a name was assigned
	Name(e Entity) (string, bool)

	// Remove clears the name of an entity.
	//
	// Parameters:
	//   - e: the entity to clear
	Remove(e Entity)
}

var _ NameManager = &nameManager{}

// NewNameManager creates an empty name manager.
//
// Returns:
//   - NameManager: the new manager
func NewNameManager() NameManager {
	return &nameManager{
		names: make(map[Entity]string),
	}
}

func (nm *nameManager) SetName(e Entity, name string) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.names[e] = name
}

func (nm *nameManager) Name(e Entity) (string, bool) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	name, ok := nm.names[e]
	return name, ok
}

func (nm *nameManager) Remove(e Entity) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	delete(nm.names, e)
}
