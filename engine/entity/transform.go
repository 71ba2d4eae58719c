package entity

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/common"
)

// identity is the column-major 4x4 identity matrix.
var identity = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// TransformManager stores the local transform and parent link of entities and
// resolves world transforms through the hierarchy.
type TransformManager interface {
	// SetTransform records the entity's local transform as a column-major
	// 4x4 matrix.
	//
	// Parameters:
	//   - e: the entity
	//   - local: the column-major local matrix
	SetTransform(e Entity, local [16]float32)

	// SetParent links an entity under a parent. A Null parent makes the
	// entity a hierarchy root.
	//
	// Parameters:
	//   - child: the entity to link
	//   - parent: the parent entity or Null
	SetParent(child Entity, parent Entity)

	// LocalTransform returns the entity's local matrix, identity when no
	// transform was recorded.
	LocalTransform(e Entity) [16]float32

	// WorldTransform returns the entity's local matrix composed with every
	// ancestor's, identity for unknown entities.
	WorldTransform(e Entity) [16]float32

	// Parent returns the entity's parent, Null for roots and unknown
	// entities.
	Parent(e Entity) Entity

	// Remove drops the entity's transform and parent link.
	Remove(e Entity)
}

type transformRecord struct {
	local  [16]float32
	parent Entity
}

type transformManager struct {
	mu      sync.RWMutex
	records map[Entity]*transformRecord
}

var _ TransformManager = &transformManager{}

// NewTransformManager creates an empty transform store.
//
// Returns:
//   - TransformManager: the new manager
func NewTransformManager() TransformManager {
	return &transformManager{records: make(map[Entity]*transformRecord)}
}

func (tm *transformManager) record(e Entity) *transformRecord {
	rec, ok := tm.records[e]
	if !ok {
		rec = &transformRecord{local: identity}
		tm.records[e] = rec
	}
	return rec
}

func (tm *transformManager) SetTransform(e Entity, local [16]float32) {
	if e.IsNull() {
		return
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.record(e).local = local
}

func (tm *transformManager) SetParent(child Entity, parent Entity) {
	if child.IsNull() {
		return
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.record(child).parent = parent
}

func (tm *transformManager) LocalTransform(e Entity) [16]float32 {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if rec, ok := tm.records[e]; ok {
		return rec.local
	}
	return identity
}

func (tm *transformManager) WorldTransform(e Entity) [16]float32 {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	world := identity
	for cur := e; !cur.IsNull(); {
		rec, ok := tm.records[cur]
		if !ok {
			break
		}
		var composed [16]float32
		common.Mul4(composed[:], rec.local[:], world[:])
		world = composed
		cur = rec.parent
	}
	return world
}

func (tm *transformManager) Parent(e Entity) Entity {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if rec, ok := tm.records[e]; ok {
		return rec.parent
	}
	return Null
}

func (tm *transformManager) Remove(e Entity) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	delete(tm.records, e)
}
