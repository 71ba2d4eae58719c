package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerCreateDestroy(t *testing.T) {
	m := NewManager()

	a := m.Create()
	b := m.Create()
	assert.False(t, a.IsNull())
	assert.NotEqual(t, a, b)
	assert.True(t, m.IsAlive(a))
	assert.True(t, m.IsAlive(b))

	m.Destroy(a)
	assert.False(t, m.IsAlive(a))
	assert.True(t, m.IsAlive(b))

	// destroying twice is a no-op
	m.Destroy(a)
	assert.False(t, m.IsAlive(a))
}

func TestManagerCreateMany(t *testing.T) {
	m := NewManager()

	batch := m.CreateMany(8)
	assert.Len(t, batch, 8)
	seen := make(map[Entity]struct{})
	for _, e := range batch {
		assert.True(t, m.IsAlive(e))
		seen[e] = struct{}{}
	}
	assert.Len(t, seen, 8)

	m.DestroyAll(batch)
	for _, e := range batch {
		assert.False(t, m.IsAlive(e))
	}
}

func TestManagerRecyclesHandles(t *testing.T) {
	m := NewManager()

	a := m.Create()
	m.Destroy(a)

	b := m.Create()
	assert.Equal(t, a, b)
	assert.True(t, m.IsAlive(b))
}

func TestNameManager(t *testing.T) {
	m := NewManager()
	nm := NewNameManager()

	a := m.Create()
	b := m.Create()

	_, ok := nm.Name(a)
	assert.False(t, ok)

	nm.SetName(a, "Wheel1")
	nm.SetName(b, "Wheel1") // names need not be unique

	name, ok := nm.Name(a)
	assert.True(t, ok)
	assert.Equal(t, "Wheel1", name)

	nm.Remove(a)
	_, ok = nm.Name(a)
	assert.False(t, ok)

	name, _ = nm.Name(b)
	assert.Equal(t, "Wheel1", name)
}
