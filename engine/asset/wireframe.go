package asset

import (
	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/entity"
)

// wireframeName is the name recorded for the lazily built wireframe entity.
const wireframeName = "__wireframe"

func (c *containerAsset) Wireframe() entity.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.wireframe.IsNull() {
		return c.wireframe
	}
	if c.srcReleased || c.source == nil {
		panic("asset: wireframe requested after source data was released")
	}
	if c.engine == nil || c.entityMgr == nil {
		panic("asset: wireframe requires an engine and an entity manager")
	}

	parser := c.source.Parser()
	for i, slot := range c.bufferSlots {
		if slot.IndexBuffer == nil || slot.Accessor < 0 {
			continue
		}
		indices, err := parser.ReadIndicesAccessor(slot.Accessor)
		if err != nil {
			common.LogWarn("skipping wireframe for index slot %d: %v", i, err)
			continue
		}
		lines := trianglesToLines(indices)
		if len(lines) == 0 {
			continue
		}
		ib, err := c.engine.CreateIndexBuffer("Wireframe Lines", common.SliceToBytes(lines), len(lines))
		if err != nil {
			common.LogWarn("skipping wireframe for index slot %d: %v", i, err)
			continue
		}
		c.indexBuffers = append(c.indexBuffers, ib)
	}

	e := c.entityMgr.Create()
	c.wireframe = e
	if c.nameMgr != nil {
		c.nameMgr.SetName(e, wireframeName)
	}
	c.nameIndex = append(c.nameIndex, nameEntry{name: wireframeName, ent: e})
	c.nameSorted = false
	return e
}

// trianglesToLines expands a triangle-list index stream into a line-list
// covering each triangle edge. Trailing indices that do not complete a
// triangle are dropped.
func trianglesToLines(indices []uint32) []uint32 {
	triCount := len(indices) / 3
	lines := make([]uint32, 0, triCount*6)
	for t := 0; t < triCount; t++ {
		a, b, cc := indices[t*3], indices[t*3+1], indices[t*3+2]
		lines = append(lines, a, b, b, cc, cc, a)
	}
	return lines
}
