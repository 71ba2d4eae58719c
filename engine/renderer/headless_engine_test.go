package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessEngineTracksAllocations(t *testing.T) {
	e := NewHeadlessEngine()

	vb, err := e.CreateVertexBuffer("mesh", make([]byte, 48))
	require.NoError(t, err)
	assert.Equal(t, uint64(48), vb.Size)
	assert.Nil(t, vb.Buffer())

	ib, err := e.CreateIndexBuffer("mesh", make([]byte, 12), 6)
	require.NoError(t, err)
	assert.Equal(t, 6, ib.IndexCount)

	tex, err := e.CreateTexture("skin", common.TextureStagingData{
		Pixels: make([]byte, 4),
		Width:  1,
		Height: 1,
		SRGB:   true,
	}, common.DefaultSampler())
	require.NoError(t, err)
	assert.True(t, tex.SRGB)

	v, i, tx := e.LiveResourceCount()
	assert.Equal(t, []int{1, 1, 1}, []int{v, i, tx})

	e.DestroyVertexBuffer(vb)
	e.DestroyIndexBuffer(ib)
	e.DestroyTexture(tex)

	v, i, tx = e.LiveResourceCount()
	assert.Equal(t, []int{0, 0, 0}, []int{v, i, tx})

	// nil destroys are no-ops
	e.DestroyVertexBuffer(nil)
	e.DestroyTexture(nil)
}

func TestHeadlessEngineRejectsEmptyData(t *testing.T) {
	e := NewHeadlessEngine()

	_, err := e.CreateVertexBuffer("empty", nil)
	assert.Error(t, err)

	_, err = e.CreateIndexBuffer("empty", nil, 0)
	assert.Error(t, err)

	_, err = e.CreateTexture("empty", common.TextureStagingData{}, common.DefaultSampler())
	assert.Error(t, err)
}
