package gioui

import (
	"image"
	"testing"
	"time"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/cave/param"
)

func headlessContext() C {
	return layout.Context{
		Ops:         new(op.Ops),
		Now:         time.Now(),
		Metric:      unit.Metric{PxPerDp: 1, PxPerSp: 1},
		Constraints: layout.Exact(image.Pt(400, 300)),
	}
}

func TestEditorFollowsStore(t *testing.T) {
	store := param.NewDefaultStore()
	o := NewOpener(store, DefaultPreferences(), nil)
	e := o.NewEditor()
	require.Len(t, e.rows, 1)
	assert.Equal(t, "GAIN", e.rows[0].caption)

	e.Layout(headlessContext())
	assert.InDelta(t, 0.5, e.rows[0].slider.Value, 1e-6)

	store.Set(param.GainID, 0.25)
	e.Layout(headlessContext())
	assert.InDelta(t, 0.25, e.rows[0].slider.Value, 1e-6)
}

func TestEditorClampsOutOfRangeValueOnSlider(t *testing.T) {
	store := param.NewDefaultStore()
	store.Set(param.GainID, 3)
	e := NewEditor(store, nil)
	e.Layout(headlessContext())
	assert.Equal(t, float32(1), e.rows[0].slider.Value)
	v, _ := store.Value(param.GainID)
	assert.Equal(t, 3.0, v, "drawing never writes to the store")
}

func TestEditorSkipsHiddenParams(t *testing.T) {
	hidden := param.Descriptor{ID: 7, Name: "Secret", Max: 1, Flags: param.Hidden}
	e := NewEditor(param.NewStore(param.Gain, hidden), nil)
	require.Len(t, e.rows, 1)
	assert.Equal(t, param.GainID, e.rows[0].desc.ID)
}

func TestTrySend(t *testing.T) {
	c := make(chan int, 1)
	assert.True(t, trySend(c, 1))
	assert.False(t, trySend(c, 2))
	assert.Equal(t, 1, <-c)
}

func TestTimeoutWait(t *testing.T) {
	c := make(chan struct{})
	assert.False(t, timeoutWait(c, time.Millisecond))
	close(c)
	assert.True(t, timeoutWait(c, time.Second))
}
