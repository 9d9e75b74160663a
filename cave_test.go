package cave_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vsariola/cave"
)

func TestMakeAudioBuffer(t *testing.T) {
	b := cave.MakeAudioBuffer(2, 16)
	assert.Len(t, b, 2)
	assert.Equal(t, 16, b.Frames())
	b[0][15] = 1
	assert.Zero(t, b[1][0], "channels must not overlap")
	b[1] = append(b[1], 3)
	assert.Equal(t, float32(1), b[0][15], "appending to a channel must not clobber another")
	b.Clear()
	assert.Zero(t, b[0][15])
	assert.Zero(t, cave.AudioBuffer{}.Frames())
}

func TestHasSpecificKey(t *testing.T) {
	assert.True(t, cave.NoteOn(0, 0, 1).HasSpecificKey())
	assert.True(t, cave.NoteOff(0, cave.MaxKey).HasSpecificKey())
	assert.False(t, cave.NoteOn(0, cave.WildcardKey, 1).HasSpecificKey())
	assert.False(t, cave.NoteOn(0, 128, 1).HasSpecificKey())
}

func TestEventConstructors(t *testing.T) {
	e := cave.ParamValue(5, 3, 0.25)
	assert.Equal(t, cave.Event{Frame: 5, Kind: cave.EventParamValue, Param: 3, Value: 0.25}, e)
	assert.Equal(t, "param-value", e.Kind.String())
	assert.Equal(t, "note-on", cave.NoteOn(0, 60, 1).Kind.String())
	assert.Equal(t, "note-off", cave.NoteOff(0, 60).Kind.String())
	assert.Equal(t, "none", cave.EventKind(42).String())
}
