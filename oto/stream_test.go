package oto_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/cave"
	"github.com/vsariola/cave/oto"
)

// rampRenderer writes an increasing counter to the left channel and its
// negation to the right one, and records the events of every block.
type rampRenderer struct {
	next   float32
	blocks [][]cave.Event
}

func (r *rampRenderer) Process(events []cave.Event, out cave.AudioBuffer) {
	r.blocks = append(r.blocks, append([]cave.Event(nil), events...))
	for i := range out[0] {
		out[0][i] = r.next
		out[1][i] = -r.next
		r.next++
	}
}

type queue []cave.Event

func (q *queue) Drain(dst []cave.Event) []cave.Event {
	dst = append(dst, *q...)
	*q = (*q)[:0]
	return dst
}

func decode(p []byte) []float32 {
	out := make([]float32, len(p)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	return out
}

func TestReadInterleavesAcrossBlocks(t *testing.T) {
	r := &rampRenderer{}
	s := oto.NewStream(r, nil, 3)
	p := make([]byte, 8*4)
	n, err := s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, len(p), n)
	assert.Equal(t, []float32{0, -0, 1, -1, 2, -2, 3, -3}, decode(p))
	assert.Len(t, r.blocks, 2)

	n, err = s.Read(p[:8*2])
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, []float32{4, -4, 5, -5}, decode(p[:16]))
	assert.Len(t, r.blocks, 2, "the second block still had frames left")
}

func TestReadReturnsWholeFramesOnly(t *testing.T) {
	s := oto.NewStream(&rampRenderer{}, nil, 4)
	n, err := s.Read(make([]byte, 13))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	n, err = s.Read(make([]byte, 7))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEventsAreDrainedOncePerBlock(t *testing.T) {
	r := &rampRenderer{}
	q := &queue{cave.NoteOn(0, 60, 1)}
	s := oto.NewStream(r, q, 2)
	_, err := s.Read(make([]byte, 2*8))
	require.NoError(t, err)
	*q = append(*q, cave.NoteOff(0, 60))
	_, err = s.Read(make([]byte, 2*8))
	require.NoError(t, err)
	require.Len(t, r.blocks, 2)
	assert.Equal(t, []cave.Event{cave.NoteOn(0, 60, 1)}, r.blocks[0])
	assert.Equal(t, []cave.Event{cave.NoteOff(0, 60)}, r.blocks[1])
}

func TestReadDoesNotAllocate(t *testing.T) {
	s := oto.NewStream(silence{}, &queue{}, 64)
	p := make([]byte, 1000*8)
	allocs := testing.AllocsPerRun(10, func() {
		s.Read(p)
	})
	assert.Zero(t, allocs)
}

type silence struct{}

func (silence) Process(_ []cave.Event, out cave.AudioBuffer) { out.Clear() }
