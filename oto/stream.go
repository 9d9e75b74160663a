package oto

import (
	"github.com/vsariola/cave"
)

type (
	// Renderer produces blocks of audio from events; *plugin.Plugin is one.
	Renderer interface {
		Process(events []cave.Event, out cave.AudioBuffer)
	}

	// EventSource hands over the events that arrived since the last block
	// without blocking.
	EventSource interface {
		Drain(dst []cave.Event) []cave.Event
	}

	// Stream is the pull side of the audio output: every Read renders as many
	// blocks as needed and interleaves them. All buffers are allocated up
	// front, so reading does not allocate.
	Stream struct {
		renderer Renderer
		source   EventSource
		events   []cave.Event
		block    cave.AudioBuffer
		pos      int
	}
)

const (
	Channels    = 2
	frameBytes  = Channels * bytesPerSample
	eventsAlloc = 256
)

// NewStream returns a stream rendering blocks of blockSize frames. source may
// be nil.
func NewStream(r Renderer, source EventSource, blockSize int) *Stream {
	blockSize = max(blockSize, 1)
	return &Stream{
		renderer: r,
		source:   source,
		events:   make([]cave.Event, 0, eventsAlloc),
		block:    cave.MakeAudioBuffer(Channels, blockSize),
		pos:      blockSize,
	}
}

// Read implements io.Reader. It only ever returns whole frames.
func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	written := 0
	for written < frames {
		if s.pos == s.block.Frames() {
			s.renderBlock()
		}
		n := min(frames-written, s.block.Frames()-s.pos)
		interleaveFloat32LE(p[written*frameBytes:], s.block, s.pos, n)
		s.pos += n
		written += n
	}
	return written * frameBytes, nil
}

func (s *Stream) renderBlock() {
	s.events = s.events[:0]
	if s.source != nil {
		s.events = s.source.Drain(s.events)
	}
	s.renderer.Process(s.events, s.block)
	s.pos = 0
}
