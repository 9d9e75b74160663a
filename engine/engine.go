// Package engine renders the single monophonic voice of the instrument.
//
// The engine runs on the host's audio thread: Process never blocks, never
// allocates and never fails. Unknown events are dropped.
package engine

import (
	"math"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/cave"
	"github.com/vsariola/cave/param"
)

type (
	// Engine converts the host's note events into a naive square wave. The
	// gain is read from the parameter store once per processed block.
	Engine struct {
		params     *param.Store
		sampleRate float64
		voice      voice
		scratch    []float32 // mono render target, sized once in New
	}

	voice struct {
		state     State
		phase     float64 // always in [0, 1)
		frequency float64 // Hz
	}

	State int
)

const (
	Silent State = iota
	Sounding
)

// amplitude is the peak level of the square wave at full gain.
const amplitude = 0.1

// DefaultFrequency is the frequency of the voice before the first note-on.
const DefaultFrequency = 440.0

// New creates an engine for the given sample rate (which must be positive).
// maxFrames is the largest block the host promised to deliver; larger blocks
// are still rendered, in chunks of maxFrames.
func New(params *param.Store, sampleRate float64, maxFrames int) *Engine {
	return &Engine{
		params:     params,
		sampleRate: sampleRate,
		voice:      voice{frequency: DefaultFrequency},
		scratch:    make([]float32, max(maxFrames, 1)),
	}
}

// Process consumes the events of one block and fills every channel of out
// with the same mono signal.
//
// Parameter changes are applied before the block is rendered, and the gain is
// read once for the whole block. Note events take effect at their frame
// offset, in delivery order; events at or beyond the end of the block are
// applied after rendering so they are not lost.
func (e *Engine) Process(events []cave.Event, out cave.AudioBuffer) {
	for i := range events {
		if events[i].Kind == cave.EventParamValue {
			e.params.Set(events[i].Param, events[i].Value)
		}
	}
	amp := float32(e.params.Gain() * amplitude)
	frames := out.Frames()
	next := 0
	for frame := 0; frame < frames; {
		for next < len(events) && events[next].Frame <= frame {
			e.handleNote(&events[next])
			next++
		}
		end := frames
		if next < len(events) && events[next].Frame < end {
			end = events[next].Frame
		}
		end = min(end, frame+len(e.scratch))
		mono := e.scratch[:end-frame]
		e.render(mono, amp)
		for _, ch := range out {
			copy(ch[frame:end], mono)
		}
		frame = end
	}
	for ; next < len(events); next++ {
		e.handleNote(&events[next])
	}
}

func (e *Engine) handleNote(ev *cave.Event) {
	switch ev.Kind {
	case cave.EventNoteOn:
		if ev.HasSpecificKey() {
			e.voice.frequency = KeyFrequency(ev.Key)
			e.voice.state = Sounding
		}
	case cave.EventNoteOff:
		// monophonic: a note-off for any specific key silences the voice
		if ev.HasSpecificKey() {
			e.voice.state = Silent
		}
	}
}

func (e *Engine) render(dst []float32, amp float32) {
	if e.voice.state == Silent || amp == 0 {
		clear(dst)
		if e.voice.state == Sounding {
			e.advance(len(dst))
		}
		return
	}
	step := e.voice.frequency / e.sampleRate
	for i := range dst {
		e.voice.phase += step
		if e.voice.phase >= 1 {
			e.voice.phase -= math.Floor(e.voice.phase)
		}
		if e.voice.phase < 0.5 {
			dst[i] = 1
		} else {
			dst[i] = -1
		}
	}
	vek32.MulNumber_Inplace(dst, amp)
}

// advance moves the phase as if n samples had been rendered, keeping the
// oscillator running while it is muted by a zero gain.
func (e *Engine) advance(n int) {
	p := e.voice.phase + float64(n)*e.voice.frequency/e.sampleRate
	e.voice.phase = p - math.Floor(p)
}

// Reset silences the voice and rewinds its phase.
func (e *Engine) Reset() {
	e.voice = voice{frequency: DefaultFrequency}
}

func (e *Engine) State() State        { return e.voice.state }
func (e *Engine) Frequency() float64  { return e.voice.frequency }
func (e *Engine) Phase() float64      { return e.voice.phase }
func (e *Engine) SampleRate() float64 { return e.sampleRate }
func (e *Engine) MaxFrames() int      { return len(e.scratch) }

// KeyFrequency maps a MIDI key to its equal-tempered frequency, A4 (key 69)
// being 440 Hz.
func KeyFrequency(key int) float64 {
	return 440 * math.Pow(2, float64(key-69)/12)
}

func (s State) String() string {
	switch s {
	case Silent:
		return "silent"
	case Sounding:
		return "sounding"
	default:
		return "unknown"
	}
}
