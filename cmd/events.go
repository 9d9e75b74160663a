// Package cmd holds what the Cave executables share: MIDI input, which needs
// cgo, and plumbing events from the UI and devices to the audio side.
package cmd

import (
	"errors"

	"github.com/vsariola/cave"
)

type (
	// EventSource hands over pending events without blocking.
	EventSource interface {
		Drain(dst []cave.Event) []cave.Event
	}

	MIDIInput interface {
		EventSource
		String() string
		Close() error
	}

	// EventQueue carries events from the UI to the audio side. Pushing never
	// blocks; when the queue is full the event is dropped.
	EventQueue chan cave.Event

	// Sources drains several sources, in order, into one block.
	Sources []EventSource
)

var ErrNoMIDI = errors.New("MIDI input is not available in builds without cgo")

func NewEventQueue(size int) EventQueue {
	return make(EventQueue, size)
}

// Push reports whether the event was queued.
func (q EventQueue) Push(ev cave.Event) bool {
	select {
	case q <- ev:
		return true
	default:
		return false
	}
}

// Drain appends the queued events to dst, all at frame 0.
func (q EventQueue) Drain(dst []cave.Event) []cave.Event {
	for {
		select {
		case ev := <-q:
			ev.Frame = 0
			dst = append(dst, ev)
		default:
			return dst
		}
	}
}

func (s Sources) Drain(dst []cave.Event) []cave.Event {
	for _, src := range s {
		if src != nil {
			dst = src.Drain(dst)
		}
	}
	return dst
}
