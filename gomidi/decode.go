// Package gomidi turns MIDI messages into Cave note events, and, in cgo
// builds, reads them from a live MIDI input device.
package gomidi

import (
	"github.com/vsariola/cave"
	"gitlab.com/gomidi/midi/v2"
)

const maxVelocity = 127

// Decode converts a raw MIDI message to a note event at the given frame.
// Note-on with velocity 0 is a note-off, as the MIDI standard says. Anything
// but note messages is reported as not ok.
func Decode(frame int, data []byte) (cave.Event, bool) {
	msg := midi.Message(data)
	var channel, key, velocity uint8
	if msg.GetNoteStart(&channel, &key, &velocity) {
		ev := cave.NoteOn(frame, int(key), float64(velocity)/maxVelocity)
		ev.Channel = int(channel)
		return ev, true
	}
	if msg.GetNoteEnd(&channel, &key) {
		ev := cave.NoteOff(frame, int(key))
		ev.Channel = int(channel)
		return ev, true
	}
	return cave.Event{}, false
}

// AppendDecoded decodes data and appends the result to dst, if it was a note
// message.
func AppendDecoded(dst []cave.Event, frame int, data []byte) []cave.Event {
	if ev, ok := Decode(frame, data); ok {
		dst = append(dst, ev)
	}
	return dst
}
