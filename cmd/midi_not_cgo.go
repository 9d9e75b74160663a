//go:build !cgo

package cmd

import (
	"log/slog"
)

// OpenMIDIInput always fails: without cgo, there is no rtmidi.
func OpenMIDIInput(namePrefix string, logger *slog.Logger) (MIDIInput, error) {
	return nil, ErrNoMIDI
}

func MIDIInputNames() ([]string, error) {
	return nil, ErrNoMIDI
}
