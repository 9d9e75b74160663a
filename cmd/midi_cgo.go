//go:build cgo

package cmd

import (
	"log/slog"

	"github.com/vsariola/cave/gomidi"
)

// OpenMIDIInput opens the first MIDI input whose name starts with namePrefix.
func OpenMIDIInput(namePrefix string, logger *slog.Logger) (MIDIInput, error) {
	in, err := gomidi.OpenInput(namePrefix, logger)
	if err != nil {
		return nil, err
	}
	return in, nil
}

// MIDIInputNames lists the MIDI inputs of the system.
func MIDIInputNames() ([]string, error) {
	return gomidi.InputNames()
}
