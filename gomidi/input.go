//go:build cgo

package gomidi

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vsariola/cave"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Input is an open MIDI input device. Messages arrive on the driver's thread
// and wait in a buffered channel until the audio side drains them; when the
// channel is full, messages are dropped rather than blocking the driver.
type Input struct {
	driver *rtmididrv.Driver
	in     drivers.In
	stop   func()
	events chan midi.Message
	logger *slog.Logger
}

const pendingMessages = 1024

var ErrNoInput = errors.New("no matching MIDI input")

// InputNames lists the MIDI input devices of the system.
func InputNames() ([]string, error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmidi: %w", err)
	}
	defer driver.Close()
	ins, err := driver.Ins()
	if err != nil {
		return nil, fmt.Errorf("listing MIDI inputs: %w", err)
	}
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names, nil
}

// OpenInput opens the first input whose name starts with namePrefix; an empty
// prefix takes the first input there is.
func OpenInput(namePrefix string, logger *slog.Logger) (*Input, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmidi: %w", err)
	}
	ins, err := driver.Ins()
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("listing MIDI inputs: %w", err)
	}
	for _, in := range ins {
		if !strings.HasPrefix(in.String(), namePrefix) {
			continue
		}
		if err := in.Open(); err != nil {
			driver.Close()
			return nil, fmt.Errorf("opening MIDI input %q: %w", in.String(), err)
		}
		i := &Input{
			driver: driver,
			in:     in,
			events: make(chan midi.Message, pendingMessages),
			logger: logger.With("module", "midi", "input", in.String()),
		}
		i.stop, err = midi.ListenTo(in, i.handle)
		if err != nil {
			in.Close()
			driver.Close()
			return nil, fmt.Errorf("listening to MIDI input %q: %w", in.String(), err)
		}
		i.logger.Info("MIDI input open")
		return i, nil
	}
	driver.Close()
	return nil, fmt.Errorf("%w: %q", ErrNoInput, namePrefix)
}

func (i *Input) handle(msg midi.Message, timestampms int32) {
	select {
	case i.events <- msg:
	default:
	}
}

// Drain appends the note events received since the last call to dst, all at
// frame 0 of the coming block. Never blocks.
func (i *Input) Drain(dst []cave.Event) []cave.Event {
	for {
		select {
		case msg := <-i.events:
			dst = AppendDecoded(dst, 0, msg)
		default:
			return dst
		}
	}
}

func (i *Input) String() string { return i.in.String() }

func (i *Input) Close() error {
	i.stop()
	err := i.in.Close()
	i.driver.Close()
	i.logger.Info("MIDI input closed")
	return err
}
