package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsariola/cave"
	"github.com/vsariola/cave/param"
	"github.com/vsariola/cave/plugin"
	"github.com/vsariola/cave/render"
)

type renderOptions struct {
	out        string
	key        int
	hold       float64
	tail       float64
	gain       float64
	sampleRate int
	blockSize  int
	bitDepth   int
}

func renderCommand() *cobra.Command {
	var o renderOptions
	c := &cobra.Command{
		Use:   "render",
		Short: "Render one held note to a WAV file",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if err := o.validate(); err != nil {
				return err
			}
			return o.run()
		},
	}
	f := c.Flags()
	f.StringVarP(&o.out, "out", "o", "cave.wav", "output file")
	f.IntVar(&o.key, "key", 69, "MIDI key of the note, 0-127")
	f.Float64Var(&o.hold, "hold", 1, "seconds the note is held")
	f.Float64Var(&o.tail, "tail", 0.25, "seconds of silence after the note")
	f.Float64Var(&o.gain, "gain", param.Gain.Default, "value of the gain parameter")
	f.IntVar(&o.sampleRate, "sample-rate", 48000, "sample rate in Hz")
	f.IntVar(&o.blockSize, "block-size", 256, "frames rendered per block")
	f.IntVar(&o.bitDepth, "bit-depth", 16, "16, 24 or 32")
	return c
}

func (o renderOptions) validate() error {
	switch {
	case o.key < 0 || o.key > cave.MaxKey:
		return fmt.Errorf("--key %d out of range [0, %d]", o.key, cave.MaxKey)
	case o.hold <= 0 || o.tail < 0:
		return fmt.Errorf("--hold must be positive and --tail not negative")
	case o.sampleRate <= 0 || o.blockSize <= 0:
		return fmt.Errorf("--sample-rate and --block-size must be positive")
	}
	return nil
}

func (o renderOptions) run() error {
	p := plugin.New(nil, nil)
	if err := p.Activate(float64(o.sampleRate), o.blockSize); err != nil {
		return err
	}
	defer p.Deactivate()
	holdFrames := int(o.hold * float64(o.sampleRate))
	frames := holdFrames + int(o.tail*float64(o.sampleRate))
	events := []cave.Event{
		cave.ParamValue(0, param.GainID, o.gain),
		cave.NoteOn(0, o.key, 1),
		cave.NoteOff(holdFrames, o.key),
	}
	buf := render.Render(p, events, plugin.OutputPort.Channels, frames, o.blockSize)
	f, err := os.Create(o.out)
	if err != nil {
		return err
	}
	if err := render.WriteWav(f, buf, o.sampleRate, o.bitDepth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
