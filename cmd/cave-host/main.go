// Command cave-host plays Cave standalone: it renders through the system audio
// output, takes notes from a MIDI input, and hosts the editor the way a plugin
// host would, by handing it the native handle of the host window.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/spf13/cobra"

	"github.com/vsariola/cave/cmd"
	"github.com/vsariola/cave/gui"
	"github.com/vsariola/cave/gui/gioui"
	"github.com/vsariola/cave/logging"
	"github.com/vsariola/cave/oto"
	"github.com/vsariola/cave/param"
	"github.com/vsariola/cave/plugin"
	"github.com/vsariola/cave/version"
)

type options struct {
	sampleRate int
	blockSize  int
	latency    time.Duration
	midiInput  string
	logLevel   string
	noEditor   bool
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:     "cave-host",
		Short:   "Play the Cave instrument without a plugin host",
		Version: version.VersionOrHash,
		Args:    cobra.NoArgs,
		PreRunE: func(c *cobra.Command, _ []string) error {
			return opts.validate()
		},
		RunE: func(c *cobra.Command, _ []string) error {
			useMIDI := c.Flags().Changed("midi-input")
			go func() {
				if err := run(opts, useMIDI); err != nil {
					fmt.Fprintln(os.Stderr, "cave-host:", err)
					os.Exit(1)
				}
				os.Exit(0)
			}()
			app.Main()
			return nil
		},
		SilenceUsage: true,
	}
	f := root.Flags()
	f.IntVar(&opts.sampleRate, "sample-rate", 48000, "output sample rate in Hz")
	f.IntVar(&opts.blockSize, "block-size", 256, "frames rendered per block")
	f.DurationVar(&opts.latency, "latency", 0, "audio device buffer length, 0 lets the driver decide")
	f.StringVar(&opts.midiInput, "midi-input", "", "connect the first MIDI input whose name starts with this prefix")
	f.StringVar(&opts.logLevel, "log-level", logging.DefaultLevel, "debug, info, warn or error")
	f.BoolVar(&opts.noEditor, "no-editor", false, "do not open the editor on start")
	root.AddCommand(midiInputsCommand(), renderCommand())
	return root
}

func midiInputsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "midi-inputs",
		Short: "List the MIDI inputs that --midi-input can match",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			names, err := cmd.MIDIInputNames()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(c.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func (o options) validate() error {
	switch {
	case o.sampleRate < 8000 || o.sampleRate > 384000:
		return fmt.Errorf("--sample-rate %d out of range [8000, 384000]", o.sampleRate)
	case o.blockSize < 1 || o.blockSize > 8192:
		return fmt.Errorf("--block-size %d out of range [1, 8192]", o.blockSize)
	case o.latency < 0:
		return fmt.Errorf("--latency must not be negative")
	}
	return nil
}

func run(opts options, useMIDI bool) error {
	logger := logging.New(os.Stderr, logging.ParseLevel(opts.logLevel))
	logger.Info("starting", "version", version.UserAgent())

	prefsPath, err := gioui.PreferencesPath()
	if err != nil {
		logger.Warn("no user config dir, using default preferences", "err", err)
	}
	prefs, err := gioui.LoadPreferences(prefsPath)
	if err != nil {
		logger.Warn("using default preferences", "err", err)
	}
	var opener *gioui.Opener
	p := plugin.New(func(s *param.Store) gui.Opener {
		opener = gioui.NewOpener(s, prefs, logger)
		return opener
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if prefsPath != "" {
		go func() {
			if err := opener.WatchPreferences(ctx, prefsPath); err != nil {
				logger.Warn("not watching preferences", "err", err)
			}
		}()
	}

	if err := p.Activate(float64(opts.sampleRate), opts.blockSize); err != nil {
		return err
	}
	defer p.Deactivate()

	notes := cmd.NewEventQueue(64)
	sources := cmd.Sources{notes}
	if useMIDI {
		in, err := cmd.OpenMIDIInput(opts.midiInput, logger)
		if err != nil {
			logger.Warn("no MIDI input", "prefix", opts.midiInput, "err", err)
		} else {
			defer in.Close()
			sources = append(sources, in)
		}
	}

	player, err := oto.NewPlayer(opts.sampleRate, opts.latency, oto.NewStream(p, sources, opts.blockSize))
	if err != nil {
		return err
	}
	defer player.Close()

	h := newHost(p, notes, !opts.noEditor, logger)
	controlDone := make(chan struct{})
	go func() {
		defer close(controlDone)
		h.control(ctx)
	}()
	w := new(app.Window)
	w.Option(app.Title("Cave Host"), app.Size(unit.Dp(360), unit.Dp(200)))
	err = h.run(w)
	cancel()
	<-controlDone
	return err
}
