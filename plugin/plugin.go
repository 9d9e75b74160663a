// Package plugin is the host-facing face of Cave: the descriptor, the audio
// and note ports, activation and processing, the parameter extension and the
// GUI extension. Host bindings (the VST2 build, the standalone host) translate
// their host's calls into calls on Plugin.
package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vsariola/cave"
	"github.com/vsariola/cave/engine"
	"github.com/vsariola/cave/gui"
	"github.com/vsariola/cave/param"
	"github.com/vsariola/cave/version"
)

type (
	Descriptor struct {
		ID          string
		Name        string
		Vendor      string
		URL         string
		Version     string
		Description string
		Features    []string
	}

	AudioPort struct {
		ID       uint32
		Name     string
		Channels int
		Main     bool
	}

	NotePort struct {
		ID   uint32
		Name string
	}

	// OpenerFunc creates the window layer for the editor of a plugin, given
	// the parameters the editor should show.
	OpenerFunc func(params *param.Store) gui.Opener

	// Plugin is one instance of the instrument. The audio thread only calls
	// Process; everything else belongs to the host's main or UI thread.
	Plugin struct {
		params *param.Store
		engine atomic.Pointer[engine.Engine]
		opener gui.Opener
		logger *slog.Logger

		guiMu sync.Mutex
		gui   *gui.Controller
	}
)

const (
	FeatureInstrument  = "instrument"
	FeatureSynthesizer = "synthesizer"
	FeatureStereo      = "stereo"
)

var Info = Descriptor{
	ID:          "com.vsariola.cave",
	Name:        "Cave",
	Vendor:      "vsariola",
	URL:         "https://github.com/vsariola/cave",
	Version:     version.VersionOrHash,
	Description: "Monophonic square wave",
	Features:    []string{FeatureInstrument, FeatureSynthesizer, FeatureStereo},
}

var (
	OutputPort = AudioPort{ID: 0, Name: "Output", Channels: 2, Main: true}
	InputPort  = NotePort{ID: 0, Name: "MIDI Input"}
)

var ErrInvalidConfig = errors.New("invalid audio configuration")

// New returns an inactive plugin. newOpener creates the window layer of the
// editor; it may be nil for hosts without a GUI, in which case CreateGUI fails.
func New(newOpener OpenerFunc, logger *slog.Logger) *Plugin {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Plugin{
		params: param.NewDefaultStore(),
		logger: logger.With("plugin", Info.ID),
	}
	if newOpener != nil {
		p.opener = newOpener(p.params)
	}
	return p
}

// Params returns the parameter store shared by the engine and the editor.
func (p *Plugin) Params() *param.Store { return p.params }

// AudioPorts returns the audio ports in the given direction.
func (p *Plugin) AudioPorts(input bool) []AudioPort {
	if input {
		return nil
	}
	return []AudioPort{OutputPort}
}

// NotePorts returns the note ports in the given direction.
func (p *Plugin) NotePorts(input bool) []NotePort {
	if !input {
		return nil
	}
	return []NotePort{InputPort}
}

// Activate prepares the engine for processing blocks of at most maxFrames
// frames at sampleRate. Reactivating replaces the engine and resets the voice.
func (p *Plugin) Activate(sampleRate float64, maxFrames int) error {
	if !(sampleRate > 0) || maxFrames <= 0 {
		return fmt.Errorf("%w: sample rate %v, max frames %d", ErrInvalidConfig, sampleRate, maxFrames)
	}
	p.engine.Store(engine.New(p.params, sampleRate, maxFrames))
	p.logger.Info("activated", "sampleRate", sampleRate, "maxFrames", maxFrames)
	return nil
}

func (p *Plugin) Deactivate() {
	if p.engine.Swap(nil) != nil {
		p.logger.Info("deactivated")
	}
}

func (p *Plugin) Active() bool { return p.engine.Load() != nil }

// Process renders one block. While inactive the output is silence and only
// parameter changes are applied.
func (p *Plugin) Process(events []cave.Event, out cave.AudioBuffer) {
	if e := p.engine.Load(); e != nil {
		e.Process(events, out)
		return
	}
	p.Flush(events)
	out.Clear()
}

// Flush applies parameter changes outside of processing; note events are
// dropped.
func (p *Plugin) Flush(events []cave.Event) {
	for i := range events {
		if events[i].Kind == cave.EventParamValue {
			p.params.Set(events[i].Param, events[i].Value)
		}
	}
}
