//go:build plugin

// Command cave-vsti is Cave as a VST2 instrument. Build it with
//
//	go build -buildmode=c-shared -tags plugin -o cave.dll ./cmd/cave-vsti
//
// The VST2 binding has no editor opcodes, so the host never hands over a
// window: the editor opens on the desktop as its own window when the plugin is
// instantiated and closes with the plugin.
package main

import (
	"context"

	"github.com/vsariola/cave"
	"github.com/vsariola/cave/gomidi"
	"github.com/vsariola/cave/gui"
	"github.com/vsariola/cave/gui/gioui"
	"github.com/vsariola/cave/logging"
	"github.com/vsariola/cave/param"
	"github.com/vsariola/cave/plugin"
	"github.com/vsariola/cave/version"
	"pipelined.dev/audio/vst2"
)

const outputChannels = 2

// allocFrames bounds the engine's scratch buffer; longer blocks are rendered
// in pieces.
const allocFrames = 4096

var pluginID = [4]byte{'C', 'a', 'v', 'e'}

func init() {
	vst2.PluginAllocator = func(h vst2.Host) (vst2.Plugin, vst2.Dispatcher) {
		logger, logFile := logging.OpenOrDiscard(logging.FromEnv())
		logger.Info("instantiated", "version", version.UserAgent())
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
		if prefsPath != "" {
			go func() {
				if err := opener.WatchPreferences(ctx, prefsPath); err != nil {
					logger.Warn("not watching preferences", "err", err)
				}
			}()
		}
		guiStarted := make(chan struct{})
		go func() {
			defer close(guiStarted)
			if err := p.ShowStandalone(); err != nil {
				logger.Error("no editor", "err", err)
			}
		}()

		gain := &vst2.Parameter{
			Name:  param.Gain.Name,
			Value: float32(param.Gain.Normalize(param.Gain.Default)),
		}
		hostGain := gain.Value
		events := make([]cave.Event, 0, 1024)
		out := make(cave.AudioBuffer, outputChannels)
		sampleRate := 0.0

		return vst2.Plugin{
				UniqueID:       pluginID,
				Version:        100,
				InputChannels:  0,
				OutputChannels: outputChannels,
				Name:           plugin.Info.Name,
				Vendor:         plugin.Info.Vendor,
				Category:       vst2.PluginCategorySynth,
				Flags:          vst2.PluginIsSynth,
				Parameters:     []*vst2.Parameter{gain},
				ProcessFloatFunc: func(in, buf vst2.FloatBuffer) {
					if ti := h.GetTimeInfo(vst2.TempoValid); ti != nil && ti.SampleRate > 0 && ti.SampleRate != sampleRate {
						// only on a sample rate change; allocates
						if err := p.Activate(ti.SampleRate, allocFrames); err == nil {
							sampleRate = ti.SampleRate
						}
					}
					if gain.Value != hostGain {
						hostGain = gain.Value
						events = append(events, cave.ParamValue(0, param.GainID, param.Gain.Denormalize(float64(hostGain))))
					}
					for i := range out {
						out[i] = buf.Channel(i)
					}
					p.Process(events, out)
					// report edits made in the editor back to the host
					if v, ok := p.ParamValue(param.GainID); ok {
						hostGain = float32(min(max(param.Gain.Normalize(v), 0), 1))
						gain.Value = hostGain
					}
					events = events[:0] // reset buffer, but keep the allocated memory
				},
			}, vst2.Dispatcher{
				CanDoFunc: func(pcds vst2.PluginCanDoString) vst2.CanDoResponse {
					switch pcds {
					case vst2.PluginCanReceiveEvents, vst2.PluginCanReceiveMIDIEvent, vst2.PluginCanReceiveTimeInfo:
						return vst2.YesCanDo
					}
					return vst2.NoCanDo
				},
				ProcessEventsFunc: func(ev *vst2.EventsPtr) {
					for i := 0; i < ev.NumEvents(); i++ {
						if m, ok := ev.Event(i).(*vst2.MIDIEvent); ok {
							events = gomidi.AppendDecoded(events, int(m.DeltaFrames), m.Data[:])
						}
					}
				},
				CloseFunc: func() {
					cancel()
					<-guiStarted
					p.DestroyGUI()
					p.Deactivate()
					logger.Info("closed")
					logFile.Close()
				},
			}
	}
}

func main() {}
