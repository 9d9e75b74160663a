package main

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/vsariola/cave"
	"github.com/vsariola/cave/cmd"
	"github.com/vsariola/cave/gui"
	"github.com/vsariola/cave/param"
	"github.com/vsariola/cave/plugin"
	"github.com/vsariola/cave/window"
)

type (
	C = layout.Context
	D = layout.Dimensions

	// host plays the part of a plugin host: its window is the parent of the
	// editor, and plugin GUI calls are made from a control goroutine standing
	// in for the host main thread, never from the window's event loop.
	host struct {
		plugin   *plugin.Plugin
		notes    cmd.EventQueue
		exec     chan func()
		autoOpen bool
		logger   *slog.Logger

		mu       sync.Mutex
		status   string
		guiState gui.State
		parent   window.Handle
		window   *app.Window

		theme   *material.Theme
		toggle  widget.Clickable
		play    widget.Clickable
		playing bool
	}
)

const (
	testNote        = 69
	refreshInterval = 100 * time.Millisecond
)

func newHost(p *plugin.Plugin, notes cmd.EventQueue, autoOpen bool, logger *slog.Logger) *host {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	return &host{
		plugin:   p,
		notes:    notes,
		exec:     make(chan func(), 16),
		autoOpen: autoOpen,
		logger:   logger.With("module", "host"),
		status:   "waiting for the host window",
		theme:    th,
	}
}

// control runs plugin GUI calls until ctx is done, then destroys the GUI. The
// GUI state is also polled, since the user can close the editor window.
func (h *host) control(ctx context.Context) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	api, floating := h.plugin.PreferredAPI()
	if err := h.plugin.CreateGUI(api, floating); err != nil {
		h.report(err)
	}
	defer h.plugin.DestroyGUI()
	for {
		select {
		case f := <-h.exec:
			f()
			h.setState(h.plugin.GUIState())
		case <-ticker.C:
			h.setState(h.plugin.GUIState())
		case <-ctx.Done():
			return
		}
	}
}

func (h *host) do(f func()) {
	select {
	case h.exec <- f:
	default:
		h.logger.Warn("control queue full, dropping GUI call")
	}
}

func (h *host) run(w *app.Window) error {
	h.mu.Lock()
	h.window = w
	h.mu.Unlock()
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			h.do(func() { h.plugin.HideGUI() })
			return e.Err
		case app.ViewEvent:
			h.attach(e)
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			h.update(gtx)
			h.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

// attach records the native handle of the host window as the editor's
// parent, the way a plugin host calls set_parent.
func (h *host) attach(e app.ViewEvent) {
	handle, ok := handleFromView(e)
	if !ok {
		h.setStatus("this window system has no handle the editor can use")
		return
	}
	h.mu.Lock()
	h.parent = handle
	h.mu.Unlock()
	if handle.Ptr == 0 {
		h.setStatus("host window gone")
		return
	}
	h.logger.Debug("host window", "handle", handle)
	h.setStatus("parent " + handle.String())
	if h.autoOpen {
		h.show()
	}
}

func (h *host) show() {
	h.mu.Lock()
	parent := h.parent
	h.mu.Unlock()
	if parent.IsZero() {
		h.setStatus("no host window handle yet")
		return
	}
	h.do(func() {
		if err := h.plugin.SetParent(parent); err != nil {
			h.report(err)
			return
		}
		h.setStatus("editor open, parent " + parent.String())
	})
}

func (h *host) update(gtx C) {
	if h.toggle.Clicked(gtx) {
		if h.state() == gui.Open {
			h.do(func() {
				h.plugin.HideGUI()
				h.setStatus("editor hidden")
			})
		} else {
			h.show()
		}
	}
	if h.play.Clicked(gtx) {
		var ev cave.Event
		if h.playing {
			ev = cave.NoteOff(0, testNote)
		} else {
			ev = cave.NoteOn(0, testNote, 1)
		}
		if h.notes.Push(ev) {
			h.playing = !h.playing
		}
	}
}

func (h *host) layout(gtx C) D {
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, h.theme.Bg)
	h.mu.Lock()
	status, state := h.status, h.guiState
	h.mu.Unlock()
	gain, _ := h.plugin.ParamValue(param.GainID)
	toggleText := "Show editor"
	if state == gui.Open {
		toggleText = "Hide editor"
	}
	playText := "Play A4"
	if h.playing {
		playText = "Stop"
	}
	// the gain follows the editor, which runs in another window
	gtx.Execute(op.InvalidateCmd{At: gtx.Now.Add(refreshInterval)})
	return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(material.H6(h.theme, "Cave Host").Layout),
			layout.Rigid(material.Body2(h.theme, "gain "+param.FormatValue(gain)+", editor "+state.String()).Layout),
			layout.Rigid(material.Caption(h.theme, status).Layout),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx C) D {
				return layout.Flex{Spacing: layout.SpaceBetween}.Layout(gtx,
					layout.Rigid(material.Button(h.theme, &h.toggle, toggleText).Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
					layout.Rigid(material.Button(h.theme, &h.play, playText).Layout))
			}))
	})
}

func (h *host) report(err error) {
	switch {
	case errors.Is(err, gui.ErrUnsupportedHandle):
		h.setStatus("the editor cannot live in this window system: " + err.Error())
	default:
		h.setStatus(err.Error())
	}
	h.logger.Warn("GUI call failed", "err", err)
}

func (h *host) state() gui.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.guiState
}

// setState redraws the host window only if the state changed.
func (h *host) setState(s gui.State) {
	h.mu.Lock()
	changed := h.guiState != s
	h.guiState = s
	w := h.window
	h.mu.Unlock()
	if changed && w != nil {
		w.Invalidate()
	}
}

func (h *host) setStatus(s string) {
	h.mu.Lock()
	h.status = s
	w := h.window
	h.mu.Unlock()
	if w != nil {
		w.Invalidate()
	}
}
