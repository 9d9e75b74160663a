package plugin

import (
	"fmt"

	"github.com/vsariola/cave/gui"
	"github.com/vsariola/cave/window"
)

func (p *Plugin) IsAPISupported(api window.API, floating bool) bool {
	return window.IsSupported(api, floating)
}

// PreferredAPI returns the window API of this platform; floating windows are
// never preferred.
func (p *Plugin) PreferredAPI() (api window.API, floating bool) {
	return window.PreferredAPI(), false
}

// CreateGUI sets up the editor for the given API. Nothing is shown until the
// host hands over a parent window.
func (p *Plugin) CreateGUI(api window.API, floating bool) error {
	if !p.IsAPISupported(api, floating) {
		return fmt.Errorf("%w (%s, floating %v)", gui.ErrUnsupportedHandle, api, floating)
	}
	if p.opener == nil {
		return fmt.Errorf("%w: no window layer", gui.ErrConfiguration)
	}
	p.guiMu.Lock()
	defer p.guiMu.Unlock()
	if p.gui != nil {
		return fmt.Errorf("%w: gui already created", gui.ErrConfiguration)
	}
	p.gui = gui.NewController(p.opener, p.logger)
	return nil
}

// ShowStandalone creates the GUI if needed and opens the editor as a top-level
// window on the desktop, for host bindings with no editor window of their own.
func (p *Plugin) ShowStandalone() error {
	p.guiMu.Lock()
	if p.gui == nil {
		if p.opener == nil {
			p.guiMu.Unlock()
			return fmt.Errorf("%w: no window layer", gui.ErrConfiguration)
		}
		p.gui = gui.NewController(p.opener, p.logger)
	}
	c := p.gui
	p.guiMu.Unlock()
	return c.SetParent(window.Desktop())
}

// DestroyGUI closes the editor and releases the controller. Safe to call when
// no GUI was created.
func (p *Plugin) DestroyGUI() {
	p.guiMu.Lock()
	c := p.gui
	p.gui = nil
	p.guiMu.Unlock()
	if c != nil {
		c.Destroy()
	}
}

func (p *Plugin) controller() (*gui.Controller, error) {
	p.guiMu.Lock()
	defer p.guiMu.Unlock()
	if p.gui == nil {
		return nil, fmt.Errorf("%w: gui not created", gui.ErrConfiguration)
	}
	return p.gui, nil
}

func (p *Plugin) SetParent(h window.Handle) error {
	c, err := p.controller()
	if err != nil {
		return err
	}
	return c.SetParent(h)
}

// SetTransient is accepted and ignored; only embedded editors exist.
func (p *Plugin) SetTransient(window.Handle) bool {
	return true
}

func (p *Plugin) ShowGUI() error {
	c, err := p.controller()
	if err != nil {
		return err
	}
	return c.Show()
}

// HideGUI closes the editor if there is one. Safe to call in any state.
func (p *Plugin) HideGUI() error {
	p.guiMu.Lock()
	c := p.gui
	p.guiMu.Unlock()
	if c != nil {
		c.Hide()
	}
	return nil
}

func (p *Plugin) SetScale(scale float64) bool {
	c, err := p.controller()
	if err != nil {
		return false
	}
	return c.SetScale(scale)
}

func (p *Plugin) GUISize() (window.Size, bool) {
	c, err := p.controller()
	if err != nil {
		return window.Size{}, false
	}
	return c.Size(), true
}

// CanResize reports false: the editor has a fixed size.
func (p *Plugin) CanResize() bool { return false }

func (p *Plugin) SetSize(s window.Size) bool {
	c, err := p.controller()
	if err != nil {
		return false
	}
	return c.SetSize(s)
}

// GUIState returns the editor lifecycle state; NoParent without a GUI.
func (p *Plugin) GUIState() gui.State {
	c, err := p.controller()
	if err != nil {
		return gui.NoParent
	}
	return c.State()
}
