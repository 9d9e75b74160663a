// Package gui binds the editor window to the native parent window handle the
// host hands over, whatever order the host decides to call things in.
//
// The controller only manages the lifecycle; drawing is done by the Surface
// the Opener creates, which calls back into the editor at the cadence of the
// window system.
package gui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/vsariola/cave/window"
)

type (
	// Opener creates editor surfaces. Implemented by the window layer; the
	// frame callback is registered with the opener once, at construction.
	Opener interface {
		Open(parent window.Handle, size window.Size) (Surface, error)
	}

	// Surface is a live editor window.
	Surface interface {
		Close() error
	}

	// Finisher is implemented by surfaces that can go away on their own, for
	// example when the user closes a top-level editor window. A surface whose
	// Done channel is closed counts as closed.
	Finisher interface {
		Done() <-chan struct{}
	}

	// Controller is the state machine between the host's GUI calls and the
	// editor window: NoParent until the host records a parent handle, then
	// Closed or Open. All methods may be called from the host main thread and
	// the UI thread; the audio thread never touches the controller.
	Controller struct {
		mu        sync.Mutex
		opener    Opener
		size      window.Size
		parent    window.Handle
		hasParent bool
		surface   Surface
		destroyed bool
		logger    *slog.Logger
	}

	State int
)

const (
	NoParent State = iota
	Closed
	Open
)

func NewController(opener Opener, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		opener: opener,
		size:   window.DefaultSize,
		logger: logger.With("module", "gui"),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

func (c *Controller) state() State {
	c.pruneLocked()
	switch {
	case c.surface != nil:
		return Open
	case c.hasParent:
		return Closed
	default:
		return NoParent
	}
}

func (c *Controller) pruneLocked() {
	f, ok := c.surface.(Finisher)
	if !ok {
		return
	}
	select {
	case <-f.Done():
		c.surface = nil
		c.logger.Debug("editor went away on its own")
	default:
	}
}

// Parent returns the recorded parent handle, if any.
func (c *Controller) Parent() (window.Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parent, c.hasParent
}

// SetParent records the parent handle and opens the editor in it. Repeated
// calls while the editor is open only record the handle, unless the new handle
// cannot host the editor: then the open surface is closed and
// ErrUnsupportedHandle returned.
func (c *Controller) SetParent(h window.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	c.logger.Debug("set parent", "handle", h, "state", c.state())
	c.parent, c.hasParent = h, true
	c.pruneLocked()
	if c.surface != nil {
		if !h.API.Embeddable() {
			c.closeLocked()
			return fmt.Errorf("%w (%s)", ErrUnsupportedHandle, h.API)
		}
		return nil
	}
	return c.openLocked()
}

// Open creates the editor surface in the recorded parent window. Opening an
// open editor does nothing.
func (c *Controller) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openLocked()
}

// Show opens the editor unless it is already open.
func (c *Controller) Show() error {
	return c.Open()
}

func (c *Controller) openLocked() error {
	if c.destroyed {
		return ErrDestroyed
	}
	if !c.hasParent {
		return ErrConfiguration
	}
	c.pruneLocked()
	if c.surface != nil {
		return nil
	}
	if !c.parent.API.Embeddable() {
		c.logger.Warn("refusing parent handle", "handle", c.parent)
		return fmt.Errorf("%w (%s)", ErrUnsupportedHandle, c.parent.API)
	}
	s, err := c.opener.Open(c.parent, c.size)
	if err != nil {
		c.logger.Error("opening editor failed", "handle", c.parent, "err", err)
		return &PlatformError{Op: "open", Err: err}
	}
	if s == nil {
		return &PlatformError{Op: "open", Err: fmt.Errorf("window layer returned no surface")}
	}
	c.surface = s
	c.logger.Debug("editor open", "handle", c.parent, "size", c.size)
	return nil
}

// Hide closes the editor surface; the parent handle stays recorded.
func (c *Controller) Hide() {
	c.Close()
}

// Close releases the editor surface. Safe in any state, any number of times.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Controller) closeLocked() {
	s := c.surface
	if s == nil {
		return
	}
	// cleared before release, so nothing can reach a closing surface
	c.surface = nil
	if err := s.Close(); err != nil {
		c.logger.Warn("closing editor failed", "err", err)
	}
	c.logger.Debug("editor closed")
}

// Destroy closes the editor and forgets the parent. The controller cannot be
// used afterwards.
func (c *Controller) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	c.parent, c.hasParent = window.Handle{}, false
	c.destroyed = true
	c.logger.Debug("destroyed")
}

// Size returns the size the editor wants, in logical units.
func (c *Controller) Size() window.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// SetSize accepts the host's size only if it equals the fixed editor size.
func (c *Controller) SetSize(s window.Size) bool {
	return s == c.Size()
}

// SetScale is accepted and ignored: the window layer follows the system scale.
func (c *Controller) SetScale(scale float64) bool {
	c.logger.Debug("set scale", "scale", scale)
	return scale > 0
}

func (s State) String() string {
	switch s {
	case NoParent:
		return "no-parent"
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}
