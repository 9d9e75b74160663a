package gioui

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/unit"

	"github.com/vsariola/cave/gui"
	"github.com/vsariola/cave/param"
	"github.com/vsariola/cave/window"
)

type (
	// Opener opens editor windows drawing the parameters of one store. It
	// implements gui.Opener.
	Opener struct {
		store        *param.Store
		prefs        atomic.Pointer[Preferences]
		logger       *slog.Logger
		newWindow    func(size window.Size) eventSource
		openTimeout  time.Duration
		closeTimeout time.Duration
	}

	// eventSource is the part of *app.Window the event loop needs.
	eventSource interface {
		Event() event.Event
		Perform(actions system.Action)
	}

	// Window is one editor window and the goroutine running its event loop.
	// It implements gui.Surface.
	Window struct {
		w            eventSource
		editor       *Editor
		started      chan error
		done         chan struct{}
		closeOnce    sync.Once
		closeErr     error
		closeTimeout time.Duration
		logger       *slog.Logger
	}
)

const (
	openTimeout  = 2 * time.Second
	closeTimeout = 2 * time.Second
)

var (
	ErrOpenTimeout  = errors.New("editor window did not start in time")
	ErrCloseTimeout = errors.New("editor window did not close in time")

	errClosedBeforeStart = errors.New("window closed before it was shown")
)

func NewOpener(store *param.Store, prefs Preferences, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := &Opener{
		store:        store,
		logger:       logger.With("module", "gioui"),
		newWindow:    newAppWindow,
		openTimeout:  openTimeout,
		closeTimeout: closeTimeout,
	}
	o.SetPreferences(prefs)
	return o
}

func (o *Opener) Preferences() Preferences { return *o.prefs.Load() }

// SetPreferences takes effect on the next frame of every open window.
func (o *Opener) SetPreferences(p Preferences) {
	p = p.clamped()
	o.prefs.Store(&p)
}

// NewEditor returns an editor sharing the opener's store and preferences.
func (o *Opener) NewEditor() *Editor {
	return NewEditor(o.store, &o.prefs)
}

// Open creates a fixed-size editor window. Gio creates its own top-level
// window, so the parent handle is only logged; the window follows the parent
// in lifetime through the controller. Open waits for the first window event so
// that a window that fails to come up is reported here and not as an open
// editor.
func (o *Opener) Open(parent window.Handle, size window.Size) (gui.Surface, error) {
	s := &Window{
		w:            o.newWindow(size),
		editor:       o.NewEditor(),
		started:      make(chan error, 1),
		done:         make(chan struct{}),
		closeTimeout: o.closeTimeout,
		logger:       o.logger,
	}
	go s.run()
	select {
	case err := <-s.started:
		if err != nil {
			return nil, fmt.Errorf("creating editor window: %w", err)
		}
	case <-time.After(o.openTimeout):
		s.w.Perform(system.ActionClose)
		o.logger.Error("editor window did not start", "parent", parent, "timeout", o.openTimeout)
		return nil, fmt.Errorf("%w (%v)", ErrOpenTimeout, o.openTimeout)
	}
	o.logger.Debug("editor window open", "parent", parent, "size", size)
	return s, nil
}

func newAppWindow(size window.Size) eventSource {
	w := new(app.Window)
	dp := func(v int) unit.Dp { return unit.Dp(v) }
	w.Option(
		app.Title("Cave"),
		app.Size(dp(size.Width), dp(size.Height)),
		app.MinSize(dp(size.Width), dp(size.Height)),
		app.MaxSize(dp(size.Width), dp(size.Height)),
	)
	return w
}

func (s *Window) run() {
	defer close(s.done)
	var ops op.Ops
	for {
		switch e := s.w.Event().(type) {
		case app.DestroyEvent:
			if e.Err != nil {
				s.logger.Error("editor window destroyed", "err", e.Err)
				trySend(s.started, e.Err)
			} else {
				// only seen by Open if no other event came first
				trySend(s.started, errClosedBeforeStart)
			}
			return
		case app.FrameEvent:
			trySend(s.started, nil)
			gtx := app.NewContext(&ops, e)
			s.editor.Layout(gtx)
			e.Frame(gtx.Ops)
		default:
			trySend(s.started, nil)
		}
	}
}

// Done is closed once the window's event loop has exited, whether the window
// was closed by Close or by the user.
func (s *Window) Done() <-chan struct{} { return s.done }

// Close asks the window to close and waits for its event loop to exit.
func (s *Window) Close() error {
	s.closeOnce.Do(func() {
		s.w.Perform(system.ActionClose)
		if !timeoutWait(s.done, s.closeTimeout) {
			s.closeErr = ErrCloseTimeout
		}
	})
	return s.closeErr
}

// trySend is a non-blocking send; it reports whether the value was sent.
func trySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// timeoutWait reports whether c was closed before the timeout.
func timeoutWait(c <-chan struct{}, t time.Duration) bool {
	select {
	case <-c:
		return true
	case <-time.After(t):
		return false
	}
}
