package gioui

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vsariola/cave/gui"
	"github.com/vsariola/cave/param"
	"github.com/vsariola/cave/window"
)

// fakeWindow stands in for a native window: events are fed by the test, and
// a close request turns into a DestroyEvent unless ignoreClose is set.
type fakeWindow struct {
	events      chan event.Event
	closes      atomic.Int32
	ignoreClose bool
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{events: make(chan event.Event, 8)}
}

func (f *fakeWindow) Event() event.Event { return <-f.events }

func (f *fakeWindow) Perform(actions system.Action) {
	if actions&system.ActionClose == 0 {
		return
	}
	f.closes.Add(1)
	if !f.ignoreClose {
		f.events <- app.DestroyEvent{}
	}
}

func testOpener(w *fakeWindow) *Opener {
	o := NewOpener(param.NewDefaultStore(), DefaultPreferences(), nil)
	o.newWindow = func(window.Size) eventSource { return w }
	o.openTimeout = 50 * time.Millisecond
	o.closeTimeout = 50 * time.Millisecond
	return o
}

var testParent = window.Handle{API: window.PreferredAPI(), Ptr: 1}

func TestOpenFailsWhenWindowNeverStarts(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	w := newFakeWindow()
	s, err := testOpener(w).Open(testParent, window.DefaultSize)
	assert.ErrorIs(t, err, ErrOpenTimeout)
	assert.Nil(t, s)
	assert.Equal(t, int32(1), w.closes.Load(), "the half-made window is asked to close")
}

func TestControllerStaysClosedWhenWindowNeverStarts(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	c := gui.NewController(testOpener(newFakeWindow()), nil)
	err := c.SetParent(testParent)
	var perr *gui.PlatformError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, ErrOpenTimeout)
	assert.Equal(t, gui.Closed, c.State())
}

func TestOpenReportsDestroyBeforeFirstFrame(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	cause := errors.New("no display")
	w := newFakeWindow()
	w.events <- app.DestroyEvent{Err: cause}
	_, err := testOpener(w).Open(testParent, window.DefaultSize)
	assert.ErrorIs(t, err, cause)
}

func TestOpenFailsWhenClosedBeforeShown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	w := newFakeWindow()
	w.events <- app.DestroyEvent{}
	_, err := testOpener(w).Open(testParent, window.DefaultSize)
	assert.ErrorIs(t, err, errClosedBeforeStart)
}

func TestCloseIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	w := newFakeWindow()
	w.events <- app.ConfigEvent{}
	s, err := testOpener(w).Open(testParent, window.DefaultSize)
	require.NoError(t, err)
	win := s.(*Window)
	select {
	case <-win.Done():
		t.Fatal("done before close")
	default:
	}
	assert.NoError(t, win.Close())
	assert.NoError(t, win.Close())
	assert.Equal(t, int32(1), w.closes.Load())
	assert.True(t, timeoutWait(win.Done(), time.Second))
}

func TestCloseTimesOut(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	w := newFakeWindow()
	w.ignoreClose = true
	w.events <- app.ConfigEvent{}
	s, err := testOpener(w).Open(testParent, window.DefaultSize)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Close(), ErrCloseTimeout)
	assert.ErrorIs(t, s.Close(), ErrCloseTimeout, "the first result is kept")
	w.events <- app.DestroyEvent{}
	assert.True(t, timeoutWait(s.(*Window).Done(), time.Second))
}

func TestWindowClosedByUserIsDone(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	w := newFakeWindow()
	w.events <- app.ConfigEvent{}
	c := gui.NewController(testOpener(w), nil)
	require.NoError(t, c.SetParent(testParent))
	require.Equal(t, gui.Open, c.State())
	w.events <- app.DestroyEvent{}
	assert.Eventually(t, func() bool { return c.State() == gui.Closed }, time.Second, 5*time.Millisecond)
}
