//go:build (linux && !android) || freebsd || openbsd

package main

import (
	"gioui.org/app"

	"github.com/vsariola/cave/window"
)

func handleFromView(e app.ViewEvent) (window.Handle, bool) {
	switch e := e.(type) {
	case app.X11ViewEvent:
		return window.Handle{API: window.X11, Ptr: e.Window}, true
	case app.WaylandViewEvent:
		return window.Handle{API: window.Wayland, Ptr: uintptr(e.Surface)}, true
	}
	return window.Handle{}, false
}
