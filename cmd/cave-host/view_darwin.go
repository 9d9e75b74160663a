//go:build darwin && !ios

package main

import (
	"gioui.org/app"

	"github.com/vsariola/cave/window"
)

func handleFromView(e app.ViewEvent) (window.Handle, bool) {
	if e, ok := e.(app.AppKitViewEvent); ok {
		return window.Handle{API: window.Cocoa, Ptr: e.View}, true
	}
	return window.Handle{}, false
}
