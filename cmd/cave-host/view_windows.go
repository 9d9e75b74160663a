package main

import (
	"gioui.org/app"

	"github.com/vsariola/cave/window"
)

func handleFromView(e app.ViewEvent) (window.Handle, bool) {
	if e, ok := e.(app.Win32ViewEvent); ok {
		return window.Handle{API: window.Win32, Ptr: e.HWND}, true
	}
	return window.Handle{}, false
}
