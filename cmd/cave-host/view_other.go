//go:build !((linux && !android) || freebsd || openbsd || windows || (darwin && !ios))

package main

import (
	"gioui.org/app"

	"github.com/vsariola/cave/window"
)

func handleFromView(app.ViewEvent) (window.Handle, bool) {
	return window.Handle{}, false
}
