// Package window describes the native window handles a host gives to the
// plugin editor, and which of them the editor can embed into.
package window

import "fmt"

type (
	// API is the window-system protocol a handle belongs to.
	API string

	// Handle is an opaque reference to a host-owned native window. Ptr is
	// the X11 window id, the HWND or the NSView pointer, depending on API.
	Handle struct {
		API API
		Ptr uintptr
	}

	// Size is a size in logical units; the host applies its own scaling.
	Size struct {
		Width  int
		Height int
	}
)

const (
	X11     API = "x11"
	Wayland API = "wayland"
	Win32   API = "win32"
	Cocoa   API = "cocoa"
)

// DefaultSize is the size the editor asks the host for.
var DefaultSize = Size{Width: 400, Height: 300}

// Desktop is the parent for hosts that have no window to offer the editor:
// the root window of the preferred API. An editor opened on it is a top-level
// window of its own.
func Desktop() Handle {
	return Handle{API: PreferredAPI()}
}

// Embeddable reports whether the editor can be embedded as a child of a
// window of this API on the current platform. Only the platform's preferred
// API is; in particular, Wayland has no protocol for foreign child surfaces.
func (a API) Embeddable() bool {
	return a == PreferredAPI()
}

// IsSupported reports whether the editor supports the given configuration.
// Floating (non-embedded) editor windows are never supported.
func IsSupported(api API, floating bool) bool {
	return !floating && api.Embeddable()
}

func (h Handle) IsZero() bool {
	return h == Handle{}
}

func (h Handle) String() string {
	if h.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s:%#x", h.API, h.Ptr)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
