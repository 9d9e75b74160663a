package gui

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when the host asks for an editor before
	// telling where to put it, i.e. open without a recorded parent handle.
	ErrConfiguration = errors.New("gui: no parent window handle")

	// ErrDestroyed is returned by lifecycle calls made after Destroy.
	ErrDestroyed = fmt.Errorf("%w: controller destroyed", ErrConfiguration)

	// ErrUnsupportedHandle is returned when the parent handle belongs to a
	// window system the editor cannot embed into, e.g. a Wayland surface.
	ErrUnsupportedHandle = errors.New("gui: parent window handle cannot host an embedded editor")
)

// PlatformError wraps a failure reported by the window layer.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("gui: %s: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }
