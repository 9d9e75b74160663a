//go:build !linux && !windows && !darwin

package window

// PreferredAPI returns the window-system API the editor embeds into. The BSDs
// run X11.
func PreferredAPI() API { return X11 }
