package window

// PreferredAPI returns the window-system API the editor embeds into. On Linux
// this is X11, also under XWayland.
func PreferredAPI() API { return X11 }
