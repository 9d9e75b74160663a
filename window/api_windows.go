package window

// PreferredAPI returns the window-system API the editor embeds into.
func PreferredAPI() API { return Win32 }
