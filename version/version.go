// Package version reports which build of Cave is running.
package version

import (
	"runtime/debug"
	"strings"
)

// Version can be set at build time with
// go build -ldflags "-X github.com/vsariola/cave/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision the binary was built from, with a -dirty
// suffix for modified trees, or empty when unknown.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return hashFromSettings(info.Settings)
}()

// VersionOrHash is what the plugin reports to hosts.
var VersionOrHash = func() string {
	switch {
	case Version != "":
		return Version
	case Hash != "":
		return Hash
	default:
		return "dev"
	}
}()

func hashFromSettings(settings []debug.BuildSetting) string {
	var rev string
	modified := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if rev == "" {
		return ""
	}
	rev = rev[:min(len(rev), 7)]
	if modified {
		return rev + "-dirty"
	}
	return rev
}

// UserAgent is the identification written to the log at startup.
func UserAgent() string {
	var b strings.Builder
	b.WriteString("cave/")
	b.WriteString(VersionOrHash)
	if info, ok := debug.ReadBuildInfo(); ok && info.GoVersion != "" {
		b.WriteString(" (")
		b.WriteString(info.GoVersion)
		b.WriteString(")")
	}
	return b.String()
}
