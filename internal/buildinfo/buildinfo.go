// Package buildinfo carries the beacon firmware version.
package buildinfo

import "runtime/debug"

// Set at build time via -ldflags "-X timebeacon/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func init() {
	if Commit != "unknown" {
		return
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) > 12 {
				s.Value = s.Value[:12]
			}
			Commit = s.Value
		case "vcs.time":
			Date = s.Value
		}
	}
}

// Short returns a compact identifier for the window title and logs.
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		return Commit
	}
	return "dev"
}

// String returns the full version line printed by -version.
func String() string {
	return "timebeacon " + Short() + " (" + Commit + ", " + Date + ")"
}
