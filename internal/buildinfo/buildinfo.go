// Package buildinfo carries version data stamped at link time:
//
//	go build -ldflags "-X tmsopt/internal/buildinfo.Version=v1.2.3 -X tmsopt/internal/buildinfo.Commit=abc123"
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = ""
	BuiltAt = ""
)

func Info() map[string]string {
	info := map[string]string{
		"version": Version,
		"commit":  Commit,
		"builtAt": BuiltAt,
		"go":      runtime.Version(),
	}
	if info["commit"] == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info["commit"] = s.Value
				}
			}
		}
	}
	return info
}

// String is the one-line form printed by the version command.
func String() string {
	i := Info()
	s := "tmsopt " + i["version"]
	if i["commit"] != "" {
		s += " (" + i["commit"] + ")"
	}
	if i["builtAt"] != "" {
		s += " built " + i["builtAt"]
	}
	return s + " " + i["go"]
}
