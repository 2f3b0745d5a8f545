// Package version resolves the version string the abcfmt -v flag prints.
package version

import "runtime/debug"

// Version can be set at build time:
// go build -ldflags "-X github.com/AntoineBalaine/abcfmt/version.Version=$(git describe --dirty)"
var Version string

// VersionOrHash is the explicit build-time version when set, otherwise the
// short vcs revision baked into the build info, with a -dirty suffix for
// modified trees.
var VersionOrHash = resolve()

func resolve() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var hash, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			hash = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if len(hash) < 7 {
		return ""
	}
	if modified == "true" {
		return hash[:7] + "-dirty"
	}
	return hash[:7]
}
