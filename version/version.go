// Package version reports the version of the build.
package version

import "runtime/debug"

// Version can be set at build time:
//
//	go build -ldflags "-X github.com/rollseq/rollseq/version.Version=$(git describe --dirty)" ./cmd/rollseq
var Version string

// Hash is the short VCS revision of the build, suffixed with -dirty if the
// working tree had local modifications.
var Hash = vcsHash()

// VersionOrHash is Version if it was set, otherwise Hash.
var VersionOrHash = orHash(Version, Hash)

func vcsHash() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return hashOf(info.Settings)
}

func hashOf(settings []debug.BuildSetting) string {
	var revision string
	modified := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		return revision + "-dirty"
	}
	return revision
}

func orHash(version, hash string) string {
	if version != "" {
		return version
	}
	return hash
}
