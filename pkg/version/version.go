// Package version exposes the build identity of the onefile binary.
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X onefile/pkg/version.Version=..." at release time;
// the defaults apply to a plain `go build`.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info is a snapshot of the build identity plus the toolchain and platform
// it was compiled for.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the single-line form printed by the version subcommand.
func (i Info) String() string {
	return fmt.Sprintf("onefile version %s (commit: %s) built at %s with %s on %s",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
