package app

import "fmt"

// Version, Commit, and BuildTime are stamped with ldflags:
//
//	go build -ldflags "-X github.com/peerxp/peerxp-backend/internal/app.Version=1.0.0"
//
// Unstamped binaries report "dev", which is what local runs and tests see.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion renders the stamp for the startup log line and the /health
// payload.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
