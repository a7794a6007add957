// Package version holds build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/kailas-cloud/sitesearch/internal/version.Version=v1.4.0"
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// BuildStatus renders the plain-text body of GET /build-status.
func BuildStatus() string {
	return fmt.Sprintf("version: %s\ncommit: %s\ndate: %s\n", Version, Commit, Date)
}
