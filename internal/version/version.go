package version

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/docimages/internal/version.Version=v1.0.1".
var Version = "1.0.1"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// UserAgent returns the HTTP user agent used for remote image downloads.
func UserAgent() string {
	return "docimages/" + Version
}
