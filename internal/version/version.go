package version

// Set at build time with
// go build -ldflags "-X Flexura/internal/version.Version=1.2.0"
var (
	Version   = "0.3.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
