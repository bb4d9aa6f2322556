package env

const AppName = "lmprobe"

// Overridden at build time via -ldflags.
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
