package app

const ServiceName = "project-launchpad"

// Set via -ldflags during build:
//
//	go build -ldflags="-X 'project-launchpad/internal/app.Version=1.0.0'"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
