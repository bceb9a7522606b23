package doctran

// Name is the project name.
const Name = "doctran"

// Version is the current release version.
const Version = "0.3.0"

// Build-time variables (overridden with ldflags).
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)
