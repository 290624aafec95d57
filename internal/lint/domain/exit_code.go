package domain

// Process exit codes. Any other value is the analysis tool's own status.
const (
	ExitSuccess = 0
	ExitFailure = 1
	// ExitNeutral tells the CI platform the run was skipped, not failed.
	ExitNeutral = 78
)
