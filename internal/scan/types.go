package scan

import "github.com/temirov/findmods/internal/modifications"

const defaultRootPathConstant = "."

// Options configures a single scan.
type Options struct {
	Root     string
	Strategy modifications.Strategy
}

// Summary aggregates the outcome of a scan.
type Summary struct {
	ModifiedRepositories int
	CheckedRepositories  int
	FailedRepositories   int
}

// HasModifications reports whether at least one checkout was modified.
func (summary Summary) HasModifications() bool {
	return summary.ModifiedRepositories > 0
}

// UsageError reports invalid command-line usage together with the exit code it maps to.
type UsageError struct {
	ExitCode int
	Message  string
}

// Error returns the usage message.
func (usageError UsageError) Error() string {
	return usageError.Message
}
