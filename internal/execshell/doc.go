// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the typed failures findmods uses to
// tell a failing git invocation apart from a git binary that could not run.
package execshell
