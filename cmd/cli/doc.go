// Package cli constructs the findmods command-line interface, wiring the cobra
// root command, environment configuration, and structured logging, and maps the
// scan outcome to the process exit status.
package cli
