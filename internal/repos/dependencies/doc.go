// Package dependencies resolves the default collaborators used by the scan command.
package dependencies
