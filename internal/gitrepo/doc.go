// Package gitrepo opens Git repositories discovered on disk.
//
// Opener validates the store behind a metadata marker and returns a Repository
// handle that pins every git invocation to that store. Handles are owned by a
// single check and must be closed when the check ends.
package gitrepo
