// Package scan walks a directory tree, checks every discovered checkout for
// modifications with the selected strategy and prints the modified directories.
//
// The package exposes a Service that performs the scan and a CommandBuilder that
// wraps it in a cobra command. Collaborators default to the filesystem walker,
// the git-backed opener and the default diff policy, and can be replaced in tests.
package scan
