// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses the LoggerFactory, the environment-backed ConfigurationLoader, and
// LineWriter, which makes every output line visible as soon as it is written.
package utils
