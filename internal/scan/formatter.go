package scan

import (
	"path/filepath"
	"strings"
)

const (
	currentDirectoryConstant       = "."
	currentDirectoryPrefixConstant = "." + string(filepath.Separator)
)

// FormatRepositoryPath renders the directory that owns a metadata marker for output.
func FormatRepositoryPath(markerPath string) string {
	return FormatDirectoryName(parentPath(markerPath))
}

// FormatDirectoryName renders a directory path relative to the walk root: an empty
// path or "." becomes "." and a leading "./" is removed.
func FormatDirectoryName(directoryPath string) string {
	if len(directoryPath) == 0 || directoryPath == currentDirectoryConstant {
		return currentDirectoryConstant
	}
	return strings.TrimPrefix(directoryPath, currentDirectoryPrefixConstant)
}

// parentPath drops the final path component without cleaning what remains.
func parentPath(path string) string {
	separatorIndex := strings.LastIndex(path, string(filepath.Separator))
	if separatorIndex < 0 {
		return ""
	}
	return path[:separatorIndex]
}
