package discovery

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

const gitMetadataDirectoryNameConstant = ".git"

// WalkEntry describes one filesystem entry produced by a walk.
type WalkEntry struct {
	Path        string
	Depth       int
	IsDirectory bool
}

// FilesystemWalker enumerates directory trees using filepath.WalkDir.
type FilesystemWalker struct{}

// NewFilesystemWalker constructs a walker backed by the operating system.
func NewFilesystemWalker() *FilesystemWalker {
	return &FilesystemWalker{}
}

// Entries lazily yields every entry beneath root, root included, in lexical
// depth-first order. Entries that cannot be read are dropped and the walk
// continues; a missing root yields nothing. Metadata marker directories are
// yielded but never descended into.
func (walker *FilesystemWalker) Entries(root string) iter.Seq[WalkEntry] {
	return func(yield func(WalkEntry) bool) {
		_ = filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				return nil
			}

			entry := WalkEntry{
				Path:        path,
				Depth:       depthBelow(root, path),
				IsDirectory: directoryEntry.IsDir(),
			}
			if !yield(entry) {
				return fs.SkipAll
			}

			if entry.IsDirectory && IsMetadataMarker(entry) {
				return fs.SkipDir
			}
			return nil
		})
	}
}

// IsMetadataMarker reports whether the entry's final path component is exactly ".git".
func IsMetadataMarker(entry WalkEntry) bool {
	return filepath.Base(entry.Path) == gitMetadataDirectoryNameConstant
}

func depthBelow(root string, path string) int {
	relativePath, relativeError := filepath.Rel(root, path)
	if relativeError != nil || relativePath == "." {
		return 0
	}
	return strings.Count(relativePath, string(filepath.Separator)) + 1
}
