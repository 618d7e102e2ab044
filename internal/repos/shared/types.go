package shared

import (
	"context"
	"iter"

	"github.com/temirov/findmods/internal/execshell"
	"github.com/temirov/findmods/internal/modifications"
	"github.com/temirov/findmods/internal/repos/discovery"
)

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// DirectoryWalker enumerates the entries beneath a root directory.
type DirectoryWalker interface {
	Entries(root string) iter.Seq[discovery.WalkEntry]
}

// RepositoryHandle is an opened checkout owned by a single check.
type RepositoryHandle interface {
	modifications.Repository
	Close() error
}

// RepositoryOpener opens the checkout described by a metadata marker path.
type RepositoryOpener interface {
	Open(executionContext context.Context, metadataPath string) (RepositoryHandle, error)
}

// ModificationDetector decides whether an opened checkout has modifications.
type ModificationDetector interface {
	HasModifications(executionContext context.Context, repository modifications.Repository, strategy modifications.Strategy) (bool, error)
}
