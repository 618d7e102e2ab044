package dependencies

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/findmods/internal/execshell"
	"github.com/temirov/findmods/internal/gitrepo"
	"github.com/temirov/findmods/internal/modifications"
	"github.com/temirov/findmods/internal/repos/discovery"
	"github.com/temirov/findmods/internal/repos/shared"
)

// ResolveDirectoryWalker returns the provided walker or a filesystem-backed default.
func ResolveDirectoryWalker(existing shared.DirectoryWalker) shared.DirectoryWalker {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemWalker()
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryOpener returns the provided opener or constructs one from the executor.
func ResolveRepositoryOpener(existing shared.RepositoryOpener, executor shared.GitExecutor) (shared.RepositoryOpener, error) {
	if existing != nil {
		return existing, nil
	}

	opener, creationError := gitrepo.NewOpener(executor)
	if creationError != nil {
		return nil, creationError
	}
	return repositoryOpener{opener: opener}, nil
}

// ResolveModificationDetector returns the provided detector or one applying the default policy.
func ResolveModificationDetector(existing shared.ModificationDetector) shared.ModificationDetector {
	if existing != nil {
		return existing
	}
	return modifications.NewDetector(modifications.DefaultDiffPolicy())
}

type repositoryOpener struct {
	opener *gitrepo.Opener
}

func (adapter repositoryOpener) Open(executionContext context.Context, metadataPath string) (shared.RepositoryHandle, error) {
	repository, openError := adapter.opener.Open(executionContext, metadataPath)
	if openError != nil {
		return nil, openError
	}
	return repository, nil
}
