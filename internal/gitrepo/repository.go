package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/findmods/internal/execshell"
)

const (
	gitDirectoryEnvironmentKeyConstant = "GIT_DIR"
	gitWorkTreeEnvironmentKeyConstant  = "GIT_WORK_TREE"
	gitOptionalLocksEnvironmentKey     = "GIT_OPTIONAL_LOCKS"
	gitOptionalLocksDisabledValue      = "0"
	gitRevParseSubcommandConstant      = "rev-parse"
	gitIsInsideWorkTreeFlagConstant    = "--is-inside-work-tree"
	gitWorkTreeConfirmationConstant    = "true"
	openErrorTemplateConstant          = "open repository %s: %v"
	absolutePathErrorTemplateConstant  = "resolve absolute path: %w"
	notWorkTreeErrorTemplateConstant   = "%s is not a working tree (rev-parse reported %q)"
)

// repositoryScopedEnvironmentKeys redirect git away from the store named by GIT_DIR.
// They are set by git for hooks and aliases and are never inherited by a check.
var repositoryScopedEnvironmentKeys = []string{
	"GIT_INDEX_FILE",
	"GIT_OBJECT_DIRECTORY",
	"GIT_ALTERNATE_OBJECT_DIRECTORIES",
	"GIT_COMMON_DIR",
	"GIT_NAMESPACE",
	"GIT_PREFIX",
}

var (
	// ErrExecutorNotConfigured indicates an Opener was constructed without a git executor.
	ErrExecutorNotConfigured = errors.New("git executor not configured")
	// ErrRepositoryClosed indicates a Repository was used after Close.
	ErrRepositoryClosed = errors.New("repository handle closed")
)

// GitExecutor exposes the subset of shell execution used by repository handles.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// OpenError reports a metadata marker whose store could not be opened.
type OpenError struct {
	MetadataPath string
	Cause        error
}

// Error describes the failed open.
func (openError OpenError) Error() string {
	return fmt.Sprintf(openErrorTemplateConstant, openError.MetadataPath, openError.Cause)
}

// Unwrap exposes the underlying cause.
func (openError OpenError) Unwrap() error {
	return openError.Cause
}

// Opener opens repositories from their metadata markers.
type Opener struct {
	executor GitExecutor
}

// NewOpener constructs an Opener backed by the provided executor.
func NewOpener(executor GitExecutor) (*Opener, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Opener{executor: executor}, nil
}

// Open validates the store behind metadataPath and returns a handle rooted at
// the marker's parent directory.
func (opener *Opener) Open(executionContext context.Context, metadataPath string) (*Repository, error) {
	absoluteMetadataPath, absoluteError := filepath.Abs(metadataPath)
	if absoluteError != nil {
		return nil, OpenError{MetadataPath: metadataPath, Cause: fmt.Errorf(absolutePathErrorTemplateConstant, absoluteError)}
	}

	repository := &Repository{
		metadataPath: absoluteMetadataPath,
		workTreePath: filepath.Dir(absoluteMetadataPath),
		executor:     opener.executor,
	}

	executionResult, executionError := repository.ExecuteGit(executionContext, gitRevParseSubcommandConstant, gitIsInsideWorkTreeFlagConstant)
	if executionError != nil {
		return nil, OpenError{MetadataPath: metadataPath, Cause: executionError}
	}

	confirmation := strings.TrimSpace(executionResult.StandardOutput)
	if confirmation != gitWorkTreeConfirmationConstant {
		return nil, OpenError{MetadataPath: metadataPath, Cause: fmt.Errorf(notWorkTreeErrorTemplateConstant, repository.workTreePath, confirmation)}
	}

	return repository, nil
}

// Repository is an opened working tree. It is not safe for concurrent use.
type Repository struct {
	metadataPath string
	workTreePath string
	executor     GitExecutor
	closed       bool
}

// WorkTreePath returns the absolute path of the working directory.
func (repository *Repository) WorkTreePath() string {
	return repository.workTreePath
}

// ExecuteGit runs git against this repository's store and working tree.
func (repository *Repository) ExecuteGit(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error) {
	if repository.closed {
		return execshell.ExecutionResult{}, ErrRepositoryClosed
	}

	details := execshell.CommandDetails{
		Arguments:        append([]string{}, arguments...),
		WorkingDirectory: repository.workTreePath,
		EnvironmentVariables: map[string]string{
			gitDirectoryEnvironmentKeyConstant: repository.metadataPath,
			gitWorkTreeEnvironmentKeyConstant:  repository.workTreePath,
			gitOptionalLocksEnvironmentKey:     gitOptionalLocksDisabledValue,
		},
		RemovedEnvironmentVariables: append([]string{}, repositoryScopedEnvironmentKeys...),
	}
	return repository.executor.ExecuteGit(executionContext, details)
}

// Close releases the handle. Closing twice is a no-op.
func (repository *Repository) Close() error {
	repository.closed = true
	repository.executor = nil
	return nil
}
