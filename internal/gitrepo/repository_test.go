package gitrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/findmods/internal/execshell"
	"github.com/temirov/findmods/internal/gitrepo"
	"github.com/temirov/findmods/internal/testsupport"
)

const testMetadataDirectoryNameConstant = ".git"

type recordingExecutor struct {
	result   execshell.ExecutionResult
	err      error
	recorded []execshell.CommandDetails
}

func (executor *recordingExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recorded = append(executor.recorded, details)
	return executor.result, executor.err
}

func TestNewOpenerRequiresExecutor(testInstance *testing.T) {
	opener, openerError := gitrepo.NewOpener(nil)
	require.Nil(testInstance, opener)
	require.ErrorIs(testInstance, openerError, gitrepo.ErrExecutorNotConfigured)
}

func TestOpenScopesCommandsToMarker(testInstance *testing.T) {
	workTreePath := testInstance.TempDir()
	metadataPath := filepath.Join(workTreePath, testMetadataDirectoryNameConstant)

	executor := &recordingExecutor{result: execshell.ExecutionResult{StandardOutput: "true\n"}}
	opener, openerError := gitrepo.NewOpener(executor)
	require.NoError(testInstance, openerError)

	repository, openError := opener.Open(context.Background(), metadataPath)
	require.NoError(testInstance, openError)
	require.Equal(testInstance, workTreePath, repository.WorkTreePath())

	_, executionError := repository.ExecuteGit(context.Background(), "status")
	require.NoError(testInstance, executionError)

	require.Len(testInstance, executor.recorded, 2)
	require.Equal(testInstance, []string{"rev-parse", "--is-inside-work-tree"}, executor.recorded[0].Arguments)
	for _, details := range executor.recorded {
		require.Equal(testInstance, workTreePath, details.WorkingDirectory)
		require.Equal(testInstance, map[string]string{
			"GIT_DIR":            metadataPath,
			"GIT_WORK_TREE":      workTreePath,
			"GIT_OPTIONAL_LOCKS": "0",
		}, details.EnvironmentVariables)
		require.Subset(testInstance, details.RemovedEnvironmentVariables, []string{"GIT_INDEX_FILE", "GIT_OBJECT_DIRECTORY", "GIT_COMMON_DIR", "GIT_NAMESPACE"})
	}
}

func TestOpenFailures(testInstance *testing.T) {
	testCases := []struct {
		name     string
		executor *recordingExecutor
	}{
		{
			name: "command_failed",
			executor: &recordingExecutor{err: execshell.CommandFailedError{
				Result: execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository"},
			}},
		},
		{
			name:     "not_a_work_tree",
			executor: &recordingExecutor{result: execshell.ExecutionResult{StandardOutput: "false\n"}},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			opener, openerError := gitrepo.NewOpener(testCase.executor)
			require.NoError(testInstance, openerError)

			metadataPath := filepath.Join(testInstance.TempDir(), testMetadataDirectoryNameConstant)
			repository, openError := opener.Open(context.Background(), metadataPath)
			require.Nil(testInstance, repository)

			var typedOpenError gitrepo.OpenError
			require.ErrorAs(testInstance, openError, &typedOpenError)
			require.Equal(testInstance, metadataPath, typedOpenError.MetadataPath)
		})
	}
}

func TestRepositoryRejectsUseAfterClose(testInstance *testing.T) {
	executor := &recordingExecutor{result: execshell.ExecutionResult{StandardOutput: "true"}}
	opener, openerError := gitrepo.NewOpener(executor)
	require.NoError(testInstance, openerError)

	repository, openError := opener.Open(context.Background(), filepath.Join(testInstance.TempDir(), testMetadataDirectoryNameConstant))
	require.NoError(testInstance, openError)

	require.NoError(testInstance, repository.Close())
	require.NoError(testInstance, repository.Close())

	_, executionError := repository.ExecuteGit(context.Background(), "status")
	require.ErrorIs(testInstance, executionError, gitrepo.ErrRepositoryClosed)
}

func TestOpenAgainstRealStores(testInstance *testing.T) {
	testsupport.RequireGit(testInstance)

	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)
	opener, openerError := gitrepo.NewOpener(shellExecutor)
	require.NoError(testInstance, openerError)

	testInstance.Run("initialized_repository", func(testInstance *testing.T) {
		fixture := testsupport.NewGitRepository(testInstance, filepath.Join(testInstance.TempDir(), "valid"))
		repository, openError := opener.Open(context.Background(), filepath.Join(fixture.Path, testMetadataDirectoryNameConstant))
		require.NoError(testInstance, openError)
		require.NoError(testInstance, repository.Close())
	})

	testInstance.Run("empty_metadata_directory", func(testInstance *testing.T) {
		workTreePath := filepath.Join(testInstance.TempDir(), "broken")
		require.NoError(testInstance, os.MkdirAll(filepath.Join(workTreePath, testMetadataDirectoryNameConstant), 0o755))

		_, openError := opener.Open(context.Background(), filepath.Join(workTreePath, testMetadataDirectoryNameConstant))
		var typedOpenError gitrepo.OpenError
		require.ErrorAs(testInstance, openError, &typedOpenError)
	})
}

func TestRepositoryIgnoresInheritedIndexOverride(testInstance *testing.T) {
	testsupport.RequireGit(testInstance)

	workspace := testInstance.TempDir()
	checked := testsupport.NewGitRepository(testInstance, filepath.Join(workspace, "checked"))
	checked.WriteFile("README.md", "checked\n")
	checked.CommitAll("initial")

	hook := testsupport.NewGitRepository(testInstance, filepath.Join(workspace, "hook"))
	hook.WriteFile("README.md", "hook\n")
	hook.WriteFile("hook.txt", "hook\n")
	hook.CommitAll("initial")

	testInstance.Setenv("GIT_INDEX_FILE", filepath.Join(hook.Path, testMetadataDirectoryNameConstant, "index"))
	testInstance.Setenv("GIT_OBJECT_DIRECTORY", filepath.Join(hook.Path, testMetadataDirectoryNameConstant, "objects"))

	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)
	opener, openerError := gitrepo.NewOpener(shellExecutor)
	require.NoError(testInstance, openerError)

	repository, openError := opener.Open(context.Background(), filepath.Join(checked.Path, testMetadataDirectoryNameConstant))
	require.NoError(testInstance, openError)
	defer repository.Close()

	executionResult, executionError := repository.ExecuteGit(context.Background(), "diff", "--name-only")
	require.NoError(testInstance, executionError)
	require.Empty(testInstance, executionResult.StandardOutput)

	executionResult, executionError = repository.ExecuteGit(context.Background(), "ls-files")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "README.md\n", executionResult.StandardOutput)
}
