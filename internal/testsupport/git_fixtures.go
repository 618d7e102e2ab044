package testsupport

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	gitExecutableNameConstant        = "git"
	gitMissingSkipMessageConstant    = "git executable not available"
	fixtureDirectoryPermissions      = 0o755
	fixtureFilePermissions           = 0o644
	fixtureAuthorNameConstant        = "Findmods Fixture"
	fixtureAuthorEmailConstant       = "fixture@example.com"
	fixtureDefaultBranchConstant     = "main"
	fixtureHomeDirectoryNameConstant = ".fixture-home"
)

// RequireGit skips the calling test when git is not installed.
func RequireGit(testInstance *testing.T) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(gitExecutableNameConstant); lookupError != nil {
		testInstance.Skip(gitMissingSkipMessageConstant)
	}
}

// GitRepository is a working tree created for a single test.
type GitRepository struct {
	Path          string
	testInstance  *testing.T
	homeDirectory string
}

// NewGitRepository initializes an empty repository at path, creating parent directories.
func NewGitRepository(testInstance *testing.T, path string) *GitRepository {
	testInstance.Helper()
	RequireGit(testInstance)

	require.NoError(testInstance, os.MkdirAll(path, fixtureDirectoryPermissions))

	homeDirectory := filepath.Join(testInstance.TempDir(), fixtureHomeDirectoryNameConstant)
	require.NoError(testInstance, os.MkdirAll(homeDirectory, fixtureDirectoryPermissions))

	repository := &GitRepository{Path: path, testInstance: testInstance, homeDirectory: homeDirectory}
	repository.Git("init", "-q", "-b", fixtureDefaultBranchConstant)
	repository.Git("config", "commit.gpgsign", "false")
	repository.Git("config", "core.autocrlf", "false")
	return repository
}

// WriteFile writes content to a path relative to the working tree.
func (repository *GitRepository) WriteFile(relativePath string, content string) {
	repository.testInstance.Helper()
	absolutePath := filepath.Join(repository.Path, relativePath)
	require.NoError(repository.testInstance, os.MkdirAll(filepath.Dir(absolutePath), fixtureDirectoryPermissions))
	require.NoError(repository.testInstance, os.WriteFile(absolutePath, []byte(content), fixtureFilePermissions))
}

// CommitAll stages every change and records a commit.
func (repository *GitRepository) CommitAll(message string) {
	repository.testInstance.Helper()
	repository.Git("add", "-A")
	repository.Git("commit", "-q", "-m", message)
}

// Git runs git inside the working tree with an isolated configuration and returns trimmed output.
func (repository *GitRepository) Git(arguments ...string) string {
	repository.testInstance.Helper()
	command := exec.Command(gitExecutableNameConstant, arguments...)
	command.Dir = repository.Path
	command.Env = append(os.Environ(),
		"HOME="+repository.homeDirectory,
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_AUTHOR_NAME="+fixtureAuthorNameConstant,
		"GIT_AUTHOR_EMAIL="+fixtureAuthorEmailConstant,
		"GIT_COMMITTER_NAME="+fixtureAuthorNameConstant,
		"GIT_COMMITTER_EMAIL="+fixtureAuthorEmailConstant,
	)
	outputBytes, commandError := command.CombinedOutput()
	require.NoError(repository.testInstance, commandError, string(outputBytes))
	return string(bytes.TrimSpace(outputBytes))
}
