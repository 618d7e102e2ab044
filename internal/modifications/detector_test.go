package modifications_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/findmods/internal/execshell"
	"github.com/temirov/findmods/internal/modifications"
)

const (
	testWorkTreePathConstant   = "/workspace/repo"
	testIndexDiffKeyConstant   = "diff --no-ext-diff --no-textconv --no-color --no-renames --name-status -z --ignore-submodules=all"
	testStatusKeyConstant      = "status --porcelain=v1 -z --untracked-files=no --ignored=no --ignore-submodules=all"
	testRevParseKeyConstant    = "rev-parse --verify --quiet HEAD"
	testHeadRevisionConstant   = "0123abcd"
	testPeelKeyConstant        = "rev-parse --verify " + testHeadRevisionConstant + "^{commit}"
	testTreeDiffKeyConstant    = testIndexDiffKeyConstant + " " + testHeadRevisionConstant + " --"
	testUnreadableFileConstant = "secret.txt"
)

type stubOutcome struct {
	result execshell.ExecutionResult
	err    error
}

type stubRepository struct {
	outcomes         map[string]stubOutcome
	executedCommands []string
}

func (repository *stubRepository) WorkTreePath() string {
	return testWorkTreePathConstant
}

func (repository *stubRepository) ExecuteGit(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error) {
	key := strings.Join(arguments, " ")
	repository.executedCommands = append(repository.executedCommands, key)
	outcome, found := repository.outcomes[key]
	if !found {
		return execshell.ExecutionResult{}, fmt.Errorf("unexpected git command: %s", key)
	}
	return outcome.result, outcome.err
}

func failedCommand(arguments string, exitCode int, standardError string) error {
	return execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: strings.Fields(arguments)}},
		Result:  execshell.ExecutionResult{ExitCode: exitCode, StandardError: standardError},
	}
}

func TestDetectorHasModifications(testInstance *testing.T) {
	resolvedHead := stubOutcome{result: execshell.ExecutionResult{StandardOutput: testHeadRevisionConstant + "\n"}}

	testCases := []struct {
		name             string
		strategy         modifications.Strategy
		outcomes         map[string]stubOutcome
		expectedModified bool
		expectedCommands []string
	}{
		{
			name:             "index_clean",
			strategy:         modifications.StrategyIndexDiff,
			outcomes:         map[string]stubOutcome{testIndexDiffKeyConstant: {}},
			expectedModified: false,
			expectedCommands: []string{testIndexDiffKeyConstant},
		},
		{
			name:     "index_modified",
			strategy: modifications.StrategyIndexDiff,
			outcomes: map[string]stubOutcome{
				testIndexDiffKeyConstant: {result: execshell.ExecutionResult{StandardOutput: "M\x00README.md\x00"}},
			},
			expectedModified: true,
			expectedCommands: []string{testIndexDiffKeyConstant},
		},
		{
			name:     "index_type_change_only",
			strategy: modifications.StrategyIndexDiff,
			outcomes: map[string]stubOutcome{
				testIndexDiffKeyConstant: {result: execshell.ExecutionResult{StandardOutput: "T\x00link\x00"}},
			},
			expectedModified: false,
			expectedCommands: []string{testIndexDiffKeyConstant},
		},
		{
			name:     "status_staged_addition",
			strategy: modifications.StrategyStatusScan,
			outcomes: map[string]stubOutcome{
				testStatusKeyConstant: {result: execshell.ExecutionResult{StandardOutput: "A  new.txt\x00"}},
			},
			expectedModified: true,
			expectedCommands: []string{testStatusKeyConstant},
		},
		{
			name:     "status_type_change_only",
			strategy: modifications.StrategyStatusScan,
			outcomes: map[string]stubOutcome{
				testStatusKeyConstant: {result: execshell.ExecutionResult{StandardOutput: " T link\x00"}},
			},
			expectedModified: false,
			expectedCommands: []string{testStatusKeyConstant},
		},
		{
			name:     "status_unreadable_file_excluded",
			strategy: modifications.StrategyStatusScan,
			outcomes: map[string]stubOutcome{
				testStatusKeyConstant: {result: execshell.ExecutionResult{StandardOutput: " M " + testUnreadableFileConstant + "\x00"}},
			},
			expectedModified: false,
			expectedCommands: []string{testStatusKeyConstant},
		},
		{
			name:     "status_worktree_deletion",
			strategy: modifications.StrategyStatusScan,
			outcomes: map[string]stubOutcome{
				testStatusKeyConstant: {result: execshell.ExecutionResult{StandardOutput: " D " + testUnreadableFileConstant + "\x00"}},
			},
			expectedModified: true,
			expectedCommands: []string{testStatusKeyConstant},
		},
		{
			name:     "tree_modified",
			strategy: modifications.StrategyTreeDiff,
			outcomes: map[string]stubOutcome{
				testRevParseKeyConstant: resolvedHead,
				testPeelKeyConstant:     resolvedHead,
				testTreeDiffKeyConstant: {result: execshell.ExecutionResult{StandardOutput: "A\x00staged.txt\x00"}},
			},
			expectedModified: true,
			expectedCommands: []string{testRevParseKeyConstant, testPeelKeyConstant, testTreeDiffKeyConstant},
		},
		{
			name:     "tree_without_commits",
			strategy: modifications.StrategyTreeDiff,
			outcomes: map[string]stubOutcome{
				testRevParseKeyConstant: {err: failedCommand(testRevParseKeyConstant, 1, "")},
			},
			expectedModified: false,
			expectedCommands: []string{testRevParseKeyConstant},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repository := &stubRepository{outcomes: testCase.outcomes}
			detector := modifications.NewDetectorWithReadabilityChecker(modifications.DefaultDiffPolicy(), func(path string) bool {
				return path != filepath.Join(testWorkTreePathConstant, testUnreadableFileConstant)
			})

			hasModifications, detectionError := detector.HasModifications(context.Background(), repository, testCase.strategy)
			require.NoError(testInstance, detectionError)
			require.Equal(testInstance, testCase.expectedModified, hasModifications)
			require.Equal(testInstance, testCase.expectedCommands, repository.executedCommands)
		})
	}
}

func TestDetectorSurfacesFailures(testInstance *testing.T) {
	runnerFailure := errors.New("executable file not found")

	testCases := []struct {
		name     string
		strategy modifications.Strategy
		outcomes map[string]stubOutcome
	}{
		{
			name:     "index_diff_failure",
			strategy: modifications.StrategyIndexDiff,
			outcomes: map[string]stubOutcome{testIndexDiffKeyConstant: {err: failedCommand(testIndexDiffKeyConstant, 128, "fatal: index file corrupt")}},
		},
		{
			name:     "status_execution_failure",
			strategy: modifications.StrategyStatusScan,
			outcomes: map[string]stubOutcome{testStatusKeyConstant: {err: execshell.CommandExecutionError{Cause: runnerFailure}}},
		},
		{
			name:     "tree_resolution_fatal",
			strategy: modifications.StrategyTreeDiff,
			outcomes: map[string]stubOutcome{testRevParseKeyConstant: {err: failedCommand(testRevParseKeyConstant, 128, "fatal: bad object HEAD")}},
		},
		{
			name:     "tree_empty_revision",
			strategy: modifications.StrategyTreeDiff,
			outcomes: map[string]stubOutcome{testRevParseKeyConstant: {}},
		},
		{
			name:     "tree_head_names_missing_object",
			strategy: modifications.StrategyTreeDiff,
			outcomes: map[string]stubOutcome{
				testRevParseKeyConstant: {result: execshell.ExecutionResult{StandardOutput: testHeadRevisionConstant}},
				testPeelKeyConstant:     {err: failedCommand(testPeelKeyConstant, 128, "fatal: Needed a single revision")},
			},
		},
		{
			name:     "tree_diff_failure",
			strategy: modifications.StrategyTreeDiff,
			outcomes: map[string]stubOutcome{
				testRevParseKeyConstant: {result: execshell.ExecutionResult{StandardOutput: testHeadRevisionConstant}},
				testPeelKeyConstant:     {result: execshell.ExecutionResult{StandardOutput: testHeadRevisionConstant}},
				testTreeDiffKeyConstant: {err: failedCommand(testTreeDiffKeyConstant, 128, "fatal: unable to read tree")},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			detector := modifications.NewDetector(modifications.DefaultDiffPolicy())
			hasModifications, detectionError := detector.HasModifications(context.Background(), &stubRepository{outcomes: testCase.outcomes}, testCase.strategy)
			require.False(testInstance, hasModifications)

			var typedDetectionError modifications.DetectionError
			require.ErrorAs(testInstance, detectionError, &typedDetectionError)
			require.Equal(testInstance, testCase.strategy, typedDetectionError.Strategy)
		})
	}
}

func TestDetectorRejectsUnknownStrategy(testInstance *testing.T) {
	detector := modifications.NewDetector(modifications.DefaultDiffPolicy())
	_, detectionError := detector.HasModifications(context.Background(), &stubRepository{}, modifications.Strategy(7))
	var unknownStrategyError modifications.UnknownStrategyError
	require.ErrorAs(testInstance, detectionError, &unknownStrategyError)
}
