package modifications

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/findmods/internal/execshell"
)

const (
	gitDiffSubcommandConstant          = "diff"
	gitStatusSubcommandConstant        = "status"
	gitRevParseSubcommandConstant      = "rev-parse"
	gitVerifyFlagConstant              = "--verify"
	gitQuietFlagConstant               = "--quiet"
	gitHeadRevisionConstant            = "HEAD"
	gitCommitPeelTemplateConstant      = "%s^{commit}"
	gitPathspecSeparatorConstant       = "--"
	unresolvedRevisionExitCodeConstant = 1
	detectionErrorTemplateConstant     = "%s strategy: %v"
	emptyRevisionMessageConstant       = "HEAD resolved to an empty revision"
	unresolvedCommitTemplateConstant   = "HEAD names %s, which is not a readable commit: %w"
)

// Repository is the subset of an opened repository used for detection.
type Repository interface {
	WorkTreePath() string
	ExecuteGit(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error)
}

// DetectionError reports a strategy that could not produce an answer.
type DetectionError struct {
	Strategy Strategy
	Cause    error
}

// Error describes the failed detection.
func (detectionError DetectionError) Error() string {
	return fmt.Sprintf(detectionErrorTemplateConstant, detectionError.Strategy, detectionError.Cause)
}

// Unwrap exposes the underlying cause.
func (detectionError DetectionError) Unwrap() error {
	return detectionError.Cause
}

// FileReadabilityChecker reports whether a working tree file can be read.
type FileReadabilityChecker func(path string) bool

// Detector answers whether a repository has modifications.
type Detector struct {
	policy       DiffPolicy
	fileReadable FileReadabilityChecker
}

// NewDetector constructs a Detector applying policy to every strategy.
func NewDetector(policy DiffPolicy) *Detector {
	return &Detector{policy: policy, fileReadable: isFileReadable}
}

// NewDetectorWithReadabilityChecker constructs a Detector with a custom readability probe.
func NewDetectorWithReadabilityChecker(policy DiffPolicy, fileReadable FileReadabilityChecker) *Detector {
	if fileReadable == nil {
		fileReadable = isFileReadable
	}
	return &Detector{policy: policy, fileReadable: fileReadable}
}

// HasModifications runs the selected strategy against the repository.
func (detector *Detector) HasModifications(executionContext context.Context, repository Repository, strategy Strategy) (bool, error) {
	var hasModifications bool
	var detectionError error

	switch strategy {
	case StrategyIndexDiff:
		hasModifications, detectionError = detector.compareIndex(executionContext, repository)
	case StrategyStatusScan:
		hasModifications, detectionError = detector.scanStatus(executionContext, repository)
	case StrategyTreeDiff:
		hasModifications, detectionError = detector.compareTree(executionContext, repository)
	default:
		return false, UnknownStrategyError{Name: strategy.String()}
	}

	if detectionError != nil {
		return false, DetectionError{Strategy: strategy, Cause: detectionError}
	}
	return hasModifications, nil
}

func (detector *Detector) compareIndex(executionContext context.Context, repository Repository) (bool, error) {
	arguments := append([]string{gitDiffSubcommandConstant}, detector.policy.diffArguments()...)
	executionResult, executionError := repository.ExecuteGit(executionContext, arguments...)
	if executionError != nil {
		return false, executionError
	}
	return detector.containsAdmittedChange(executionResult.StandardOutput), nil
}

func (detector *Detector) scanStatus(executionContext context.Context, repository Repository) (bool, error) {
	arguments := append([]string{gitStatusSubcommandConstant}, detector.policy.statusArguments()...)
	executionResult, executionError := repository.ExecuteGit(executionContext, arguments...)
	if executionError != nil {
		return false, executionError
	}

	for _, record := range parseStatusRecords(executionResult.StandardOutput) {
		if detector.policy.admits(record.Index) {
			return true, nil
		}
		if !detector.policy.admits(record.WorkTree) {
			continue
		}
		if record.WorkTree == statusCodeModifiedConstant && !detector.policy.IncludeUnreadable {
			workTreeFilePath := filepath.Join(repository.WorkTreePath(), filepath.FromSlash(record.Path))
			if !detector.fileReadable(workTreeFilePath) {
				continue
			}
		}
		return true, nil
	}
	return false, nil
}

func (detector *Detector) compareTree(executionContext context.Context, repository Repository) (bool, error) {
	revision, resolved, resolutionError := resolveHeadCommit(executionContext, repository)
	if resolutionError != nil {
		return false, resolutionError
	}
	if !resolved {
		return false, nil
	}

	arguments := append([]string{gitDiffSubcommandConstant}, detector.policy.diffArguments()...)
	arguments = append(arguments, revision, gitPathspecSeparatorConstant)
	executionResult, executionError := repository.ExecuteGit(executionContext, arguments...)
	if executionError != nil {
		return false, executionError
	}
	return detector.containsAdmittedChange(executionResult.StandardOutput), nil
}

func (detector *Detector) containsAdmittedChange(output string) bool {
	for _, record := range parseChangeRecords(output) {
		if detector.policy.admits(record.Status) {
			return true
		}
	}
	return false
}

// resolveHeadCommit resolves HEAD and peels it to a commit. Only a HEAD that names
// no object at all, as in a repository without history, is reported as unresolved.
// A HEAD naming an object that cannot be read as a commit is an error.
func resolveHeadCommit(executionContext context.Context, repository Repository) (string, bool, error) {
	executionResult, executionError := repository.ExecuteGit(executionContext, gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, gitHeadRevisionConstant)
	if executionError != nil {
		var commandFailedError execshell.CommandFailedError
		if errors.As(executionError, &commandFailedError) && isUnresolvedRevision(commandFailedError.Result) {
			return "", false, nil
		}
		return "", false, executionError
	}

	headObject := strings.TrimSpace(executionResult.StandardOutput)
	if len(headObject) == 0 {
		return "", false, errors.New(emptyRevisionMessageConstant)
	}

	commitResult, commitError := repository.ExecuteGit(executionContext, gitRevParseSubcommandConstant, gitVerifyFlagConstant, fmt.Sprintf(gitCommitPeelTemplateConstant, headObject))
	if commitError != nil {
		return "", false, fmt.Errorf(unresolvedCommitTemplateConstant, headObject, commitError)
	}

	revision := strings.TrimSpace(commitResult.StandardOutput)
	if len(revision) == 0 {
		return "", false, errors.New(emptyRevisionMessageConstant)
	}
	return revision, true, nil
}

func isUnresolvedRevision(result execshell.ExecutionResult) bool {
	return result.ExitCode == unresolvedRevisionExitCodeConstant && len(strings.TrimSpace(result.StandardError)) == 0
}

func isFileReadable(path string) bool {
	file, openError := os.Open(path)
	if openError != nil {
		return false
	}
	_ = file.Close()
	return true
}
