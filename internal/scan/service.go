package scan

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/findmods/internal/repos/discovery"
	"github.com/temirov/findmods/internal/repos/shared"
	"github.com/temirov/findmods/internal/utils"
)

const (
	outputWriteErrorTemplateConstant    = "write modified repository %s: %w"
	checkFailedMessageConstant          = "unable to check repository"
	scanStartedMessageConstant          = "scanning for modified repositories"
	markerFoundMessageConstant          = "repository marker found"
	scanCompletedMessageConstant        = "scan completed"
	logFieldRepositoryConstant          = "repository"
	logFieldMarkerConstant              = "marker"
	logFieldStrategyConstant            = "strategy"
	logFieldRootConstant                = "root"
	logFieldModifiedCountConstant       = "modified"
	logFieldCheckedCountConstant        = "checked"
	logFieldFailedCountConstant         = "failed"
	missingCollaboratorTemplateConstant = "scan service %s not configured"
	walkerCollaboratorNameConstant      = "walker"
	openerCollaboratorNameConstant      = "opener"
	detectorCollaboratorNameConstant    = "detector"
)

// Service walks a root and reports every checkout with modifications.
type Service struct {
	walker       shared.DirectoryWalker
	opener       shared.RepositoryOpener
	detector     shared.ModificationDetector
	outputWriter *utils.LineWriter
	logger       *zap.Logger
}

// NewService constructs a Service. Output lines are flushed as they are written.
func NewService(walker shared.DirectoryWalker, opener shared.RepositoryOpener, detector shared.ModificationDetector, outputWriter io.Writer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		walker:       walker,
		opener:       opener,
		detector:     detector,
		outputWriter: utils.NewLineWriter(outputWriter),
		logger:       logger,
	}
}

// Run checks every metadata marker beneath options.Root in traversal order and
// prints the directories found modified. Per-repository failures are logged and
// counted as unmodified; only a failed output write aborts the run.
func (service *Service) Run(executionContext context.Context, options Options) (Summary, error) {
	if validationError := service.validate(); validationError != nil {
		return Summary{}, validationError
	}

	root := options.Root
	if len(root) == 0 {
		root = defaultRootPathConstant
	}

	service.logger.Debug(scanStartedMessageConstant, zap.String(logFieldRootConstant, root), zap.Stringer(logFieldStrategyConstant, options.Strategy))

	summary := Summary{}
	for entry := range service.walker.Entries(root) {
		if !discovery.IsMetadataMarker(entry) {
			continue
		}

		repositoryName := FormatRepositoryPath(entry.Path)
		service.logger.Debug(markerFoundMessageConstant, zap.String(logFieldMarkerConstant, entry.Path))

		summary.CheckedRepositories++
		hasModifications, checkError := service.checkRepository(executionContext, entry.Path, options)
		if checkError != nil {
			summary.FailedRepositories++
			service.logger.Warn(
				checkFailedMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryName),
				zap.Stringer(logFieldStrategyConstant, options.Strategy),
				zap.Error(checkError),
			)
			continue
		}
		if !hasModifications {
			continue
		}

		if writeError := service.outputWriter.WriteLine(repositoryName); writeError != nil {
			return summary, fmt.Errorf(outputWriteErrorTemplateConstant, repositoryName, writeError)
		}
		summary.ModifiedRepositories++
	}

	service.logger.Debug(
		scanCompletedMessageConstant,
		zap.Int(logFieldModifiedCountConstant, summary.ModifiedRepositories),
		zap.Int(logFieldCheckedCountConstant, summary.CheckedRepositories),
		zap.Int(logFieldFailedCountConstant, summary.FailedRepositories),
	)

	return summary, nil
}

func (service *Service) checkRepository(executionContext context.Context, markerPath string, options Options) (bool, error) {
	repository, openError := service.opener.Open(executionContext, markerPath)
	if openError != nil {
		return false, openError
	}
	defer repository.Close()

	return service.detector.HasModifications(executionContext, repository, options.Strategy)
}

func (service *Service) validate() error {
	switch {
	case service.walker == nil:
		return fmt.Errorf(missingCollaboratorTemplateConstant, walkerCollaboratorNameConstant)
	case service.opener == nil:
		return fmt.Errorf(missingCollaboratorTemplateConstant, openerCollaboratorNameConstant)
	case service.detector == nil:
		return fmt.Errorf(missingCollaboratorTemplateConstant, detectorCollaboratorNameConstant)
	default:
		return nil
	}
}
