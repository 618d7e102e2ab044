package cli

import (
	"fmt"
	"path"
	"runtime/debug"
	"strings"
)

const (
	usageTitleConstant            = "findmods\n--------\n"
	usageDescriptionConstant      = "Find git checkouts containing modifications.\n\n"
	usageArgumentsHeaderConstant  = "Arguments\n---------\n\n"
	usageFlagsHeaderConstant      = "Flags\n-----\n\n"
	usageHelpArgumentConstant     = " -h | --help\t\tPrint this help\n"
	usageIndexArgumentConstant    = " i | index\t\tCompare the index with the working directory (fastest and the default)\n"
	usageStatusArgumentConstant   = " s | status\t\tGet status for each file and report if any are dirty\n"
	usageTreeArgumentConstant     = " t | tree\t\tCompare the working tree, bypassing the index (detects added but not committed changes)\n"
	usageEnvironmentConstant      = "Environment: FINDMODS_SCAN_STRATEGY, FINDMODS_COMMON_LOG_LEVEL, FINDMODS_COMMON_LOG_FORMAT\n\n"
	usageVersionTemplateConstant  = "Version:\t%s\n"
	usageAuthorsTemplateConstant  = "Authors:\t%s\n"
	usageOriginTemplateConstant   = "Origin:\t%s\n"
	applicationModulePathConstant = "github.com/temirov/findmods"
	originSchemePrefixConstant    = "https://"
	developmentVersionConstant    = "dev"
	moduleDevelopmentVersionLabel = "(devel)"
)

// applicationAuthors is set at link time with
// -ldflags "-X github.com/temirov/findmods/cmd/cli.applicationAuthors=...".
var applicationAuthors string

// buildMetadata identifies the running binary in the help text.
type buildMetadata struct {
	version string
	authors string
	origin  string
}

type usageText struct {
	flagUsages string
	metadata   buildMetadata
}

// String renders the help text shown for --help and after usage errors.
func (usage usageText) String() string {
	var builder strings.Builder
	builder.WriteString(usageTitleConstant)
	builder.WriteString(usageDescriptionConstant)
	builder.WriteString(usageArgumentsHeaderConstant)
	builder.WriteString(usageHelpArgumentConstant)
	builder.WriteString(usageIndexArgumentConstant)
	builder.WriteString(usageStatusArgumentConstant)
	builder.WriteString(usageTreeArgumentConstant)
	builder.WriteString("\n")
	if len(usage.flagUsages) > 0 {
		builder.WriteString(usageFlagsHeaderConstant)
		builder.WriteString(usage.flagUsages)
		builder.WriteString("\n")
	}
	builder.WriteString(usageEnvironmentConstant)
	fmt.Fprintf(&builder, usageVersionTemplateConstant, usage.metadata.version)
	fmt.Fprintf(&builder, usageAuthorsTemplateConstant, usage.metadata.authors)
	fmt.Fprintf(&builder, usageOriginTemplateConstant, usage.metadata.origin)
	return builder.String()
}

func resolveBuildMetadata() buildMetadata {
	buildInfo, _ := debug.ReadBuildInfo()
	return metadataFromBuildInfo(buildInfo, applicationAuthors)
}

// metadataFromBuildInfo derives the version and origin from the main module. Authors
// default to the owner segment of the module path unless set at link time.
func metadataFromBuildInfo(buildInfo *debug.BuildInfo, linkedAuthors string) buildMetadata {
	version := developmentVersionConstant
	modulePath := applicationModulePathConstant
	if buildInfo != nil {
		if mainVersion := strings.TrimSpace(buildInfo.Main.Version); len(mainVersion) > 0 && mainVersion != moduleDevelopmentVersionLabel {
			version = mainVersion
		}
		if mainPath := strings.TrimSpace(buildInfo.Main.Path); len(mainPath) > 0 {
			modulePath = mainPath
		}
	}

	authors := strings.TrimSpace(linkedAuthors)
	if len(authors) == 0 {
		authors = path.Base(path.Dir(modulePath))
	}

	return buildMetadata{
		version: version,
		authors: authors,
		origin:  originSchemePrefixConstant + modulePath,
	}
}
