package modifications

const (
	gitNoExternalDiffFlagConstant      = "--no-ext-diff"
	gitNoTextConversionFlagConstant    = "--no-textconv"
	gitNoColorFlagConstant             = "--no-color"
	gitNoRenamesFlagConstant           = "--no-renames"
	gitNameStatusFlagConstant          = "--name-status"
	gitNullTerminationFlagConstant     = "-z"
	gitIgnoreAllSubmodulesFlagConstant = "--ignore-submodules=all"
	gitIgnoreNoSubmodulesFlagConstant  = "--ignore-submodules=none"
	gitPorcelainFlagConstant           = "--porcelain=v1"
	gitUntrackedFilesNoneFlagConstant  = "--untracked-files=no"
	gitUntrackedFilesAllFlagConstant   = "--untracked-files=all"
	gitIgnoredNoneFlagConstant         = "--ignored=no"
	gitIgnoredTraditionalFlagConstant  = "--ignored=traditional"
)

const (
	statusCodeUnmodifiedConstant  byte = ' '
	statusCodeTypeChangedConstant byte = 'T'
	statusCodeModifiedConstant    byte = 'M'
	statusCodeUntrackedConstant   byte = '?'
	statusCodeIgnoredConstant     byte = '!'
	statusCodeRenamedConstant     byte = 'R'
	statusCodeCopiedConstant      byte = 'C'
)

// DiffPolicy controls which differences count as modifications.
type DiffPolicy struct {
	IgnoreSubmodules   bool
	IncludeIgnored     bool
	IncludeUntracked   bool
	IncludeTypeChanges bool
	IncludeUnreadable  bool
}

// DefaultDiffPolicy ignores submodules, ignored files, untracked files, type
// changes and unreadable files.
func DefaultDiffPolicy() DiffPolicy {
	return DiffPolicy{IgnoreSubmodules: true}
}

// diffArguments returns the flags shared by the index and tree comparisons.
func (policy DiffPolicy) diffArguments() []string {
	return []string{
		gitNoExternalDiffFlagConstant,
		gitNoTextConversionFlagConstant,
		gitNoColorFlagConstant,
		gitNoRenamesFlagConstant,
		gitNameStatusFlagConstant,
		gitNullTerminationFlagConstant,
		policy.submoduleArgument(),
	}
}

// statusArguments returns the flags for the per-file status scan.
func (policy DiffPolicy) statusArguments() []string {
	untrackedArgument := gitUntrackedFilesNoneFlagConstant
	if policy.IncludeUntracked {
		untrackedArgument = gitUntrackedFilesAllFlagConstant
	}
	ignoredArgument := gitIgnoredNoneFlagConstant
	if policy.IncludeIgnored {
		ignoredArgument = gitIgnoredTraditionalFlagConstant
	}
	return []string{
		gitPorcelainFlagConstant,
		gitNullTerminationFlagConstant,
		untrackedArgument,
		ignoredArgument,
		policy.submoduleArgument(),
	}
}

func (policy DiffPolicy) submoduleArgument() string {
	if policy.IgnoreSubmodules {
		return gitIgnoreAllSubmodulesFlagConstant
	}
	return gitIgnoreNoSubmodulesFlagConstant
}

// admits reports whether a single status code counts as a modification.
func (policy DiffPolicy) admits(statusCode byte) bool {
	switch statusCode {
	case statusCodeUnmodifiedConstant:
		return false
	case statusCodeTypeChangedConstant:
		return policy.IncludeTypeChanges
	case statusCodeUntrackedConstant:
		return policy.IncludeUntracked
	case statusCodeIgnoredConstant:
		return policy.IncludeIgnored
	default:
		return true
	}
}
