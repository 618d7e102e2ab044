package scan

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/findmods/internal/modifications"
	"github.com/temirov/findmods/internal/repos/dependencies"
	"github.com/temirov/findmods/internal/repos/shared"
)

const (
	commandUseConstant                 = "findmods [strategy]"
	commandShortDescriptionConstant    = "Find git checkouts containing modifications."
	commandLongDescriptionConstant     = "findmods walks the current directory, checks every git checkout it finds and prints the directories that hold uncommitted modifications."
	maximumArgumentCountConstant       = 1
	tooManyArgumentsMessageConstant    = "Only one argument should be present"
	tooManyArgumentsExitCodeConstant   = 1
	unknownStrategyExitCodeConstant    = 2
	invalidFlagExitCodeConstant        = 2
	argumentsParsedMessageConstant     = "arguments parsed"
	logFieldArgumentsConstant          = "arguments"
	logFieldConfiguredStrategyConstant = "configured_strategy"
	logFieldSelectedStrategyConstant   = "selected_strategy"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the resolved scan configuration.
type ConfigurationProvider func() CommandConfiguration

// SummaryHandler receives the summary of a completed scan.
type SummaryHandler func(Summary)

// CommandBuilder assembles the findmods cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	SummaryHandler        SummaryHandler
	Walker                shared.DirectoryWalker
	GitExecutor           shared.GitExecutor
	Opener                shared.RepositoryOpener
	Detector              shared.ModificationDetector
	Root                  string
}

// Build constructs the cobra command that scans for modified checkouts.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  ValidateArguments,
		RunE:  builder.run,
	}
	command.CompletionOptions.DisableDefaultCmd = true
	command.SetFlagErrorFunc(FlagUsageError)
	return command, nil
}

// FlagUsageError reports a flag parsing failure as a usage error so that it prints the help text.
func FlagUsageError(command *cobra.Command, flagError error) error {
	if flagError == nil || errors.Is(flagError, pflag.ErrHelp) {
		return flagError
	}
	return UsageError{ExitCode: invalidFlagExitCodeConstant, Message: flagError.Error()}
}

// RejectSubcommand validates the name of a built-in cobra subcommand, such as the hidden
// shell completion request, as if it were a positional strategy argument.
func RejectSubcommand(command *cobra.Command, arguments []string) error {
	subcommandName := command.CalledAs()
	if len(subcommandName) == 0 {
		subcommandName = command.Name()
	}

	positionalArguments := append([]string{subcommandName}, arguments...)
	if validationError := ValidateArguments(command, positionalArguments); validationError != nil {
		return validationError
	}
	return UsageError{ExitCode: unknownStrategyExitCodeConstant, Message: modifications.UnknownStrategyError{Name: subcommandName}.Error()}
}

// ValidateArguments accepts at most one positional argument naming a known strategy.
func ValidateArguments(command *cobra.Command, arguments []string) error {
	if len(arguments) > maximumArgumentCountConstant {
		return UsageError{ExitCode: tooManyArgumentsExitCodeConstant, Message: tooManyArgumentsMessageConstant}
	}
	if len(arguments) == 0 {
		return nil
	}
	if _, parseError := modifications.ParseStrategy(arguments[0]); parseError != nil {
		return UsageError{ExitCode: unknownStrategyExitCodeConstant, Message: parseError.Error()}
	}
	return nil
}

// UsageErrorFromConfiguration converts an unknown configured strategy into a usage error.
func UsageErrorFromConfiguration(configurationError error) (UsageError, bool) {
	var unknownStrategyError modifications.UnknownStrategyError
	if !errors.As(configurationError, &unknownStrategyError) {
		return UsageError{}, false
	}
	return UsageError{ExitCode: unknownStrategyExitCodeConstant, Message: unknownStrategyError.Error()}, true
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()

	options, optionsError := builder.parseOptions(arguments)
	if optionsError != nil {
		return optionsError
	}

	logger.Debug(
		argumentsParsedMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
		zap.Stringer(logFieldConfiguredStrategyConstant, builder.resolveConfiguration().Strategy),
		zap.Stringer(logFieldSelectedStrategyConstant, options.Strategy),
	)

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger)
	if executorError != nil {
		return executorError
	}

	opener, openerError := dependencies.ResolveRepositoryOpener(builder.Opener, gitExecutor)
	if openerError != nil {
		return openerError
	}

	walker := dependencies.ResolveDirectoryWalker(builder.Walker)
	detector := dependencies.ResolveModificationDetector(builder.Detector)

	service := NewService(walker, opener, detector, command.OutOrStdout(), logger)
	summary, runError := service.Run(command.Context(), options)
	if runError != nil {
		return runError
	}

	if builder.SummaryHandler != nil {
		builder.SummaryHandler(summary)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(arguments []string) (Options, error) {
	options := Options{
		Root:     builder.Root,
		Strategy: builder.resolveConfiguration().Strategy,
	}

	if len(arguments) > 0 {
		strategy, parseError := modifications.ParseStrategy(arguments[0])
		if parseError != nil {
			return Options{}, UsageError{ExitCode: unknownStrategyExitCodeConstant, Message: parseError.Error()}
		}
		options.Strategy = strategy
	}

	return options, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
