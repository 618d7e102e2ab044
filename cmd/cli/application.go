package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/findmods/internal/scan"
	"github.com/temirov/findmods/internal/utils"
)

const (
	applicationNameConstant                 = "findmods"
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level (debug, info, warn or error)."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	scanConfigurationKeyConstant            = "scan"
	environmentPrefixConstant               = "FINDMODS"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationStrategyFieldConstant      = "strategy"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	errorOutputTemplateConstant             = "%v\n"
	usageErrorOutputTemplateConstant        = "%s\n\n"
	exitCodeSuccessConstant                 = 0
	exitCodeFailureConstant                 = 1
	exitCodeModificationsFoundConstant      = 100
)

// ApplicationConfiguration describes the environment-provided configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Scan   scan.CommandConfiguration      `mapstructure:"scan"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  utils.LogLevel  `mapstructure:"log_level"`
	LogFormat utils.LogFormat `mapstructure:"log_format"`
}

// Application wires the cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand         *cobra.Command
	configurationLoader *utils.ConfigurationLoader
	loggerFactory       *utils.LoggerFactory
	logger              *zap.Logger
	configuration       ApplicationConfiguration
	logLevelFlagValue   string
	logFormatFlagValue  string
	summary             scan.Summary
	metadataResolver    func() buildMetadata
	exitFunction        func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	application := &Application{
		configurationLoader: utils.NewConfigurationLoader(environmentPrefixConstant),
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		metadataResolver:    resolveBuildMetadata,
		exitFunction:        os.Exit,
	}

	scanBuilder := scan.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() scan.CommandConfiguration {
			return application.configuration.Scan
		},
		SummaryHandler: func(summary scan.Summary) {
			application.summary = summary
		},
	}

	cobraCommand, buildError := scanBuilder.Build()
	if buildError != nil {
		cobraCommand = &cobra.Command{
			Use: applicationNameConstant,
			RunE: func(command *cobra.Command, arguments []string) error {
				return buildError
			},
		}
	}
	cobraCommand.SilenceUsage = true
	cobraCommand.SilenceErrors = true
	cobraCommand.PersistentPreRunE = func(command *cobra.Command, arguments []string) error {
		if command != application.rootCommand {
			return scan.RejectSubcommand(command, arguments)
		}
		return application.initializeConfiguration(command)
	}
	cobraCommand.SetHelpFunc(func(command *cobra.Command, arguments []string) {
		application.writeUsage(command.ErrOrStderr(), command)
	})

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the root command, flushes the logger, and returns the process exit status.
func (application *Application) Execute() int {
	application.summary = scan.Summary{}
	executionError := application.rootCommand.Execute()

	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		executionError = fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}

	return application.exitCodeFor(executionError)
}

// Run executes the application and terminates the process with its exit status.
func (application *Application) Run() {
	application.exitFunction(application.Execute())
}

// Run builds a fresh application instance, executes it, and exits the process.
func Run() {
	NewApplication().Run()
}

func (application *Application) exitCodeFor(executionError error) int {
	errorWriter := application.rootCommand.ErrOrStderr()

	var usageError scan.UsageError
	switch {
	case executionError == nil && application.summary.HasModifications():
		return exitCodeModificationsFoundConstant
	case executionError == nil:
		return exitCodeSuccessConstant
	case errors.As(executionError, &usageError):
		fmt.Fprintf(errorWriter, usageErrorOutputTemplateConstant, usageError.Message)
		application.writeUsage(errorWriter, application.rootCommand)
		return usageError.ExitCode
	default:
		fmt.Fprintf(errorWriter, errorOutputTemplateConstant, executionError)
		return exitCodeFailureConstant
	}
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.DefaultLogLevel),
		commonLogFormatConfigKeyConstant: string(utils.DefaultLogFormat()),
	}
	for configurationKey, configurationValue := range scan.DefaultConfigurationValues(scanConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadError := application.configurationLoader.LoadConfiguration(defaultValues, &application.configuration)
	if loadError != nil {
		if usageError, isUsageError := scan.UsageErrorFromConfiguration(loadError); isUsageError {
			return usageError
		}
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		_ = application.configuration.Common.LogLevel.UnmarshalText([]byte(application.logLevelFlagValue))
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		_ = application.configuration.Common.LogFormat.UnmarshalText([]byte(application.logFormatFlagValue))
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		application.configuration.Common.LogLevel,
		application.configuration.Common.LogFormat,
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, string(application.configuration.Common.LogLevel)),
		zap.String(configurationLogFormatFieldConstant, string(application.configuration.Common.LogFormat)),
		zap.Stringer(configurationStrategyFieldConstant, application.configuration.Scan.Strategy),
	)

	return nil
}

func (application *Application) writeUsage(writer io.Writer, command *cobra.Command) {
	usage := usageText{
		flagUsages: command.Flags().FlagUsages(),
		metadata:   application.metadataResolver(),
	}
	_, _ = io.WriteString(writer, usage.String())
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
