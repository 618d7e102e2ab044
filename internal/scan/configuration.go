package scan

import "github.com/temirov/findmods/internal/modifications"

const strategyConfigurationKeySuffixConstant = ".strategy"

// CommandConfiguration captures environment-provided settings for the scan command.
type CommandConfiguration struct {
	Strategy modifications.Strategy `mapstructure:"strategy"`
}

// DefaultCommandConfiguration returns baseline configuration values for the scan command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Strategy: modifications.DefaultStrategy,
	}
}

// DefaultConfigurationValues returns the defaults registered under configurationKey.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + strategyConfigurationKeySuffixConstant: defaults.Strategy.String(),
	}
}
