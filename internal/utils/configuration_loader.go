package utils

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant          = "."
	environmentKeySeparatorNewConstant          = "_"
	configurationUnmarshalErrorTemplateConstant = "failed to parse configuration: %w"
)

// ConfigurationLoader wraps Viper to load structured configuration from defaults and environment variables.
type ConfigurationLoader struct {
	environmentPrefix      string
	environmentKeyReplacer *strings.Replacer
}

// NewConfigurationLoader creates a loader that reads variables carrying the environment prefix.
func NewConfigurationLoader(environmentPrefix string) *ConfigurationLoader {
	return &ConfigurationLoader{
		environmentPrefix:      environmentPrefix,
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
	}
}

// LoadConfiguration populates targetConfiguration from defaults overridden by environment variables.
// Only keys present in defaultValues are bound to the environment. Values implementing
// encoding.TextUnmarshaler decode through their own parser.
func (loader *ConfigurationLoader) LoadConfiguration(defaultValues map[string]any, targetConfiguration any) error {
	viperInstance := viper.New()

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	if loader.environmentKeyReplacer != nil {
		viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	}
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	decodeHook := viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())

	unmarshalError := viperInstance.Unmarshal(targetConfiguration, decodeHook)
	if unmarshalError != nil {
		return fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return nil
}
