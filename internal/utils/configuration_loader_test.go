package utils_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/findmods/internal/utils"
)

const (
	testEnvironmentPrefixConstant                  = "TESTFINDMODS"
	testLogLevelKeyConstant                        = "common.log_level"
	testStrategyKeyConstant                        = "scan.strategy"
	testLogLevelEnvironmentConstant                = "TESTFINDMODS_COMMON_LOG_LEVEL"
	testStrategyEnvironmentConstant                = "TESTFINDMODS_SCAN_STRATEGY"
	testDefaultLogLevelConstant                    = "warn"
	testDefaultStrategyConstant                    = "index"
	testRejectedValueConstant                      = "rejected"
	configurationLoaderSubtestNameTemplateConstant = "%d_%s"
)

type strictValue string

func (value *strictValue) UnmarshalText(text []byte) error {
	if string(text) == testRejectedValueConstant {
		return fmt.Errorf("%s value", testRejectedValueConstant)
	}
	*value = strictValue(text)
	return nil
}

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
	Scan   configurationScanFixture   `mapstructure:"scan"`
}

type configurationCommonFixture struct {
	LogLevel utils.LogLevel `mapstructure:"log_level"`
}

type configurationScanFixture struct {
	Strategy strictValue `mapstructure:"strategy"`
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		environment           map[string]string
		expectedConfiguration configurationFixture
	}{
		{
			name:        "defaults_are_applied",
			environment: map[string]string{},
			expectedConfiguration: configurationFixture{
				Common: configurationCommonFixture{LogLevel: utils.LogLevelWarn},
				Scan:   configurationScanFixture{Strategy: testDefaultStrategyConstant},
			},
		},
		{
			name: "environment_overrides_defaults",
			environment: map[string]string{
				testLogLevelEnvironmentConstant: " Debug ",
				testStrategyEnvironmentConstant: "tree",
			},
			expectedConfiguration: configurationFixture{
				Common: configurationCommonFixture{LogLevel: utils.LogLevelDebug},
				Scan:   configurationScanFixture{Strategy: "tree"},
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			for environmentName, environmentValue := range testCase.environment {
				testInstance.Setenv(environmentName, environmentValue)
			}

			loadedConfiguration := configurationFixture{}
			loadError := utils.NewConfigurationLoader(testEnvironmentPrefixConstant).LoadConfiguration(testDefaultValues(), &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedConfiguration, loadedConfiguration)
		})
	}
}

func TestConfigurationLoaderSurfacesDecodeFailures(testInstance *testing.T) {
	testInstance.Setenv(testStrategyEnvironmentConstant, testRejectedValueConstant)

	loadedConfiguration := configurationFixture{}
	loadError := utils.NewConfigurationLoader(testEnvironmentPrefixConstant).LoadConfiguration(testDefaultValues(), &loadedConfiguration)
	require.ErrorContains(testInstance, loadError, testRejectedValueConstant)
}

func testDefaultValues() map[string]any {
	return map[string]any{
		testLogLevelKeyConstant: testDefaultLogLevelConstant,
		testStrategyKeyConstant: testDefaultStrategyConstant,
	}
}
