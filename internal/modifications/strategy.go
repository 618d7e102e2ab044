package modifications

import (
	"fmt"
	"strings"
)

const (
	strategyIndexShortNameConstant  = "i"
	strategyIndexNameConstant       = "index"
	strategyStatusShortNameConstant = "s"
	strategyStatusNameConstant      = "status"
	strategyTreeShortNameConstant   = "t"
	strategyTreeNameConstant        = "tree"
	strategyUnknownNameConstant     = "unknown"
	unknownStrategyTemplateConstant = "unknown strategy %q"
)

// Strategy selects how modifications are detected.
type Strategy int

// Supported strategies.
const (
	StrategyIndexDiff Strategy = iota
	StrategyStatusScan
	StrategyTreeDiff
)

// DefaultStrategy is used when no strategy is requested.
const DefaultStrategy = StrategyIndexDiff

var strategiesByName = map[string]Strategy{
	strategyIndexShortNameConstant:  StrategyIndexDiff,
	strategyIndexNameConstant:       StrategyIndexDiff,
	strategyStatusShortNameConstant: StrategyStatusScan,
	strategyStatusNameConstant:      StrategyStatusScan,
	strategyTreeShortNameConstant:   StrategyTreeDiff,
	strategyTreeNameConstant:        StrategyTreeDiff,
}

// UnknownStrategyError reports a strategy name outside the supported set.
type UnknownStrategyError struct {
	Name string
}

// Error describes the unknown strategy.
func (strategyError UnknownStrategyError) Error() string {
	return fmt.Sprintf(unknownStrategyTemplateConstant, strategyError.Name)
}

// ParseStrategy resolves a strategy from its short or long name. Matching is exact.
func ParseStrategy(name string) (Strategy, error) {
	strategy, found := strategiesByName[name]
	if !found {
		return DefaultStrategy, UnknownStrategyError{Name: name}
	}
	return strategy, nil
}

// String returns the long name of the strategy.
func (strategy Strategy) String() string {
	switch strategy {
	case StrategyIndexDiff:
		return strategyIndexNameConstant
	case StrategyStatusScan:
		return strategyStatusNameConstant
	case StrategyTreeDiff:
		return strategyTreeNameConstant
	default:
		return strategyUnknownNameConstant
	}
}

// UnmarshalText parses a configured strategy name, ignoring surrounding whitespace.
func (strategy *Strategy) UnmarshalText(text []byte) error {
	parsedStrategy, parseError := ParseStrategy(strings.TrimSpace(string(text)))
	if parseError != nil {
		return parseError
	}
	*strategy = parsedStrategy
	return nil
}
