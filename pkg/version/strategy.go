package version

import (
	"fmt"
	"strings"
)

type Strategy string

const (
	StrategyDynamic Strategy = "dynamic"
	StrategyExact   Strategy = "exact"
	StrategyRange   Strategy = "range"
)

// ApplyPinStrategy converts a resolved version into the spec string written
// back to the workspace file, considering the spec already present there.
func ApplyPinStrategy(strategy Strategy, resolved, existing string) (string, error) {
	switch strategy {
	case StrategyExact:
		return PinExact(resolved)
	case StrategyRange:
		return PinRange(resolved)
	case StrategyDynamic:
		return PinDynamic(resolved, existing)
	default:
		return resolved, nil
	}
}

// PinExact pins to the resolved version verbatim.
func PinExact(resolved string) (string, error) {
	v, err := Parse(resolved)
	if err != nil {
		return "", fmt.Errorf("exact strategy requires a concrete version (e.g. '2.1.1'), got: %s", resolved)
	}
	return v.String(), nil
}

// PinRange widens the resolved version to its caret range, so future
// resolutions can float within the same major line.
func PinRange(resolved string) (string, error) {
	v, err := Parse(resolved)
	if err != nil {
		return "", fmt.Errorf("range strategy requires a concrete version: %w", err)
	}
	return "^" + v.String(), nil
}

// PinDynamic keeps the existing spec if the resolved version still satisfies
// it, otherwise pins exact. A resolved value that is itself a spec string
// (uncataloged registries resolve this way) is written through unchanged.
func PinDynamic(resolved, existing string) (string, error) {
	if existing == "" {
		return resolved, nil
	}

	v, err := Parse(resolved)
	if err != nil {
		return resolved, nil
	}

	rng, err := ParseRange(existing)
	if err != nil {
		// Existing spec is unreadable, replace it.
		return v.String(), nil
	}
	if rng.Check(v) {
		return existing, nil
	}
	return v.String(), nil
}

// NormalizeSpec gives a canonical form for comparing spec strings, so that
// ">= 1.2.0" and ">=1.2.0" are not reported as a change.
func NormalizeSpec(spec string) string {
	return strings.ReplaceAll(strings.TrimSpace(spec), " ", "")
}
