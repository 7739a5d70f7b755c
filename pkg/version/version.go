package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// InvalidVersionError reports a string that does not parse as a strict
// semantic version.
type InvalidVersionError struct {
	Input string
	Err   error
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %v", e.Input, e.Err)
}

func (e *InvalidVersionError) Unwrap() error { return e.Err }

// Parse parses a strict MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD] version.
// Partial versions ("1.2"), non-numeric segments and leading zeros
// ("01.2.3") are rejected.
func Parse(input string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(input)
	if err != nil {
		return nil, &InvalidVersionError{Input: input, Err: err}
	}
	return v, nil
}

// Compare parses both strings and compares them with semver precedence:
// the numeric triple first, then prerelease identifiers. Build metadata
// never participates in ordering, so "1.0.0+a" equals "1.0.0+b".
func Compare(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}
