package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Comparison operators recognized in range specs.
const (
	OpGTE = ">="
	OpLTE = "<="
	OpGT  = ">"
	OpLT  = "<"
	OpEQ  = "="
)

type constraint struct {
	op    string
	bound *semver.Version
}

// VersionRange is a parsed version-constraint spec: "latest", a caret or
// tilde range ("^1.2.3", "~1.2.3"), a single comparison (">=1.2.0"), or an
// exact version. A version satisfies the range iff it satisfies every
// decomposed constraint.
type VersionRange struct {
	spec        string
	constraints []constraint
}

// ParseRange parses a version-constraint spec. The whole string is treated
// as an exact version when no other syntax matches; parse failures from the
// embedded versions surface as *InvalidVersionError.
func ParseRange(spec string) (*VersionRange, error) {
	trimmed := strings.TrimSpace(spec)
	r := &VersionRange{spec: spec}

	switch {
	case trimmed == "latest":
		r.constraints = append(r.constraints, constraint{op: OpGTE, bound: semver.New(0, 0, 0, "", "")})

	case strings.HasPrefix(trimmed, "^"):
		base, err := Parse(strings.TrimPrefix(trimmed, "^"))
		if err != nil {
			return nil, err
		}
		var upper *semver.Version
		switch {
		case base.Major() > 0:
			upper = semver.New(base.Major()+1, 0, 0, "", "")
		case base.Minor() > 0:
			upper = semver.New(0, base.Minor()+1, 0, "", "")
		default:
			upper = semver.New(0, 0, base.Patch()+1, "", "")
		}
		r.constraints = append(r.constraints,
			constraint{op: OpGTE, bound: base},
			constraint{op: OpLT, bound: upper})

	case strings.HasPrefix(trimmed, "~"):
		base, err := Parse(strings.TrimPrefix(trimmed, "~"))
		if err != nil {
			return nil, err
		}
		r.constraints = append(r.constraints,
			constraint{op: OpGTE, bound: base},
			constraint{op: OpLT, bound: semver.New(base.Major(), base.Minor()+1, 0, "", "")})

	default:
		// Two-character operators must be tried before their one-character
		// prefixes.
		for _, op := range []string{OpGTE, OpLTE, OpGT, OpLT, OpEQ} {
			if strings.HasPrefix(trimmed, op) {
				bound, err := Parse(strings.TrimSpace(trimmed[len(op):]))
				if err != nil {
					return nil, err
				}
				r.constraints = append(r.constraints, constraint{op: op, bound: bound})
				return r, nil
			}
		}
		exact, err := Parse(trimmed)
		if err != nil {
			return nil, err
		}
		r.constraints = append(r.constraints, constraint{op: OpEQ, bound: exact})
	}

	return r, nil
}

// String returns the spec the range was parsed from.
func (r *VersionRange) String() string { return r.spec }

// Check reports whether v satisfies every constraint in the range.
// Constraints are plain intervals over semver precedence; prerelease
// versions are not excluded the way npm-style range matching does.
func (r *VersionRange) Check(v *semver.Version) bool {
	for _, c := range r.constraints {
		cmp := v.Compare(c.bound)
		var ok bool
		switch c.op {
		case OpGTE:
			ok = cmp >= 0
		case OpLTE:
			ok = cmp <= 0
		case OpGT:
			ok = cmp > 0
		case OpLT:
			ok = cmp < 0
		case OpEQ:
			ok = cmp == 0
		}
		if !ok {
			return false
		}
	}
	return true
}

// CheckString parses candidate and checks it against the range.
func (r *VersionRange) CheckString(candidate string) (bool, error) {
	v, err := Parse(candidate)
	if err != nil {
		return false, err
	}
	return r.Check(v), nil
}

// Matches parses both spec and candidate and reports membership.
func Matches(spec, candidate string) (bool, error) {
	r, err := ParseRange(spec)
	if err != nil {
		return false, err
	}
	return r.CheckString(candidate)
}

// FindBestVersion returns the highest version in available that satisfies
// spec. Entries that do not parse as strict semver are skipped. Returns ""
// when no candidate satisfies the spec.
func FindBestVersion(spec string, available []string) (string, error) {
	r, err := ParseRange(spec)
	if err != nil {
		return "", err
	}

	var best *semver.Version
	for _, s := range available {
		v, err := semver.StrictNewVersion(s)
		if err != nil {
			continue
		}
		if !r.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if best == nil {
		return "", nil
	}
	return best.String(), nil
}
