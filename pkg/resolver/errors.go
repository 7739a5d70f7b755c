package resolver

import (
	"fmt"
	"strings"
)

// Requirement records one requirer's constraint on a package. RequiredBy is
// "root" for top-level requirements.
type Requirement struct {
	RequiredBy string
	Spec       string
}

// ResolutionError is satisfied by every failure the resolver itself raises.
// It is only useful as a catch-all; match the concrete types for details.
type ResolutionError interface {
	error
	resolutionError()
}

// VersionConflictError reports a package whose accumulated requirements have
// no common satisfying version. Requirements carries every requirer seen so
// far, for diagnostics.
type VersionConflictError struct {
	Package      string
	Requirements []Requirement
}

func (e *VersionConflictError) Error() string {
	parts := make([]string, len(e.Requirements))
	for i, r := range e.Requirements {
		parts[i] = fmt.Sprintf("%s requires %s", r.RequiredBy, r.Spec)
	}
	return fmt.Sprintf("version conflict for %s: %s", e.Package, strings.Join(parts, "; "))
}

func (e *VersionConflictError) resolutionError() {}

// CircularDependencyError reports a dependency cycle. Chain is the DFS path
// from the root down to the repeated package.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Chain, " -> "))
}

func (e *CircularDependencyError) resolutionError() {}
