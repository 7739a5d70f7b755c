package resolver

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/david1155/plugindep/pkg/version"
)

// RootRequirer marks requirements supplied directly by the caller, as
// opposed to requirements discovered through another package's manifest.
const RootRequirer = "root"

// ResolvedDependency is one package's final resolution outcome.
type ResolvedDependency struct {
	Name       string
	Version    string
	RequiredBy []string
}

// Result is the output of one Resolve call. Resolved is ordered so that
// every package appears after the packages that required it.
type Result struct {
	Resolved []ResolvedDependency
	Warnings []string
}

// Resolver selects one version per package satisfying all known
// constraints, walking transitive dependencies through an optional
// ManifestFunc. A Resolver may be reused for independent resolutions but
// must not be shared between goroutines mid-call.
type Resolver struct {
	available map[string][]string
	manifest  ManifestFunc
}

// New builds a Resolver over a catalog of installable versions per package.
// Packages absent from the catalog resolve to their requirement spec
// verbatim, which keeps registries without an enumerable catalog usable.
func New(available map[string][]string, manifest ManifestFunc) *Resolver {
	if available == nil {
		available = map[string][]string{}
	}
	return &Resolver{available: available, manifest: manifest}
}

// resolution is the transient state of a single Resolve call. Building a
// fresh one per call makes instance reuse isolation a non-issue.
type resolution struct {
	rs           *Resolver
	resolved     map[string]*ResolvedDependency
	requirements map[string][]Requirement
	visiting     map[string]bool
	warnings     []string
}

// Resolve computes a conflict-free version assignment for the root
// requirements and everything they transitively pull in. Any
// VersionConflictError or CircularDependencyError aborts the whole call.
func (r *Resolver) Resolve(rootRequirements map[string]string) (*Result, error) {
	st := &resolution{
		rs:           r,
		resolved:     make(map[string]*ResolvedDependency),
		requirements: make(map[string][]Requirement),
		visiting:     make(map[string]bool),
	}

	names := sortedKeys(rootRequirements)
	for _, name := range names {
		if err := st.addRequirement(name, rootRequirements[name], RootRequirer); err != nil {
			return nil, err
		}
	}
	for _, name := range names {
		if st.resolved[name] != nil {
			continue
		}
		if err := st.resolvePackage(name, nil); err != nil {
			return nil, err
		}
	}

	result := &Result{Warnings: st.warnings}
	for _, name := range st.topologicalSort() {
		if dep := st.resolved[name]; dep != nil {
			result.Resolved = append(result.Resolved, *dep)
		}
	}
	return result, nil
}

// ResolveDependencies is a stateless convenience wrapper: root requirements
// only, no manifest provider, so no transitive expansion.
func ResolveDependencies(requirements map[string]string, available map[string][]string) (*Result, error) {
	return New(available, nil).Resolve(requirements)
}

// addRequirement appends the new constraint and, when the package is
// already pinned, immediately checks the pin against it. A conflict
// introduced by a later sibling is caught here, not deferred.
func (st *resolution) addRequirement(name, spec, requiredBy string) error {
	st.requirements[name] = append(st.requirements[name], Requirement{RequiredBy: requiredBy, Spec: spec})

	dep := st.resolved[name]
	if dep == nil {
		return nil
	}

	rng, err := version.ParseRange(spec)
	if err != nil {
		return err
	}
	v, err := version.Parse(dep.Version)
	if err != nil {
		// Pinned to a verbatim spec (uncataloged fallback); there is no
		// concrete version to check against.
		return nil
	}
	if !rng.Check(v) {
		return &VersionConflictError{Package: name, Requirements: st.requirements[name]}
	}
	return nil
}

func (st *resolution) resolvePackage(name string, path []string) error {
	// The cycle check runs before the idempotence check: a back-edge to a
	// package still on the stack is a cycle even though that package
	// already holds a pinned version.
	if st.visiting[name] {
		return &CircularDependencyError{Chain: append(append([]string{}, path...), name)}
	}
	if st.resolved[name] != nil {
		return nil
	}

	st.visiting[name] = true
	defer delete(st.visiting, name)

	selected, err := st.findCompatibleVersion(name, st.requirements[name])
	if err != nil {
		return err
	}

	reqs := st.requirements[name]
	requiredBy := make([]string, 0, len(reqs))
	for _, req := range reqs {
		requiredBy = append(requiredBy, req.RequiredBy)
	}
	st.resolved[name] = &ResolvedDependency{Name: name, Version: selected, RequiredBy: requiredBy}

	if st.rs.manifest == nil {
		return nil
	}
	manifest := st.rs.manifest(name, selected)
	if manifest == nil {
		return nil
	}

	childPath := append(append([]string{}, path...), name)
	for _, dep := range sortedKeys(manifest.Dependencies) {
		if err := st.addRequirement(dep, manifest.Dependencies[dep], name); err != nil {
			return err
		}
		if err := st.resolvePackage(dep, childPath); err != nil {
			return err
		}
	}
	return nil
}

// findCompatibleVersion picks the highest catalog version satisfying every
// requirement. Packages without a catalog entry resolve to the first
// requirement's spec verbatim; catalog entries that do not parse as semver
// are skipped.
func (st *resolution) findCompatibleVersion(name string, reqs []Requirement) (string, error) {
	if len(reqs) == 0 {
		if versions := st.rs.available[name]; len(versions) > 0 {
			return versions[len(versions)-1], nil
		}
		return "latest", nil
	}

	versions, ok := st.rs.available[name]
	if !ok {
		st.warnings = append(st.warnings,
			fmt.Sprintf("no catalog entry for %s; trusting requirement %q from %s", name, reqs[0].Spec, reqs[0].RequiredBy))
		return reqs[0].Spec, nil
	}

	ranges := make([]*version.VersionRange, len(reqs))
	for i, req := range reqs {
		rng, err := version.ParseRange(req.Spec)
		if err != nil {
			return "", err
		}
		ranges[i] = rng
	}

	var best *semver.Version
	for _, s := range versions {
		v, err := semver.StrictNewVersion(s)
		if err != nil {
			continue
		}
		satisfies := true
		for _, rng := range ranges {
			if !rng.Check(v) {
				satisfies = false
				break
			}
		}
		if !satisfies {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if best == nil {
		return "", &VersionConflictError{Package: name, Requirements: reqs}
	}
	return best.String(), nil
}

// topologicalSort emits each package after the packages that required it
// (root excluded). Note this is requirer-first, not the classic
// dependencies-first install order; callers and tests rely on it as stated.
func (st *resolution) topologicalSort() []string {
	visited := make(map[string]bool)
	order := make([]string, 0, len(st.resolved))

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		for _, requirer := range st.resolved[name].RequiredBy {
			if requirer == RootRequirer || st.resolved[requirer] == nil {
				continue
			}
			visit(requirer)
		}
		order = append(order, name)
	}

	for _, name := range sortedKeys(st.resolved) {
		visit(name)
	}
	return order
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
