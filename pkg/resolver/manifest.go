package resolver

// Manifest is a package's own dependency map: dependency name -> spec.
type Manifest struct {
	Dependencies map[string]string
}

// ManifestFunc looks up the manifest of a package at a concrete version. A
// nil ManifestFunc disables transitive resolution entirely; returning nil
// for a package means it declares no dependencies.
type ManifestFunc func(name, version string) *Manifest

// StaticManifests is an in-memory manifest source keyed "name@version",
// useful for offline catalogs and tests.
type StaticManifests map[string]map[string]string

// Lookup implements ManifestFunc over the static table.
func (m StaticManifests) Lookup(name, version string) *Manifest {
	deps, ok := m[name+"@"+version]
	if !ok {
		return nil
	}
	return &Manifest{Dependencies: deps}
}
