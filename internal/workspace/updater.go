package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/david1155/plugindep/pkg/version"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Pin describes the version to write for one plugin.
type Pin struct {
	Version  string
	Strategy version.Strategy
	Force    bool
}

// Change records one plugin block rewrite inside a file.
type Change struct {
	Plugin string
	Old    string
	New    string
}

// ShouldProcessPlatform determines if a given path should be processed based
// on the configured platforms.
func ShouldProcessPlatform(path string, platforms map[string]bool) bool {
	// If no platforms are configured, process all files
	if len(platforms) == 0 {
		return true
	}

	parts := strings.Split(path, string(os.PathSeparator))

	// First check for specific platform matches
	for _, part := range parts {
		for platform := range platforms {
			if platform == "*" {
				continue
			}
			// Check if platform is a directory name or part of the filename
			if part == platform || strings.Contains(part, platform) {
				return platforms[platform]
			}
		}
	}

	// If we have only "*" configured, use its value
	if len(platforms) == 1 && platforms["*"] {
		return true
	}

	// If we have specific platforms and "*", and no specific platform
	// matched, use "*" as the default
	if wildcardValue, hasWildcard := platforms["*"]; hasWildcard {
		return wildcardValue
	}

	return false
}

// ScanAndUpdatePlugins walks workDir, searching for *.hcl files. For each,
// calls UpdatePluginVersionsInFile(...) to rewrite plugin blocks to the
// resolved pins.
func ScanAndUpdatePlugins(workDir string, pins map[string]Pin, platforms map[string]bool, dryRun bool) error {
	return filepath.WalkDir(workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if !strings.HasSuffix(path, ".hcl") {
			return nil
		}

		if !ShouldProcessPlatform(path, platforms) {
			return nil
		}

		changes, err := UpdatePluginVersionsInFile(path, pins, dryRun)
		if err != nil {
			return fmt.Errorf("error updating file %s: %w", path, err)
		}

		for _, change := range changes {
			if dryRun {
				fmt.Printf("[DRY RUN] Would update plugin %q in %s: '%s' -> '%s'\n", change.Plugin, path, change.Old, change.New)
			} else {
				fmt.Printf("Updated plugin %q in %s: '%s' -> '%s'\n", change.Plugin, path, change.Old, change.New)
			}
		}

		return nil
	})
}

// UpdatePluginVersionsInFile reads a single .hcl file, finds plugin blocks
// whose label has a pin, and rewrites the "version" attribute according to
// the pin's strategy. The file is only written back when something changed
// and dryRun is off.
func UpdatePluginVersionsInFile(filename string, pins map[string]Pin, dryRun bool) ([]Change, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	file, diags := hclwrite.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse error in %s: %s", filename, diags.Error())
	}

	var changes []Change

	for _, block := range file.Body().Blocks() {
		if block.Type() != "plugin" || len(block.Labels()) == 0 {
			continue
		}

		name := block.Labels()[0]
		pin, ok := pins[name]
		if !ok {
			continue
		}

		var existing string
		versionAttr := block.Body().GetAttribute("version")
		if versionAttr != nil {
			existing = strings.Trim(strings.TrimSpace(string(versionAttr.Expr().BuildTokens(nil).Bytes())), `"`)
		} else if !pin.Force {
			// Adding a version attribute is opt-in.
			fmt.Printf("Warning: Plugin %q in file %s has no version attribute. Use force to add one.\n", name, filename)
			continue
		}

		final, err := version.ApplyPinStrategy(pin.Strategy, pin.Version, existing)
		if err != nil {
			return nil, fmt.Errorf("failed to apply pin strategy for plugin %q: %w", name, err)
		}

		if version.NormalizeSpec(existing) == version.NormalizeSpec(final) {
			continue
		}

		block.Body().SetAttributeValue("version", cty.StringVal(final))
		changes = append(changes, Change{Plugin: name, Old: existing, New: final})
	}

	if len(changes) == 0 {
		return nil, nil
	}

	if !dryRun {
		if err := os.WriteFile(filename, file.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write file %s: %w", filename, err)
		}
	}

	return changes, nil
}
