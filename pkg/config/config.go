package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/david1155/plugindep/pkg/resolver"
	"github.com/david1155/plugindep/pkg/version"
	"gopkg.in/yaml.v3"
)

type VersionConfig struct {
	Strategy version.Strategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Spec     string           `json:"spec,omitempty" yaml:"spec,omitempty"`
	Force    *bool            `json:"force,omitempty" yaml:"force,omitempty"`
}

type PluginConfig struct {
	Name      string                 `json:"name" yaml:"name"`
	Source    string                 `json:"source" yaml:"source"`
	Strategy  version.Strategy       `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Force     bool                   `json:"force,omitempty" yaml:"force,omitempty"`
	Platforms map[string]interface{} `json:"platforms" yaml:"platforms"` // platform -> spec or VersionConfig
}

type Config struct {
	Plugins []PluginConfig `json:"plugins" yaml:"plugins"`
	// Catalog lists the installable versions per plugin, in ascending
	// order. Plugins missing from it resolve to their requirement spec
	// verbatim.
	Catalog map[string][]string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	// Manifests declares transitive dependencies, keyed "name@version".
	Manifests map[string]map[string]string `json:"manifests,omitempty" yaml:"manifests,omitempty"`
}

// UnmarshalVersionConfig handles both string and object version
// configurations: a bare string is shorthand for {spec: ...}.
func UnmarshalVersionConfig(data interface{}) (VersionConfig, error) {
	switch v := data.(type) {
	case string:
		return VersionConfig{Spec: v}, nil
	case map[string]interface{}:
		var config VersionConfig
		if strategy, ok := v["strategy"].(string); ok {
			config.Strategy = version.Strategy(strategy)
		}
		if spec, ok := v["spec"].(string); ok {
			config.Spec = spec
		}
		if force, ok := v["force"].(bool); ok {
			config.Force = &force
		}
		return config, nil
	default:
		return VersionConfig{}, fmt.Errorf("invalid version config type: %T", data)
	}
}

// GetEffectiveVersionConfig returns the effective version configuration for
// a platform, considering the "*" wildcard.
func GetEffectiveVersionConfig(plugin PluginConfig, platform string) (VersionConfig, error) {
	if versionData, ok := plugin.Platforms[platform]; ok {
		return UnmarshalVersionConfig(versionData)
	}

	if versionData, ok := plugin.Platforms["*"]; ok {
		return UnmarshalVersionConfig(versionData)
	}

	return VersionConfig{}, fmt.Errorf("no version configuration found for platform %s", platform)
}

// GetEffectiveStrategy returns the effective pin strategy for a platform,
// considering wildcards and plugin-level defaults.
func GetEffectiveStrategy(plugin PluginConfig, platform string) version.Strategy {
	if versionData, ok := plugin.Platforms[platform]; ok {
		if config, err := UnmarshalVersionConfig(versionData); err == nil && config.Strategy != "" {
			return config.Strategy
		}
	}

	if versionData, ok := plugin.Platforms["*"]; ok {
		if config, err := UnmarshalVersionConfig(versionData); err == nil && config.Strategy != "" {
			return config.Strategy
		}
	}

	if plugin.Strategy != "" {
		return plugin.Strategy
	}

	return version.StrategyDynamic
}

// GetEffectiveForce returns the effective force setting for a platform,
// considering platform-specific config, wildcard config, and plugin
// defaults.
func GetEffectiveForce(plugin PluginConfig, platform string) bool {
	if versionData, ok := plugin.Platforms[platform]; ok {
		if config, err := UnmarshalVersionConfig(versionData); err == nil && config.Force != nil {
			return *config.Force
		}
	}

	if versionData, ok := plugin.Platforms["*"]; ok {
		if config, err := UnmarshalVersionConfig(versionData); err == nil && config.Force != nil {
			return *config.Force
		}
	}

	return plugin.Force
}

// LoadConfig loads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty config file")
	}

	var config Config

	// Try JSON first, then YAML if that fails
	if err := json.Unmarshal(data, &config); err != nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return &config, nil
}

// GetPlatformsFromConfig returns all unique platforms mentioned in the
// config, the "*" wildcard included.
func GetPlatformsFromConfig(config *Config) map[string]bool {
	platforms := make(map[string]bool)
	for _, plugin := range config.Plugins {
		for platform := range plugin.Platforms {
			platforms[platform] = true
		}
	}
	return platforms
}

// RootRequirements flattens the config into the resolver's root requirement
// map for one platform. Plugins with no spec for the platform are left out.
func RootRequirements(config *Config, platform string) map[string]string {
	requirements := make(map[string]string)
	for _, plugin := range config.Plugins {
		versionConfig, err := GetEffectiveVersionConfig(plugin, platform)
		if err != nil || versionConfig.Spec == "" {
			continue
		}
		requirements[plugin.Name] = versionConfig.Spec
	}
	return requirements
}

// ManifestProvider exposes the config's static manifests as a resolver
// manifest source, or nil when none are declared.
func ManifestProvider(config *Config) resolver.ManifestFunc {
	if len(config.Manifests) == 0 {
		return nil
	}
	return resolver.StaticManifests(config.Manifests).Lookup
}
