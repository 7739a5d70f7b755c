package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/david1155/plugindep/internal/workspace"
	"github.com/david1155/plugindep/pkg/config"
	"github.com/david1155/plugindep/pkg/resolver"
	"github.com/david1155/plugindep/pkg/version"
)

func processConfig(configFile, workDir, platform string, dryRun bool) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	configPlatforms := config.GetPlatformsFromConfig(cfg)

	var targets []string
	if platform != "" {
		targets = []string{platform}
	} else {
		for p := range configPlatforms {
			// The wildcard platform only exists for inheritance.
			if p != "*" {
				targets = append(targets, p)
			}
		}
		sort.Strings(targets)
	}

	for _, target := range targets {
		requirements := config.RootRequirements(cfg, target)
		if len(requirements) == 0 {
			log.Printf("No plugins configured for platform '%s'", target)
			continue
		}

		res := resolver.New(cfg.Catalog, config.ManifestProvider(cfg))
		result, err := res.Resolve(requirements)
		if err != nil {
			log.Printf("Error resolving plugins for platform '%s': %v", target, err)
			continue
		}

		for _, warning := range result.Warnings {
			log.Printf("Warning: %s", warning)
		}

		fmt.Printf("Install order for platform '%s':\n", target)
		for _, dep := range result.Resolved {
			fmt.Printf("  %s@%s (required by %s)\n", dep.Name, dep.Version, strings.Join(dep.RequiredBy, ", "))
		}

		pins := make(map[string]workspace.Pin)
		for _, dep := range result.Resolved {
			pins[dep.Name] = workspace.Pin{
				Version:  dep.Version,
				Strategy: version.StrategyDynamic,
			}
		}
		// Plugins named in the config carry their configured strategy;
		// transitive dependencies keep the dynamic default above.
		for _, plugin := range cfg.Plugins {
			pin, ok := pins[plugin.Name]
			if !ok {
				continue
			}
			pin.Strategy = config.GetEffectiveStrategy(plugin, target)
			pin.Force = config.GetEffectiveForce(plugin, target)
			pins[plugin.Name] = pin
		}

		rootDir := filepath.Join(workDir, target)
		if err := workspace.ScanAndUpdatePlugins(rootDir, pins, configPlatforms, dryRun); err != nil {
			log.Printf("Error updating workspace for platform '%s': %v", target, err)
			continue
		}

		log.Printf("Successfully processed platform '%s'", target)
	}
	return nil
}

func mainWithFlags(args []string, workDir string) error {
	flags := flag.NewFlagSet("plugindep", flag.ContinueOnError)

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plugindep [options]\n\n")
		fmt.Fprintf(os.Stderr, "A tool for resolving and pinning AI coding-assistant plugin versions.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
	}

	configFile := flags.String("config", "", "Path to config file (JSON or YAML)")
	dir := flags.String("dir", workDir, "Directory containing platform workspaces")
	platform := flags.String("platform", "", "Resolve a single platform instead of all configured ones")
	dryRun := flags.Bool("dry-run", false, "Preview changes without modifying files")
	help := flags.Bool("help", false, "Display help information")

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if *help {
		flags.Usage()
		return nil
	}

	if *configFile == "" {
		flags.Usage()
		return fmt.Errorf("config file is required: -config path/to/config.yaml")
	}

	return processConfig(*configFile, *dir, *platform, *dryRun)
}

func main() {
	if err := mainWithFlags(os.Args[1:], "."); err != nil {
		log.Fatal(err)
	}
}
