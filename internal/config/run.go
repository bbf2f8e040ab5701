// Package config builds the run configuration from command-line flags, the
// optional settings file, and cargo home discovery.
package config

import (
	"os"
)

// DefaultSearchRetries is used when neither flags nor settings set a retry count.
const DefaultSearchRetries = 2

var lookupEnv = os.LookupEnv

// RunConfig is the immutable configuration for one run.
type RunConfig struct {
	// Upgrade is false on dry runs.
	Upgrade       bool
	Force         bool
	Verbose       bool
	Interactive   bool
	Selection     Selection
	CargoHome     string
	SearchRetries int
}

// Flags carries command-line values. Pointer fields are nil when the flag
// was not given, so settings can supply the default.
type Flags struct {
	Packages    []string
	Exclude     []string
	Force       *bool
	Verbose     *bool
	DryRun      bool
	Interactive bool
	CargoHome   string
}

// Build merges flags over settings. Settings exclusions apply only when no
// --packages list was given.
func Build(flags Flags, settings Settings, cargoHome string) (RunConfig, error) {
	selection, err := NewSelection(flags.Packages, flags.Exclude)
	if err != nil {
		return RunConfig{}, err
	}
	selection = selection.withExcluded(settings.Exclude)

	cfg := RunConfig{
		Upgrade:       !flags.DryRun,
		Interactive:   flags.Interactive,
		Selection:     selection,
		CargoHome:     cargoHome,
		SearchRetries: DefaultSearchRetries,
	}
	cfg.Force = pick(flags.Force, settings.Force)
	cfg.Verbose = pick(flags.Verbose, settings.Verbose)
	if settings.SearchRetries != nil {
		cfg.SearchRetries = *settings.SearchRetries
	}
	return cfg, nil
}

func pick(flag *bool, setting *bool) bool {
	if flag != nil {
		return *flag
	}
	if setting != nil {
		return *setting
	}
	return false
}
