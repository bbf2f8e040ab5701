package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/cargo-install-upgrade/internal/inventory"
	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

// ErrCargoHomeNotFound is returned when no candidate directory holds an inventory file.
var ErrCargoHomeNotFound = errors.New(messages.ConfigCargoHomeNotFound)

// CargoHomeEnv names the environment variable cargo itself honours.
const CargoHomeEnv = "CARGO_HOME"

// Discovery carries the lookups used by FindCargoHome. Zero fields fall back
// to the process environment.
type Discovery struct {
	LookupEnv func(key string) (string, bool)
	HomeDir   func() (string, error)
	Exists    func(cargoHome string) bool
	GOOS      string
}

// FindCargoHome returns the cargo home to operate on. An explicit directory
// wins and is only checked for an inventory file. Otherwise $CARGO_HOME is
// used, then the per-user defaults, and only candidates holding an inventory
// file count.
func FindCargoHome(explicit string, d Discovery) (string, error) {
	d = d.withDefaults()
	if explicit != "" {
		dir, err := homedir.Expand(explicit)
		if err != nil {
			return "", fmt.Errorf(messages.ConfigCargoHomeExpandFmt, explicit, err)
		}
		if !d.Exists(dir) {
			return "", fmt.Errorf("%w: "+messages.ConfigCargoHomeNoInventory, ErrCargoHomeNotFound, dir, inventory.LegacyFileName, inventory.StructuredFileName)
		}
		return dir, nil
	}
	if dir, ok := d.LookupEnv(CargoHomeEnv); ok && dir != "" && d.Exists(dir) {
		return dir, nil
	}
	home, err := d.HomeDir()
	if err != nil {
		return "", ErrCargoHomeNotFound
	}
	for _, dir := range homeCandidates(home, d.GOOS) {
		if d.Exists(dir) {
			return dir, nil
		}
	}
	return "", ErrCargoHomeNotFound
}

func homeCandidates(home string, goos string) []string {
	if goos == "windows" {
		return []string{
			filepath.Join(home, "AppData", "Local", ".multirust", "cargo"),
			filepath.Join(home, ".cargo"),
		}
	}
	return []string{filepath.Join(home, ".cargo")}
}

func (d Discovery) withDefaults() Discovery {
	if d.LookupEnv == nil {
		d.LookupEnv = lookupEnv
	}
	if d.HomeDir == nil {
		d.HomeDir = homedir.Dir
	}
	if d.Exists == nil {
		d.Exists = inventory.Exists
	}
	if d.GOOS == "" {
		d.GOOS = runtime.GOOS
	}
	return d
}
