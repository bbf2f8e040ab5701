package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

// SettingsFileName is the optional per-cargo-home settings file.
const SettingsFileName = "install-upgrade.toml"

// Settings holds defaults read from the settings file. Nil pointers mean unset.
type Settings struct {
	Exclude       []string `toml:"exclude"`
	Force         *bool    `toml:"force"`
	Verbose       *bool    `toml:"verbose"`
	SearchRetries *int     `toml:"search_retries"`
}

// SettingsPath returns the settings file location for cargoHome.
func SettingsPath(cargoHome string) string {
	return filepath.Join(cargoHome, SettingsFileName)
}

// LoadSettings reads the settings file under cargoHome. A missing file yields
// empty settings.
func LoadSettings(cargoHome string) (Settings, error) {
	path := SettingsPath(cargoHome)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf(messages.ConfigSettingsReadFmt, path, err)
	}
	return ParseSettings(data, path)
}

// ParseSettings decodes settings TOML, rejecting unknown keys.
// source is used in error messages.
func ParseSettings(data []byte, source string) (Settings, error) {
	var settings Settings
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		return Settings{}, fmt.Errorf(messages.ConfigSettingsInvalidFmt, source, err)
	}
	if settings.SearchRetries != nil && *settings.SearchRetries < 0 {
		return Settings{}, fmt.Errorf(messages.ConfigSettingsNegativeRetriesFmt, source, *settings.SearchRetries)
	}
	return settings, nil
}
