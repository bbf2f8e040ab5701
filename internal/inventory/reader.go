// Package inventory reads the registry of packages installed with
// `cargo install` and models each entry as a Package.
//
// Cargo keeps two files in its home directory. The legacy .crates.toml maps
// each entry key to a list of binary names; the newer .crates2.json carries
// the same keys under "installs" together with the enabled feature set. Both
// decode into the same []*Package; the structured file wins when present.
package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	toml "github.com/pelletier/go-toml"

	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

// Inventory file names and the binary directory, relative to the cargo home.
const (
	LegacyFileName     = ".crates.toml"
	StructuredFileName = ".crates2.json"
	BinDirName         = "bin"
)

// LegacyPath returns the path of the legacy inventory file.
func LegacyPath(cargoHome string) string {
	return filepath.Join(cargoHome, LegacyFileName)
}

// StructuredPath returns the path of the structured inventory file.
func StructuredPath(cargoHome string) string {
	return filepath.Join(cargoHome, StructuredFileName)
}

// MetadataPaths returns both inventory file paths, legacy first.
func MetadataPaths(cargoHome string) []string {
	return []string{LegacyPath(cargoHome), StructuredPath(cargoHome)}
}

// Exists reports whether cargoHome holds at least one inventory file.
func Exists(cargoHome string) bool {
	for _, path := range MetadataPaths(cargoHome) {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// Read loads the installed packages recorded under cargoHome.
func Read(cargoHome string) ([]*Package, error) {
	return ReadFS(os.DirFS(cargoHome), cargoHome, runtime.GOOS)
}

// ReadFS loads the installed packages from fsys, whose root is cargoHome.
// cargoHome is used to build absolute binary paths and error messages; goos
// selects the path-source URL convention.
func ReadFS(fsys fs.FS, cargoHome string, goos string) ([]*Package, error) {
	data, err := fs.ReadFile(fsys, StructuredFileName)
	if err == nil {
		return parseStructured(data, StructuredPath(cargoHome), cargoHome, goos)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(messages.InventoryReadFailedFmt, StructuredPath(cargoHome), err)
	}

	data, err = fs.ReadFile(fsys, LegacyFileName)
	if err == nil {
		return parseLegacy(data, LegacyPath(cargoHome), cargoHome, goos)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(messages.InventoryReadFailedFmt, LegacyPath(cargoHome), err)
	}
	return nil, fmt.Errorf(messages.InventoryNotFoundFmt, ErrNotFound, cargoHome, StructuredFileName, LegacyFileName)
}

// parseLegacy decodes the table-keyed document. Every top-level table maps
// entry keys to binary name lists; non-table top-level values are ignored.
func parseLegacy(data []byte, path string, cargoHome string, goos string) ([]*Package, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, &MalformedInventoryError{Path: path, Reason: err.Error()}
	}
	doc := tree.ToMap()

	tableKeys := sortedKeys(doc)
	packages := make([]*Package, 0)
	for _, tableKey := range tableKeys {
		table, ok := doc[tableKey].(map[string]interface{})
		if !ok {
			continue
		}
		for _, entryKey := range sortedKeys(table) {
			pkg, err := parseEntryKey(entryKey, goos)
			if err != nil {
				return nil, malformedEntry(path, entryKey, err)
			}
			names, err := binaryNames(table[entryKey])
			if err != nil {
				return nil, malformedEntry(path, entryKey, err)
			}
			pkg.Binaries = binaryPaths(cargoHome, names)
			packages = append(packages, pkg)
		}
	}
	sortPackages(packages)
	return packages, nil
}

type structuredInventory struct {
	Installs map[string]structuredInstall `json:"installs"`
}

type structuredInstall struct {
	Bins              []string `json:"bins"`
	Features          []string `json:"features"`
	AllFeatures       bool     `json:"all_features"`
	NoDefaultFeatures bool     `json:"no_default_features"`
}

// parseStructured decodes the JSON document with an "installs" object.
func parseStructured(data []byte, path string, cargoHome string, goos string) ([]*Package, error) {
	var doc structuredInventory
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedInventoryError{Path: path, Reason: err.Error()}
	}
	if doc.Installs == nil {
		return nil, &MalformedInventoryError{Path: path, Reason: messages.InventoryInstallsMissing}
	}

	packages := make([]*Package, 0, len(doc.Installs))
	for _, entryKey := range sortedKeys(doc.Installs) {
		install := doc.Installs[entryKey]
		pkg, err := parseEntryKey(entryKey, goos)
		if err != nil {
			return nil, malformedEntry(path, entryKey, err)
		}
		pkg.Binaries = binaryPaths(cargoHome, install.Bins)
		pkg.SetFeatures(install.Features)
		pkg.AllFeatures = install.AllFeatures
		pkg.NoDefaultFeatures = install.NoDefaultFeatures
		packages = append(packages, pkg)
	}
	sortPackages(packages)
	return packages, nil
}

func malformedEntry(path string, entryKey string, err error) error {
	return &MalformedInventoryError{Path: path, Entry: entryKey, Reason: err.Error()}
}

func binaryNames(raw interface{}) ([]string, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, entryErrorf(messages.InventoryBinariesNotArray)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		name, ok := item.(string)
		if !ok {
			return nil, entryErrorf(messages.InventoryBinaryNotStringFmt, item)
		}
		names = append(names, name)
	}
	return names, nil
}

func binaryPaths(cargoHome string, names []string) []string {
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(cargoHome, BinDirName, name))
	}
	return paths
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortPackages(packages []*Package) {
	sort.SliceStable(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})
}
