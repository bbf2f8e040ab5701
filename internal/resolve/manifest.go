package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/cargo-install-upgrade/internal/logging"
	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
	"github.com/conn-castle/cargo-install-upgrade/internal/runner"
)

// ManifestFileName is the package manifest inside a crate directory.
const ManifestFileName = "Cargo.toml"

// ManifestReader reads top-level string fields from a crate manifest.
type ManifestReader interface {
	Field(ctx context.Context, dir string, field string) (string, error)
}

// CargoManifest reads manifests through `cargo read-manifest`. When cargo
// itself fails it decodes Cargo.toml directly, which covers literal
// [package] fields but not workspace-inherited ones.
type CargoManifest struct {
	Runner runner.Runner
	Logger *slog.Logger
}

// Field returns the named string field of the manifest in dir.
func (m *CargoManifest) Field(ctx context.Context, dir string, field string) (string, error) {
	path := filepath.Join(dir, ManifestFileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &ManifestMissingError{Path: path}
	}

	out, err := m.Runner.Output(ctx, []string{"cargo", "read-manifest", "--manifest-path", path})
	if err != nil {
		m.logger().Debug("cargo read-manifest failed; decoding manifest directly", "path", path, "error", err)
		return manifestFieldFromTOML(path, field)
	}
	return manifestFieldFromJSON([]byte(out), path, field)
}

func (m *CargoManifest) logger() *slog.Logger {
	if m.Logger == nil {
		return logging.Discard()
	}
	return m.Logger
}

// manifestFieldFromJSON extracts field from `cargo read-manifest` output.
func manifestFieldFromJSON(data []byte, path string, field string) (string, error) {
	var manifest map[string]any
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf(messages.ResolveManifestDecodeFmt, path, err)
	}
	value, ok := manifest[field].(string)
	if !ok {
		return "", &ManifestFieldMissingError{Path: path, Field: field}
	}
	return value, nil
}

type cargoTOML struct {
	Package map[string]any `toml:"package"`
}

// manifestFieldFromTOML extracts field from the [package] table of Cargo.toml.
func manifestFieldFromTOML(path string, field string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf(messages.ResolveManifestReadFailedFmt, path, err)
	}
	var manifest cargoTOML
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf(messages.ResolveManifestDecodeFmt, path, err)
	}
	value, ok := manifest.Package[field].(string)
	if !ok {
		return "", &ManifestFieldMissingError{Path: path, Field: field}
	}
	return value, nil
}
