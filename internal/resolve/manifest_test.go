package resolve

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/cargo-install-upgrade/internal/testutil"
)

const sampleManifest = `[package]
name = "mytool"
version = "1.4.2"
edition = "2021"

[dependencies]
serde = "1"
`

func TestCargoManifestUsesReadManifest(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, ManifestFileName), sampleManifest)
	run := &testutil.FakeRunner{OutputFunc: func([]string) (string, error) {
		return `{"name":"mytool","version":"1.5.0","dependencies":[]}`, nil
	}}
	m := &CargoManifest{Runner: run}

	got, err := m.Field(context.Background(), dir, "version")
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", got)
	assert.Equal(t, []string{"cargo read-manifest --manifest-path " + filepath.Join(dir, ManifestFileName)}, run.Commands())
}

func TestCargoManifestFieldMissing(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, ManifestFileName), sampleManifest)
	run := &testutil.FakeRunner{OutputFunc: func([]string) (string, error) {
		return `{"name":"mytool","version":7}`, nil
	}}

	_, err := (&CargoManifest{Runner: run}).Field(context.Background(), dir, "version")
	var missing *ManifestFieldMissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "version", missing.Field)
}

func TestCargoManifestFallsBackToTOML(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, ManifestFileName), sampleManifest)
	run := &testutil.FakeRunner{OutputFunc: func(argv []string) (string, error) {
		return "", testutil.ExitError(argv, 101)
	}}

	got, err := (&CargoManifest{Runner: run}).Field(context.Background(), dir, "version")
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", got)
}

func TestCargoManifestFallbackWithoutField(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, ManifestFileName), "[package]\nname = \"x\"\nversion.workspace = true\n")
	run := &testutil.FakeRunner{OutputFunc: func(argv []string) (string, error) {
		return "", testutil.ExitError(argv, 101)
	}}

	_, err := (&CargoManifest{Runner: run}).Field(context.Background(), dir, "version")
	var missing *ManifestFieldMissingError
	require.True(t, errors.As(err, &missing))
}

func TestCargoManifestMissingFile(t *testing.T) {
	run := &testutil.FakeRunner{}
	_, err := (&CargoManifest{Runner: run}).Field(context.Background(), t.TempDir(), "version")
	var missing *ManifestMissingError
	require.True(t, errors.As(err, &missing))
	assert.Empty(t, run.Calls())
}

func TestCargoManifestBadJSON(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, ManifestFileName), sampleManifest)
	run := &testutil.FakeRunner{OutputFunc: func([]string) (string, error) { return "not json", nil }}

	_, err := (&CargoManifest{Runner: run}).Field(context.Background(), dir, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode manifest")
}
