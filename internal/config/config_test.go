package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/cargo-install-upgrade/internal/inventory"
	"github.com/conn-castle/cargo-install-upgrade/internal/testutil"
)

func TestNewSelection(t *testing.T) {
	all, err := NewSelection(nil, []string{" "})
	require.NoError(t, err)
	assert.Equal(t, SelectAll, all.Mode)
	assert.True(t, all.Allows("anything"))
	assert.Empty(t, all.Requested())

	inc, err := NewSelection([]string{"ripgrep", "bat", "ripgrep"}, nil)
	require.NoError(t, err)
	assert.True(t, inc.Allows("bat"))
	assert.False(t, inc.Allows("fd-find"))
	assert.Equal(t, []string{"bat", "ripgrep"}, inc.Requested())

	exc, err := NewSelection(nil, []string{"bat"})
	require.NoError(t, err)
	assert.False(t, exc.Allows("bat"))
	assert.True(t, exc.Allows("ripgrep"))
	assert.Empty(t, exc.Requested())

	_, err = NewSelection([]string{"a"}, []string{"b"})
	assert.True(t, errors.Is(err, ErrSelectionConflict))
}

func TestBuildFlagsWinOverSettings(t *testing.T) {
	retries := 5
	settings := Settings{
		Exclude:       []string{"cargo-edit"},
		Force:         testutil.BoolPtr(true),
		Verbose:       testutil.BoolPtr(true),
		SearchRetries: &retries,
	}
	cfg, err := Build(Flags{Force: testutil.BoolPtr(false), DryRun: true}, settings, "/home/u/.cargo")
	require.NoError(t, err)

	assert.False(t, cfg.Upgrade)
	assert.False(t, cfg.Force)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 5, cfg.SearchRetries)
	assert.Equal(t, "/home/u/.cargo", cfg.CargoHome)
	assert.Equal(t, SelectExclude, cfg.Selection.Mode)
	assert.False(t, cfg.Selection.Allows("cargo-edit"))
}

func TestBuildMergesSettingsExcludeWithFlags(t *testing.T) {
	cfg, err := Build(Flags{Exclude: []string{"bat"}}, Settings{Exclude: []string{"fd-find"}}, "")
	require.NoError(t, err)
	assert.False(t, cfg.Selection.Allows("bat"))
	assert.False(t, cfg.Selection.Allows("fd-find"))
	assert.True(t, cfg.Selection.Allows("ripgrep"))
}

func TestBuildPackagesIgnoreSettingsExclude(t *testing.T) {
	cfg, err := Build(Flags{Packages: []string{"bat"}}, Settings{Exclude: []string{"bat"}}, "")
	require.NoError(t, err)
	assert.Equal(t, SelectInclude, cfg.Selection.Mode)
	assert.True(t, cfg.Selection.Allows("bat"))
}

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build(Flags{}, Settings{}, "")
	require.NoError(t, err)
	assert.True(t, cfg.Upgrade)
	assert.False(t, cfg.Force)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultSearchRetries, cfg.SearchRetries)
	assert.Equal(t, SelectAll, cfg.Selection.Mode)
}

func TestBuildConflict(t *testing.T) {
	_, err := Build(Flags{Packages: []string{"a"}, Exclude: []string{"b"}}, Settings{}, "")
	assert.ErrorIs(t, err, ErrSelectionConflict)
}

func TestParseSettings(t *testing.T) {
	settings, err := ParseSettings([]byte("exclude = [\"bat\"]\nforce = true\nsearch_retries = 0\n"), "settings")
	require.NoError(t, err)
	assert.Equal(t, []string{"bat"}, settings.Exclude)
	require.NotNil(t, settings.Force)
	assert.True(t, *settings.Force)
	assert.Nil(t, settings.Verbose)
	require.NotNil(t, settings.SearchRetries)
	assert.Equal(t, 0, *settings.SearchRetries)
}

func TestParseSettingsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "unknown key", data: "forse = true\n", want: "invalid settings"},
		{name: "wrong type", data: "force = \"yes\"\n", want: "invalid settings"},
		{name: "syntax", data: "exclude = [\n", want: "invalid settings"},
		{name: "negative retries", data: "search_retries = -1\n", want: "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings([]byte(tt.data), "settings")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSettings(t *testing.T) {
	home := t.TempDir()
	settings, err := LoadSettings(home)
	require.NoError(t, err)
	assert.Equal(t, Settings{}, settings)

	testutil.WriteFile(t, SettingsPath(home), "verbose = true\n")
	settings, err = LoadSettings(home)
	require.NoError(t, err)
	require.NotNil(t, settings.Verbose)
	assert.True(t, *settings.Verbose)
}

func discovery(env map[string]string, home string, existing ...string) Discovery {
	set := map[string]bool{}
	for _, dir := range existing {
		set[dir] = true
	}
	return Discovery{
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		HomeDir: func() (string, error) { return home, nil },
		Exists:  func(dir string) bool { return set[dir] },
		GOOS:    "linux",
	}
}

func TestFindCargoHomeOrder(t *testing.T) {
	home := "/home/u"
	dotCargo := filepath.Join(home, ".cargo")

	got, err := FindCargoHome("/opt/cargo", discovery(map[string]string{CargoHomeEnv: "/env/cargo"}, home, "/opt/cargo", "/env/cargo", dotCargo))
	require.NoError(t, err)
	assert.Equal(t, "/opt/cargo", got)

	got, err = FindCargoHome("", discovery(map[string]string{CargoHomeEnv: "/env/cargo"}, home, "/env/cargo", dotCargo))
	require.NoError(t, err)
	assert.Equal(t, "/env/cargo", got)

	got, err = FindCargoHome("", discovery(map[string]string{CargoHomeEnv: "/env/cargo"}, home, dotCargo))
	require.NoError(t, err)
	assert.Equal(t, dotCargo, got)

	_, err = FindCargoHome("", discovery(nil, home))
	assert.ErrorIs(t, err, ErrCargoHomeNotFound)
}

func TestFindCargoHomeExplicitWithoutInventory(t *testing.T) {
	_, err := FindCargoHome("/opt/cargo", discovery(nil, "/home/u", "/home/u/.cargo"))
	require.ErrorIs(t, err, ErrCargoHomeNotFound)
	assert.Contains(t, err.Error(), "/opt/cargo")
}

func TestFindCargoHomeWindowsPrefersMultirust(t *testing.T) {
	home := "/Users/u"
	multirust := filepath.Join(home, "AppData", "Local", ".multirust", "cargo")
	d := discovery(nil, home, multirust, filepath.Join(home, ".cargo"))
	d.GOOS = "windows"

	got, err := FindCargoHome("", d)
	require.NoError(t, err)
	assert.Equal(t, multirust, got)
}

func TestFindCargoHomeUsesInventoryOnDisk(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, inventory.LegacyPath(dir), "[v1]\n")

	got, err := FindCargoHome(dir, Discovery{})
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}
