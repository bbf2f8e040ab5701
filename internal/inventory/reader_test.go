package inventory

import (
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gitCommit = "0123456789abcdef0123456789abcdef01234567"

const legacyDoc = `[v1]
"demo 0.1.0 (registry+https://x)" = ["demo"]
"demo2 0.2.0 (git+https://y#` + gitCommit + `)" = ["demo2", "demo2-helper"]
"demo3 0.3.0 (path+file:///tmp/p)" = ["demo3"]
`

func TestReadFSLegacyFormat(t *testing.T) {
	fsys := fstest.MapFS{LegacyFileName: {Data: []byte(legacyDoc)}}
	root := filepath.FromSlash("/home/me/.cargo")

	packages, err := ReadFS(fsys, root, "linux")
	require.NoError(t, err)
	require.Len(t, packages, 3)

	demo := packages[0]
	assert.Equal(t, "demo", demo.Name)
	assert.Equal(t, "0.1.0", demo.InstalledVersion.String())
	require.IsType(t, &Registry{}, demo.Source)
	assert.Equal(t, "https://x", demo.Source.(*Registry).Index)
	assert.Equal(t, []string{filepath.Join(root, "bin", "demo")}, demo.Binaries)

	demo2 := packages[1]
	assert.Equal(t, "demo2", demo2.Name)
	git, ok := demo2.Source.(*Git)
	require.True(t, ok, "expected git source, got %T", demo2.Source)
	assert.Equal(t, "https://y", git.URL)
	assert.Equal(t, gitCommit, git.LocalCommit)
	assert.Equal(t, []string{
		filepath.Join(root, "bin", "demo2"),
		filepath.Join(root, "bin", "demo2-helper"),
	}, demo2.Binaries)

	demo3 := packages[2]
	local, ok := demo3.Source.(*Local)
	require.True(t, ok, "expected local source, got %T", demo3.Source)
	assert.Equal(t, "/tmp/p", local.Path)
}

func TestFreshRecordsHaveRemoteEqualToInstalled(t *testing.T) {
	fsys := fstest.MapFS{LegacyFileName: {Data: []byte(legacyDoc)}}
	packages, err := ReadFS(fsys, "/cargo", "linux")
	require.NoError(t, err)

	for _, pkg := range packages {
		assert.True(t, pkg.InstalledVersion.Equal(pkg.RemoteVersion), "package %s", pkg.Name)
		assert.False(t, pkg.HasUpdate(), "package %s", pkg.Name)
		if git, ok := pkg.Source.(*Git); ok {
			assert.Equal(t, git.LocalCommit, git.RemoteCommit)
		}
	}
}

func TestReadFSPrefersStructuredFormat(t *testing.T) {
	structured := `{
  "installs": {
    "ripgrep 14.1.0 (registry+https://github.com/rust-lang/crates.io-index)": {
      "version_req": null,
      "bins": ["rg"],
      "features": ["pcre2", "pcre2", ""],
      "all_features": false,
      "no_default_features": true,
      "profile": "release"
    }
  }
}`
	fsys := fstest.MapFS{
		StructuredFileName: {Data: []byte(structured)},
		LegacyFileName:     {Data: []byte(legacyDoc)},
	}

	packages, err := ReadFS(fsys, "/cargo", "linux")
	require.NoError(t, err)
	require.Len(t, packages, 1)
	pkg := packages[0]
	assert.Equal(t, "ripgrep", pkg.Name)
	assert.Equal(t, []string{"pcre2"}, pkg.Features)
	assert.True(t, pkg.NoDefaultFeatures)
	assert.False(t, pkg.AllFeatures)
	assert.Equal(t, []string{filepath.Join("/cargo", "bin", "rg")}, pkg.Binaries)
}

func TestReadFSSparseRegistryTag(t *testing.T) {
	doc := `{"installs":{"bat 0.24.0 (sparse+https://index.crates.io/)":{"bins":["bat"]}}}`
	packages, err := ReadFS(fstest.MapFS{StructuredFileName: {Data: []byte(doc)}}, "/cargo", "linux")
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.True(t, packages[0].IsRegistry())
}

func TestReadFSNotFound(t *testing.T) {
	_, err := ReadFS(fstest.MapFS{}, "/cargo", "linux")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReadFSMalformed(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		data  string
		entry string
	}{
		{name: "toml syntax", file: LegacyFileName, data: "[v1\n"},
		{name: "json syntax", file: StructuredFileName, data: "{"},
		{name: "missing installs", file: StructuredFileName, data: `{"other":{}}`},
		{
			name:  "field count",
			file:  LegacyFileName,
			data:  "[v1]\n\"demo 0.1.0\" = []\n",
			entry: "demo 0.1.0",
		},
		{
			name:  "unknown tag",
			file:  LegacyFileName,
			data:  "[v1]\n\"demo 0.1.0 (svn+https://x)\" = []\n",
			entry: "demo 0.1.0 (svn+https://x)",
		},
		{
			name:  "descriptor without parentheses",
			file:  LegacyFileName,
			data:  "[v1]\n\"demo 0.1.0 registry+https://x\" = []\n",
			entry: "demo 0.1.0 registry+https://x",
		},
		{
			name:  "git without commit",
			file:  StructuredFileName,
			data:  `{"installs":{"demo 0.1.0 (git+https://y)":{"bins":[]}}}`,
			entry: "demo 0.1.0 (git+https://y)",
		},
		{
			name:  "bad version",
			file:  LegacyFileName,
			data:  "[v1]\n\"demo one (registry+https://x)\" = []\n",
			entry: "demo one (registry+https://x)",
		},
		{
			name:  "binary not a string",
			file:  LegacyFileName,
			data:  "[v1]\n\"demo 0.1.0 (registry+https://x)\" = [1]\n",
			entry: "demo 0.1.0 (registry+https://x)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{tt.file: {Data: []byte(tt.data)}}
			_, err := ReadFS(fsys, "/cargo", "linux")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInventory), "got %v", err)
			var malformed *MalformedInventoryError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.entry, malformed.Entry)
		})
	}
}

func TestReadFSAbortsOnFirstMalformedEntry(t *testing.T) {
	doc := "[v1]\n\"aaa 0.1.0 (registry+https://x)\" = []\n\"bbb 0.1.0 (bogus+https://x)\" = []\n\"ccc 0.1.0 (registry+https://x)\" = []\n"
	packages, err := ReadFS(fstest.MapFS{LegacyFileName: {Data: []byte(doc)}}, "/cargo", "linux")
	require.Error(t, err)
	assert.Nil(t, packages)
}

func TestReadFSIgnoresNonTableTopLevelValues(t *testing.T) {
	doc := "version = 1\n[v1]\n\"demo 0.1.0 (registry+https://x)\" = [\"demo\"]\n"
	packages, err := ReadFS(fstest.MapFS{LegacyFileName: {Data: []byte(doc)}}, "/cargo", "linux")
	require.NoError(t, err)
	require.Len(t, packages, 1)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	_, err := Read(dir)
	require.ErrorIs(t, err, ErrNotFound)
	assert.False(t, Exists(dir))
}
