package inventory

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

// entryError is a per-entry parse failure; the reader attaches the file path.
type entryError struct {
	reason string
}

func (e *entryError) Error() string { return e.reason }

func entryErrorf(format string, args ...any) error {
	return &entryError{reason: fmt.Sprintf(format, args...)}
}

// parseEntryKey parses an inventory key of the form
// "<name> <version> (<source-descriptor>)" into a package without binaries.
// goos selects the file URL prefix stripped from path sources.
func parseEntryKey(key string, goos string) (*Package, error) {
	fields := strings.Split(key, " ")
	if len(fields) != 3 {
		return nil, entryErrorf(messages.InventoryEntryFieldCountFmt, len(fields))
	}
	version, err := ParseVersion(fields[1])
	if err != nil {
		return nil, entryErrorf(messages.InventoryEntryInvalidVersionFmt, fields[1], err)
	}
	descriptor, ok := strings.CutPrefix(fields[2], "(")
	if ok {
		descriptor, ok = strings.CutSuffix(descriptor, ")")
	}
	if !ok {
		return nil, entryErrorf(messages.InventoryEntryUnparenthesizedFmt, fields[2])
	}
	source, err := parseSourceDescriptor(descriptor, goos)
	if err != nil {
		return nil, err
	}
	return NewPackage(fields[0], version, source), nil
}

// parseSourceDescriptor maps "registry+...", "sparse+...", "git+<url>#<commit>"
// and "path+file://<path>" onto a Source.
func parseSourceDescriptor(descriptor string, goos string) (Source, error) {
	tag, rest, ok := strings.Cut(descriptor, "+")
	if !ok {
		return nil, entryErrorf(messages.InventoryEntryMissingSourceTagFmt, descriptor)
	}
	switch tag {
	case "registry", "sparse":
		return &Registry{Index: rest}, nil
	case "git":
		repo, commit, ok := strings.Cut(rest, "#")
		if !ok || repo == "" || commit == "" {
			return nil, entryErrorf(messages.InventoryEntryGitMissingCommitFmt, rest)
		}
		return &Git{URL: repo, LocalCommit: commit, RemoteCommit: commit}, nil
	case "path":
		path := localPath(rest, goos)
		if path == "" {
			return nil, entryErrorf(messages.InventoryEntryEmptyPath)
		}
		return &Local{Path: path}, nil
	default:
		return nil, entryErrorf(messages.InventoryEntryUnknownSourceFmt, tag)
	}
}

// localPath strips the file URL scheme. Windows paths carry a drive letter, so
// the third slash is stripped there too.
func localPath(raw string, goos string) string {
	prefix := "file://"
	if goos == "windows" {
		prefix = "file:///"
	}
	path := strings.TrimPrefix(raw, prefix)
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	return path
}
