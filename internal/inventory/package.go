package inventory

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// Package is one installed package as recorded in the inventory.
//
// RemoteVersion starts equal to InstalledVersion and is only changed by the
// resolver; the same holds for Git.RemoteCommit and Git.LocalCommit.
type Package struct {
	Name              string
	InstalledVersion  *semver.Version
	RemoteVersion     *semver.Version
	Source            Source
	Binaries          []string
	Features          []string
	AllFeatures       bool
	NoDefaultFeatures bool
}

// NewPackage returns a package whose remote version equals the installed version.
func NewPackage(name string, installed *semver.Version, source Source) *Package {
	return &Package{
		Name:             name,
		InstalledVersion: installed,
		RemoteVersion:    installed,
		Source:           source,
	}
}

// ParseVersion parses a strict semantic version (major.minor.patch with
// optional pre-release and build metadata).
func ParseVersion(raw string) (*semver.Version, error) {
	return semver.StrictNewVersion(raw)
}

// SetFeatures stores the enabled feature set in sorted, de-duplicated form.
func (p *Package) SetFeatures(features []string) {
	seen := make(map[string]struct{}, len(features))
	out := make([]string, 0, len(features))
	for _, feature := range features {
		if feature == "" {
			continue
		}
		if _, ok := seen[feature]; ok {
			continue
		}
		seen[feature] = struct{}{}
		out = append(out, feature)
	}
	sort.Strings(out)
	p.Features = out
}

// HasUpdate reports whether the remote version is strictly newer than the installed one.
func (p *Package) HasUpdate() bool {
	if p.InstalledVersion == nil || p.RemoteVersion == nil {
		return false
	}
	return p.InstalledVersion.LessThan(p.RemoteVersion)
}

// IsRegistry reports whether the package came from a package index.
func (p *Package) IsRegistry() bool {
	_, ok := p.Source.(*Registry)
	return ok
}

// String renders the package as "name (installed) -> (remote)" with
// source-specific detail appended.
func (p *Package) String() string {
	switch src := p.Source.(type) {
	case *Git:
		return fmt.Sprintf("%s (%s):%s -> (%s):%s %s", p.Name, p.InstalledVersion, src.LocalCommit, p.RemoteVersion, src.RemoteCommit, src.URL)
	case *Local:
		return fmt.Sprintf("%s (%s) -> (%s) %s", p.Name, p.InstalledVersion, p.RemoteVersion, src.Path)
	default:
		return fmt.Sprintf("%s (%s) -> (%s)", p.Name, p.InstalledVersion, p.RemoteVersion)
	}
}
