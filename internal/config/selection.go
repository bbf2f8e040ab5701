package config

import (
	"errors"
	"sort"
	"strings"

	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

// ErrSelectionConflict is returned when both an include and an exclude list are given.
var ErrSelectionConflict = errors.New(messages.ConfigSelectionConflict)

// SelectionMode is how package names filter the inventory.
type SelectionMode int

const (
	// SelectAll processes every installed package.
	SelectAll SelectionMode = iota
	// SelectInclude processes only the named packages.
	SelectInclude
	// SelectExclude processes every package except the named ones.
	SelectExclude
)

// Selection filters packages by name.
type Selection struct {
	Mode  SelectionMode
	Names map[string]struct{}
}

// NewSelection builds a Selection from include and exclude lists. At most one
// list may be non-empty. Blank names are ignored.
func NewSelection(include []string, exclude []string) (Selection, error) {
	inc := nameSet(include)
	exc := nameSet(exclude)
	switch {
	case len(inc) > 0 && len(exc) > 0:
		return Selection{}, ErrSelectionConflict
	case len(inc) > 0:
		return Selection{Mode: SelectInclude, Names: inc}, nil
	case len(exc) > 0:
		return Selection{Mode: SelectExclude, Names: exc}, nil
	default:
		return Selection{Mode: SelectAll}, nil
	}
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// Allows reports whether the package named name should be processed.
func (s Selection) Allows(name string) bool {
	_, listed := s.Names[name]
	switch s.Mode {
	case SelectInclude:
		return listed
	case SelectExclude:
		return !listed
	default:
		return true
	}
}

// Requested returns the explicitly included names in sorted order. It is
// empty unless the mode is SelectInclude.
func (s Selection) Requested() []string {
	if s.Mode != SelectInclude {
		return nil
	}
	out := make([]string, 0, len(s.Names))
	for name := range s.Names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// withExcluded adds names to an exclude selection. Include selections are
// returned unchanged.
func (s Selection) withExcluded(names []string) Selection {
	extra := nameSet(names)
	if len(extra) == 0 || s.Mode == SelectInclude {
		return s
	}
	merged := make(map[string]struct{}, len(s.Names)+len(extra))
	for name := range s.Names {
		merged[name] = struct{}{}
	}
	for name := range extra {
		merged[name] = struct{}{}
	}
	return Selection{Mode: SelectExclude, Names: merged}
}
