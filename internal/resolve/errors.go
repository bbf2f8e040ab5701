package resolve

import (
	"errors"
	"fmt"

	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

// ErrResolutionUnavailable is matched by every ResolutionError.
var ErrResolutionUnavailable = errors.New("remote version unavailable")

// ResolutionError reports why a package's upstream version could not be determined.
type ResolutionError struct {
	Package string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf(messages.ResolveUnavailableErrFmt, e.Package, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrResolutionUnavailable.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolutionUnavailable
}

// ManifestFieldMissingError reports a manifest without the requested string field.
type ManifestFieldMissingError struct {
	Path  string
	Field string
}

func (e *ManifestFieldMissingError) Error() string {
	return fmt.Sprintf(messages.ResolveManifestFieldFmt, e.Path, e.Field)
}

// ManifestMissingError reports a directory without a Cargo.toml file.
type ManifestMissingError struct {
	Path string
}

func (e *ManifestMissingError) Error() string {
	return fmt.Sprintf(messages.ResolveManifestMissingFmt, e.Path)
}
