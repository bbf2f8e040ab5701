package inventory

import (
	"errors"
	"fmt"

	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

// ErrNotFound is returned when the cargo home holds no inventory file.
var ErrNotFound = errors.New("no install inventory found")

// ErrMalformedInventory is the sentinel wrapped by MalformedInventoryError.
var ErrMalformedInventory = errors.New("malformed inventory")

// MalformedInventoryError reports inventory content that does not match the
// expected schema. Entry is empty when the document as a whole is unparsable.
type MalformedInventoryError struct {
	Path   string
	Entry  string
	Reason string
}

func (e *MalformedInventoryError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf(messages.InventoryMalformedFmt, e.Path, e.Reason)
	}
	return fmt.Sprintf(messages.InventoryMalformedEntryFmt, e.Path, e.Entry, e.Reason)
}

// Unwrap returns ErrMalformedInventory.
func (e *MalformedInventoryError) Unwrap() error {
	return ErrMalformedInventory
}
