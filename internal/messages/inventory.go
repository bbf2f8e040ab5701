package messages

// Inventory messages for reading the cargo install registry.
const (
	// InventoryNotFoundFmt reports that no inventory file exists under the cargo home.
	InventoryNotFoundFmt   = "%w under %s (looked for %s and %s)"
	InventoryReadFailedFmt = "failed to read %s: %w"
	// InventoryMalformedFmt formats a whole-document parse failure.
	InventoryMalformedFmt      = "malformed inventory %s: %s"
	InventoryMalformedEntryFmt = "malformed inventory %s: entry %q: %s"

	InventoryEntryFieldCountFmt       = "expected 3 space-separated fields, got %d"
	InventoryEntryInvalidVersionFmt   = "invalid version %q: %v"
	InventoryEntryUnparenthesizedFmt  = "source descriptor %q is not enclosed in parentheses"
	InventoryEntryMissingSourceTagFmt = "source descriptor %q has no '+' separated tag"
	InventoryEntryUnknownSourceFmt    = "unknown source tag %q"
	InventoryEntryGitMissingCommitFmt = "git source %q is missing a '#<commit>' suffix"
	InventoryEntryEmptyPath           = "path source has an empty path"
	InventoryBinariesNotArray         = "binary list must be an array of strings"
	InventoryBinaryNotStringFmt       = "binary name %v is not a string"
	InventoryInstallsMissing          = "document has no \"installs\" object"
)
