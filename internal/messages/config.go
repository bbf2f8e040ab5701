package messages

// Config messages for run configuration, settings, and cargo home discovery.
const (
	// ConfigCargoHomeNotFound is returned when no cargo home holds an inventory file.
	ConfigCargoHomeNotFound    = "Could not find cargo home directory. Please set it manually with -c."
	ConfigCargoHomeNoInventory = "%s holds neither %s nor %s"
	ConfigCargoHomeExpandFmt   = "expand cargo home %q: %w"
	ConfigSelectionConflict    = "--packages and --exclude cannot be used together"

	ConfigSettingsReadFmt            = "read settings %s: %w"
	ConfigSettingsInvalidFmt         = "invalid settings %s: %w"
	ConfigSettingsNegativeRetriesFmt = "invalid settings %s: search_retries must not be negative (got %d)"
)
