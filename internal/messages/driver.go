package messages

// Run loop messages.
const (
	// DriverNotInstalledFmt reports a requested package that is not in the inventory.
	DriverNotInstalledFmt  = "%s is not installed.\n"
	DriverReadInventoryFmt = "read inventory: %w"
)
