package messages

// Interactive selection messages.
const (
	// PromptRequiresTerminal is returned when an interactive prompt runs without a TTY.
	PromptRequiresTerminal = "interactive selection requires a terminal; re-run without --interactive"
	PromptSelectTitle      = "Select packages to upgrade"
	PromptConfirmTitleFmt  = "Upgrade %d package(s)?"
	PromptNothingToUpgrade = "Nothing to upgrade.\n"
	PromptCancelled        = "selection cancelled"
)
