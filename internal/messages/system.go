package messages

// System messages for subprocess execution and logging setup.
const (
	// RunnerEmptyArgv indicates a command was requested without a program name.
	RunnerEmptyArgv          = "command argv is empty"
	RunnerCommandExitFmt     = "command %q exited with status %d"
	RunnerCommandStderrFmt   = "command %q exited with status %d: %s"
	RunnerCommandStartErrFmt = "command %q could not be started: %v"

	// LoggingInvalidLevelFmt reports an unrecognised log level environment value.
	LoggingInvalidLevelFmt = "ignoring %s=%q: expected debug, info, warn, or error\n"
)
