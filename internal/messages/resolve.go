package messages

// Remote version resolution messages.
const (
	// ResolveUnavailableFmt is printed when a package's upstream version cannot be determined.
	ResolveUnavailableFmt        = "Could not check %s for a newer version: %v\n"
	ResolveUnavailableErrFmt     = "remote version of %s unavailable: %v"
	ResolveCrateNotListedFmt     = "no search result for crate %q"
	ResolveSearchNoVersionFmt    = "search result for crate %q has no quoted version: %q"
	ResolveSearchFailedFmt       = "search for crate %q: %w"
	ResolveInvalidRemoteFmt      = "remote version %q is not a semantic version: %v"
	ResolveTempDirFailedFmt      = "create temporary clone directory: %w"
	ResolveCloneFailedFmt        = "clone %s: %w"
	ResolveLsRemoteFailedFmt     = "list remote HEAD of %s: %w"
	ResolveCommitTooShortFmt     = "remote HEAD listing %q is shorter than a commit hash"
	ResolveUnsupportedSourceFmt  = "unsupported package source %T"
	ResolveManifestMissingFmt    = "%s is not a file"
	ResolveManifestDecodeFmt     = "decode manifest %s: %w"
	ResolveManifestFieldFmt      = "manifest %s has no string field %q"
	ResolveManifestReadFailedFmt = "read manifest %s: %w"
)
