package inventory

// Source identifies where an installed package was fetched from.
// The set of implementations is closed: *Registry, *Git and *Local.
type Source interface {
	Kind() SourceKind
	isSource()
}

// SourceKind names a Source variant.
type SourceKind string

// Source kinds recorded in the inventory descriptor.
const (
	KindRegistry SourceKind = "registry"
	KindGit      SourceKind = "git"
	KindLocal    SourceKind = "local"
)

// Registry is a package fetched from a package index by name.
type Registry struct {
	// Index is the index URL from the descriptor. It is informational only.
	Index string
}

// Git is a package installed from a remote git repository.
type Git struct {
	URL          string
	LocalCommit  string
	RemoteCommit string
}

// Local is a package installed from a path on the local filesystem.
type Local struct {
	Path string
}

// Kind returns KindRegistry.
func (*Registry) Kind() SourceKind { return KindRegistry }

// Kind returns KindGit.
func (*Git) Kind() SourceKind { return KindGit }

// Kind returns KindLocal.
func (*Local) Kind() SourceKind { return KindLocal }

func (*Registry) isSource() {}
func (*Git) isSource()      {}
func (*Local) isSource()    {}
