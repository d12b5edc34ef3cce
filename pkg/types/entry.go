package types

// SyncEntry pairs one configuration file's location in the home directory
// with its location in centralized storage.
//
// Invariant: at most one of a regular file (or directory) and a symlink
// exists at OriginalPath at any time, never both.
type SyncEntry struct {
	// App is the owning application's canonical name.
	App string

	// RelPath is the home-relative path of the file (e.g. ".gitconfig").
	RelPath string

	// OriginalPath is the absolute path in the user's home directory.
	OriginalPath string

	// StoragePath is the absolute path of the centralized copy, laid out
	// as <backend root>/<app>/<RelPath>.
	StoragePath string
}

// LinkState classifies what currently occupies an entry's original path.
// Classification uses the link target's identity, never content comparison:
// two files can be byte-identical without being under management.
type LinkState int

const (
	// StateAbsent means nothing exists at the original path.
	StateAbsent LinkState = iota

	// StateMaterial means an untouched regular file or directory exists.
	StateMaterial

	// StateLinkedCorrect means a symlink already points at the expected
	// storage path.
	StateLinkedCorrect

	// StateLinkedStale means a symlink points somewhere other than the
	// expected storage path.
	StateLinkedStale
)

// String returns the state name used in logs and conflict messages.
func (s LinkState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateMaterial:
		return "material"
	case StateLinkedCorrect:
		return "linked"
	case StateLinkedStale:
		return "stale-link"
	default:
		return "unknown"
	}
}
