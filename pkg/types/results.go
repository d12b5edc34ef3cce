package types

import "time"

// EntryAction describes what the engine did (or would do) for one entry.
type EntryAction string

const (
	// ActionBackedUp means the original was moved into storage and linked.
	ActionBackedUp EntryAction = "backed-up"

	// ActionLinked means a symlink was created from an existing storage copy.
	ActionLinked EntryAction = "linked"

	// ActionRestored means the storage copy was materialized back at the
	// original path and the symlink removed.
	ActionRestored EntryAction = "restored"

	// ActionSkipped means nothing needed to change; the reason is in Note.
	ActionSkipped EntryAction = "skipped"

	// ActionConflict means a stale link or declined replacement blocked the
	// operation.
	ActionConflict EntryAction = "conflict"
)

// EntryResult reports the outcome for a single sync entry.
type EntryResult struct {
	RelPath string      `json:"relPath"`
	Action  EntryAction `json:"action"`
	Note    string      `json:"note,omitempty"`
}

// AppResult groups entry results for one application.
type AppResult struct {
	Name       string        `json:"name"`
	PrettyName string        `json:"prettyName"`
	Entries    []EntryResult `json:"entries"`
}

// Changed reports how many entries were actually mutated.
func (r *AppResult) Changed() int {
	n := 0
	for _, e := range r.Entries {
		switch e.Action {
		case ActionBackedUp, ActionLinked, ActionRestored:
			n++
		}
	}
	return n
}

// SyncResult is the top-level result of the backup, restore and uninstall
// commands.
type SyncResult struct {
	Command   string      `json:"command"`
	Apps      []AppResult `json:"apps"`
	DryRun    bool        `json:"dryRun"`
	Timestamp time.Time   `json:"timestamp"`
}

// Changed reports how many entries were mutated across all applications.
func (r *SyncResult) Changed() int {
	n := 0
	for i := range r.Apps {
		n += r.Apps[i].Changed()
	}
	return n
}

// AppInfo contains summary information about a single known application.
type AppInfo struct {
	Name        string `json:"name"`
	PrettyName  string `json:"prettyName"`
	UserDefined bool   `json:"userDefined"`
	FileCount   int    `json:"fileCount"`
}

// ListResult holds the result of the 'list' command.
type ListResult struct {
	Apps []AppInfo `json:"apps"`
}

// ShowResult holds the result of the 'show' command.
type ShowResult struct {
	App       AppInfo  `json:"app"`
	Files     []string `json:"files"`
	Platforms []string `json:"platforms,omitempty"`
}
