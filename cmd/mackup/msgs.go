package mackup

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep your application settings in sync"
	MsgBackupShort     = "Back up configuration files into storage"
	MsgRestoreShort    = "Link the synced configuration files into this machine"
	MsgUninstallShort  = "Copy configuration files back and stop syncing them"
	MsgListShort       = "List every application mackup can sync"
	MsgListLong        = "List displays all supported applications, marking the ones overridden by a user manifest in ~/.mackup."
	MsgShowShort       = "Show which files an application syncs"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview changes without executing them"
	MsgFlagForce   = "Answer yes to every prompt and replace stale links"
	MsgFlagRoot    = "Allow running as the root user"

	// Error messages
	MsgErrRootUser = "running mackup as root would sync root's files, not yours (use --root to override)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/backup-long.txt
	msgBackupLongRaw string
	MsgBackupLong    = strings.TrimSpace(msgBackupLongRaw)

	//go:embed msgs/backup-example.txt
	msgBackupExampleRaw string
	MsgBackupExample    = strings.TrimSpace(msgBackupExampleRaw)

	//go:embed msgs/restore-long.txt
	msgRestoreLongRaw string
	MsgRestoreLong    = strings.TrimSpace(msgRestoreLongRaw)

	//go:embed msgs/restore-example.txt
	msgRestoreExampleRaw string
	MsgRestoreExample    = strings.TrimSpace(msgRestoreExampleRaw)

	//go:embed msgs/uninstall-long.txt
	msgUninstallLongRaw string
	MsgUninstallLong    = strings.TrimSpace(msgUninstallLongRaw)

	//go:embed msgs/show-example.txt
	msgShowExampleRaw string
	MsgShowExample    = strings.TrimSpace(msgShowExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
