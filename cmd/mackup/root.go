package mackup

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fnmeyer/mackup/internal/version"
	"github.com/fnmeyer/mackup/pkg/cobrax/topics"
	"github.com/fnmeyer/mackup/pkg/commands/backup"
	"github.com/fnmeyer/mackup/pkg/commands/list"
	"github.com/fnmeyer/mackup/pkg/commands/restore"
	"github.com/fnmeyer/mackup/pkg/commands/show"
	"github.com/fnmeyer/mackup/pkg/commands/uninstall"
	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/logging"
	"github.com/fnmeyer/mackup/pkg/style"
	"github.com/fnmeyer/mackup/pkg/types"
)

//go:embed topics/*.md
var topicsFS embed.FS

// EnvAllowRoot skips the root-user guard, for containers and CI where
// everything runs as root.
const EnvAllowRoot = "MACKUP_ALLOW_ROOT"

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var (
		verbosity int
		dryRun    bool
		force     bool
		allowRoot bool
	)

	rootCmd := &cobra.Command{
		Use:     "mackup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			// Syncing root's dotfiles is almost always a mistake made by
			// running under sudo.
			if os.Geteuid() == 0 && !allowRoot && os.Getenv(EnvAllowRoot) == "" {
				return errors.New(errors.ErrInvalidInput, MsgErrRootUser)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but signal incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	rootCmd.PersistentFlags().BoolVar(&allowRoot, "root", false, MsgFlagRoot)

	// Disable automatic help command (the topics system provides one)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "sync",
		Title: "SYNC COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "info",
		Title: "INFO COMMANDS:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newBackupCmd(&dryRun, &force))
	rootCmd.AddCommand(newRestoreCmd(&dryRun, &force))
	rootCmd.AddCommand(newUninstallCmd(&dryRun, &force))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Topic-based help from the embedded documentation
	if sub, err := fs.Sub(topicsFS, "topics"); err == nil {
		_ = topics.Initialize(rootCmd, sub, topics.Options{
			Extensions: []string{".txt", ".md"},
			Renderer:   topics.NewGlamourRenderer(),
		})
	}

	return rootCmd
}

// confirmer returns the Confirmer for a run: auto-approve under --force,
// interactive otherwise.
func confirmer(force bool) types.Confirmer {
	if force {
		return types.AutoApprove{}
	}
	return NewConsoleConfirmer()
}

// appNamesCompletion provides shell completion for application names
func appNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	result, err := list.Run(list.Options{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, app := range result.Apps {
		seen := false
		for _, arg := range args {
			if arg == app.Name {
				seen = true
				break
			}
		}
		if !seen {
			names = append(names, app.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newBackupCmd(dryRun, force *bool) *cobra.Command {
	return &cobra.Command{
		Use:               "backup [applications...]",
		Short:             MsgBackupShort,
		Long:              MsgBackupLong,
		Example:           MsgBackupExample,
		GroupID:           "sync",
		ValidArgsFunction: appNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info().Strs("apps", args).Bool("dry_run", *dryRun).
				Bool("force", *force).Msg("Backing up")

			result, err := backup.Run(backup.Options{
				Apps:      args,
				DryRun:    *dryRun,
				Force:     *force,
				Confirmer: confirmer(*force),
			})
			if result != nil {
				renderer := style.NewTerminalRenderer(style.DetectFormat(os.Stdout))
				fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderSyncResult(result))
			}
			return err
		},
	}
}

func newRestoreCmd(dryRun, force *bool) *cobra.Command {
	return &cobra.Command{
		Use:               "restore [applications...]",
		Short:             MsgRestoreShort,
		Long:              MsgRestoreLong,
		Example:           MsgRestoreExample,
		GroupID:           "sync",
		ValidArgsFunction: appNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info().Strs("apps", args).Bool("dry_run", *dryRun).
				Bool("force", *force).Msg("Restoring")

			result, err := restore.Run(restore.Options{
				Apps:      args,
				DryRun:    *dryRun,
				Force:     *force,
				Confirmer: confirmer(*force),
			})
			if result != nil {
				renderer := style.NewTerminalRenderer(style.DetectFormat(os.Stdout))
				fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderSyncResult(result))
			}
			return err
		},
	}
}

func newUninstallCmd(dryRun, force *bool) *cobra.Command {
	return &cobra.Command{
		Use:               "uninstall [applications...]",
		Short:             MsgUninstallShort,
		Long:              MsgUninstallLong,
		GroupID:           "sync",
		ValidArgsFunction: appNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info().Strs("apps", args).Bool("dry_run", *dryRun).
				Bool("force", *force).Msg("Uninstalling")

			result, err := uninstall.Run(uninstall.Options{
				Apps:      args,
				DryRun:    *dryRun,
				Force:     *force,
				Confirmer: confirmer(*force),
			})
			if result != nil {
				renderer := style.NewTerminalRenderer(style.DetectFormat(os.Stdout))
				fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderSyncResult(result))
			}
			return err
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		GroupID: "info",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := list.Run(list.Options{})
			if err != nil {
				return err
			}

			renderer := style.NewTerminalRenderer(style.DetectFormat(os.Stdout))
			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderAppList(result))
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "show <application>",
		Short:             MsgShowShort,
		Example:           MsgShowExample,
		Args:              cobra.ExactArgs(1),
		GroupID:           "info",
		ValidArgsFunction: appNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := show.Run(show.Options{App: args[0]})
			if err != nil {
				return err
			}

			renderer := style.NewTerminalRenderer(style.DetectFormat(os.Stdout))
			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderManifest(result))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mackup version %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "info",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
