package style

import (
	"fmt"
	"strings"

	"github.com/fnmeyer/mackup/pkg/types"
)

// Renderer defines the interface for rendering command results
type Renderer interface {
	RenderSyncResult(result *types.SyncResult) string
	RenderAppList(result *types.ListResult) string
	RenderManifest(result *types.ShowResult) string
	RenderError(err error) string
}

// TerminalRenderer implements Renderer. In styled mode it uses the
// lipgloss styles; in plain mode (pipes, NO_COLOR, dumb terminals) the
// same layout is emitted without escape sequences.
type TerminalRenderer struct {
	styled bool
}

// NewTerminalRenderer creates a renderer for the given output format.
func NewTerminalRenderer(format Format) *TerminalRenderer {
	return &TerminalRenderer{styled: format == FormatTerminal}
}

// RenderSyncResult renders the outcome of backup, restore or uninstall,
// one block per application, one line per touched entry.
func (r *TerminalRenderer) RenderSyncResult(result *types.SyncResult) string {
	var out strings.Builder

	if result.DryRun {
		out.WriteString(r.warning("Dry run, nothing was changed") + "\n\n")
	}

	touched := 0
	for _, app := range result.Apps {
		if len(app.Entries) == 0 {
			continue
		}
		touched++

		name := app.PrettyName
		if name == "" {
			name = app.Name
		}
		out.WriteString(r.subtitle(name) + "\n")

		for _, entry := range app.Entries {
			out.WriteString(r.renderEntry(entry, result.DryRun) + "\n")
		}
		out.WriteString("\n")
	}

	if touched == 0 {
		return r.muted("Nothing to do")
	}

	summary := fmt.Sprintf("%d file(s) across %d application(s)",
		result.Changed(), touched)
	if result.DryRun {
		summary = "would change " + summary
	} else {
		summary = "changed " + summary
	}
	out.WriteString(r.muted(summary))

	return strings.TrimRight(out.String(), "\n") + "\n"
}

func (r *TerminalRenderer) renderEntry(entry types.EntryResult, dryRun bool) string {
	verbs := ActionVerbs[entry.Action]
	verb := verbs.Past
	if dryRun {
		verb = verbs.Future
	}

	indicator := ActionIndicator(entry.Action, r.styled)
	action := verb
	if r.styled {
		action = ActionStyle(entry.Action).Sprint(verb)
	}

	line := fmt.Sprintf("  %s %s %s", indicator, action, r.path(entry.RelPath))
	if entry.Note != "" {
		line += " " + r.muted("("+entry.Note+")")
	}
	return line
}

// RenderAppList renders the known applications, marking user overrides.
func (r *TerminalRenderer) RenderAppList(result *types.ListResult) string {
	if len(result.Apps) == 0 {
		return r.muted("No applications known")
	}

	var out strings.Builder
	out.WriteString(r.title("Supported applications") + "\n\n")

	for _, app := range result.Apps {
		marker := " "
		if app.UserDefined {
			marker = "*"
		}
		out.WriteString(fmt.Sprintf("  %s %-24s %s\n",
			marker, app.Name, r.muted(fmt.Sprintf("%d file(s)", app.FileCount))))
	}

	out.WriteString("\n" + r.muted(fmt.Sprintf(
		"%d application(s), * marks user-defined manifests", len(result.Apps))))
	return out.String()
}

// RenderManifest renders one application's manifest.
func (r *TerminalRenderer) RenderManifest(result *types.ShowResult) string {
	var out strings.Builder

	title := result.App.PrettyName
	if title == "" {
		title = result.App.Name
	}
	out.WriteString(r.title(title) + "\n\n")

	if result.App.UserDefined {
		out.WriteString(r.muted("Defined by a user manifest in ~/.mackup") + "\n")
	}
	if len(result.Platforms) > 0 {
		out.WriteString(r.muted("Platforms: "+strings.Join(result.Platforms, ", ")) + "\n")
	}

	for _, file := range result.Files {
		out.WriteString("  " + r.path(file) + "\n")
	}

	return strings.TrimRight(out.String(), "\n")
}

// RenderError renders an error message for stderr.
func (r *TerminalRenderer) RenderError(err error) string {
	msg := fmt.Sprintf("Error: %v", err)
	if !r.styled {
		return msg
	}
	return ErrorStyle.Render(msg)
}

func (r *TerminalRenderer) title(s string) string {
	if !r.styled {
		return s
	}
	return TitleStyle.Render(s)
}

func (r *TerminalRenderer) subtitle(s string) string {
	if !r.styled {
		return s
	}
	return SubtitleStyle.Render(s)
}

func (r *TerminalRenderer) muted(s string) string {
	if !r.styled {
		return s
	}
	return MutedStyle.Render(s)
}

func (r *TerminalRenderer) warning(s string) string {
	if !r.styled {
		return s
	}
	return WarningStyle.Render(s)
}

func (r *TerminalRenderer) path(s string) string {
	if !r.styled {
		return s
	}
	return PathStyle.Render(s)
}
