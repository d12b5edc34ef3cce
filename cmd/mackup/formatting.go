package mackup

import (
	"os"
	"strings"
	"text/template"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// stdoutIsTerminal reports whether usage output goes to a terminal.
// Bold escape codes are suppressed for pipes and redirects.
func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func bold(s string) string {
	if !stdoutIsTerminal() {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// initTemplateFormatting registers the template functions the usage
// template relies on for section headers.
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":  bold,
		"upper": strings.ToUpper,
		"boldUpper": func(s string) string {
			return bold(strings.ToUpper(s))
		},
	})
}
