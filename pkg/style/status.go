package style

import (
	"github.com/pterm/pterm"

	"github.com/fnmeyer/mackup/pkg/types"
)

// ActionVerbs defines present and past tense verbs for each entry action,
// so dry runs read as predictions and real runs as a report.
var ActionVerbs = map[types.EntryAction]struct {
	Past   string
	Future string
}{
	types.ActionBackedUp: {Past: "backed up", Future: "will back up"},
	types.ActionLinked:   {Past: "linked", Future: "will link"},
	types.ActionRestored: {Past: "restored", Future: "will restore"},
	types.ActionSkipped:  {Past: "skipped", Future: "skipped"},
	types.ActionConflict: {Past: "conflict", Future: "conflict"},
}

// ActionStyle returns the pterm style for an entry action.
func ActionStyle(action types.EntryAction) *pterm.Style {
	switch action {
	case types.ActionBackedUp:
		return pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	case types.ActionLinked:
		return pterm.NewStyle(pterm.FgMagenta, pterm.Bold)
	case types.ActionRestored:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case types.ActionConflict:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// ActionIndicator returns the one-character indicator for an entry action.
func ActionIndicator(action types.EntryAction, styled bool) string {
	if !styled {
		switch action {
		case types.ActionConflict:
			return "!"
		case types.ActionSkipped:
			return "-"
		default:
			return "+"
		}
	}

	switch action {
	case types.ActionConflict:
		return WarningIndicator
	case types.ActionSkipped:
		return SkippedIndicator
	default:
		return SuccessIndicator
	}
}
