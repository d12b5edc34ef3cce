package style

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnmeyer/mackup/pkg/types"
)

func sampleResult() *types.SyncResult {
	return &types.SyncResult{
		Command:   "backup",
		Timestamp: time.Now(),
		Apps: []types.AppResult{
			{
				Name:       "git",
				PrettyName: "Git",
				Entries: []types.EntryResult{
					{RelPath: ".gitconfig", Action: types.ActionBackedUp},
					{RelPath: ".gitignore_global", Action: types.ActionSkipped, Note: "already backed up"},
				},
			},
			{Name: "zsh", PrettyName: "Zsh"},
		},
	}
}

func TestRenderSyncResultPlain(t *testing.T) {
	r := NewTerminalRenderer(FormatText)
	out := r.RenderSyncResult(sampleResult())

	assert.Contains(t, out, "Git")
	assert.Contains(t, out, "+ backed up .gitconfig")
	assert.Contains(t, out, "- skipped .gitignore_global (already backed up)")
	assert.Contains(t, out, "changed 1 file(s) across 1 application(s)")
	// Untouched apps do not produce a block.
	assert.NotContains(t, out, "Zsh")
	// Plain mode carries no escape sequences.
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderSyncResultDryRun(t *testing.T) {
	result := sampleResult()
	result.DryRun = true

	r := NewTerminalRenderer(FormatText)
	out := r.RenderSyncResult(result)

	assert.Contains(t, out, "Dry run, nothing was changed")
	assert.Contains(t, out, "will back up .gitconfig")
	assert.Contains(t, out, "would change 1 file(s)")
}

func TestRenderSyncResultEmpty(t *testing.T) {
	r := NewTerminalRenderer(FormatText)
	out := r.RenderSyncResult(&types.SyncResult{Command: "backup"})
	assert.Equal(t, "Nothing to do", out)
}

func TestRenderAppList(t *testing.T) {
	r := NewTerminalRenderer(FormatText)
	out := r.RenderAppList(&types.ListResult{
		Apps: []types.AppInfo{
			{Name: "git", PrettyName: "Git", FileCount: 5},
			{Name: "vim", PrettyName: "Vim", FileCount: 2, UserDefined: true},
		},
	})

	assert.Contains(t, out, "git")
	assert.Contains(t, out, "* vim")
	assert.Contains(t, out, "2 application(s)")
}

func TestRenderManifest(t *testing.T) {
	r := NewTerminalRenderer(FormatText)
	out := r.RenderManifest(&types.ShowResult{
		App:       types.AppInfo{Name: "iterm2", PrettyName: "iTerm2", UserDefined: false},
		Files:     []string{"Library/Preferences/com.googlecode.iterm2.plist"},
		Platforms: []string{"darwin"},
	})

	assert.Contains(t, out, "iTerm2")
	assert.Contains(t, out, "Platforms: darwin")
	assert.Contains(t, out, "com.googlecode.iterm2.plist")
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{
		"":     FormatAuto,
		"auto": FormatAuto,
		"term": FormatTerminal,
		"text": FormatText,
	} {
		got, err := ParseFormat(input)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, err := ParseFormat("bogus")
	assert.Error(t, err)
}

func TestDetectFormatHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, FormatText, DetectFormat(os.Stdout))
}
