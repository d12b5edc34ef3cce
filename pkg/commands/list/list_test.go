package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnmeyer/mackup/pkg/testutil"
)

func TestList(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)

	result, err := Run(Options{HomeDir: env.Home, FS: env.FS})
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, app := range result.Apps {
		names[app.Name] = true
	}
	assert.True(t, names["git"])
	assert.True(t, names["zsh"])
}

func TestList_MarksUserManifests(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteUserManifest("git.toml", `[application]
name = "Git (custom)"

configuration_files = [".gitconfig"]
`)

	result, err := Run(Options{HomeDir: env.Home, FS: env.FS})
	require.NoError(t, err)

	var found bool
	for _, app := range result.Apps {
		if app.Name == "git" {
			found = true
			assert.True(t, app.UserDefined)
			assert.Equal(t, "Git (custom)", app.PrettyName)
			assert.Equal(t, 1, app.FileCount)
		}
	}
	require.True(t, found)
}
