package mackup

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnmeyer/mackup/pkg/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv(EnvAllowRoot, "1")

	rootCmd := NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestHelpSmokeTest(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "mackup")
	assert.Contains(t, out, "backup")
	assert.Contains(t, out, "restore")
	assert.Contains(t, out, "uninstall")
}

func TestNoCommandShowsHelpAndFails(t *testing.T) {
	_, err := execute(t)
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mackup version")
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "mackup")
}

func TestHelpTopics(t *testing.T) {
	out, err := execute(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "storage-engines")
	assert.Contains(t, out, "custom-applications")
}

func TestHelpTopicContent(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	out, err := execute(t, "help", "storage-engines")
	require.NoError(t, err)
	assert.Contains(t, out, "file_system")
}

func TestListCommand(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvIsolated)
	_ = env

	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "git")
	assert.Contains(t, out, "zsh")
}

func TestShowCommandUnknownApp(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvIsolated)
	_ = env

	_, err := execute(t, "show", "no-such-app")
	require.Error(t, err)
}
