package appsdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest_Dedup(t *testing.T) {
	data := []byte(`
[application]
name = "App"
configuration_files = [".apprc", ".apprc", ".config/app/conf"]
xdg_configuration_files = ["app/conf"]
`)

	m, err := parseManifest("app", "app.toml", ".toml", data, ".config")
	require.NoError(t, err)

	// .config/app/conf appears both directly and via the xdg entry.
	assert.Equal(t, []string{".apprc", ".config/app/conf"}, m.Files)
}

func TestParseManifest_Platforms(t *testing.T) {
	data := []byte(`
[application]
name = "App"
platforms = ["darwin"]
`)

	m, err := parseManifest("app", "app.toml", ".toml", data, ".config")
	require.NoError(t, err)

	assert.True(t, m.SupportsPlatform("darwin"))
	assert.False(t, m.SupportsPlatform("linux"))
}

func TestParseManifest_NoPlatformsMeansAll(t *testing.T) {
	data := []byte(`
[application]
name = "App"
`)

	m, err := parseManifest("app", "app.toml", ".toml", data, ".config")
	require.NoError(t, err)

	assert.True(t, m.SupportsPlatform("darwin"))
	assert.True(t, m.SupportsPlatform("linux"))
}

func TestParseManifest_XDGJoin(t *testing.T) {
	data := []byte(`
[application]
name = "App"
xdg_configuration_files = ["app/conf"]
`)

	t.Run("custom xdg dir", func(t *testing.T) {
		m, err := parseManifest("app", "app.toml", ".toml", data, "cfg")
		require.NoError(t, err)
		assert.Equal(t, []string{"cfg/app/conf"}, m.Files)
	})

	t.Run("xdg dir equal to home", func(t *testing.T) {
		m, err := parseManifest("app", "app.toml", ".toml", data, ".")
		require.NoError(t, err)
		assert.Equal(t, []string{"app/conf"}, m.Files)
	})
}

func TestParseManifest_UnsupportedFormat(t *testing.T) {
	_, err := parseManifest("app", "app.json", ".json", []byte("{}"), ".config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest format")
}

func TestManifestNaming(t *testing.T) {
	assert.Equal(t, "git", manifestName("git.toml"))
	assert.Equal(t, "oh-my-zsh", manifestName("oh-my-zsh.yaml"))
	assert.Equal(t, ".toml", manifestFormat("git.toml"))
	assert.Equal(t, ".yaml", manifestFormat("git.yaml"))
	assert.Equal(t, ".yml", manifestFormat("git.yml"))
	assert.Equal(t, "", manifestFormat("notes.txt"))
}
