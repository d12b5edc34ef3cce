// Package config loads mackup's user configuration.
//
// Configuration is layered: built-in defaults, then the first TOML file
// found at ~/.mackup.toml or $XDG_CONFIG_HOME/mackup/mackup.toml, then
// MACKUP_* environment variables. Later layers override earlier ones.
package config
