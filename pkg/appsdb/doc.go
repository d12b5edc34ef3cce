// Package appsdb resolves application manifests.
//
// A manifest names an application and lists the configuration files it
// owns, as home-relative paths. Manifests come from two sources: the
// bundled set compiled into the binary, and user-defined files in
// ~/.mackup. A user manifest with the same name as a bundled one replaces
// it wholesale; entries are never merged.
//
// Manifest entries under [application] either name files relative to the
// home directory (configuration_files) or relative to the XDG config
// directory (xdg_configuration_files). XDG entries are resolved to
// home-relative form at load time, so the rest of the codebase only ever
// sees home-relative paths.
package appsdb
