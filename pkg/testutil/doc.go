// Package testutil provides an isolated test environment for mackup
// tests: a private home directory, a file_system storage engine, and the
// MACKUP_* environment variables pointed inside it. Environments come in
// two flavors, an afero-backed in-memory one and a real temp-dir one for
// tests that exercise the configuration file lookup or the CLI.
package testutil
