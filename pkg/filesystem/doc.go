// Package filesystem provides filesystem implementations for mackup.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and an afero-backed filesystem.
// The afero implementation emulates symlinks on backends that lack them
// (such as the in-memory filesystem), which keeps link classification
// testable without touching the real disk.
package filesystem
