// Package types defines the core types and interfaces used throughout mackup.
// This includes the FS filesystem abstraction, the ApplicationManifest and
// SyncEntry data structures, and the result types returned by commands.
package types
