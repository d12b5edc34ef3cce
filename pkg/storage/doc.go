// Package storage locates and addresses the synced copy of configuration
// files.
//
// A storage engine finds the sync root on the local machine: the Dropbox
// folder (via ~/.dropbox/host.db), the Google Drive folder (via its
// sync_config.db SQLite database), the iCloud Drive folder, or a plain
// directory for the file_system engine. Engines only locate directories
// that a sync client mirrors elsewhere; mackup never talks to a network
// service itself.
//
// The Backend sits inside the sync root and maps (application, relative
// path) pairs to on-disk locations, one subdirectory per application.
package storage
