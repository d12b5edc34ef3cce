// Package core implements the synchronization engine: conflict
// classification, the link manager primitives, and the per-application
// walk that drives backup, restore and uninstall.
//
// # Link Strategy
//
// mackup centralizes configuration files in a storage directory that a sync
// client mirrors across machines, and leaves a symlink at each file's
// original location:
//
//	~/.gitconfig -> ~/Dropbox/Mackup/git/.gitconfig
//
// The storage copy is the system of record. Restoring on a second machine
// only creates links; uninstalling copies the storage version back home and
// removes the link, leaving the machine independent of mackup again.
//
// # Conflict Classification
//
// Before any mutation, Classify determines what occupies the original path:
//
//  1. Absent - nothing there. Backup links an existing storage copy into
//     place, or does nothing when storage has no copy either.
//
//  2. Material - a real file or directory. Eligible for backup-then-link;
//     restore asks before replacing it.
//
//  3. LinkedCorrect - a symlink already pointing at the expected storage
//     path. Every operation treats this as already done and is idempotent.
//
//  4. LinkedStale - a symlink pointing somewhere else. Mutating it would
//     destroy state mackup does not understand, so this fails the operation
//     unless --force is given.
//
// Classification always compares link target identity. Content comparison
// cannot distinguish a managed file from an identical unmanaged one.
//
// # Atomicity
//
// Backup copies the original to a temporary name inside storage and renames
// it into place before touching the original path, so an interruption
// leaves either the pre-operation state or a completed migration. A failure
// between those points surfaces as PARTIAL_WRITE naming the temporary
// artifact so it can be inspected rather than silently retried.
package core
