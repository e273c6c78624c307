// Package store keeps the active toggle set in an in-memory MVCC database
// built on hashicorp/go-memdb.
//
// The whole set is replaced at once: ReplaceAll validates the incoming batch,
// rejects it wholesale if anything is malformed, and otherwise commits the
// new set in a single transaction. A commit swaps the database root, which is
// what makes snapshots atomic; reads opened before the commit keep seeing the
// old set, reads opened after see only the new one, and no read ever blocks a
// write. Lookups for unknown toggles report absence through a boolean, not an
// error, since evaluating a toggle that does not exist yet is routine.
//
// Watch exposes the database's change notification so hosts can react to
// refreshes, for example to invalidate derived state of their own.
package store
