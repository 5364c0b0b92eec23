// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles create/read operations with atomic sequence generation for insertion ordering.
// Rows are never deleted; songs are the only entity updated in place.
//
// Key Implementations:
//   - [UserRepository] : Accounts with exact, case-sensitive username lookups
//   - [SongRepository] : Songs scoped to their owning user, listed in insertion order
//   - [FriendshipRepository] : Directed follow edges, unique per (requester, target) pair
//
// Sequence numbers provide stable insertion ordering independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table counters in dedicated sequence tables.
package repositories
