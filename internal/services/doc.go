// Package services implements the domain components that sit between the HTTP handlers and the repositories.
//
// # Credential Store
//
// [CredentialStore] registers users and verifies passwords with bcrypt.
// Plaintext passwords are never persisted.
//
// An unknown username and a wrong password return the same [shared.ErrInvalidCredentials],
// so login responses never reveal which usernames exist.
//
// # Song Registry
//
// [SongRegistry] lists, adds and updates songs. Listing is always scoped to one owner
// and ordered by insertion. Name and artist are stored as given, empty strings included.
//
// Updates by anyone other than the owner fail with [shared.ErrNotOwner] and never touch the row.
//
// # Friendship Graph
//
// [FriendshipGraph] stores directed edges requester → target:
//   - Friends: users the viewer added (outgoing edges)
//   - Followers: users who added the viewer (incoming edges)
//
// Adding a friend never fails from the caller's point of view. Unknown usernames, self edges
// and duplicates are reported through [AddFriendResult] only.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrDuplicateUsername] : username taken at registration
//   - [shared.ErrInvalidCredentials] : login failed
//   - [shared.ErrSongNotFound] : song ID does not exist
//   - [shared.ErrNotOwner] : song belongs to another user
package services
