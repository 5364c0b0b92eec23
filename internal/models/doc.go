// Package models defines domain entities and persistence interfaces for the favs service.
//
// Persistent entities:
//   - [User] : Accounts with a unique username and a bcrypt password hash
//   - [Song] : A favourite song owned by exactly one user
//   - [Friendship] : A directed follow edge from a requester to a target user
//
// All entities implement the [Model] interface providing IDs, timestamps and validation.
// The [Repository] interface defines the create/read operations shared by every store;
// songs add in-place updates. Nothing in the system deletes rows.
package models
