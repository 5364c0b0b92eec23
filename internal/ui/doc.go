// Package ui implements an interactive terminal browser using bubbletea's Elm architecture.
//
// The TUI is read-only and walks the same store the web app serves:
//  1. [UserListView] : Browse registered users
//  2. [SongListView] : A user's songs in the order they were added
//  3. [FriendListView] : The users a user has added
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Store reads run as [tea.Cmd] functions so the interface never blocks on the database.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, f, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
