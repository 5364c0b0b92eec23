package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/favs/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgUsersFetched MsgKind = iota
	MsgSongsFetched
	MsgFriendsFetched
)

type usersFetched struct {
	users []*models.User
	err   error
}

type songsFetched struct {
	owner *models.User
	songs []*models.Song
	err   error
}

type friendsFetched struct {
	owner   *models.User
	friends []models.Friend
	err     error
}

// usersFetchedMsg is the constructor for [MsgUsersFetched]
func usersFetchedMsg(users []*models.User, err error) Msg {
	return Msg{kind: MsgUsersFetched, data: usersFetched{users, err}}
}

// songsFetchedMsg is the constructor for [MsgSongsFetched]
func songsFetchedMsg(owner *models.User, songs []*models.Song, err error) Msg {
	return Msg{kind: MsgSongsFetched, data: songsFetched{owner, songs, err}}
}

// friendsFetchedMsg is the constructor for [MsgFriendsFetched]
func friendsFetchedMsg(owner *models.User, friends []models.Friend, err error) Msg {
	return Msg{kind: MsgFriendsFetched, data: friendsFetched{owner, friends, err}}
}
