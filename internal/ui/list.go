package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/favs/internal/models"
)

var (
	_ list.Item = userItem{}
	_ list.Item = songItem{}
	_ list.Item = friendItem{}
)

// userItem wraps [models.User] to implement [list.Item].
type userItem struct {
	user *models.User
}

func (i userItem) FilterValue() string { return i.user.Username() }
func (i userItem) Title() string       { return i.user.Username() }
func (i userItem) Description() string {
	return fmt.Sprintf("joined %s", i.user.CreatedAt().Format("2006-01-02"))
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song *models.Song
}

func (i songItem) FilterValue() string { return i.song.Name() }
func (i songItem) Title() string       { return i.song.Name() }
func (i songItem) Description() string {
	desc := i.song.Artist()
	if i.song.Link() != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Link())
	}
	return desc
}

// friendItem wraps [models.Friend] to implement [list.Item].
type friendItem struct {
	friend models.Friend
}

func (i friendItem) FilterValue() string { return i.friend.Username }
func (i friendItem) Title() string       { return i.friend.Username }
func (i friendItem) Description() string {
	return fmt.Sprintf("added %s", i.friend.Since.Format("2006-01-02"))
}
