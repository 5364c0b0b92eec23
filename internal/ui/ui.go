package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	UserListView ViewState = iota
	SongListView
	FriendListView
)

// UserLister is satisfied by [repositories.UserRepository].
type UserLister interface {
	List(criteria map[string]any) ([]*models.User, error)
}

// Model represents the TUI application state.
type Model struct {
	view       ViewState
	users      UserLister
	songs      services.Songs
	friends    services.Friends
	width      int
	height     int
	userList   list.Model
	detailList list.Model
	selected   *models.User
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(users UserLister, songs services.Songs, friends services.Friends) *Model {
	return &Model{
		view:       UserListView,
		users:      users,
		songs:      songs,
		friends:    friends,
		userList:   list.New(nil, list.NewDefaultDelegate(), 0, 0),
		detailList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init initializes the TUI by fetching the registered users.
func (m *Model) Init() tea.Cmd {
	return m.fetchUsers()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.userList.SetSize(msg.Width-4, msg.Height-8)
		m.detailList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case UserListView:
			return m.handleUserListKeys(msg)
		case SongListView, FriendListView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgUsersFetched:
		data := msg.data.(usersFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.users))
		for i, u := range data.users {
			items[i] = userItem{user: u}
		}
		m.userList = m.newList("Users", items)

	case MsgSongsFetched:
		data := msg.data.(songsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.songs))
		for i, s := range data.songs {
			items[i] = songItem{song: s}
		}
		m.selected = data.owner
		m.detailList = m.newList(fmt.Sprintf("%s's songs", data.owner.Username()), items)
		m.view = SongListView

	case MsgFriendsFetched:
		data := msg.data.(friendsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.friends))
		for i, f := range data.friends {
			items[i] = friendItem{friend: f}
		}
		m.selected = data.owner
		m.detailList = m.newList(fmt.Sprintf("%s's friends", data.owner.Username()), items)
		m.view = FriendListView
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back, q to quit", m.err))
	}

	switch m.view {
	case UserListView:
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.songs, m.keys.friends, m.keys.quit})
		return fmt.Sprintf("%s\n\n%s", m.userList.View(), helpView)
	case SongListView, FriendListView:
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
		count := styles.help.Render(fmt.Sprintf("%d items", len(m.detailList.Items())))
		return fmt.Sprintf("%s\n%s\n\n%s", m.detailList.View(), count, helpView)
	default:
		return ""
	}
}

func (m *Model) handleUserListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.userList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.userList, cmd = m.userList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.songs):
		if u, ok := m.selectedUser(); ok {
			return m, m.fetchSongs(u)
		}
	case key.Matches(msg, m.keys.friends):
		if u, ok := m.selectedUser(); ok {
			return m, m.fetchFriends(u)
		}
	}

	var cmd tea.Cmd
	m.userList, cmd = m.userList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = UserListView
		m.selected = nil
		m.err = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.detailList, cmd = m.detailList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case UserListView:
		m.userList, cmd = m.userList.Update(msg)
	default:
		m.detailList, cmd = m.detailList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedUser() (*models.User, bool) {
	item, ok := m.userList.SelectedItem().(userItem)
	if !ok {
		return nil, false
	}
	return item.user, true
}

func (m *Model) newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.Styles.Title = styles.title
	if m.width > 0 && m.height > 0 {
		l.SetSize(m.width-4, m.height-8)
	}
	return l
}

func (m *Model) fetchUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := m.users.List(map[string]any{})
		return usersFetchedMsg(users, err)
	}
}

func (m *Model) fetchSongs(owner *models.User) tea.Cmd {
	return func() tea.Msg {
		songs, err := m.songs.List(owner.ID())
		return songsFetchedMsg(owner, songs, err)
	}
}

func (m *Model) fetchFriends(owner *models.User) tea.Cmd {
	return func() tea.Msg {
		friends, err := m.friends.ListFriends(owner.ID())
		return friendsFetchedMsg(owner, friends, err)
	}
}
