package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/repositories"
	"github.com/desertthunder/favs/internal/services"
	tu "github.com/desertthunder/favs/internal/testing"
)

type failingUsers struct{}

func (failingUsers) List(map[string]any) ([]*models.User, error) {
	return nil, errors.New("database is locked")
}

func setupModel(t *testing.T) *Model {
	t.Helper()
	db := tu.NewTestDB(t)
	users := repositories.NewUserRepository(db)
	songs := services.NewSongRegistry(repositories.NewSongRepository(db))
	friends := services.NewFriendshipGraph(users, repositories.NewFriendshipRepository(db), nil)

	alice := models.NewUser(0, "alice", "hash")
	bob := models.NewUser(0, "bob", "hash")
	for _, u := range []*models.User{alice, bob} {
		if err := users.Create(u); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}
	if _, err := songs.Add(alice.ID(), "Song1", "ArtistX", ""); err != nil {
		t.Fatalf("failed to add song: %v", err)
	}
	if _, err := friends.AddFriend(alice.ID(), "bob"); err != nil {
		t.Fatalf("failed to add friend: %v", err)
	}

	m := NewModel(users, songs, friends)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return m
}

// run executes cmd synchronously and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func TestModel(t *testing.T) {
	t.Run("LoadsUsers", func(t *testing.T) {
		m := setupModel(t)
		run(t, m, m.Init())

		if got := len(m.userList.Items()); got != 2 {
			t.Fatalf("expected 2 users, got %d", got)
		}
		if !strings.Contains(m.View(), "alice") {
			t.Error("user list should show alice")
		}
	})

	t.Run("SongsAndBack", func(t *testing.T) {
		m := setupModel(t)
		run(t, m, m.Init())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		run(t, m, cmd)

		if m.view != SongListView {
			t.Fatalf("expected song view, got %d", m.view)
		}
		if len(m.detailList.Items()) != 1 {
			t.Errorf("expected 1 song, got %d", len(m.detailList.Items()))
		}
		if !strings.Contains(m.View(), "Song1") {
			t.Error("song view should show Song1")
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != UserListView || m.selected != nil {
			t.Error("esc should return to the user list")
		}
	})

	t.Run("Friends", func(t *testing.T) {
		m := setupModel(t)
		run(t, m, m.Init())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
		run(t, m, cmd)

		if m.view != FriendListView {
			t.Fatalf("expected friend view, got %d", m.view)
		}
		item, ok := m.detailList.Items()[0].(friendItem)
		if !ok || item.friend.Username != "bob" {
			t.Errorf("expected bob as alice's friend, got %+v", m.detailList.Items())
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m := setupModel(t)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("q should quit")
		}
	})

	t.Run("Error", func(t *testing.T) {
		m := NewModel(failingUsers{}, nil, nil)
		run(t, m, m.Init())

		if !strings.Contains(m.View(), "database is locked") {
			t.Errorf("expected error view, got %q", m.View())
		}
	})
}
