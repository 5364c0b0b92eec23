package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/favs/internal/shared"
	tu "github.com/desertthunder/favs/internal/testing"
)

func TestUsersCommands(t *testing.T) {
	t.Run("register then list", func(t *testing.T) {
		_, output, run := newTestApp(t)

		if err := run("users", "register", "--password", "secret", "alice"); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if !strings.Contains(output.String(), "Registered alice") {
			t.Errorf("unexpected output: %s", output.String())
		}

		output.Reset()
		if err := run("users", "list", "--json"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		var users []userRecord
		if err := json.Unmarshal(output.Bytes(), &users); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(users) != 1 || users[0].Username != "alice" {
			t.Errorf("unexpected users: %+v", users)
		}
		if !shared.IsValidID(users[0].ID) {
			t.Errorf("expected UUID id, got %q", users[0].ID)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, _, run := newTestApp(t)

		if err := run("users", "register", "--password", "one", "alice"); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		err := run("users", "register", "--password", "two", "alice")
		if !errors.Is(err, shared.ErrDuplicateUsername) {
			t.Errorf("expected ErrDuplicateUsername, got %v", err)
		}
	})

	t.Run("missing username", func(t *testing.T) {
		_, _, run := newTestApp(t)

		err := run("users", "register", "--password", "secret")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("plain list", func(t *testing.T) {
		_, output, run := newTestApp(t)

		for _, name := range []string{"alice", "bob"} {
			if err := run("users", "register", "--password", "pw", name); err != nil {
				t.Fatalf("register %s failed: %v", name, err)
			}
		}

		output.Reset()
		if err := run("users", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "Found 2 users") {
			t.Errorf("expected count header, got %s", result)
		}
		if strings.Index(result, "1. alice") > strings.Index(result, "2. bob") {
			t.Errorf("expected registration order, got %s", result)
		}
	})
}

func TestSongsCommands(t *testing.T) {
	setup := func(t *testing.T) (func(args ...string) error, func() string) {
		_, output, run := newTestApp(t)
		if err := run("users", "register", "--password", "pw", "alice"); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		output.Reset()
		return run, func() string {
			s := output.String()
			output.Reset()
			return s
		}
	}

	t.Run("add then list", func(t *testing.T) {
		run, out := setup(t)

		if err := run("songs", "add", "--user", "alice", "--name", "Song A", "--artist", "Artist A", "--link", "https://youtu.be/a"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := run("songs", "add", "--user", "alice", "--name", "Song B"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		out()

		if err := run("songs", "list", "--user", "alice", "--json"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		var songs []songRecord
		if err := json.Unmarshal([]byte(out()), &songs); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(songs))
		}
		if songs[0].Name != "Song A" || songs[0].Link != "https://youtu.be/a" {
			t.Errorf("unexpected first song: %+v", songs[0])
		}
		if songs[1].Artist != "" || songs[1].Link != "" {
			t.Errorf("expected missing fields stored empty, got %+v", songs[1])
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		run, _ := setup(t)

		err := run("songs", "list", "--user", "nobody")
		if !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("export to stdout", func(t *testing.T) {
		run, out := setup(t)

		if err := run("songs", "add", "--user", "alice", "--name", "Song A", "--artist", "Artist A"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		out()

		if err := run("songs", "export", "--user", "alice", "--format", "csv", "--output", "-"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		result := out()
		if !strings.HasPrefix(result, "ID,Name,Artist,Link") || !strings.Contains(result, "Song A,Artist A") {
			t.Errorf("unexpected CSV: %s", result)
		}
	})

	t.Run("export to file", func(t *testing.T) {
		run, out := setup(t)

		if err := run("songs", "add", "--user", "alice", "--name", "Song A", "--artist", "Artist A"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		out()

		path := filepath.Join(t.TempDir(), "alice.md")
		if err := run("songs", "export", "--user", "alice", "--format", "markdown", "--output", path); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "# alice's songs") {
			t.Error("export missing heading")
		}
		if !strings.Contains(out(), "Exported 1 songs") {
			t.Error("expected export summary")
		}
	})

	t.Run("export all", func(t *testing.T) {
		run, out := setup(t)

		if err := run("users", "register", "--password", "pw", "bob"); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if err := run("songs", "add", "--user", "bob", "--name", "Song B"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		out()

		dir := t.TempDir()
		if err := run("songs", "export-all", "--format", "txt", "--output-dir", dir, "--workers", "2"); err != nil {
			t.Fatalf("export-all failed: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "alice_songs.txt"))
		tu.AssertFileExists(t, filepath.Join(dir, "bob_songs.txt"))
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		if !strings.Contains(out(), "Exported 2 of 2 users") {
			t.Error("expected export summary")
		}
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		run, _ := setup(t)

		err := run("songs", "export", "--user", "alice", "--format", "xml")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestFriendsCommands(t *testing.T) {
	_, output, run := newTestApp(t)
	for _, name := range []string{"alice", "bob", "carol"} {
		if err := run("users", "register", "--password", "pw", name); err != nil {
			t.Fatalf("register %s failed: %v", name, err)
		}
	}

	tests := []struct {
		friend string
		want   string
	}{
		{"bob", "alice now follows bob"},
		{"bob", "alice already follows bob"},
		{"alice", "alice cannot follow themself"},
		{"dave", "No user named dave"},
		{"carol", "alice now follows carol"},
	}
	for _, tt := range tests {
		output.Reset()
		if err := run("friends", "add", "--user", "alice", "--friend", tt.friend); err != nil {
			t.Fatalf("add %s failed: %v", tt.friend, err)
		}
		if !strings.Contains(output.String(), tt.want) {
			t.Errorf("add %s: expected %q, got %q", tt.friend, tt.want, output.String())
		}
	}

	t.Run("list friends", func(t *testing.T) {
		output.Reset()
		if err := run("friends", "list", "--user", "alice", "--json"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		var friends []friendRecord
		if err := json.Unmarshal(output.Bytes(), &friends); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(friends) != 2 || friends[0].Username != "bob" || friends[1].Username != "carol" {
			t.Errorf("unexpected friends: %+v", friends)
		}
	})

	t.Run("list followers", func(t *testing.T) {
		output.Reset()
		if err := run("friends", "list", "--user", "bob", "--followers"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "bob is followed by 1 users") || !strings.Contains(output.String(), "1. alice") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("bob follows nobody", func(t *testing.T) {
		output.Reset()
		if err := run("friends", "list", "--user", "bob", "--json"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if strings.TrimSpace(output.String()) != "[]" {
			t.Errorf("expected empty array, got %s", output.String())
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		_, output, run := newTestApp(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := run("setup", "config", "--path", path); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), shared.EnvSessionSecret) {
			t.Errorf("expected secret hint, got %s", output.String())
		}

		if err := run("setup", "config", "--path", path); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("database creates config", func(t *testing.T) {
		_, _, run := newTestApp(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := run("--config", path, "setup", "database"); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		tu.AssertFileExists(t, path)
	})

	t.Run("status", func(t *testing.T) {
		_, output, run := newTestApp(t)

		if err := run("setup", "status", "--json"); err != nil {
			t.Fatalf("setup status failed: %v", err)
		}

		var records []migrationRecord
		if err := json.Unmarshal(output.Bytes(), &records); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(records) == 0 {
			t.Fatal("expected migrations")
		}
		for _, r := range records {
			if !r.Applied {
				t.Errorf("expected migration %d applied", r.Version)
			}
		}
	})

	t.Run("rollback", func(t *testing.T) {
		_, output, run := newTestApp(t)

		if err := run("setup", "rollback"); err != nil {
			t.Fatalf("rollback failed: %v", err)
		}

		output.Reset()
		if err := run("setup", "status", "--json"); err != nil {
			t.Fatalf("setup status failed: %v", err)
		}
		var records []migrationRecord
		if err := json.Unmarshal(output.Bytes(), &records); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if records[len(records)-1].Applied {
			t.Error("expected latest migration to be rolled back")
		}
	})
}
