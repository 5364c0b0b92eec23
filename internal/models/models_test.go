package models

import "testing"

func TestValidate(t *testing.T) {
	withID := func(m interface{ SetID(string) }, id string) { m.SetID(id) }

	tc := []struct {
		name    string
		model   Model
		wantErr bool
	}{
		{name: "user ok", model: func() Model { u := NewUser(1, "alice", "hash"); withID(u, "u1"); return u }(), wantErr: false},
		{name: "user without id", model: NewUser(1, "alice", "hash"), wantErr: true},
		{name: "user blank name", model: func() Model { u := NewUser(1, "  ", "hash"); withID(u, "u1"); return u }(), wantErr: false},
		{name: "user empty name", model: func() Model { u := NewUser(1, "", "hash"); withID(u, "u1"); return u }(), wantErr: false},
		{name: "user without hash", model: func() Model { u := NewUser(1, "alice", ""); withID(u, "u1"); return u }(), wantErr: true},
		{name: "song with empty fields", model: func() Model { s := NewSong(1, "u1", "", "", ""); withID(s, "s1"); return s }(), wantErr: false},
		{name: "song without owner", model: func() Model { s := NewSong(1, "", "n", "a", ""); withID(s, "s1"); return s }(), wantErr: true},
		{name: "friendship ok", model: func() Model { f := NewFriendship(1, "u1", "u2"); withID(f, "f1"); return f }(), wantErr: false},
		{name: "self friendship", model: func() Model { f := NewFriendship(1, "u1", "u1"); withID(f, "f1"); return f }(), wantErr: true},
		{name: "friendship missing target", model: func() Model { f := NewFriendship(1, "u1", ""); withID(f, "f1"); return f }(), wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSong(t *testing.T) {
	t.Run("SetFields overwrites everything", func(t *testing.T) {
		s := NewSong(1, "u1", "Song1", "ArtistX", "https://youtu.be/x")
		s.SetFields("Song2", "ArtistY", "")

		if s.Name() != "Song2" || s.Artist() != "ArtistY" || s.Link() != "" {
			t.Errorf("unexpected fields after update: %q %q %q", s.Name(), s.Artist(), s.Link())
		}
	})

	t.Run("OwnedBy", func(t *testing.T) {
		s := NewSong(1, "u1", "Song1", "ArtistX", "")
		if !s.OwnedBy("u1") {
			t.Error("expected u1 to own the song")
		}
		if s.OwnedBy("u2") || s.OwnedBy("") {
			t.Error("expected other users not to own the song")
		}
	})
}
