package models

import "fmt"

// Song is a favourite song owned by a single [User].
//
// Name and artist may be empty; the add form accepts whatever it is given.
type Song struct {
	record
	userID string
	name   string
	artist string
	link   string
}

var _ Model = (*Song)(nil)

// NewSong creates a [Song] owned by userID.
func NewSong(sequence int, userID, name, artist, link string) *Song {
	return &Song{record: newRecord(sequence), userID: userID, name: name, artist: artist, link: link}
}

func (s *Song) UserID() string { return s.userID }
func (s *Song) Name() string   { return s.name }
func (s *Song) Artist() string { return s.artist }
func (s *Song) Link() string   { return s.link }

// SetFields overwrites every mutable field.
func (s *Song) SetFields(name, artist, link string) {
	s.name = name
	s.artist = artist
	s.link = link
}

// OwnedBy reports whether userID owns the song.
func (s *Song) OwnedBy(userID string) bool {
	return s.userID != "" && s.userID == userID
}

func (s *Song) Validate() error {
	if s.id == "" {
		return fmt.Errorf("song ID is required")
	}
	if s.userID == "" {
		return fmt.Errorf("song owner is required")
	}
	return nil
}
