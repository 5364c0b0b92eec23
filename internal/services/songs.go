package services

import (
	"fmt"

	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/repositories"
	"github.com/desertthunder/favs/internal/shared"
)

// SongRegistry implements [Songs]. Every read path is scoped to the owner.
type SongRegistry struct {
	songs *repositories.SongRepository
}

var _ Songs = (*SongRegistry)(nil)

func NewSongRegistry(songs *repositories.SongRepository) *SongRegistry {
	return &SongRegistry{songs: songs}
}

// List returns the songs owned by userID in the order they were added.
func (r *SongRegistry) List(userID string) ([]*models.Song, error) {
	return r.songs.ListByUser(userID)
}

// Add stores a song without validating name or artist.
func (r *SongRegistry) Add(userID, name, artist, link string) (*models.Song, error) {
	song := models.NewSong(0, userID, name, artist, link)
	if err := r.songs.Create(song); err != nil {
		return nil, err
	}
	return song, nil
}

func (r *SongRegistry) Get(songID string) (*models.Song, error) {
	return r.songs.Get(songID)
}

func (r *SongRegistry) Edit(songID, userID string) (*models.Song, error) {
	song, err := r.songs.Get(songID)
	if err != nil {
		return nil, err
	}
	if !song.OwnedBy(userID) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotOwner, songID)
	}
	return song, nil
}

func (r *SongRegistry) Update(songID, userID, name, artist, link string) (*models.Song, error) {
	song, err := r.Edit(songID, userID)
	if err != nil {
		return nil, err
	}

	song.SetFields(name, artist, link)
	if err := r.songs.Update(song); err != nil {
		return nil, err
	}
	return song, nil
}
