package services

import (
	"github.com/desertthunder/favs/internal/models"
)

// Credentials registers accounts and verifies passwords.
type Credentials interface {
	// Register hashes password and stores a new user.
	// Returns [shared.ErrDuplicateUsername] if the username is taken.
	Register(username, password string) (*models.User, error)

	// Authenticate returns the user whose stored hash matches password.
	// Unknown usernames and wrong passwords both yield [shared.ErrInvalidCredentials].
	Authenticate(username, password string) (*models.User, error)
}

// Songs manages the songs owned by a single user.
type Songs interface {
	List(userID string) ([]*models.Song, error)
	Add(userID, name, artist, link string) (*models.Song, error)
	Get(songID string) (*models.Song, error)

	// Edit fetches a song for its owner; other users get [shared.ErrNotOwner].
	Edit(songID, userID string) (*models.Song, error)

	// Update overwrites name, artist and link of a song owned by userID.
	Update(songID, userID, name, artist, link string) (*models.Song, error)
}

// Friends manages directed follow edges.
type Friends interface {
	ListFriends(userID string) ([]models.Friend, error)
	ListFollowers(userID string) ([]models.Friend, error)
	AddFriend(userID, friendUsername string) (AddFriendResult, error)
}
