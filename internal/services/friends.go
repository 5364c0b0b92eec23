package services

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/repositories"
	"github.com/desertthunder/favs/internal/shared"
)

// AddFriendResult tells callers what [FriendshipGraph.AddFriend] did.
// None of the no-op outcomes are errors.
type AddFriendResult int

const (
	FriendAdded AddFriendResult = iota
	FriendSelf
	FriendUnknown
	FriendDuplicate
)

func (r AddFriendResult) String() string {
	switch r {
	case FriendAdded:
		return "created"
	case FriendSelf:
		return "self"
	case FriendUnknown:
		return "unknown"
	case FriendDuplicate:
		return "duplicate"
	default:
		return "invalid"
	}
}

// FriendshipGraph implements [Friends].
//
// Friends of a user are the users they added (outgoing edges).
// Followers are the users who added them (incoming edges).
type FriendshipGraph struct {
	users       *repositories.UserRepository
	friendships *repositories.FriendshipRepository
	logger      *log.Logger
}

var _ Friends = (*FriendshipGraph)(nil)

func NewFriendshipGraph(users *repositories.UserRepository, friendships *repositories.FriendshipRepository, logger *log.Logger) *FriendshipGraph {
	return &FriendshipGraph{users: users, friendships: friendships, logger: logger}
}

func (g *FriendshipGraph) ListFriends(userID string) ([]models.Friend, error) {
	return g.friendships.ListTargets(userID)
}

func (g *FriendshipGraph) ListFollowers(userID string) ([]models.Friend, error) {
	return g.friendships.ListRequesters(userID)
}

// AddFriend creates the edge userID → friendUsername.
//
// Unknown usernames, the user themself and existing edges are silent no-ops.
func (g *FriendshipGraph) AddFriend(userID, friendUsername string) (AddFriendResult, error) {
	friend, err := g.users.GetByUsername(friendUsername)
	if errors.Is(err, shared.ErrUserNotFound) {
		return g.result(userID, friendUsername, FriendUnknown), nil
	}
	if err != nil {
		return 0, err
	}

	if friend.ID() == userID {
		return g.result(userID, friendUsername, FriendSelf), nil
	}

	exists, err := g.friendships.Exists(userID, friend.ID())
	if err != nil {
		return 0, err
	}
	if exists {
		return g.result(userID, friendUsername, FriendDuplicate), nil
	}

	err = g.friendships.Create(models.NewFriendship(0, userID, friend.ID()))
	if errors.Is(err, shared.ErrFriendshipExists) {
		return g.result(userID, friendUsername, FriendDuplicate), nil
	}
	if err != nil {
		return 0, err
	}

	return g.result(userID, friendUsername, FriendAdded), nil
}

func (g *FriendshipGraph) result(userID, friendUsername string, r AddFriendResult) AddFriendResult {
	if g.logger != nil {
		g.logger.Debug("add friend", "user", userID, "friend", friendUsername, "result", r)
	}
	return r
}
