package main

import (
	"context"
	"time"

	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/repositories"
	"github.com/desertthunder/favs/internal/services"
	"github.com/desertthunder/favs/internal/shared"
	"github.com/urfave/cli/v3"
)

type friendRecord struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Since    time.Time `json:"since"`
}

func (r *Runner) friendshipGraph() (*services.FriendshipGraph, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return services.NewFriendshipGraph(
		repositories.NewUserRepository(db),
		repositories.NewFriendshipRepository(db),
		shared.WithLogger(r.logger, "component", "friends"),
	), nil
}

// FriendsAdd makes --user follow --friend. Self, unknown and repeated adds are reported but not errors.
func (r *Runner) FriendsAdd(ctx context.Context, cmd *cli.Command) error {
	graph, err := r.friendshipGraph()
	if err != nil {
		return err
	}
	user, err := r.lookupUser(r.db, cmd.String("user"))
	if err != nil {
		return err
	}

	friend := cmd.String("friend")
	result, err := graph.AddFriend(user.ID(), friend)
	if err != nil {
		return err
	}

	switch result {
	case services.FriendAdded:
		r.writePlain("✓ %s now follows %s\n", user.Username(), friend)
	case services.FriendDuplicate:
		r.writePlain("%s already follows %s\n", user.Username(), friend)
	case services.FriendSelf:
		r.writePlain("%s cannot follow themself\n", user.Username())
	case services.FriendUnknown:
		r.writePlain("No user named %s\n", friend)
	}
	return nil
}

// FriendsList prints who --user follows, or who follows them with --followers.
func (r *Runner) FriendsList(ctx context.Context, cmd *cli.Command) error {
	graph, err := r.friendshipGraph()
	if err != nil {
		return err
	}
	user, err := r.lookupUser(r.db, cmd.String("user"))
	if err != nil {
		return err
	}

	var friends []models.Friend
	label := "follows"
	if cmd.Bool("followers") {
		label = "is followed by"
		friends, err = graph.ListFollowers(user.ID())
	} else {
		friends, err = graph.ListFriends(user.ID())
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		records := make([]friendRecord, len(friends))
		for i, f := range friends {
			records[i] = friendRecord{UserID: f.UserID, Username: f.Username, Since: f.Since}
		}
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	r.writePlain("%s %s %d users:\n\n", user.Username(), label, len(friends))
	for i, f := range friends {
		r.writePlain("%d. %s\n", i+1, f.Username)
	}
	return nil
}
