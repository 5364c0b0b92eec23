package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/favs/internal/repositories"
	"github.com/desertthunder/favs/internal/services"
	"github.com/desertthunder/favs/internal/shared"
	"github.com/urfave/cli/v3"
)

type userRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// UsersRegister creates an account from the command line.
func (r *Runner) UsersRegister(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	store := services.NewCredentialStore(repositories.NewUserRepository(db))
	user, err := store.Register(username, cmd.String("password"))
	if errors.Is(err, shared.ErrDuplicateUsername) {
		return fmt.Errorf("%w: choose a different one", err)
	}
	if err != nil {
		return err
	}

	r.logger.Info("registered user", "username", user.Username(), "id", user.ID())
	r.writePlain("✓ Registered %s (%s)\n", user.Username(), user.ID())
	return nil
}

// UsersList prints every registered user in registration order.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	users, err := repositories.NewUserRepository(db).List(map[string]any{})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		records := make([]userRecord, len(users))
		for i, u := range users {
			records[i] = userRecord{ID: u.ID(), Username: u.Username(), CreatedAt: u.CreatedAt()}
		}
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d users:\n\n", len(users))
	for i, u := range users {
		r.writePlain("%d. %s\n", i+1, u.Username())
		r.writePlain("   ID: %s\n", u.ID())
	}
	return nil
}
