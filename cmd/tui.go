package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/favs/internal/repositories"
	"github.com/desertthunder/favs/internal/services"
	"github.com/desertthunder/favs/internal/shared"
	"github.com/desertthunder/favs/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive terminal UI.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/favs-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	users := repositories.NewUserRepository(db)
	model := ui.NewModel(
		users,
		services.NewSongRegistry(repositories.NewSongRepository(db)),
		services.NewFriendshipGraph(users, repositories.NewFriendshipRepository(db), fileLogger),
	)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
