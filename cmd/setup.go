package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/favs/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the config file when it is missing, then initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); os.IsNotExist(err) {
			r.logger.Info("config file not found, creating from template", "path", r.configPath)
			if err := shared.CreateConfigFile(r.configPath); err != nil {
				r.logger.Warn("failed to create config file, using defaults", "error", err)
			} else {
				r.logger.Info("config file created", "path", r.configPath)
			}
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	if _, err := r.database(); err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return nil
}

// SetupConfig writes the embedded example configuration to --path (or --config).
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		return fmt.Errorf("%w: --path is required", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Set %s (or [session] secret) before serving.\n", shared.EnvSessionSecret)
	return nil
}

// SetupRollback rolls back the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase(false)
	if err != nil {
		return err
	}

	r.logger.Info("rolling back latest migration", "path", r.config.Database.Path)
	if err := shared.RollbackMigration(db); err != nil {
		return err
	}

	r.writePlain("✓ Rolled back latest migration\n")
	return nil
}

type migrationRecord struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
	Applied bool   `json:"applied"`
}

// SetupStatus lists the embedded migrations and whether each is applied.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase(false)
	if err != nil {
		return err
	}

	statuses, err := shared.MigrationStatuses(db)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		records := make([]migrationRecord, len(statuses))
		for i, s := range statuses {
			records[i] = migrationRecord{Version: s.Version, Name: s.Name, Applied: s.Applied}
		}
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Migrations")
	for _, s := range statuses {
		mark := " "
		if s.Applied {
			mark = "✓"
		}
		r.writePlain("[%s] %04d %s\n", mark, s.Version, s.Name)
	}
	return nil
}
