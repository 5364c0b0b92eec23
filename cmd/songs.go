package main

import (
	"context"
	"time"

	"github.com/desertthunder/favs/internal/formatter"
	"github.com/desertthunder/favs/internal/repositories"
	"github.com/desertthunder/favs/internal/services"
	"github.com/desertthunder/favs/internal/tasks"
	"github.com/urfave/cli/v3"
)

type songRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Link   string `json:"link,omitempty"`
}

func (r *Runner) songRegistry() (*services.SongRegistry, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return services.NewSongRegistry(repositories.NewSongRepository(db)), nil
}

// SongsList prints a user's songs in the order they were added.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	registry, err := r.songRegistry()
	if err != nil {
		return err
	}
	user, err := r.lookupUser(r.db, cmd.String("user"))
	if err != nil {
		return err
	}

	songs, err := registry.List(user.ID())
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		records := make([]songRecord, len(songs))
		for i, s := range songs {
			records[i] = songRecord{ID: s.ID(), Name: s.Name(), Artist: s.Artist(), Link: s.Link()}
		}
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	r.writePlain("%s has %d songs:\n\n", user.Username(), len(songs))
	for i, s := range songs {
		r.writePlain("%d. %s - %s\n", i+1, s.Artist(), s.Name())
		if s.Link() != "" {
			r.writePlain("   Link: %s\n", s.Link())
		}
		r.writePlain("   ID: %s\n", s.ID())
	}
	return nil
}

// SongsAdd appends a song to a user's list. Missing fields are stored empty.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	registry, err := r.songRegistry()
	if err != nil {
		return err
	}
	user, err := r.lookupUser(r.db, cmd.String("user"))
	if err != nil {
		return err
	}

	song, err := registry.Add(user.ID(), cmd.String("name"), cmd.String("artist"), cmd.String("link"))
	if err != nil {
		return err
	}

	r.logger.Debug("added song", "user", user.Username(), "song", song.ID())
	r.writePlain("✓ Added %q to %s's songs (%s)\n", song.Name(), user.Username(), song.ID())
	return nil
}

// SongsExport writes a user's songs to a file, or to stdout when --output is "-".
func (r *Runner) SongsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	registry, err := r.songRegistry()
	if err != nil {
		return err
	}
	user, err := r.lookupUser(r.db, cmd.String("user"))
	if err != nil {
		return err
	}

	songs, err := registry.List(user.ID())
	if err != nil {
		return err
	}

	export := &formatter.SongExport{
		Owner:      user.Username(),
		ExportedAt: time.Now().UTC(),
		Songs:      songs,
	}

	output := cmd.String("output")
	if output == "-" {
		return formatter.Write(r.output, export, format)
	}

	path, err := formatter.WriteExport(export, format, output)
	if err != nil {
		return err
	}

	r.logger.Info("exported songs", "user", user.Username(), "count", len(songs), "path", path)
	r.writePlain("✓ Exported %d songs to %s\n", len(songs), path)
	return nil
}

// SongsExportAll exports every user's songs concurrently and prints progress as it goes.
func (r *Runner) SongsExportAll(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	exporter := tasks.NewExporter(
		repositories.NewUserRepository(db),
		services.NewSongRegistry(repositories.NewSongRepository(db)),
	)

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug("export progress", "phase", update.Phase, "step", update.Step, "total", update.Total)
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := exporter.BulkExport(ctx, progress, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: cmd.Int("workers"),
		Usernames:  cmd.StringSlice("user"),
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("✓ Exported %d of %d users to %s", result.SuccessfulExports, result.TotalUsers, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.logger.Warn("some exports failed", "failed", result.FailedExports, "manifest", result.ManifestPath)
	}
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}
