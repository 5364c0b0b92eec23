package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/favs/internal/formatter"
	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/shared"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
	manifestName   = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk song exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: csv, md, txt, json
	OutputDir  string           // Base output directory (default: favs_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 4, max: 10)
	Usernames  []string         // Users to export; empty means every user
}

// UserExportResult is the outcome of exporting one user's songs.
type UserExportResult struct {
	UserID       string `json:"user_id,omitempty"`
	Username     string `json:"username"`
	SongCount    int    `json:"song_count"`
	File         string `json:"file,omitempty"`
	Success      bool   `json:"success"`
	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export and doubles as the manifest.
type BulkExportResult struct {
	Format            formatter.Format   `json:"format"`
	ExportedAt        time.Time          `json:"exported_at"`
	TotalUsers        int                `json:"total_users"`
	SuccessfulExports int                `json:"successful_exports"`
	FailedExports     int                `json:"failed_exports"`
	OutputDirectory   string             `json:"output_directory"`
	ManifestPath      string             `json:"-"`
	Results           []UserExportResult `json:"results"`
}

type exportJob struct {
	index    int
	username string
	user     *models.User
}

// BulkExport writes each user's songs to its own file in opts.OutputDir using a pool of workers.
//
// Results keep the order users were listed or named in. Per-user failures are recorded and do not abort the run;
// cancelling ctx stops queuing new users and returns ctx.Err() with the partial result.
func (e *Exporter) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatCSV
	}
	format, err := formatter.ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	opts.Format = format
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("favs_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}

	e.sendProgress(prog, fetchingUsersUpdate())
	jobs, err := e.exportJobs(opts.Usernames)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Format:          opts.Format,
		ExportedAt:      time.Now().UTC(),
		TotalUsers:      len(jobs),
		OutputDirectory: opts.OutputDir,
		Results:         make([]UserExportResult, len(jobs)),
	}

	queue := make(chan exportJob, len(jobs))
	results := make(chan exportJobResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, queue, results, opts)
	}

	go func() {
		defer close(queue)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case queue <- job:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results[res.index] = res.UserExportResult

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(jobs), res.UserExportResult))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(jobs), res.UserExportResult))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	e.sendProgress(prog, writingManifestUpdate(manifestPath))
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

type exportJobResult struct {
	index int
	UserExportResult
}

// exportJobs resolves the users to export, in registration order when none are named.
func (e *Exporter) exportJobs(usernames []string) ([]exportJob, error) {
	if len(usernames) > 0 {
		jobs := make([]exportJob, len(usernames))
		for i, name := range usernames {
			jobs[i] = exportJob{index: i, username: name}
		}
		return jobs, nil
	}

	users, err := e.users.List(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	jobs := make([]exportJob, len(users))
	for i, u := range users {
		jobs[i] = exportJob{index: i, username: u.Username(), user: u}
	}
	return jobs, nil
}

// exportWorker is a worker goroutine that exports users from the queue.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	queue <-chan exportJob,
	results chan<- exportJobResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range queue {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := e.exportUser(job, opts)
		if res.Error != nil {
			res.ErrorMessage = res.Error.Error()
		}
		results <- exportJobResult{index: job.index, UserExportResult: res}
	}
}

// exportUser writes one user's songs to {dir}/{username}_songs.{ext}.
func (e *Exporter) exportUser(job exportJob, opts BulkExportOpts) UserExportResult {
	result := UserExportResult{Username: job.username}

	user := job.user
	if user == nil {
		u, err := e.users.GetByUsername(job.username)
		if err != nil {
			result.Error = err
			return result
		}
		user = u
	}
	result.UserID = user.ID()

	songs, err := e.songs.List(user.ID())
	if err != nil {
		result.Error = fmt.Errorf("failed to list songs: %w", err)
		return result
	}
	result.SongCount = len(songs)

	export := &formatter.SongExport{
		Owner:      user.Username(),
		ExportedAt: time.Now().UTC(),
		Songs:      songs,
	}
	path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_songs.%s", fileSafeName(user), opts.Format.Extension()))

	written, err := formatter.WriteExport(export, opts.Format, path)
	if err != nil {
		result.Error = err
		return result
	}

	result.File = written
	result.Success = true
	return result
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// fileSafeName strips path separators from a username, falling back to the user ID.
//
// A name that had to be rewritten gets a short ID suffix so "a/b" and "a_b" never share a file.
func fileSafeName(u *models.User) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, u.Username())

	switch {
	case name == "" || name == "." || name == "..":
		return u.ID()
	case name != u.Username():
		return name + "_" + shortID(u.ID())
	}
	return name
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// IsUserNotFound reports whether a result failed because the named user does not exist.
func (r UserExportResult) IsUserNotFound() bool {
	return errors.Is(r.Error, shared.ErrUserNotFound)
}
