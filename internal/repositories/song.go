package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/shared"
)

// SongRepository implements models.Repository[*models.Song] for a user's favourite songs.
type SongRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Song] = (*SongRepository)(nil)

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new song with generated ID and sequence
func (r *SongRepository) Create(song *models.Song) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	song.SetID(shared.GenerateID())
	song.SetSequence(sequence)

	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO songs (id, sequence, user_id, name, artist, link, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		song.ID(),
		sequence,
		song.UserID(),
		song.Name(),
		song.Artist(),
		song.Link(),
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a song by ID regardless of owner.
//
// Callers enforce ownership; a missing song is [shared.ErrSongNotFound].
func (r *SongRepository) Get(id string) (*models.Song, error) {
	query := `
		SELECT id, sequence, user_id, name, artist, link, created_at, updated_at
		FROM songs
		WHERE id = ?
	`

	song, err := scanSong(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query song: %w", err)
	}

	return song, nil
}

// Update overwrites name, artist and link of an existing song.
//
// The owner is part of the WHERE clause so a song can never be written through another user's ID.
func (r *SongRepository) Update(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE songs
		SET name = ?, artist = ?, link = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.Exec(query, song.Name(), song.Artist(), song.Link(), now, song.ID(), song.UserID())
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, song.ID())
	}

	song.SetUpdatedAt(now)
	return nil
}

// List retrieves songs matching the given criteria in insertion order.
//
// Supported criteria: "user_id".
func (r *SongRepository) List(criteria map[string]any) ([]*models.Song, error) {
	query := `
		SELECT id, sequence, user_id, name, artist, link, created_at, updated_at
		FROM songs
		WHERE 1 = 1
	`

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// ListByUser returns every song owned by userID, oldest first
func (r *SongRepository) ListByUser(userID string) ([]*models.Song, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", shared.ErrInvalidInput)
	}
	return r.List(map[string]any{"user_id": userID})
}

func scanSong(s scanner) (*models.Song, error) {
	var (
		id        string
		sequence  int
		userID    string
		name      string
		artist    string
		link      string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := s.Scan(&id, &sequence, &userID, &name, &artist, &link, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	song := models.NewSong(sequence, userID, name, artist, link)
	song.SetID(id)
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)
	return song, nil
}
