package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/shared"
)

// FriendshipRepository implements models.Repository[*models.Friendship] for directed follow edges.
type FriendshipRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Friendship] = (*FriendshipRepository)(nil)

// NewFriendshipRepository creates a new FriendshipRepository with the given database connection
func NewFriendshipRepository(db *sql.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// Create inserts a new edge with generated ID and sequence.
//
// The UNIQUE(requester_id, target_id) constraint backs up the caller's existence check;
// a violation is reported as [shared.ErrFriendshipExists].
func (r *FriendshipRepository) Create(friendship *models.Friendship) error {
	sequence, err := NextSequence(r.db, "friendships")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	friendship.SetID(shared.GenerateID())
	friendship.SetSequence(sequence)

	if err := friendship.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO friendships (id, sequence, requester_id, target_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, friendship.ID(), sequence, friendship.RequesterID(), friendship.TargetID(), friendship.CreatedAt())
	if isUniqueViolation(err) {
		return shared.ErrFriendshipExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert friendship: %w", err)
	}

	return nil
}

// Get retrieves an edge by ID
func (r *FriendshipRepository) Get(id string) (*models.Friendship, error) {
	query := `
		SELECT id, sequence, requester_id, target_id, created_at
		FROM friendships
		WHERE id = ?
	`

	friendship, err := scanFriendship(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("friendship not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query friendship: %w", err)
	}

	return friendship, nil
}

// Exists reports whether the edge requesterID → targetID is stored
func (r *FriendshipRepository) Exists(requesterID, targetID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM friendships WHERE requester_id = ? AND target_id = ?)",
		requesterID, targetID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}

// List retrieves edges matching the given criteria in insertion order.
//
// Supported criteria: "requester_id", "target_id".
func (r *FriendshipRepository) List(criteria map[string]any) ([]*models.Friendship, error) {
	query := `
		SELECT id, sequence, requester_id, target_id, created_at
		FROM friendships
		WHERE 1 = 1
	`

	args := []any{}

	if requesterID, ok := criteria["requester_id"].(string); ok && requesterID != "" {
		query += " AND requester_id = ?"
		args = append(args, requesterID)
	}

	if targetID, ok := criteria["target_id"].(string); ok && targetID != "" {
		query += " AND target_id = ?"
		args = append(args, targetID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}
	defer rows.Close()

	var friendships []*models.Friendship
	for rows.Next() {
		friendship, err := scanFriendship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		friendships = append(friendships, friendship)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return friendships, nil
}

// ListTargets returns the users that userID added, in the order they were added
func (r *FriendshipRepository) ListTargets(userID string) ([]models.Friend, error) {
	return r.listFriends(`
		SELECT u.id, u.username, f.created_at
		FROM friendships f
		JOIN users u ON u.id = f.target_id
		WHERE f.requester_id = ?
		ORDER BY f.sequence ASC
	`, userID)
}

// ListRequesters returns the users that added userID, in the order they did so
func (r *FriendshipRepository) ListRequesters(userID string) ([]models.Friend, error) {
	return r.listFriends(`
		SELECT u.id, u.username, f.created_at
		FROM friendships f
		JOIN users u ON u.id = f.requester_id
		WHERE f.target_id = ?
		ORDER BY f.sequence ASC
	`, userID)
}

func (r *FriendshipRepository) listFriends(query, userID string) ([]models.Friend, error) {
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query friends: %w", err)
	}
	defer rows.Close()

	friends := []models.Friend{}
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.UserID, &f.Username, &f.Since); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return friends, nil
}

func scanFriendship(s scanner) (*models.Friendship, error) {
	var (
		id          string
		sequence    int
		requesterID string
		targetID    string
		createdAt   time.Time
	)

	if err := s.Scan(&id, &sequence, &requesterID, &targetID, &createdAt); err != nil {
		return nil, err
	}

	friendship := models.NewFriendship(sequence, requesterID, targetID)
	friendship.SetID(id)
	friendship.SetCreatedAt(createdAt)
	friendship.SetUpdatedAt(createdAt)
	return friendship, nil
}
