package models

import (
	"fmt"
	"time"
)

// Friendship is a directed edge: the requester follows the target.
// Reciprocity is never implied.
type Friendship struct {
	record
	requesterID string
	targetID    string
}

var _ Model = (*Friendship)(nil)

// NewFriendship creates a [Friendship] from requesterID to targetID.
func NewFriendship(sequence int, requesterID, targetID string) *Friendship {
	return &Friendship{record: newRecord(sequence), requesterID: requesterID, targetID: targetID}
}

func (f *Friendship) RequesterID() string { return f.requesterID }
func (f *Friendship) TargetID() string    { return f.targetID }

func (f *Friendship) Validate() error {
	if f.id == "" {
		return fmt.Errorf("friendship ID is required")
	}
	if f.requesterID == "" || f.targetID == "" {
		return fmt.Errorf("both ends of a friendship are required")
	}
	if f.requesterID == f.targetID {
		return fmt.Errorf("users cannot befriend themselves")
	}
	return nil
}

// Friend pairs a user with the edge that links them to the viewer.
type Friend struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Since    time.Time `json:"since"`
}
