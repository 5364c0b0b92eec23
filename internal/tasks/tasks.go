package tasks

import (
	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/services"
)

// UserLister is satisfied by [repositories.UserRepository].
type UserLister interface {
	List(criteria map[string]any) ([]*models.User, error)
	GetByUsername(username string) (*models.User, error)
}

// Exporter runs bulk jobs over users and their songs.
type Exporter struct {
	users UserLister
	songs services.Songs
}

// NewExporter creates a new Exporter with the provided stores.
func NewExporter(users UserLister, songs services.Songs) *Exporter {
	return &Exporter{users: users, songs: songs}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Exporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
