package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/server"
	"github.com/desertthunder/favs/internal/shared"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgUsernameTaken      = "Username already exists. Please choose a different one."
)

type homeData struct {
	Songs []*models.Song
}

type friendsData struct {
	Friends   []models.Friend
	Followers []models.Friend
}

// requiredField returns a posted form value, failing when the key was not sent at all.
func requiredField(r *http.Request, key string) (string, error) {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingField, key)
	}
	return values[0], nil
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

// session is only called behind [server.SessionManager.Require].
func session(r *http.Request) server.Session {
	s, _ := server.SessionFrom(r.Context())
	return s
}

func (a *App) home(w http.ResponseWriter, r *http.Request) {
	s := session(r)
	songs, err := a.songs.List(s.UserID)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	a.render(w, r, pageHome, view{Title: "My Songs", Username: s.Username, Data: homeData{Songs: songs}})
}

func (a *App) loginForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, pageLogin, view{Title: "Login"})
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.serverError(w, r, err)
		return
	}

	username, err := requiredField(r, "username")
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	password, err := requiredField(r, "password")
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	user, err := a.credentials.Authenticate(username, password)
	if errors.Is(err, shared.ErrInvalidCredentials) {
		a.render(w, r, pageLogin, view{Title: "Login", ErrorMessage: msgInvalidCredentials})
		return
	}
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	if _, err := a.sessions.Start(w, user.ID(), user.Username()); err != nil {
		a.serverError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

func (a *App) registerForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, pageRegister, view{Title: "Register"})
}

func (a *App) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.serverError(w, r, err)
		return
	}

	username, err := requiredField(r, "username")
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	password, err := requiredField(r, "password")
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	_, err = a.credentials.Register(username, password)
	if errors.Is(err, shared.ErrDuplicateUsername) {
		a.render(w, r, pageRegister, view{Title: "Register", ErrorMessage: msgUsernameTaken})
		return
	}
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	redirect(w, r, "/login")
}

// addSong defaults every missing field to the empty string.
func (a *App) addSong(w http.ResponseWriter, r *http.Request) {
	s := session(r)
	_, err := a.songs.Add(
		s.UserID,
		r.PostFormValue("song_name"),
		r.PostFormValue("artist"),
		r.PostFormValue("youtube_url"),
	)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

func (a *App) editSong(w http.ResponseWriter, r *http.Request) {
	s := session(r)
	song, ok := a.ownedSong(w, r, s)
	if !ok {
		return
	}
	a.render(w, r, pageEditSong, view{Title: "Edit Song", Username: s.Username, Data: song})
}

func (a *App) updateSong(w http.ResponseWriter, r *http.Request) {
	s := session(r)
	song, ok := a.ownedSong(w, r, s)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		a.serverError(w, r, err)
		return
	}

	fields := make([]string, 3)
	for i, key := range []string{"song_name", "artist", "youtube_url"} {
		value, err := requiredField(r, key)
		if err != nil {
			a.serverError(w, r, err)
			return
		}
		fields[i] = value
	}

	_, err := a.songs.Update(song.ID(), s.UserID, fields[0], fields[1], fields[2])
	switch {
	case errors.Is(err, shared.ErrNotOwner):
		// refused writes get the same redirect as a successful one
	case errors.Is(err, shared.ErrSongNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		a.serverError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

// ownedSong loads the song named in the path for the session user.
// It writes the 404, redirect or 500 itself and reports false when the handler should stop.
func (a *App) ownedSong(w http.ResponseWriter, r *http.Request, s server.Session) (*models.Song, bool) {
	song, err := a.songs.Edit(r.PathValue("id"), s.UserID)
	switch {
	case errors.Is(err, shared.ErrSongNotFound):
		http.NotFound(w, r)
		return nil, false
	case errors.Is(err, shared.ErrNotOwner):
		a.logger.Warn("song access refused", "user", s.UserID, "song", r.PathValue("id"))
		redirect(w, r, "/")
		return nil, false
	case err != nil:
		a.serverError(w, r, err)
		return nil, false
	}
	return song, true
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Clear(w)
	redirect(w, r, "/login")
}

func (a *App) friendsPage(w http.ResponseWriter, r *http.Request) {
	s := session(r)

	friends, err := a.friends.ListFriends(s.UserID)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	followers, err := a.friends.ListFollowers(s.UserID)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	a.render(w, r, pageFriends, view{
		Title:    "Friends",
		Username: s.Username,
		Data:     friendsData{Friends: friends, Followers: followers},
	})
}

// addFriend redirects to /friends whatever the outcome.
func (a *App) addFriend(w http.ResponseWriter, r *http.Request) {
	s := session(r)
	if _, err := a.friends.AddFriend(s.UserID, r.PostFormValue("friend_username")); err != nil {
		a.serverError(w, r, err)
		return
	}
	redirect(w, r, "/friends")
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	if err := a.db.PingContext(r.Context()); err != nil {
		a.logger.Error("health check failed", "error", err)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
