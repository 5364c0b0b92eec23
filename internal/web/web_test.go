package web

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/desertthunder/favs/internal/repositories"
	"github.com/desertthunder/favs/internal/services"
	"github.com/desertthunder/favs/internal/shared"
	tu "github.com/desertthunder/favs/internal/testing"
	"golang.org/x/crypto/bcrypt"
)

var editLink = regexp.MustCompile(`/edit_song/([0-9a-f-]{36})`)

type testApp struct {
	db     *sql.DB
	server *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := tu.NewTestDB(t)

	app, err := New(Options{
		DB:          db,
		Session:     shared.SessionConfig{Secret: "test-secret", CookieName: "session", LifetimeMinutes: 15},
		Logger:      tu.NewTestLogger(),
		Credentials: services.NewCredentialStore(repositories.NewUserRepository(db)).WithCost(bcrypt.MinCost),
	})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return &testApp{db: db, server: srv}
}

// client is a browser with its own cookie jar that does not follow redirects.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func (a *testApp) client(t *testing.T) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &client{
		t:    t,
		base: a.server.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *client) get(path string) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		c.t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp, readBody(c.t, resp)
}

func (c *client) post(path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.PostForm(c.base+path, form)
	if err != nil {
		c.t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp, readBody(c.t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(b)
}

func expectRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}

func (c *client) signUp(username, password string) {
	c.t.Helper()
	resp, _ := c.post("/register", url.Values{"username": {username}, "password": {password}})
	expectRedirect(c.t, resp, "/login")
	resp, _ = c.post("/login", url.Values{"username": {username}, "password": {password}})
	expectRedirect(c.t, resp, "/")
}

func (c *client) addSong(name, artist, link string) string {
	c.t.Helper()
	resp, _ := c.post("/add_song", url.Values{"song_name": {name}, "artist": {artist}, "youtube_url": {link}})
	expectRedirect(c.t, resp, "/")

	_, body := c.get("/")
	matches := editLink.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		c.t.Fatal("no edit link on home page")
	}
	return matches[len(matches)-1][1]
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

func TestProtectedRoutesRedirect(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodPost, "/add_song"},
		{http.MethodGet, "/edit_song/anything"},
		{http.MethodPost, "/update_song/anything"},
		{http.MethodGet, "/friends"},
		{http.MethodPost, "/add_friend"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var resp *http.Response
			if tt.method == http.MethodGet {
				resp, _ = c.get(tt.path)
			} else {
				resp, _ = c.post(tt.path, url.Values{})
			}
			expectRedirect(t, resp, "/login")
		})
	}

	if n := countRows(t, app.db, "songs"); n != 0 {
		t.Errorf("expected no songs to be created, got %d", n)
	}
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	for _, path := range []string{"/login", "/register"} {
		resp, body := c.get(path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
		if !strings.Contains(body, `name="username"`) {
			t.Errorf("GET %s: form missing", path)
		}
	}

	resp, body := c.get("/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Errorf("healthz: expected 200 ok, got %d %q", resp.StatusCode, body)
	}

	resp, _ = c.get("/does-not-exist")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Run("DuplicateUsername", func(t *testing.T) {
		app := newTestApp(t)
		c := app.client(t)
		c.signUp("alice", "pw1")

		resp, body := c.post("/register", url.Values{"username": {"alice"}, "password": {"other"}})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected form to re-render, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, "Username already exists. Please choose a different one.") {
			t.Error("duplicate message not shown")
		}
		if n := countRows(t, app.db, "users"); n != 1 {
			t.Errorf("expected 1 user, got %d", n)
		}
	})

	t.Run("InvalidCredentialsMessageIsShared", func(t *testing.T) {
		app := newTestApp(t)
		app.client(t).signUp("alice", "pw1")
		c := app.client(t)

		_, wrongPassword := c.post("/login", url.Values{"username": {"alice"}, "password": {"nope"}})
		_, unknownUser := c.post("/login", url.Values{"username": {"mallory"}, "password": {"pw1"}})

		for _, body := range []string{wrongPassword, unknownUser} {
			if !strings.Contains(body, "Invalid credentials") {
				t.Error("expected Invalid credentials message")
			}
		}

		resp, _ := c.get("/")
		expectRedirect(t, resp, "/login")
	})

	t.Run("MissingFieldIsServerError", func(t *testing.T) {
		app := newTestApp(t)
		c := app.client(t)

		resp, _ := c.post("/login", url.Values{"username": {"alice"}})
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("login: expected 500, got %d", resp.StatusCode)
		}
		resp, _ = c.post("/register", url.Values{"password": {"pw"}})
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("register: expected 500, got %d", resp.StatusCode)
		}
	})

	t.Run("AcceptsEmptyUsernameAndLongPassword", func(t *testing.T) {
		app := newTestApp(t)

		app.client(t).signUp("", "pw1")
		app.client(t).signUp("bob", strings.Repeat("x", 80))

		if n := countRows(t, app.db, "users"); n != 2 {
			t.Errorf("expected 2 users, got %d", n)
		}
	})

	t.Run("Logout", func(t *testing.T) {
		app := newTestApp(t)
		c := app.client(t)
		c.signUp("alice", "pw1")

		resp, _ := c.get("/logout")
		expectRedirect(t, resp, "/login")

		resp, _ = c.get("/")
		expectRedirect(t, resp, "/login")
	})
}

func TestSongFlow(t *testing.T) {
	app := newTestApp(t)
	alice := app.client(t)
	alice.signUp("alice", "pw1")

	id := alice.addSong("Song1", "ArtistX", "")

	resp, body := alice.get("/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if strings.Count(body, `class="song-name"`) != 1 || !strings.Contains(body, "Song1") {
		t.Fatalf("expected exactly one song named Song1:\n%s", body)
	}

	resp, body = alice.get("/edit_song/" + id)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `value="ArtistX"`) {
		t.Fatalf("edit form missing song values: %d", resp.StatusCode)
	}

	resp, _ = alice.post("/update_song/"+id, url.Values{
		"song_name":   {"Song1"},
		"artist":      {"ArtistY"},
		"youtube_url": {""},
	})
	expectRedirect(t, resp, "/")

	_, body = alice.get("/")
	if !strings.Contains(body, "ArtistY") {
		t.Error("updated artist not shown")
	}
	if strings.Contains(body, "ArtistX") {
		t.Error("old artist still shown")
	}
}

func TestAddSongDefaults(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.signUp("alice", "pw1")

	resp, _ := c.post("/add_song", url.Values{})
	expectRedirect(t, resp, "/")

	var name, artist, link string
	if err := app.db.QueryRow("SELECT name, artist, link FROM songs").Scan(&name, &artist, &link); err != nil {
		t.Fatalf("failed to read song: %v", err)
	}
	if name != "" || artist != "" || link != "" {
		t.Errorf("expected empty fields, got %q %q %q", name, artist, link)
	}
}

func TestSongOwnership(t *testing.T) {
	app := newTestApp(t)
	alice := app.client(t)
	alice.signUp("alice", "pw1")
	id := alice.addSong("Song1", "ArtistX", "https://youtu.be/x")

	bob := app.client(t)
	bob.signUp("bob", "pw2")

	t.Run("ListingIsScoped", func(t *testing.T) {
		_, body := bob.get("/")
		if strings.Contains(body, "Song1") {
			t.Error("bob can see alice's song")
		}
	})

	t.Run("EditRedirects", func(t *testing.T) {
		resp, _ := bob.get("/edit_song/" + id)
		expectRedirect(t, resp, "/")
	})

	t.Run("UpdateRedirectsWithoutWriting", func(t *testing.T) {
		resp, _ := bob.post("/update_song/"+id, url.Values{
			"song_name":   {"Hijacked"},
			"artist":      {"Bob"},
			"youtube_url": {""},
		})
		expectRedirect(t, resp, "/")

		var name string
		if err := app.db.QueryRow("SELECT name FROM songs WHERE id = ?", id).Scan(&name); err != nil {
			t.Fatalf("failed to read song: %v", err)
		}
		if name != "Song1" {
			t.Errorf("song was mutated to %s", name)
		}
	})

	t.Run("UnknownSongIsNotFound", func(t *testing.T) {
		resp, _ := alice.get("/edit_song/00000000-0000-0000-0000-000000000000")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
		resp, _ = alice.post("/update_song/00000000-0000-0000-0000-000000000000", url.Values{})
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("UpdateMissingFieldIsServerError", func(t *testing.T) {
		resp, _ := alice.post("/update_song/"+id, url.Values{"song_name": {"x"}})
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", resp.StatusCode)
		}
	})
}

func TestFriendsFlow(t *testing.T) {
	app := newTestApp(t)
	app.client(t).signUp("bob", "pw2")
	alice := app.client(t)
	alice.signUp("alice", "pw1")

	for range 2 {
		resp, _ := alice.post("/add_friend", url.Values{"friend_username": {"bob"}})
		expectRedirect(t, resp, "/friends")
	}
	if n := countRows(t, app.db, "friendships"); n != 1 {
		t.Fatalf("expected exactly one edge, got %d", n)
	}

	_, body := alice.get("/friends")
	if !strings.Contains(body, `<ul class="friends">`) || !strings.Contains(body, "<li>bob</li>") {
		t.Errorf("bob missing from alice's friends:\n%s", body)
	}

	t.Run("SelfAndUnknownAreSilent", func(t *testing.T) {
		for _, name := range []string{"alice", "nobody", ""} {
			resp, _ := alice.post("/add_friend", url.Values{"friend_username": {name}})
			expectRedirect(t, resp, "/friends")
		}
		if n := countRows(t, app.db, "friendships"); n != 1 {
			t.Errorf("expected still one edge, got %d", n)
		}
	})

	t.Run("BobSeesFollower", func(t *testing.T) {
		bob := app.client(t)
		resp, _ := bob.post("/login", url.Values{"username": {"bob"}, "password": {"pw2"}})
		expectRedirect(t, resp, "/")

		_, body := bob.get("/friends")
		if strings.Contains(body, `<ul class="friends">`) {
			t.Error("reciprocal friendship should not be implied")
		}
		if !strings.Contains(body, `<ul class="followers">`) || !strings.Contains(body, "<li>alice</li>") {
			t.Error("alice missing from bob's followers")
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.get("/login")

	resp, body := c.get("/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `favs_http_requests_total{method="GET",route="GET /login",status="200"} 1`) {
		t.Errorf("request counter missing:\n%s", body)
	}
}

func TestNewRequiresDatabase(t *testing.T) {
	if _, err := New(Options{Session: shared.SessionConfig{Secret: "x"}}); err == nil {
		t.Error("expected error without database")
	}
}
