package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFiles embed.FS

// page names, one per file under templates/ besides the layout
const (
	pageHome     = "home"
	pageLogin    = "login"
	pageRegister = "register"
	pageEditSong = "edit_song"
	pageFriends  = "friends"
)

type pages map[string]*template.Template

func parsePages() (pages, error) {
	p := pages{}
	for _, name := range []string{pageHome, pageLogin, pageRegister, pageEditSong, pageFriends} {
		t, err := template.ParseFS(templateFiles, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		p[name] = t
	}
	return p, nil
}

// view is the data passed to every page. Username is empty on the public pages.
type view struct {
	Title        string
	Username     string
	ErrorMessage string
	Data         any
}

// render executes into a buffer first so a template error never leaves a half-written 200.
func (a *App) render(w http.ResponseWriter, r *http.Request, name string, v view) {
	t, ok := a.pages[name]
	if !ok {
		a.serverError(w, r, fmt.Errorf("unknown page %q", name))
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", v); err != nil {
		a.serverError(w, r, fmt.Errorf("failed to render %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (a *App) serverError(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
