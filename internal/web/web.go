// Package web serves the favs HTML interface.
//
// # Architecture
//
// Every page is rendered on the server with html/template. Templates are embedded
// and parsed once at startup; each page shares the base layout.
//
// Core Components
//
//   - HTTP Server: net/http server with graceful shutdown on context cancellation
//   - Service Integration: handlers delegate to services.Credentials, services.Songs and services.Friends
//   - Session Management: server.SessionManager signed cookies, enforced by server.SessionManager.Require
//   - Metrics: Prometheus collectors on a registry owned by the [App]
//
// Routes
//
//	GET  /                   → Song list and add form (requires session)
//	GET  /login              → Login form
//	POST /login              → Authenticate, start session, redirect to /
//	GET  /register           → Registration form
//	POST /register           → Create account, redirect to /login
//	POST /add_song           → Add a song (requires session)
//	GET  /edit_song/{id}     → Edit form (owner only)
//	POST /update_song/{id}   → Overwrite song fields (owner only)
//	GET  /logout             → Clear session, redirect to /login
//	GET  /friends            → Friends and followers (requires session)
//	POST /add_friend         → Follow a user by username (requires session)
//	GET  /metrics            → Prometheus exposition
//	GET  /healthz            → Database ping
//
// # Error Responses
//
// Bad credentials and taken usernames re-render the form with a message.
// A missing song is a 404 and someone else's song redirects to /.
// Missing required form fields and store failures are 500s.
package web

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/favs/internal/repositories"
	"github.com/desertthunder/favs/internal/server"
	"github.com/desertthunder/favs/internal/services"
	"github.com/desertthunder/favs/internal/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Options configures an [App]. Credentials, Songs and Friends default to the
// database-backed services when nil.
type Options struct {
	DB          *sql.DB
	Session     shared.SessionConfig
	Logger      *log.Logger
	Credentials services.Credentials
	Songs       services.Songs
	Friends     services.Friends
}

// App holds the handlers and their dependencies.
type App struct {
	db          *sql.DB
	credentials services.Credentials
	songs       services.Songs
	friends     services.Friends
	sessions    *server.SessionManager
	pages       pages
	logger      *log.Logger
	registry    *prometheus.Registry
	metrics     *server.Metrics
}

// New builds an [App] from opts.
func New(opts Options) (*App, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("%w: database is required", shared.ErrInvalidConfig)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	sessions, err := server.NewSessionManager(opts.Session, shared.WithLogger(logger, "component", "session"))
	if err != nil {
		return nil, err
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	users := repositories.NewUserRepository(opts.DB)
	if opts.Credentials == nil {
		opts.Credentials = services.NewCredentialStore(users)
	}
	if opts.Songs == nil {
		opts.Songs = services.NewSongRegistry(repositories.NewSongRepository(opts.DB))
	}
	if opts.Friends == nil {
		opts.Friends = services.NewFriendshipGraph(
			users,
			repositories.NewFriendshipRepository(opts.DB),
			shared.WithLogger(logger, "component", "friends"),
		)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(opts.DB, "favs"),
	)

	return &App{
		db:          opts.DB,
		credentials: opts.Credentials,
		songs:       opts.Songs,
		friends:     opts.Friends,
		sessions:    sessions,
		pages:       pages,
		logger:      logger,
		registry:    registry,
		metrics:     server.NewMetrics(registry),
	}, nil
}

// Handler returns the routed, middleware-wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	var router server.Router = server.NewBasicRouter()
	router.Use(server.Recover(a.logger), server.AccessLog(a.logger), a.metrics.Middleware)

	protected := func(h http.HandlerFunc) http.Handler {
		return server.Chain(h, a.sessions.Require)
	}

	router.Handle(http.MethodGet, "/{$}", protected(a.home))
	router.Handle(http.MethodGet, "/login", http.HandlerFunc(a.loginForm))
	router.Handle(http.MethodPost, "/login", http.HandlerFunc(a.login))
	router.Handle(http.MethodGet, "/register", http.HandlerFunc(a.registerForm))
	router.Handle(http.MethodPost, "/register", http.HandlerFunc(a.register))
	router.Handle(http.MethodPost, "/add_song", protected(a.addSong))
	router.Handle(http.MethodGet, "/edit_song/{id}", protected(a.editSong))
	router.Handle(http.MethodPost, "/update_song/{id}", protected(a.updateSong))
	router.Handle(http.MethodGet, "/logout", http.HandlerFunc(a.logout))
	router.Handle(http.MethodGet, "/friends", protected(a.friendsPage))
	router.Handle(http.MethodPost, "/add_friend", protected(a.addFriend))
	router.Handler(&opsHandler{
		metrics: promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
		health:  a.healthz,
	})

	return router
}

// opsHandler serves the operational endpoints that sit beside the HTML interface.
type opsHandler struct {
	metrics http.Handler
	health  http.HandlerFunc
}

var _ server.Handler = (*opsHandler)(nil)

func (h *opsHandler) Routes() []string {
	return []string{"GET /metrics", "GET /healthz"}
}

func (h *opsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/metrics":
		h.metrics.ServeHTTP(w, r)
	case "/healthz":
		h.health(w, r)
	default:
		http.NotFound(w, r)
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (a *App) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
