package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/favs/internal/shared"
	"github.com/desertthunder/favs/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs migrations and serves the web interface until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	server := r.config.Server
	if cmd.IsSet("host") {
		server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		server.Port = cmd.Int("port")
	}

	if r.config.Session.Secret == "change-me" {
		r.logger.Warn("using the example session secret", "env", shared.EnvSessionSecret)
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	app, err := web.New(web.Options{
		DB:      db,
		Session: r.config.Session,
		Logger:  shared.WithLogger(r.logger, "component", "web"),
	})
	if err != nil {
		return fmt.Errorf("failed to build web app: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Bool("open") {
		url := "http://" + net.JoinHostPort(browserHost(server.Host), strconv.Itoa(server.Port)) + "/"
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}

	return app.ListenAndServe(ctx, server.Addr())
}

// browserHost maps wildcard bind addresses to loopback.
func browserHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::":
		return "127.0.0.1"
	default:
		return host
	}
}
