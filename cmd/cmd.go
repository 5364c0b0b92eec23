// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are accepted by every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error); overrides [log] level",
		},
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "user",
		Aliases:  []string{"u"},
		Usage:    "Username to act as",
		Required: true,
	}
}

// serveCommand runs the web interface.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run migrations and serve the web interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (default from [server] host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to bind (default from [server] port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the site in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Where to write the file (default: --config)",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recently applied migration",
				Action: r.SetupRollback,
			},
			{
				Name:   "status",
				Usage:  "Show which migrations have been applied",
				Flags:  jsonFlags(),
				Action: r.SetupStatus,
			},
		},
	}
}

// usersCommand manages accounts.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage user accounts",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.UsersRegister,
			},
			{
				Name:   "list",
				Usage:  "List registered users",
				Flags:  jsonFlags(),
				Action: r.UsersList,
			},
		},
	}
}

// songsCommand manages a user's song list.
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Manage a user's favourite songs",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List a user's songs",
				Flags:  append([]cli.Flag{userFlag()}, jsonFlags()...),
				Action: r.SongsList,
			},
			{
				Name:  "add",
				Usage: "Add a song to a user's list",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:  "name",
						Usage: "Song name",
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Artist",
					},
					&cli.StringFlag{
						Name:  "link",
						Usage: "Link to the song, e.g. a YouTube URL",
					},
				},
				Action: r.SongsAdd,
			},
			{
				Name:  "export",
				Usage: "Export a user's songs to a file",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (csv, md, txt, json)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: {user}_songs.{ext}); - writes to stdout",
					},
				},
				Action: r.SongsExport,
			},
			{
				Name:  "export-all",
				Usage: "Export every user's songs, one file each, with a manifest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (csv, md, txt, json)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: favs_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
						Value: 4,
					},
					&cli.StringSliceFlag{
						Name:  "user",
						Usage: "Only export these users (repeatable)",
					},
				},
				Action: r.SongsExportAll,
			},
		},
	}
}

// friendsCommand manages the friendship graph.
func friendsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "friends",
		Usage: "Manage who a user follows",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Follow another user",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "friend",
						Usage:    "Username to follow",
						Required: true,
					},
				},
				Action: r.FriendsAdd,
			},
			{
				Name:  "list",
				Usage: "List the users a user follows",
				Flags: append([]cli.Flag{
					userFlag(),
					&cli.BoolFlag{
						Name:  "followers",
						Usage: "List followers instead",
					},
				}, jsonFlags()...),
				Action: r.FriendsList,
			},
		},
	}
}

// browseCommand returns the top-level TUI command.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui", "ui"},
		Usage:   "Browse users, their songs and friends interactively",
		Action:  r.Browse,
	}
}
