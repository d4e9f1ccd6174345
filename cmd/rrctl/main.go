package main

import (
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	fxmodules "roundrobin-tracker/internal/fx"
	"roundrobin-tracker/internal/export"
	"roundrobin-tracker/internal/schedule"
	"roundrobin-tracker/internal/service"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
)

type services struct {
	db          *sql.DB
	players     *service.PlayerService
	series      *service.SeriesService
	leaderboard *service.LeaderboardService
}

func main() {
	app := &cli.App{
		Name:  "rrctl",
		Usage: "administer a round-robin tournament database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "path to the SQLite database",
				EnvVars: []string{"DB_PATH"},
			},
		},
		Before: func(c *cli.Context) error {
			if os.Getenv("LOG_LEVEL") == "" {
				if err := os.Setenv("LOG_LEVEL", "warn"); err != nil {
					return err
				}
			}
			if path := c.String("db"); path != "" {
				return os.Setenv("DB_PATH", path)
			}
			return nil
		},
		Commands: []*cli.Command{
			migrateCommand(),
			playerCommand(),
			seriesCommand(),
			standingsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("rrctl failed")
	}
}

// withServices builds the core object graph, runs fn and closes the database.
func withServices(fn func(s services) error) error {
	var s services
	app := fx.New(
		fxmodules.Core,
		fx.NopLogger,
		fx.Populate(&s.db, &s.players, &s.series, &s.leaderboard),
	)
	if err := app.Err(); err != nil {
		return err
	}
	defer s.db.Close()

	if err := fn(s); err != nil {
		return err
	}
	return s.series.Wait()
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending schema migrations",
		Action: func(c *cli.Context) error {
			// opening the database applies migrations
			return withServices(func(s services) error {
				version, err := goose.GetDBVersionContext(c.Context, s.db)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "database at version %d\n", version)
				return nil
			})
		},
	}
}

func playerCommand() *cli.Command {
	return &cli.Command{
		Name:  "player",
		Usage: "manage players",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "register a player",
				ArgsUsage: "USERNAME",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one USERNAME", 2)
					}
					return withServices(func(s services) error {
						p, err := s.players.CreatePlayer(c.Context, c.Args().First())
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "%s\t%s\n", p.ID, p.Username)
						return nil
					})
				},
			},
		},
	}
}

func seriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "series",
		Usage: "manage series",
		Subcommands: []*cli.Command{
			{
				Name:  "schedule",
				Usage: "schedule a series between two players",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "p1", Usage: "first player (id or username)", Required: true},
					&cli.StringFlag{Name: "p2", Usage: "second player (id or username)", Required: true},
					&cli.IntFlag{Name: "round", Usage: "round number", Value: 1},
					&cli.StringFlag{Name: "at", Usage: `start time, e.g. "tomorrow 8pm" or RFC 3339`},
					&cli.StringFlag{Name: "tz", Usage: "IANA time zone for relative times", Value: "UTC"},
				},
				Action: func(c *cli.Context) error {
					var at *time.Time
					if input := c.String("at"); input != "" {
						loc, err := time.LoadLocation(c.String("tz"))
						if err != nil {
							return fmt.Errorf("invalid time zone %q: %w", c.String("tz"), err)
						}
						t, err := schedule.NewParser(loc, nil).Parse(input)
						if err != nil {
							return err
						}
						at = &t
					}

					return withServices(func(s services) error {
						p1, err := s.players.GetPlayer(c.Context, c.String("p1"))
						if err != nil {
							return err
						}
						p2, err := s.players.GetPlayer(c.Context, c.String("p2"))
						if err != nil {
							return err
						}

						sr, err := s.series.Schedule(c.Context, p1.ID, p2.ID, c.Int("round"), at)
						if err != nil {
							return err
						}
						names := map[string]string{p1.ID: p1.Username, p2.ID: p2.Username}
						fmt.Fprintf(c.App.Writer, "%s\t%s\n", sr.ID, sr.Summary(names))
						return nil
					})
				},
			},
		},
	}
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print the current standings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "xlsx", Usage: "also write the standings to this .xlsx file"},
		},
		Action: func(c *cli.Context) error {
			return withServices(func(s services) error {
				standings, err := s.leaderboard.Standings(c.Context)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "#\tPLAYER\tSERIES W-L\tGAMES W-L\tWIN%\tK/D\tAVG WIN")
				for i := range standings {
					st := &standings[i]
					p := &st.Player
					fmt.Fprintf(tw, "%d\t%s\t%d-%d\t%d-%d\t%.1f\t%+d\t%s\n",
						i+1, p.Username, st.SeriesWins, st.SeriesLosses(), p.Wins, p.Losses,
						p.WinRate(), p.KillDeathBalance(), p.AverageWinTimeDisplay())
				}
				if err := tw.Flush(); err != nil {
					return err
				}

				path := c.String("xlsx")
				if path == "" {
					return nil
				}
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := export.WriteStandings(f, standings); err != nil {
					return err
				}
				return f.Close()
			})
		},
	}
}
